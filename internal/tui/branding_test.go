package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/marquee/internal/config"
)

func TestShowBanner(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	ShowBanner("1.0.0-test")

	w.Close()
	os.Stdout = old
	out := <-outC

	if !strings.Contains(out, "Movie Catalog Browser") {
		t.Errorf("Expected banner to contain tagline, got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestBanner_DevVersionHasNoTag(t *testing.T) {
	out := Banner("dev")
	if strings.Contains(out, "vdev") {
		t.Errorf("dev builds should not show a version tag: %s", out)
	}
}

func TestGetCompactBanner(t *testing.T) {
	out := GetCompactBanner("Type to search")
	if !strings.Contains(out, "Type to search") {
		t.Errorf("Expected banner to contain message, got: %s", out)
	}
}

func TestApplyColors(t *testing.T) {
	defer ApplyColors(config.TestConfig().UI.Colors)

	ApplyColors(config.UIColors{Accent: "#123456"})
	if AccentColor != lipgloss.Color("#123456") {
		t.Errorf("AccentColor = %v, want #123456", AccentColor)
	}
	if PrimaryColor == "" {
		t.Error("empty entries must keep the previous color")
	}
}

func TestStatusKindString(t *testing.T) {
	assert.Equal(t, "info", StatusInfo.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "warn", StatusWarn.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "details", ViewDetails.String())
}

func TestMsgResultsCount(t *testing.T) {
	assert.Equal(t, "1 movie", MsgResultsCount(1, 1, 1))
	assert.Equal(t, "20 movies", MsgResultsCount(20, 1, 0))
	assert.Equal(t, "40 movies • page 2/5", MsgResultsCount(40, 2, 5))
}

func TestTextUtil(t *testing.T) {
	assert.Equal(t, "hello", truncateEnd("hello", 5))
	assert.Equal(t, "hel…", truncateEnd("hello", 4))
	assert.Equal(t, "ab…yz", truncateMiddle("abcdefxyz", 5))
	assert.Equal(t, "star wars", sanitizeSearchInput("  star \t wars "))
	assert.Len(t, []rune(sanitizeSearchInput(strings.Repeat("a", 400))), maxSearchLength)
}
