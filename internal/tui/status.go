package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/marquee/internal/debuglog"
)

// Canonical short status messages used across the app.
const (
	MsgLoading        = "Loading movies…"
	MsgLoadingMore    = "Loading more…"
	MsgEndOfResults   = "You've reached the end!"
	MsgNoResults      = "No movies found"
	MsgLoadingDetails = "Loading details…"
	MsgFiltersCleared = "Filters cleared"
	MsgGenresMissing  = "Genres unavailable"
	MsgNothingToRetry = "Nothing to retry"
)

func MsgResultsCount(loaded, page, totalPages int) string {
	noun := "movies"
	if loaded == 1 {
		noun = "movie"
	}
	if totalPages <= 1 {
		return fmt.Sprintf("%d %s", loaded, noun)
	}
	return fmt.Sprintf("%d %s • page %d/%d", loaded, noun, page, totalPages)
}

func MsgOpened(url string) string {
	return "Opened " + truncateMiddle(url, 48)
}

func (a *App) setStatus(text string, kind StatusKind) {
	if kind >= StatusWarn {
		debuglog.WithFields(map[string]interface{}{"kind": kind, "view": a.view}).Debugf("status: %s", text)
	}
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

// startSpinner starts the spinner if it is not already running.
func (a *App) startSpinner() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

// busy reports whether anything the spinner stands for is still running.
func (a *App) busy() bool {
	return a.orch.Fetching() || a.loadingDetails
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	var style lipgloss.Style
	prefix := ""
	switch a.statusKind {
	case StatusSuccess:
		style, prefix = StatusSuccessStyle, "✓ "
	case StatusWarn:
		style, prefix = StatusWarnStyle, "! "
	case StatusError:
		style, prefix = StatusErrorStyle, "✗ "
	default:
		style = StatusInfoStyle
	}
	return style.Render(prefix + a.status)
}

func (a *App) renderStatusBar() string {
	commands := a.keyHandler.GetHelpForCurrentView()
	parts := make([]string, 0, 2)
	if s := a.renderStatus(); s != "" {
		parts = append(parts, s)
	}
	if len(commands) > 0 {
		parts = append(parts, renderMuted(strings.Join(commands, " • ")))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Render(strings.Join(parts, "   "))
}
