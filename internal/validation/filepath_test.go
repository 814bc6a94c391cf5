package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFilePathValidator_ValidateAndSanitize(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	v := NewFilePathValidator()

	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
		errorMsg    string
	}{
		{name: "empty", input: "", shouldError: true, errorMsg: "cannot be empty"},
		{name: "home expansion", input: "~/.marquee/trending.db", expected: filepath.Join(home, ".marquee", "trending.db")},
		{name: "config dir", input: "~/.config/marquee/config.toml", expected: filepath.Join(home, ".config", "marquee", "config.toml")},
		{name: "temp dir", input: filepath.Join(os.TempDir(), "marquee.db"), expected: filepath.Join(os.TempDir(), "marquee.db")},
		{name: "outside allowed dirs", input: "/etc/passwd", shouldError: true, errorMsg: "not within allowed"},
		{name: "traversal", input: "~/.marquee/../.ssh/id_rsa", shouldError: true, errorMsg: "traversal"},
		{name: "null byte", input: "~/.marquee/a\x00b", shouldError: true, errorMsg: "null"},
		{name: "control char", input: "~/.marquee/a\x01b", shouldError: true, errorMsg: "control"},
		{name: "other user's home", input: "~root/x", shouldError: true, errorMsg: "tilde"},
		{name: "too long", input: "~/.marquee/" + strings.Repeat("a", 5000), shouldError: true, errorMsg: "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAndSanitize(tt.input)
			if tt.shouldError {
				if err == nil {
					t.Fatalf("Expected error containing %q, got %q", tt.errorMsg, got)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFilePathValidator_Permissive(t *testing.T) {
	v := NewPermissiveFilePathValidator()
	got, err := v.ValidateAndSanitize("data/./trending.db")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != filepath.Join("data", "trending.db") {
		t.Errorf("Expected cleaned relative path, got %q", got)
	}
}

func TestValidateFile_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	v := &FilePathValidator{AllowedBaseDirs: []string{dir}, MaxPathLength: 4096}

	if _, err := v.ValidateFile(dir); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Errorf("Expected directory error, got %v", err)
	}
	if _, err := v.ValidateFile(filepath.Join(dir, "trending.db")); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidateDBPath(t *testing.T) {
	dir := t.TempDir()
	v := &FilePathValidator{AllowedBaseDirs: []string{dir}, MaxPathLength: 4096}

	target := filepath.Join(dir, "nested", "trending.db")
	got, err := ValidateDBPath(v, target)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != target {
		t.Errorf("Expected %q, got %q", target, got)
	}
	if info, err := os.Stat(filepath.Dir(target)); err != nil || !info.IsDir() {
		t.Errorf("Expected parent directory to be created")
	}

	if _, err := ValidateDBPath(v, "/etc/trending.db"); err == nil {
		t.Error("Expected error for path outside allowed dirs")
	}
}

func TestValidateYear(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	valid := []string{"", "2026", "2027", "1874", " 1999 "}
	for _, y := range valid {
		if _, err := ValidateYear(y, now); err != nil {
			t.Errorf("ValidateYear(%q) unexpected error: %v", y, err)
		}
	}
	invalid := []string{"99", "abcd", "2028", "1800", "20200"}
	for _, y := range invalid {
		if _, err := ValidateYear(y, now); err == nil {
			t.Errorf("ValidateYear(%q) expected error", y)
		}
	}
}

func TestValidateRating(t *testing.T) {
	for _, r := range []string{"", "0", "7", "8.5", "10"} {
		if _, err := ValidateRating(r); err != nil {
			t.Errorf("ValidateRating(%q) unexpected error: %v", r, err)
		}
	}
	for _, r := range []string{"-1", "11", "seven"} {
		if _, err := ValidateRating(r); err == nil {
			t.Errorf("ValidateRating(%q) expected error", r)
		}
	}
}
