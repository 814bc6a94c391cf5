package media

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed openers.toml
var openersTOML []byte

type PlatformOpener struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args,omitempty"`
}

// ViewerArgs are the extra arguments a known image viewer needs.
type ViewerArgs struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type ImageRules struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type OpenersConfig struct {
	Platforms map[string]PlatformOpener `toml:"platforms"`
	Viewers   map[string]ViewerArgs     `toml:"viewers"`
	Image     ImageRules                `toml:"image"`
}

func loadOpeners() (*OpenersConfig, error) {
	var cfg OpenersConfig
	if err := toml.Unmarshal(openersTOML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}
	return &cfg, nil
}

// PlatformOpener returns the opener for goos, or the fallback entry.
func (c *OpenersConfig) PlatformOpener(goos string) PlatformOpener {
	if p, ok := c.Platforms[goos]; ok {
		return p
	}
	if p, ok := c.Platforms["fallback"]; ok {
		return p
	}
	return PlatformOpener{Command: "xdg-open"}
}

// ViewerArgsFor returns extra args for viewer on goos.
func (c *OpenersConfig) ViewerArgsFor(viewer, goos string) []string {
	v, ok := c.Viewers[viewer]
	if !ok {
		return nil
	}
	switch goos {
	case "darwin":
		if len(v.ArgsDarwin) > 0 {
			return v.ArgsDarwin
		}
	case "linux":
		if len(v.ArgsLinux) > 0 {
			return v.ArgsLinux
		}
	case "windows":
		if len(v.ArgsWindows) > 0 {
			return v.ArgsWindows
		}
	}
	return v.Args
}

// IsImage reports whether url points at a poster or other image.
func (c *OpenersConfig) IsImage(url string) bool {
	lower := strings.ToLower(url)
	if i := strings.IndexAny(lower, "?#"); i != -1 {
		lower = lower[:i]
	}
	if dot := strings.LastIndex(lower, "."); dot != -1 && dot > strings.LastIndex(lower, "/") {
		ext := lower[dot+1:]
		for _, e := range c.Image.Extensions {
			if e == ext {
				return true
			}
		}
	}
	for _, p := range c.Image.URLPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func currentOS() string {
	return runtime.GOOS
}
