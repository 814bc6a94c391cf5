// Package media hands movie pages and posters to desktop applications.
package media

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debuglog"
)

type Type int

const (
	TypePage Type = iota
	TypeImage
)

func (t Type) String() string {
	if t == TypeImage {
		return "image"
	}
	return "page"
}

// Launcher opens URLs in a browser or image viewer.
type Launcher struct {
	goos        string
	opener      PlatformOpener
	imageViewer string
	openers     *OpenersConfig
	start       func(name string, args ...string) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	openers, err := loadOpeners()
	if err != nil {
		debuglog.Warnf("media: %v", err)
		openers = &OpenersConfig{}
	}

	goos := currentOS()
	l := &Launcher{
		goos:    goos,
		opener:  openers.PlatformOpener(goos),
		openers: openers,
		start:   startDetached,
	}
	if cfg.Media.DefaultOpener != "" {
		l.opener = PlatformOpener{Command: cfg.Media.DefaultOpener}
		if cfg.Media.DefaultOpener == openers.PlatformOpener(goos).Command {
			l.opener.Args = openers.PlatformOpener(goos).Args
		}
	}

	var viewers []string
	switch goos {
	case "darwin":
		viewers = cfg.Media.Darwin
	case "windows":
		viewers = cfg.Media.Windows
	default:
		viewers = cfg.Media.Linux
	}
	l.imageViewer = findCommand(viewers...)
	return l
}

// Detect classifies url.
func (l *Launcher) Detect(url string) Type {
	if l.openers.IsImage(url) {
		return TypeImage
	}
	return TypePage
}

// Command returns the program and arguments that would open url.
func (l *Launcher) Command(url string) (string, []string, error) {
	if url == "" {
		return "", nil, fmt.Errorf("nothing to open")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", nil, fmt.Errorf("refusing to open non-web URL %q", url)
	}

	if l.Detect(url) == TypeImage && l.imageViewer != "" && l.imageViewer != l.opener.Command {
		args := append([]string{}, l.openers.ViewerArgsFor(l.imageViewer, l.goos)...)
		return l.imageViewer, append(args, url), nil
	}

	if l.opener.Command == "" {
		return "", nil, fmt.Errorf("no application found to open URL")
	}
	args := append([]string{}, l.opener.Args...)
	if l.Detect(url) == TypeImage {
		args = append(args, l.openers.ViewerArgsFor(l.opener.Command, l.goos)...)
	}
	return l.opener.Command, append(args, url), nil
}

// Open starts the matching application without waiting for it.
func (l *Launcher) Open(url string) error {
	name, args, err := l.Command(url)
	if err != nil {
		return err
	}
	debuglog.Debugf("media: %s %v", name, args)
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
