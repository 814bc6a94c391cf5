package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/marquee/internal/config"
)

const AppName = "marquee"

var LogoLines = []string{
	"█▀▄▀█ ▄▀█ █▀█ █▀█ █ █ █▀▀ █▀▀",
	"█ ▀ █ █▀█ █▀▄ ▀▀█ █▄█ ██▄ ██▄",
}

const CompactLogo = "marquee ›"

var BannerColors = []lipgloss.Color{
	lipgloss.Color("#AB8BFF"),
	lipgloss.Color("#D6C7FF"),
	lipgloss.Color("#FFD166"),
}

// Palette, overridable from the ui.colors config section.
var (
	PrimaryColor   = lipgloss.Color("#AB8BFF")
	SecondaryColor = lipgloss.Color("#D6C7FF")
	AccentColor    = lipgloss.Color("#FFD166")

	SurfaceColor = lipgloss.Color("#0F0D23")
	TextColor    = lipgloss.Color("#EAEAEA")
	MutedColor   = lipgloss.Color("#A8B5DB")

	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
)

var (
	LogoStyle         lipgloss.Style
	TitleStyle        lipgloss.Style
	HeaderStyle       lipgloss.Style
	HelpStyle         lipgloss.Style
	RatingStyle       lipgloss.Style
	MetaStyle         lipgloss.Style
	SelectedMarkStyle lipgloss.Style
	BadgeStyle        lipgloss.Style
	SeparatorStyle    lipgloss.Style

	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyColors swaps in the configured palette. Empty entries keep defaults.
func ApplyColors(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	RatingStyle = lipgloss.NewStyle().
		Foreground(AccentColor).
		Bold(true)

	MetaStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	SelectedMarkStyle = lipgloss.NewStyle().
		Foreground(SuccessColor).
		Bold(true)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(SurfaceColor).
		Background(AccentColor).
		Bold(true).
		Padding(0, 1)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(AccentColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, coloredLines...),
		"",
		HelpStyle.Render(message),
	)
}

// Banner renders the boxed logo shown by the CLI.
func Banner(version string) string {
	lines := make([]string, len(LogoLines), len(LogoLines)+2)
	copy(lines, LogoLines)
	lines = append(lines, "")

	tagline := "    Movie Catalog Browser"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline += " " + version
	}
	lines = append(lines, tagline)

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	border := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}
	boxed := lipgloss.NewStyle().
		Border(border).
		BorderForeground(PrimaryColor).
		Padding(1, 3).
		MarginTop(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	return lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center).
		Render(boxed)
}

func ShowBanner(version string) {
	fmt.Println(Banner(version))
	fmt.Println(lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center).
		MarginBottom(1).
		Foreground(AccentColor).
		Render("★ ☆ ★ ☆ ★"))
}
