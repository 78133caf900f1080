package main

import "github.com/charmbracelet/lipgloss"

// styles holds every lipgloss style the review browser renders with.
type styles struct {
	app      lipgloss.Style
	viewport lipgloss.Style
	footer   lipgloss.Style
	inactive lipgloss.Style
	error    lipgloss.Style
	success  lipgloss.Style
	prompt   lipgloss.Style
	ascii    lipgloss.Style
}

type ThemeName string

const (
	ThemeCyan    ThemeName = "cyan"
	ThemeAmber   ThemeName = "amber"
	ThemeDracula ThemeName = "dracula"
)

// palette maps the roles of a rendered review to terminal colors.
type palette struct {
	accent  lipgloss.Color // banner, borders
	verdict lipgloss.Color // approvals and confirmations
	prompt  lipgloss.Color
	failure lipgloss.Color
}

var (
	muted = lipgloss.Color("240")

	themes = []ThemeName{ThemeCyan, ThemeAmber, ThemeDracula}

	palettes = map[ThemeName]palette{
		ThemeCyan:    {accent: "51", verdict: "46", prompt: "226", failure: "196"},
		ThemeAmber:   {accent: "214", verdict: "220", prompt: "208", failure: "196"},
		ThemeDracula: {accent: "141", verdict: "84", prompt: "212", failure: "203"},
	}
)

// GetTheme returns the styles of theme, falling back to cyan.
func GetTheme(theme ThemeName) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[ThemeCyan]
	}
	return styles{
		app:      lipgloss.NewStyle().Margin(0, 1),
		viewport: lipgloss.NewStyle().PaddingLeft(1),
		footer: lipgloss.NewStyle().
			MarginTop(1).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.accent).
			PaddingTop(1),
		inactive: lipgloss.NewStyle().Foreground(muted),
		error:    lipgloss.NewStyle().Foreground(p.failure).Bold(true),
		success:  lipgloss.NewStyle().Foreground(p.verdict).Bold(true),
		prompt:   lipgloss.NewStyle().Foreground(p.prompt).Bold(true),
		ascii:    lipgloss.NewStyle().Foreground(p.accent).Bold(true),
	}
}

func ListThemes() []ThemeName {
	return themes
}
