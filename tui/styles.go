package tui

import (
	"github.com/charmbracelet/lipgloss"

	"markestedt/copyman/settings"
)

// palette is the color set for one theme
type palette struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Accent     lipgloss.Color
	Flash      lipgloss.Color
	Error      lipgloss.Color
}

var (
	lightPalette = palette{
		Foreground: lipgloss.Color("#1f2328"),
		Background: lipgloss.Color("#f6f8fa"),
		Muted:      lipgloss.Color("#6e7781"),
		Border:     lipgloss.Color("#afb8c1"),
		Accent:     lipgloss.Color("#0969da"),
		Flash:      lipgloss.Color("#bf8700"),
		Error:      lipgloss.Color("#cf222e"),
	}
	darkPalette = palette{
		Foreground: lipgloss.Color("#e6edf3"),
		Background: lipgloss.Color("#0d1117"),
		Muted:      lipgloss.Color("#7d8590"),
		Border:     lipgloss.Color("#30363d"),
		Accent:     lipgloss.Color("#2f81f7"),
		Flash:      lipgloss.Color("#d29922"),
		Error:      lipgloss.Color("#f85149"),
	}
)

func paletteFor(theme settings.Theme) palette {
	if theme == settings.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// Key box geometry, shared by rendering and mouse hit testing
const (
	keyInnerWidth = 12
	keyOuterWidth = keyInnerWidth + 2
	keyGap        = 1
	keyHeight     = 4
	gridTop       = 2
)

type styles struct {
	app      lipgloss.Style
	title    lipgloss.Style
	key      lipgloss.Style
	flash    lipgloss.Style
	digit    lipgloss.Style
	preview  lipgloss.Style
	empty    lipgloss.Style
	help     lipgloss.Style
	err      lipgloss.Style
	field    lipgloss.Style
	focused  lipgloss.Style
	selected lipgloss.Style
}

func newStyles(theme settings.Theme) styles {
	p := paletteFor(theme)
	key := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Width(keyInnerWidth).
		Padding(0, 1)

	return styles{
		app:      lipgloss.NewStyle().Foreground(p.Foreground).Background(p.Background),
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		key:      key,
		flash:    key.BorderForeground(p.Flash).Foreground(p.Flash),
		digit:    lipgloss.NewStyle().Bold(true),
		preview:  lipgloss.NewStyle().Foreground(p.Foreground),
		empty:    lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		help:     lipgloss.NewStyle().Foreground(p.Muted),
		err:      lipgloss.NewStyle().Foreground(p.Error),
		field:    lipgloss.NewStyle().Foreground(p.Foreground),
		focused:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		selected: lipgloss.NewStyle().Foreground(p.Flash).Bold(true),
	}
}
