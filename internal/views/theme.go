package views

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/timebox/internal/model"
)

// Theme is the set of styles for one theme mode.
type Theme struct {
	Mode model.ThemeMode

	Header    lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style
	Accent    lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Panel     lipgloss.Style
	Focused   lipgloss.Style
	Cursor    lipgloss.Style
	Block     lipgloss.Style
	BlockWarn lipgloss.Style
	Now       lipgloss.Style
	Done      lipgloss.Style
	Drag      lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Modal     lipgloss.Style
	Footer    lipgloss.Style
}

type palette struct {
	text, muted, accent, border, focus, cursorBg, cursorFg, blockBg, blockFg, warn, now, ok, err string
}

var (
	lightPalette = palette{
		text: "#1f2328", muted: "#8c959f", accent: "#0969da", border: "#d0d7de", focus: "#0969da",
		cursorBg: "#ddf4ff", cursorFg: "#0a3069", blockBg: "#dbeafe", blockFg: "#1e3a8a",
		warn: "#bf8700", now: "#cf222e", ok: "#1a7f37", err: "#cf222e",
	}
	darkPalette = palette{
		text: "#e6edf3", muted: "#7d8590", accent: "#58a6ff", border: "#30363d", focus: "#58a6ff",
		cursorBg: "#1f3a5f", cursorFg: "#e6edf3", blockBg: "#1e3a8a", blockFg: "#dbeafe",
		warn: "#d29922", now: "#ff7b72", ok: "#3fb950", err: "#ff7b72",
	}
)

// ThemeFor returns the styles for mode. Unknown modes render light.
func ThemeFor(mode model.ThemeMode) Theme {
	p := lightPalette
	if mode == model.ThemeDark {
		p = darkPalette
	} else {
		mode = model.ThemeLight
	}
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	panel := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(p.border)).Padding(0, 1)
	return Theme{
		Mode:      mode,
		Header:    lipgloss.NewStyle().Bold(true).Foreground(c(p.accent)),
		Muted:     lipgloss.NewStyle().Foreground(c(p.muted)),
		Text:      lipgloss.NewStyle().Foreground(c(p.text)),
		Accent:    lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true),
		Status:    lipgloss.NewStyle().Foreground(c(p.ok)),
		Error:     lipgloss.NewStyle().Foreground(c(p.err)),
		Panel:     panel,
		Focused:   panel.BorderForeground(c(p.focus)),
		Cursor:    lipgloss.NewStyle().Background(c(p.cursorBg)).Foreground(c(p.cursorFg)),
		Block:     lipgloss.NewStyle().Background(c(p.blockBg)).Foreground(c(p.blockFg)),
		BlockWarn: lipgloss.NewStyle().Background(c(p.blockBg)).Foreground(c(p.warn)).Bold(true),
		Now:       lipgloss.NewStyle().Foreground(c(p.now)).Bold(true),
		Done:      lipgloss.NewStyle().Foreground(c(p.muted)).Strikethrough(true),
		Drag:      lipgloss.NewStyle().Foreground(c(p.warn)).Bold(true),
		Tab:       lipgloss.NewStyle().Foreground(c(p.muted)).Padding(0, 1),
		TabActive: lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true).Underline(true).Padding(0, 1),
		Modal:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(c(p.accent)).Padding(1, 2),
		Footer:    lipgloss.NewStyle().Foreground(c(p.muted)),
	}
}

// GlamourStyle is the glamour standard style matching the theme.
func (t Theme) GlamourStyle() string {
	if t.Mode == model.ThemeDark {
		return "dark"
	}
	return "light"
}
