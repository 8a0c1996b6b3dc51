package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PaletteName is a symbolic name for a color palette.
type PaletteName string

const (
	PaletteAuto  PaletteName = "auto"
	PalettePlain PaletteName = "plain"
)

// ParsePaletteName maps user input to a palette. "plain", "mono", and "none" disable color; anything else is PaletteAuto.
func ParsePaletteName(s string) PaletteName {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "mono", "none":
		return PalettePlain
	}
	return PaletteAuto
}

var (
	accentColor   = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "205"}
	mutedColor    = lipgloss.AdaptiveColor{Light: "250", Dark: "240"}
	errorColor    = lipgloss.AdaptiveColor{Light: "160", Dark: "9"}
	selectedColor = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
)

// styles holds every lipgloss style the view uses.
type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	disabled lipgloss.Style
	err      lipgloss.Style
	summary  lipgloss.Style

	column        lipgloss.Style
	focusedColumn lipgloss.Style
}

func newStyles(p PaletteName) styles {
	base := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	s := styles{
		title:         lipgloss.NewStyle().Bold(true),
		header:        lipgloss.NewStyle().Bold(true),
		cursor:        lipgloss.NewStyle().Bold(true),
		selected:      lipgloss.NewStyle().Underline(true),
		disabled:      lipgloss.NewStyle().Faint(true),
		err:           lipgloss.NewStyle(),
		summary:       lipgloss.NewStyle().Bold(true),
		column:        base,
		focusedColumn: base.BorderStyle(lipgloss.ThickBorder()),
	}
	if p == PalettePlain {
		return s
	}

	s.title = s.title.Foreground(accentColor)
	s.cursor = s.cursor.Foreground(accentColor)
	s.selected = lipgloss.NewStyle().Foreground(selectedColor)
	s.disabled = s.disabled.Foreground(mutedColor)
	s.err = s.err.Foreground(errorColor)
	s.column = s.column.BorderForeground(mutedColor)
	s.focusedColumn = s.focusedColumn.BorderForeground(accentColor)
	return s
}
