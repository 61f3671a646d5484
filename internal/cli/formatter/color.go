package formatter

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/punchlog/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Dim renders s in the dim style.
func Dim(s string) string { return StyleDim.Render(s) }

// Bold renders s in the bold foreground style.
func Bold(s string) string { return StyleBold.Render(s) }

// PositionStyle returns the style used for a position code.
func PositionStyle(p domain.Position) lipgloss.Style {
	switch p {
	case domain.PositionHoliday:
		return StyleYellow
	case domain.PositionRemote:
		return StyleBlue
	case domain.PositionMixed:
		return StyleDim
	default:
		return StyleGreen
	}
}

// Surplus renders signed overtime minutes: green when ahead, red when
// behind, dim when exactly on target.
func Surplus(minutes int) string {
	switch {
	case minutes > 0:
		return StyleGreen.Render(fmt.Sprintf("+%dm", minutes))
	case minutes < 0:
		return StyleRed.Render(fmt.Sprintf("%dm", minutes))
	default:
		return StyleDim.Render("0m")
	}
}
