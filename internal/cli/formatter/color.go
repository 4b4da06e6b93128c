package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
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
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ConfidenceColor returns the style for a confidence level.
func ConfidenceColor(level domain.ConfidenceLevel) lipgloss.Style {
	switch level {
	case domain.ConfidenceVeryHigh, domain.ConfidenceHigh:
		return StyleGreen
	case domain.ConfidenceMedium:
		return StyleYellow
	case domain.ConfidenceLow, domain.ConfidenceVeryLow:
		return StyleRed
	default:
		return StyleDim
	}
}

// ConfidenceIndicator returns a colored label such as "● VERY HIGH".
func ConfidenceIndicator(level domain.ConfidenceLevel) string {
	label := strings.ToUpper(strings.ReplaceAll(string(level), "_", " "))
	if label == "" {
		label = "UNKNOWN"
	}
	return ConfidenceColor(level).Render("● " + label)
}

// CategoryBadge renders a classification in its own color.
func CategoryBadge(c domain.Classification) string {
	style := StyleDim
	switch c {
	case domain.ClassificationMeal:
		style = StyleGreen
	case domain.ClassificationWorkout:
		style = StylePurple
	case domain.ClassificationWater:
		style = StyleBlue
	case domain.ClassificationSupplement:
		style = StyleYellow
	}
	return style.Render(string(c))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
