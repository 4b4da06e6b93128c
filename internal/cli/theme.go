package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/cli/formatter"
	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// nutrilogHuhTheme returns a huh theme matching the formatter palette.
func nutrilogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func chooseAlternative(app *App, alts []domain.AlternativeInterpretation) (int, error) {
	if app.ChooseAlternative != nil {
		return app.ChooseAlternative(alts)
	}
	return alternativeForm(alts)
}

// alternativeForm shows the alternatives as a select; aborting keeps the primary reading.
func alternativeForm(alts []domain.AlternativeInterpretation) (int, error) {
	choice := -1
	options := []huh.Option[int]{huh.NewOption("Keep it as logged", -1)}
	for i, a := range alts {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%.0f%%)", a.Interpretation, a.Confidence*100), i))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Did you mean something else?").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(nutrilogHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return -1, nil
		}
		return -1, err
	}
	return choice, nil
}
