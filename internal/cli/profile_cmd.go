package cli

import (
	"errors"

	"github.com/alexanderramin/nutrilog/internal/cli/formatter"
	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/repository"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Daily goal and preferences used when explaining logs",
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileSetCmd(app),
	)

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser(cmd)
			if err != nil {
				return err
			}
			uc, err := app.UserContexts.Get(cmd.Context(), user)
			if errors.Is(err, repository.ErrNotFound) {
				uc, err = &domain.UserContext{}, nil
			}
			if err != nil {
				return err
			}
			return emit(cmd, app, uc, func() string { return formatter.FormatUserContext(user, uc) })
		},
	}
}

func newProfileSetCmd(app *App) *cobra.Command {
	var (
		goal       float64
		consumed   float64
		prefs      map[string]string
		clearPrefs bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update goal, intake or preferences; unset flags keep their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := currentUser(cmd)
			if err != nil {
				return err
			}
			uc, err := app.UserContexts.Get(ctx, user)
			if errors.Is(err, repository.ErrNotFound) {
				uc, err = &domain.UserContext{}, nil
			}
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			if fs.Changed("goal") {
				uc.DailyCalorieGoal = domain.Float(goal)
				if goal == 0 {
					uc.DailyCalorieGoal = nil
				}
			}
			if fs.Changed("consumed") {
				uc.CaloriesConsumedToday = consumed
			}
			if clearPrefs {
				uc.Preferences = nil
			}
			if len(prefs) > 0 && uc.Preferences == nil {
				uc.Preferences = make(map[string]any, len(prefs))
			}
			for k, v := range prefs {
				uc.Preferences[k] = v
			}

			if err := app.UserContexts.Upsert(ctx, user, uc); err != nil {
				return err
			}
			return emit(cmd, app, uc, func() string { return formatter.FormatUserContext(user, uc) })
		},
	}

	fs := cmd.Flags()
	fs.Float64Var(&goal, "goal", 0, "daily calorie goal (0 removes it)")
	fs.Float64Var(&consumed, "consumed", 0, "calories consumed so far today")
	fs.StringToStringVar(&prefs, "pref", nil, "preference as key=value (repeatable)")
	fs.BoolVar(&clearPrefs, "clear-prefs", false, "remove stored preferences before applying --pref")
	return cmd
}
