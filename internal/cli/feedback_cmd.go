package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/nutrilog/internal/cli/formatter"
	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/spf13/cobra"
)

func newFeedbackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Rate responses and review your correction history",
	}

	cmd.AddCommand(
		newFeedbackSubmitCmd(app),
		newFeedbackHistoryCmd(app),
	)

	return cmd
}

func newFeedbackSubmitCmd(app *App) *cobra.Command {
	var (
		messageID    string
		rating       string
		correction   string
		category     string
		feedbackType string
		confidence   float64
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Rate a response; a correction marks it as wrong",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser(cmd)
			if err != nil {
				return err
			}
			f := &domain.UserFeedback{
				UserID:       user,
				MessageID:    messageID,
				Rating:       domain.FeedbackRating(strings.ToLower(rating)),
				Correction:   correction,
				FeedbackType: feedbackType,
				Category:     domain.ParseClassification(category),
				AIConfidence: confidence,
				WasCorrect:   true,
			}
			if err := app.Feedback.SubmitFeedback(cmd.Context(), f); err != nil {
				return err
			}
			return emit(cmd, app, f, func() string {
				return fmt.Sprintf("Thanks! Feedback %s recorded.", formatter.Dim(f.FeedbackID))
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&messageID, "message", "", "id of the response being rated")
	fs.StringVar(&rating, "rating", string(domain.RatingHelpful), "helpful, not_helpful or incorrect")
	fs.StringVar(&correction, "correction", "", "what the right answer was")
	fs.StringVar(&category, "category", string(domain.ClassificationMeal), "category of the rated item")
	fs.StringVar(&feedbackType, "type", "", "free-form feedback type")
	fs.Float64Var(&confidence, "confidence", 0, "confidence the response was shown with (0-1)")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newFeedbackHistoryCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show feedback totals, corrections and recent choices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := currentUser(cmd)
			if err != nil {
				return err
			}
			history, err := app.Feedback.UserHistory(ctx, user)
			if err != nil {
				return err
			}
			selections, err := app.Feedback.RecentSelections(ctx, user, limit)
			if err != nil {
				return err
			}
			if selections == nil {
				selections = []*domain.SelectionRecord{}
			}

			out := struct {
				UserID     string                    `json:"user_id"`
				History    *domain.UserHistory       `json:"history"`
				Selections []*domain.SelectionRecord `json:"recent_selections"`
			}{user, history, selections}
			return emit(cmd, app, out, func() string {
				s := formatter.FormatHistory(user, history)
				if len(selections) > 0 {
					s += "\n" + formatter.FormatSelections(selections)
				}
				return s
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "how many recent alternative choices to show")
	return cmd
}
