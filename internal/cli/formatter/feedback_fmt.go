package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

// FormatHistory renders a user's feedback summary and corrections.
func FormatHistory(userID string, h *domain.UserHistory) string {
	var b strings.Builder
	s := h.FeedbackSummary
	fmt.Fprintf(&b, "%s\n\n", Bold(userID))
	fmt.Fprintf(&b, "  %s  %d\n", StyleDim.Render("INTERACTIONS"), s.TotalInteractions)
	fmt.Fprintf(&b, "  %s  %d\n", StyleDim.Render("CORRECTIONS "), s.Corrections)
	if s.TotalInteractions > 0 {
		accuracy := 1 - float64(s.Corrections)/float64(s.TotalInteractions)
		fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("ACCURACY    "), ScoreBar(accuracy, scoreBarWidth))
	}

	if len(h.CorrectionHistory) > 0 {
		b.WriteString("\n")
		headers := []string{"WHEN", "CATEGORY", "CORRECTION"}
		rows := make([][]string, 0, len(h.CorrectionHistory))
		for _, c := range h.CorrectionHistory {
			rows = append(rows, []string{
				Dim(Timestamp(c.CreatedAt)),
				CategoryBadge(c.Category),
				orDash(c.Correction),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}
	return RenderBox("Feedback History", strings.TrimRight(b.String(), "\n"))
}

// FormatSelections renders recently chosen alternatives.
func FormatSelections(records []*domain.SelectionRecord) string {
	headers := []string{"WHEN", "CHOSE", "KCAL"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			Dim(Timestamp(r.Timestamp)),
			r.SelectedInterpretation,
			number(r.SelectedData.Calories),
		})
	}
	return RenderBox("Recent Choices", RenderTable(headers, rows))
}

// FormatUserContext renders a user's stored goal, intake and preferences.
func FormatUserContext(userID string, uc *domain.UserContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", Bold(userID))
	fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("DAILY GOAL"), number(uc.DailyCalorieGoal))
	fmt.Fprintf(&b, "  %s  %.0f\n", StyleDim.Render("CONSUMED  "), uc.CaloriesConsumedToday)
	if uc.DailyCalorieGoal != nil && *uc.DailyCalorieGoal > 0 {
		fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("PROGRESS  "),
			ScoreBar(uc.CaloriesConsumedToday / *uc.DailyCalorieGoal, scoreBarWidth))
	}
	if len(uc.Preferences) > 0 {
		b.WriteString("\n" + Header("Preferences") + "\n")
		b.WriteString(Bullets(sortedPairs(uc.Preferences)))
	}
	return RenderBox("Profile", strings.TrimRight(b.String(), "\n"))
}
