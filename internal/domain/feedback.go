package domain

import (
	"fmt"
	"time"
)

// UserFeedback is a user's reaction to a completed response. Immutable once stored.
type UserFeedback struct {
	FeedbackID   string         `json:"feedback_id"`
	UserID       string         `json:"user_id"`
	MessageID    string         `json:"message_id"`
	Rating       FeedbackRating `json:"rating"`
	Correction   string         `json:"correction,omitempty"`
	FeedbackType string         `json:"feedback_type,omitempty"`
	Category     Classification `json:"category,omitempty"`
	AIConfidence float64        `json:"ai_confidence"`
	WasCorrect   bool           `json:"was_correct"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Validate reports every problem with the feedback at once.
func (f *UserFeedback) Validate() error {
	verr := &ValidationError{}
	if f.UserID == "" {
		verr.Add("user_id is required")
	}
	if f.MessageID == "" {
		verr.Add("message_id is required")
	}
	if !f.Rating.Valid() {
		verr.Add(fmt.Sprintf("rating %q must be one of helpful, not_helpful, incorrect", f.Rating))
	}
	if f.AIConfidence < 0 || f.AIConfidence > 1 {
		verr.Add(fmt.Sprintf("ai_confidence %.2f must be between 0 and 1", f.AIConfidence))
	}
	return verr.OrNil()
}

type FeedbackSummary struct {
	TotalInteractions int `json:"total_interactions"`
	Corrections       int `json:"corrections"`
}

type Correction struct {
	MessageID  string         `json:"message_id"`
	Category   Classification `json:"category"`
	Correction string         `json:"correction,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// UserHistory is the aggregate of a user's past feedback used for scoring.
type UserHistory struct {
	FeedbackSummary   FeedbackSummary `json:"feedback_summary"`
	CorrectionHistory []Correction    `json:"correction_history"`
}

// UserContext is optional per-user state consulted when explaining a response.
type UserContext struct {
	DailyCalorieGoal      *float64       `json:"daily_calorie_goal,omitempty"`
	CaloriesConsumedToday float64        `json:"calories_consumed_today"`
	RecentMeals           []ItemRecord   `json:"recent_meals,omitempty"`
	Preferences           map[string]any `json:"preferences,omitempty"`
}

// SelectionRecord captures which alternative a user picked.
type SelectionRecord struct {
	ID                     string                      `json:"id,omitempty"`
	UserID                 string                      `json:"user_id"`
	SelectedInterpretation string                      `json:"selected_interpretation"`
	SelectedData           ItemData                    `json:"selected_data"`
	AlternativesShown      []AlternativeInterpretation `json:"alternatives_shown"`
	Timestamp              time.Time                   `json:"timestamp"`
}
