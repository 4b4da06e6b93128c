package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/google/uuid"
)

var templateCounter atomic.Int64

// NewTestTemplate builds a valid template with a unique name. Options are
// the domain template options.
func NewTestTemplate(opts ...domain.TemplateOption) *domain.PromptTemplate {
	n := templateCounter.Add(1)
	t, err := domain.NewPromptTemplate(
		fmt.Sprintf("test_template_%02d", n),
		"test template",
		"You are a nutrition assistant.",
		"Parse this log: {user_input}",
		append([]domain.TemplateOption{domain.WithRequiredKeys("user_input")}, opts...)...,
	)
	if err != nil {
		panic(fmt.Sprintf("invalid test template: %v", err))
	}
	return t
}

// NewTestTemplateNamed is NewTestTemplate with a fixed name.
func NewTestTemplateNamed(name string, opts ...domain.TemplateOption) *domain.PromptTemplate {
	t := NewTestTemplate(opts...)
	t.Name = name
	return t
}

type FeedbackOption func(*domain.UserFeedback)

func WithRating(r domain.FeedbackRating) FeedbackOption {
	return func(f *domain.UserFeedback) { f.Rating = r }
}

func WithCorrection(text string, category domain.Classification) FeedbackOption {
	return func(f *domain.UserFeedback) {
		f.Correction = text
		f.Category = category
		f.WasCorrect = false
		f.Rating = domain.RatingIncorrect
	}
}

func WithFeedbackTime(at time.Time) FeedbackOption {
	return func(f *domain.UserFeedback) { f.CreatedAt = at }
}

// NewTestFeedback returns positive feedback for userID unless options say otherwise.
func NewTestFeedback(userID string, opts ...FeedbackOption) *domain.UserFeedback {
	f := &domain.UserFeedback{
		UserID:       userID,
		MessageID:    uuid.New().String(),
		Rating:       domain.RatingHelpful,
		FeedbackType: "classification",
		Category:     domain.ClassificationMeal,
		AIConfidence: 0.8,
		WasCorrect:   true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// MealRecord is a parsed meal entry with the given item and calories.
func MealRecord(item string, calories float64) domain.ItemRecord {
	return domain.ItemRecord{
		Category: domain.ClassificationMeal,
		Data:     domain.ItemData{Item: item, Calories: domain.Float(calories)},
	}
}
