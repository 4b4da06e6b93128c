package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackRepo_ListByUser_OldestFirstPerUser(t *testing.T) {
	repo := NewDocFeedbackRepo(testutil.NewTestStore(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	later := testutil.NewTestFeedback("u1",
		testutil.WithCorrection("it was lunch", domain.ClassificationMeal),
		testutil.WithFeedbackTime(base.Add(time.Hour)))
	earlier := testutil.NewTestFeedback("u1", testutil.WithFeedbackTime(base))
	other := testutil.NewTestFeedback("u2", testutil.WithFeedbackTime(base))
	for _, f := range []*domain.UserFeedback{later, earlier, other} {
		f.FeedbackID = uuid.New().String()
		require.NoError(t, repo.Create(ctx, f))
	}

	got, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, earlier.MessageID, got[0].MessageID)
	assert.Equal(t, later.MessageID, got[1].MessageID)
	assert.False(t, got[1].WasCorrect)
	assert.Equal(t, domain.RatingIncorrect, got[1].Rating)
	assert.Equal(t, "it was lunch", got[1].Correction)

	none, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSelectionRepo_CreateAndListByUser(t *testing.T) {
	repo := NewDocSelectionRepo(testutil.NewTestStore(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	for i, interp := range []string{"Small portion of rice", "Rice as lunch"} {
		require.NoError(t, repo.Create(ctx, &domain.SelectionRecord{
			ID:                     uuid.New().String(),
			UserID:                 "u1",
			SelectedInterpretation: interp,
			SelectedData:           domain.ItemData{Item: "rice", Calories: domain.Float(140), MealType: domain.MealLunch},
			AlternativesShown: []domain.AlternativeInterpretation{
				{Interpretation: interp, Confidence: 0.65},
			},
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := repo.ListByUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rice as lunch", got[0].SelectedInterpretation)
	assert.Equal(t, domain.MealLunch, got[0].SelectedData.MealType)
	assert.InDelta(t, 140.0, got[0].SelectedData.CaloriesOr(0), 1e-9)
	require.Len(t, got[0].AlternativesShown, 1)
	assert.InDelta(t, 0.65, got[0].AlternativesShown[0].Confidence, 1e-9)
}
