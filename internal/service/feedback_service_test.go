package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/nutrilog/internal/docstore"
	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/repository"
	"github.com/alexanderramin/nutrilog/internal/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFeedbackService(t *testing.T, store docstore.Store) (FeedbackService, *logtest.Hook) {
	t.Helper()
	if store == nil {
		store = testutil.NewTestStore(t)
	}
	logger, hook := logtest.NewNullLogger()
	svc := NewFeedbackService(
		repository.NewDocFeedbackRepo(store),
		repository.NewDocSelectionRepo(store),
		logger,
	)
	return svc, hook
}

func TestFeedbackService_SubmitFeedback_AssignsIDAndTime(t *testing.T) {
	svc, _ := setupFeedbackService(t, nil)

	fb := testutil.NewTestFeedback("u1")
	require.NoError(t, svc.SubmitFeedback(context.Background(), fb))
	assert.NotEmpty(t, fb.FeedbackID)
	assert.False(t, fb.CreatedAt.IsZero())
}

func TestFeedbackService_SubmitFeedback_RejectsInvalid(t *testing.T) {
	svc, _ := setupFeedbackService(t, nil)

	fb := testutil.NewTestFeedback("", testutil.WithRating("meh"))
	err := svc.SubmitFeedback(context.Background(), fb)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 2)
	assert.Contains(t, err.Error(), "user_id")
	assert.Contains(t, err.Error(), "rating")
}

func TestFeedbackService_SubmitFeedback_IncorrectRatingIsACorrection(t *testing.T) {
	svc, _ := setupFeedbackService(t, nil)
	ctx := context.Background()

	fb := testutil.NewTestFeedback("u1", testutil.WithRating(domain.RatingIncorrect))
	require.True(t, fb.WasCorrect)
	require.NoError(t, svc.SubmitFeedback(ctx, fb))
	assert.False(t, fb.WasCorrect)

	h, err := svc.UserHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, h.FeedbackSummary.Corrections)
}

func TestFeedbackService_UserHistory_Aggregates(t *testing.T) {
	svc, _ := setupFeedbackService(t, nil)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	entries := []*domain.UserFeedback{
		testutil.NewTestFeedback("u1", testutil.WithFeedbackTime(base)),
		testutil.NewTestFeedback("u1",
			testutil.WithCorrection("that was a snack", domain.ClassificationMeal),
			testutil.WithFeedbackTime(base.Add(time.Hour))),
		testutil.NewTestFeedback("u1", testutil.WithRating(domain.RatingNotHelpful), testutil.WithFeedbackTime(base.Add(2*time.Hour))),
		testutil.NewTestFeedback("u1",
			testutil.WithCorrection("it was a run", domain.ClassificationWorkout),
			testutil.WithFeedbackTime(base.Add(3*time.Hour))),
		testutil.NewTestFeedback("u2", testutil.WithCorrection("wrong", domain.ClassificationWater)),
	}
	for _, fb := range entries {
		require.NoError(t, svc.SubmitFeedback(ctx, fb))
	}

	h, err := svc.UserHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, h.FeedbackSummary.TotalInteractions)
	assert.Equal(t, 2, h.FeedbackSummary.Corrections)
	require.Len(t, h.CorrectionHistory, 2)
	assert.Equal(t, domain.ClassificationMeal, h.CorrectionHistory[0].Category)
	assert.Equal(t, "that was a snack", h.CorrectionHistory[0].Correction)
	assert.Equal(t, domain.ClassificationWorkout, h.CorrectionHistory[1].Category)

	empty, err := svc.UserHistory(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, empty.FeedbackSummary.TotalInteractions)
	assert.NotNil(t, empty.CorrectionHistory)
}

func TestFeedbackService_RecordSelection_Persists(t *testing.T) {
	svc, hook := setupFeedbackService(t, nil)
	ctx := context.Background()

	rec := &domain.SelectionRecord{
		UserID:                 "u1",
		SelectedInterpretation: "Large portion of pasta",
		SelectedData:           domain.ItemData{Item: "pasta", Calories: domain.Float(260), PortionSize: "large"},
	}
	svc.RecordSelection(ctx, rec)
	assert.NotEmpty(t, rec.ID)
	assert.Empty(t, hook.AllEntries())

	recent, err := svc.RecentSelections(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Large portion of pasta", recent[0].SelectedInterpretation)
	assert.Equal(t, "large", recent[0].SelectedData.PortionSize)
}

func TestFeedbackService_RecordSelection_FailureIsLogged(t *testing.T) {
	store := &testutil.FailingStore{
		Store:         testutil.NewTestStore(t),
		Err:           errors.New("write refused"),
		FailSetPrefix: repository.SelectionsCollection,
	}
	svc, hook := setupFeedbackService(t, store)

	svc.RecordSelection(context.Background(), &domain.SelectionRecord{UserID: "u1", SelectedInterpretation: "Fried chicken"})

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, "u1", entry.Data["user_id"])
	assert.Equal(t, "Fried chicken", entry.Data["interpretation"])
}
