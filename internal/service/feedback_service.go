package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type feedbackService struct {
	feedback   repository.FeedbackRepo
	selections repository.SelectionRepo
	logger     logrus.FieldLogger
	now        func() time.Time
	observer   UseCaseObserver
}

func NewFeedbackService(
	feedback repository.FeedbackRepo,
	selections repository.SelectionRepo,
	logger logrus.FieldLogger,
	observers ...UseCaseObserver,
) FeedbackService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &feedbackService{
		feedback:   feedback,
		selections: selections,
		logger:     logger,
		now:        time.Now,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, f *domain.UserFeedback) (err error) {
	startedAt := s.now().UTC()
	fields := map[string]any{"user_id": f.UserID, "rating": string(f.Rating)}
	defer observe(ctx, s.observer, "submit-feedback", startedAt, fields, &err)

	if f.FeedbackID == "" {
		f.FeedbackID = uuid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = startedAt
	}
	if f.Rating == domain.RatingIncorrect || f.Correction != "" {
		f.WasCorrect = false
	}
	if err = f.Validate(); err != nil {
		return err
	}
	if err = s.feedback.Create(ctx, f); err != nil {
		return fmt.Errorf("submitting feedback: %w", err)
	}
	return nil
}

// UserHistory aggregates a user's feedback into the shape the confidence
// scorer consumes. Feedback marked incorrect counts as a correction.
func (s *feedbackService) UserHistory(ctx context.Context, userID string) (*domain.UserHistory, error) {
	all, err := s.feedback.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", userID, err)
	}
	h := &domain.UserHistory{
		FeedbackSummary:   domain.FeedbackSummary{TotalInteractions: len(all)},
		CorrectionHistory: []domain.Correction{},
	}
	for _, f := range all {
		if f.WasCorrect {
			continue
		}
		h.FeedbackSummary.Corrections++
		h.CorrectionHistory = append(h.CorrectionHistory, domain.Correction{
			MessageID:  f.MessageID,
			Category:   f.Category,
			Correction: f.Correction,
			CreatedAt:  f.CreatedAt,
		})
	}
	return h, nil
}

func (s *feedbackService) RecordSelection(ctx context.Context, rec *domain.SelectionRecord) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now().UTC()
	}
	if err := s.selections.Create(ctx, rec); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":        rec.UserID,
			"interpretation": rec.SelectedInterpretation,
		}).Warn("logging alternative selection")
	}
}

func (s *feedbackService) RecentSelections(ctx context.Context, userID string, limit int) ([]*domain.SelectionRecord, error) {
	recs, err := s.selections.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading selections for %s: %w", userID, err)
	}
	return recs, nil
}
