package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/docstore"
	"github.com/alexanderramin/nutrilog/internal/domain"
)

type feedbackDoc struct {
	domain.UserFeedback
	CreatedUS int64 `json:"created_us"`
}

// DocFeedbackRepo stores feedback as write-once documents keyed by feedback id.
type DocFeedbackRepo struct {
	store docstore.Store
}

func NewDocFeedbackRepo(store docstore.Store) *DocFeedbackRepo {
	return &DocFeedbackRepo{store: store}
}

func (r *DocFeedbackRepo) Create(ctx context.Context, f *domain.UserFeedback) error {
	doc := feedbackDoc{UserFeedback: *f, CreatedUS: f.CreatedAt.UnixMicro()}
	if err := r.store.Set(ctx, FeedbackCollection, f.FeedbackID, doc); err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

// ListByUser returns the user's feedback oldest first.
func (r *DocFeedbackRepo) ListByUser(ctx context.Context, userID string) ([]*domain.UserFeedback, error) {
	q := docstore.Where("user_id", userID)
	q.OrderBy = "created_us"
	docs, err := queryAll[feedbackDoc](ctx, r.store, FeedbackCollection, q)
	if err != nil {
		return nil, fmt.Errorf("listing feedback for %s: %w", userID, err)
	}
	out := make([]*domain.UserFeedback, len(docs))
	for i, d := range docs {
		f := d.UserFeedback
		out[i] = &f
	}
	return out, nil
}
