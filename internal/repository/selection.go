package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/docstore"
	"github.com/alexanderramin/nutrilog/internal/domain"
)

type selectionDoc struct {
	domain.SelectionRecord
	TimestampUS int64 `json:"timestamp_us"`
}

// DocSelectionRepo logs which alternative interpretation users picked.
type DocSelectionRepo struct {
	store docstore.Store
}

func NewDocSelectionRepo(store docstore.Store) *DocSelectionRepo {
	return &DocSelectionRepo{store: store}
}

func (r *DocSelectionRepo) Create(ctx context.Context, s *domain.SelectionRecord) error {
	doc := selectionDoc{SelectionRecord: *s, TimestampUS: s.Timestamp.UnixMicro()}
	if err := r.store.Set(ctx, SelectionsCollection, s.ID, doc); err != nil {
		return fmt.Errorf("inserting selection: %w", err)
	}
	return nil
}

// ListByUser returns up to limit selections, newest first.
func (r *DocSelectionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.SelectionRecord, error) {
	q := docstore.Where("user_id", userID)
	q.OrderBy = "timestamp_us"
	q.Direction = docstore.Descending
	q.Limit = limit
	docs, err := queryAll[selectionDoc](ctx, r.store, SelectionsCollection, q)
	if err != nil {
		return nil, fmt.Errorf("listing selections for %s: %w", userID, err)
	}
	out := make([]*domain.SelectionRecord, len(docs))
	for i, d := range docs {
		s := d.SelectionRecord
		out[i] = &s
	}
	return out, nil
}
