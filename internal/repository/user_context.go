package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/docstore"
	"github.com/alexanderramin/nutrilog/internal/domain"
)

// DocUserContextRepo keeps one context document per user, keyed by user id.
type DocUserContextRepo struct {
	store docstore.Store
}

func NewDocUserContextRepo(store docstore.Store) *DocUserContextRepo {
	return &DocUserContextRepo{store: store}
}

func (r *DocUserContextRepo) Get(ctx context.Context, userID string) (*domain.UserContext, error) {
	uc, err := getOne[domain.UserContext](ctx, r.store, UserContextCollection, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, fmt.Errorf("user context %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("getting user context %s: %w", userID, err)
	}
	return uc, nil
}

func (r *DocUserContextRepo) Upsert(ctx context.Context, userID string, uc *domain.UserContext) error {
	if err := r.store.Set(ctx, UserContextCollection, userID, uc); err != nil {
		return fmt.Errorf("upserting user context %s: %w", userID, err)
	}
	return nil
}
