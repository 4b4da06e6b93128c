package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/docstore"
	"github.com/alexanderramin/nutrilog/internal/domain"
)

// DocPromptTemplateRepo implements PromptTemplateRepo over a document store.
type DocPromptTemplateRepo struct {
	store docstore.Store
}

func NewDocPromptTemplateRepo(store docstore.Store) *DocPromptTemplateRepo {
	return &DocPromptTemplateRepo{store: store}
}

func (r *DocPromptTemplateRepo) Create(ctx context.Context, t *domain.PromptTemplate) error {
	if err := r.store.Set(ctx, TemplatesCollection, t.ID, t); err != nil {
		return fmt.Errorf("inserting prompt template: %w", err)
	}
	return nil
}

func (r *DocPromptTemplateRepo) GetByID(ctx context.Context, id string) (*domain.PromptTemplate, error) {
	t, err := getOne[domain.PromptTemplate](ctx, r.store, TemplatesCollection, id)
	if err != nil {
		return nil, fmt.Errorf("prompt template %s: %w", id, err)
	}
	if t.ID == "" {
		t.ID = id
	}
	return t, nil
}

func (r *DocPromptTemplateRepo) FindByName(ctx context.Context, name string) (*domain.PromptTemplate, error) {
	q := docstore.Where("name", name)
	q.Limit = 1
	found, err := queryAll[domain.PromptTemplate](ctx, r.store, TemplatesCollection, q)
	if err != nil {
		return nil, fmt.Errorf("finding prompt template %q: %w", name, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("prompt template %q: %w", name, ErrNotFound)
	}
	return found[0], nil
}

func (r *DocPromptTemplateRepo) List(ctx context.Context, activeOnly bool) ([]*domain.PromptTemplate, error) {
	q := docstore.Query{OrderBy: "name"}
	if activeOnly {
		q.Where = []docstore.Filter{{Field: "is_active", Value: true}}
	}
	templates, err := queryAll[domain.PromptTemplate](ctx, r.store, TemplatesCollection, q)
	if err != nil {
		return nil, fmt.Errorf("listing prompt templates: %w", err)
	}
	return templates, nil
}

func (r *DocPromptTemplateRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := r.store.Update(ctx, TemplatesCollection, id, fields); err != nil {
		return fmt.Errorf("updating prompt template %s: %w", id, err)
	}
	return nil
}

func (r *DocPromptTemplateRepo) IncrementUsage(ctx context.Context, id string) error {
	err := r.store.Increment(ctx, TemplatesCollection, id, "usage_count", 1)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("prompt template %s: %w", id, err)
	}
	if err != nil {
		return fmt.Errorf("incrementing usage of prompt template %s: %w", id, err)
	}
	return nil
}
