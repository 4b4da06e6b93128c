package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/docstore"
	"github.com/alexanderramin/nutrilog/internal/domain"
)

// versionDoc adds an integer sort key; RFC 3339 strings with trimmed
// fractions do not order lexically.
type versionDoc struct {
	domain.PromptVersion
	TimestampUS int64 `json:"timestamp_us"`
}

// DocPromptVersionRepo stores snapshots under each template's versions collection.
type DocPromptVersionRepo struct {
	store docstore.Store
}

func NewDocPromptVersionRepo(store docstore.Store) *DocPromptVersionRepo {
	return &DocPromptVersionRepo{store: store}
}

func (r *DocPromptVersionRepo) Create(ctx context.Context, v *domain.PromptVersion) error {
	doc := versionDoc{PromptVersion: *v, TimestampUS: v.Timestamp.UnixMicro()}
	if err := r.store.Set(ctx, VersionsCollection(v.TemplateID), v.ID, doc); err != nil {
		return fmt.Errorf("inserting prompt version: %w", err)
	}
	return nil
}

func (r *DocPromptVersionRepo) ListByTemplate(ctx context.Context, templateID string, limit int) ([]*domain.PromptVersion, error) {
	q := docstore.Query{OrderBy: "timestamp_us", Direction: docstore.Descending, Limit: limit}
	docs, err := queryAll[versionDoc](ctx, r.store, VersionsCollection(templateID), q)
	if err != nil {
		return nil, fmt.Errorf("listing versions of %s: %w", templateID, err)
	}
	out := make([]*domain.PromptVersion, len(docs))
	for i, d := range docs {
		v := d.PromptVersion
		out[i] = &v
	}
	return out, nil
}
