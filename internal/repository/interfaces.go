package repository

import (
	"context"

	"github.com/alexanderramin/nutrilog/internal/docstore"
	"github.com/alexanderramin/nutrilog/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = docstore.ErrNotFound

// Collection names in the document store.
const (
	TemplatesCollection   = "prompt_templates"
	versionsChild         = "versions"
	FeedbackCollection    = "user_feedback"
	SelectionsCollection  = "alternative_selections"
	UserContextCollection = "user_contexts"
)

// VersionsCollection is the child collection holding a template's history.
func VersionsCollection(templateID string) string {
	return docstore.SubCollection(TemplatesCollection, templateID, versionsChild)
}

type PromptTemplateRepo interface {
	Create(ctx context.Context, t *domain.PromptTemplate) error
	GetByID(ctx context.Context, id string) (*domain.PromptTemplate, error)
	// FindByName returns ErrNotFound when no template has the name.
	FindByName(ctx context.Context, name string) (*domain.PromptTemplate, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.PromptTemplate, error)
	// Update merges the given document fields into the stored template.
	Update(ctx context.Context, id string, fields map[string]any) error
	IncrementUsage(ctx context.Context, id string) error
}

type PromptVersionRepo interface {
	Create(ctx context.Context, v *domain.PromptVersion) error
	// ListByTemplate returns up to limit snapshots, newest first.
	ListByTemplate(ctx context.Context, templateID string, limit int) ([]*domain.PromptVersion, error)
}

type FeedbackRepo interface {
	Create(ctx context.Context, f *domain.UserFeedback) error
	ListByUser(ctx context.Context, userID string) ([]*domain.UserFeedback, error)
}

type SelectionRepo interface {
	Create(ctx context.Context, s *domain.SelectionRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.SelectionRecord, error)
}

// UserContextRepo stores the per-user state consulted when explaining responses.
type UserContextRepo interface {
	// Get returns ErrNotFound when the user has no stored context.
	Get(ctx context.Context, userID string) (*domain.UserContext, error)
	Upsert(ctx context.Context, userID string, uc *domain.UserContext) error
}
