package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateInactive = errors.New("template is inactive")
	ErrTemplateExists   = errors.New("template already exists")
)

// RenderedPrompt is a template rendered against a context, with the
// generation settings the template carries.
type RenderedPrompt struct {
	TemplateID     string                `json:"template_id"`
	Version        string                `json:"version"`
	SystemPrompt   string                `json:"system_prompt"`
	UserPrompt     string                `json:"user_prompt"`
	Temperature    float64               `json:"temperature"`
	MaxTokens      int                   `json:"max_tokens"`
	ResponseFormat domain.ResponseFormat `json:"response_format"`
	JSONSchema     map[string]any        `json:"json_schema,omitempty"`
}

// TemplateUpdate is a partial template change; nil fields are left alone.
type TemplateUpdate struct {
	Name                *string
	Description         *string
	SystemPrompt        *string
	UserPromptTemplate  *string
	RequiredContextKeys *[]string
	JSONSchema          *map[string]any
	DefaultTemperature  *float64
	DefaultMaxTokens    *int
	ResponseFormat      *domain.ResponseFormat
	Version             *string
	IsActive            *bool
	Tags                *[]string
}

type PromptService interface {
	GetTemplate(ctx context.Context, id string) (*domain.PromptTemplate, error)
	RenderTemplate(ctx context.Context, id string, vars map[string]any) (*RenderedPrompt, error)
	CreateTemplate(ctx context.Context, t *domain.PromptTemplate) (*domain.PromptTemplate, error)
	FindTemplateByName(ctx context.Context, name string) (*domain.PromptTemplate, error)
	UpdateTemplate(ctx context.Context, id string, upd TemplateUpdate, changedBy, changeDescription string) (*domain.PromptTemplate, error)
	ListTemplates(ctx context.Context, activeOnly bool, tags []string) ([]*domain.PromptTemplate, error)
	GetTemplateVersions(ctx context.Context, id string) ([]*domain.PromptVersion, error)
	ClearCache()
	// Wait blocks until background usage bookkeeping has finished.
	Wait()
}

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, f *domain.UserFeedback) error
	UserHistory(ctx context.Context, userID string) (*domain.UserHistory, error)
	// RecordSelection persists a chosen alternative. Failures are logged only.
	RecordSelection(ctx context.Context, rec *domain.SelectionRecord)
	RecentSelections(ctx context.Context, userID string, limit int) ([]*domain.SelectionRecord, error)
}
