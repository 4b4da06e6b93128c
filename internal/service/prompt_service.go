package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	initialVersionDescription = "Initial version"
	defaultChangeDescription  = "Updated template"
	maxVersionHistory         = 50
	usageIncrementTimeout     = 5 * time.Second
)

type promptService struct {
	templates repository.PromptTemplateRepo
	versions  repository.PromptVersionRepo
	cache     *templateCache
	now       func() time.Time
	logger    logrus.FieldLogger
	observer  UseCaseObserver
	pending   sync.WaitGroup
}

type PromptServiceOption func(*promptService)

// WithCacheTTL overrides DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) PromptServiceOption {
	return func(s *promptService) { s.cache.ttl = ttl }
}

// WithClock sets the time source for cache ageing and update stamps.
func WithClock(now func() time.Time) PromptServiceOption {
	return func(s *promptService) {
		s.now = now
		s.cache.now = now
	}
}

func WithLogger(logger logrus.FieldLogger) PromptServiceOption {
	return func(s *promptService) { s.logger = logger }
}

func WithObserver(observer UseCaseObserver) PromptServiceOption {
	return func(s *promptService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

func NewPromptService(
	templates repository.PromptTemplateRepo,
	versions repository.PromptVersionRepo,
	opts ...PromptServiceOption,
) PromptService {
	s := &promptService{
		templates: templates,
		versions:  versions,
		cache:     newTemplateCache(DefaultCacheTTL, time.Now),
		now:       time.Now,
		logger:    logrus.StandardLogger(),
		observer:  NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *promptService) GetTemplate(ctx context.Context, id string) (*domain.PromptTemplate, error) {
	if t, ok := s.cache.get(id); ok {
		return t, nil
	}

	t, err := s.templates.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", id, err)
	}
	if !t.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrTemplateInactive, id)
	}
	s.cache.put(t)
	return t, nil
}

func (s *promptService) RenderTemplate(ctx context.Context, id string, vars map[string]any) (rendered *RenderedPrompt, err error) {
	startedAt := s.now().UTC()
	fields := map[string]any{"template_id": id}
	defer observe(ctx, s.observer, "render-template", startedAt, fields, &err)

	t, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	fields["version"] = t.Version

	systemPrompt, userPrompt, err := t.Render(vars)
	if err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", t.Name, err)
	}

	s.recordUsage(ctx, id)

	return &RenderedPrompt{
		TemplateID:     t.ID,
		Version:        t.Version,
		SystemPrompt:   systemPrompt,
		UserPrompt:     userPrompt,
		Temperature:    t.DefaultTemperature,
		MaxTokens:      t.DefaultMaxTokens,
		ResponseFormat: t.ResponseFormat,
		JSONSchema:     t.JSONSchema,
	}, nil
}

// recordUsage bumps the persisted usage count in the background. It outlives
// the caller's context and never affects the render result.
func (s *promptService) recordUsage(ctx context.Context, id string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		incCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageIncrementTimeout)
		defer cancel()

		if err := s.templates.IncrementUsage(incCtx, id); err != nil {
			s.logger.WithError(err).WithField("template_id", id).Warn("incrementing template usage count")
			return
		}
		s.cache.bumpUsage(id)
	}()
}

func (s *promptService) Wait() {
	s.pending.Wait()
}

func (s *promptService) CreateTemplate(ctx context.Context, t *domain.PromptTemplate) (created *domain.PromptTemplate, err error) {
	startedAt := s.now().UTC()
	fields := map[string]any{"template": t.Name}
	defer observe(ctx, s.observer, "create-template", startedAt, fields, &err)

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = startedAt
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if err = t.Validate(); err != nil {
		return nil, err
	}

	if err = s.ensureNameFree(ctx, t.Name, ""); err != nil {
		return nil, err
	}
	if err = s.templates.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	fields["template_id"] = t.ID

	s.snapshot(ctx, t, initialVersionDescription, t.CreatedBy)
	return t.Clone(), nil
}

func (s *promptService) FindTemplateByName(ctx context.Context, name string) (*domain.PromptTemplate, error) {
	t, err := s.templates.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ensureNameFree fails with ErrTemplateExists when another template (not
// selfID) already uses name.
func (s *promptService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.templates.FindByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("checking template name: %w", err)
	case existing.ID != selfID:
		return fmt.Errorf("%w: %q", ErrTemplateExists, name)
	}
	return nil
}

func (s *promptService) UpdateTemplate(ctx context.Context, id string, upd TemplateUpdate, changedBy, changeDescription string) (updated *domain.PromptTemplate, err error) {
	startedAt := s.now().UTC()
	fields := map[string]any{"template_id": id}
	defer observe(ctx, s.observer, "update-template", startedAt, fields, &err)

	current, err := s.templates.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", id, err)
	}

	candidate := current.Clone()
	changes := upd.apply(candidate)
	if err = candidate.Validate(); err != nil {
		return nil, err
	}
	if upd.Name != nil && candidate.Name != current.Name {
		if err = s.ensureNameFree(ctx, candidate.Name, id); err != nil {
			return nil, err
		}
	}
	changes["updated_at"] = startedAt
	fields["changed_fields"] = len(changes) - 1

	if err = s.templates.Update(ctx, id, changes); err != nil {
		return nil, fmt.Errorf("updating template %s: %w", id, err)
	}

	updated, err = s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reloading template %s: %w", id, err)
	}

	if changeDescription == "" {
		changeDescription = defaultChangeDescription
	}
	s.snapshot(ctx, updated, changeDescription, changedBy)
	s.cache.evict(id)
	return updated, nil
}

// apply copies the set fields onto t and returns them keyed by document field.
func (u TemplateUpdate) apply(t *domain.PromptTemplate) map[string]any {
	changes := make(map[string]any)
	if u.Name != nil {
		t.Name = *u.Name
		changes["name"] = t.Name
	}
	if u.Description != nil {
		t.Description = *u.Description
		changes["description"] = t.Description
	}
	if u.SystemPrompt != nil {
		t.SystemPrompt = *u.SystemPrompt
		changes["system_prompt"] = t.SystemPrompt
	}
	if u.UserPromptTemplate != nil {
		t.UserPromptTemplate = *u.UserPromptTemplate
		changes["user_prompt_template"] = t.UserPromptTemplate
	}
	if u.RequiredContextKeys != nil {
		t.RequiredContextKeys = *u.RequiredContextKeys
		changes["required_context_keys"] = t.RequiredContextKeys
	}
	if u.JSONSchema != nil {
		t.JSONSchema = *u.JSONSchema
		changes["json_schema"] = t.JSONSchema
	}
	if u.DefaultTemperature != nil {
		t.DefaultTemperature = *u.DefaultTemperature
		changes["default_temperature"] = t.DefaultTemperature
	}
	if u.DefaultMaxTokens != nil {
		t.DefaultMaxTokens = *u.DefaultMaxTokens
		changes["default_max_tokens"] = t.DefaultMaxTokens
	}
	if u.ResponseFormat != nil {
		t.ResponseFormat = *u.ResponseFormat
		changes["response_format"] = t.ResponseFormat
	}
	if u.Version != nil {
		t.Version = *u.Version
		changes["version"] = t.Version
	}
	if u.IsActive != nil {
		t.IsActive = *u.IsActive
		changes["is_active"] = t.IsActive
	}
	if u.Tags != nil {
		t.Tags = *u.Tags
		changes["tags"] = t.Tags
	}
	return changes
}

// snapshot writes a version record. Failures are logged and swallowed.
func (s *promptService) snapshot(ctx context.Context, t *domain.PromptTemplate, description, changedBy string) {
	v := domain.NewPromptVersion(t, description, changedBy, s.now())
	if err := s.versions.Create(ctx, v); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"template_id": t.ID,
			"version":     t.Version,
		}).Warn("writing template version snapshot")
	}
}

func (s *promptService) ListTemplates(ctx context.Context, activeOnly bool, tags []string) ([]*domain.PromptTemplate, error) {
	all, err := s.templates.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	if len(tags) == 0 {
		return all, nil
	}
	filtered := make([]*domain.PromptTemplate, 0, len(all))
	for _, t := range all {
		if t.HasAnyTag(tags) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *promptService) GetTemplateVersions(ctx context.Context, id string) ([]*domain.PromptVersion, error) {
	versions, err := s.versions.ListByTemplate(ctx, id, maxVersionHistory)
	if err != nil {
		return nil, fmt.Errorf("listing versions of template %s: %w", id, err)
	}
	return versions, nil
}

func (s *promptService) ClearCache() {
	s.cache.clear()
}
