package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	templateNamePattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	templateVersionPattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)
	placeholderPattern     = regexp.MustCompile(`\{(\w+)\}`)
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
	DefaultVersion     = "1.0"
)

// PromptTemplate is a versioned LLM prompt with {placeholder} substitution.
// ID is stable across updates; each create/update writes a PromptVersion.
type PromptTemplate struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	SystemPrompt        string         `json:"system_prompt"`
	UserPromptTemplate  string         `json:"user_prompt_template"`
	RequiredContextKeys []string       `json:"required_context_keys"`
	JSONSchema          map[string]any `json:"json_schema,omitempty"`
	DefaultTemperature  float64        `json:"default_temperature"`
	DefaultMaxTokens    int            `json:"default_max_tokens"`
	ResponseFormat      ResponseFormat `json:"response_format"`
	Version             string         `json:"version"`
	ParentTemplateID    string         `json:"parent_template_id,omitempty"`
	IsActive            bool           `json:"is_active"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	CreatedBy           string         `json:"created_by,omitempty"`
	Tags                []string       `json:"tags"`
	UsageCount          int64          `json:"usage_count"`
}

type TemplateOption func(*PromptTemplate)

func WithRequiredKeys(keys ...string) TemplateOption {
	return func(t *PromptTemplate) { t.RequiredContextKeys = keys }
}

func WithJSONSchema(schema map[string]any) TemplateOption {
	return func(t *PromptTemplate) { t.JSONSchema = schema }
}

func WithTemperature(temp float64) TemplateOption {
	return func(t *PromptTemplate) { t.DefaultTemperature = temp }
}

func WithMaxTokens(n int) TemplateOption {
	return func(t *PromptTemplate) { t.DefaultMaxTokens = n }
}

func WithResponseFormat(f ResponseFormat) TemplateOption {
	return func(t *PromptTemplate) { t.ResponseFormat = f }
}

func WithVersion(v string) TemplateOption {
	return func(t *PromptTemplate) { t.Version = v }
}

func WithParent(id string) TemplateOption {
	return func(t *PromptTemplate) { t.ParentTemplateID = id }
}

func WithTags(tags ...string) TemplateOption {
	return func(t *PromptTemplate) { t.Tags = tags }
}

func WithCreatedBy(user string) TemplateOption {
	return func(t *PromptTemplate) { t.CreatedBy = user }
}

func WithActive(active bool) TemplateOption {
	return func(t *PromptTemplate) { t.IsActive = active }
}

// NewPromptTemplate builds a template with defaults applied and validates it.
func NewPromptTemplate(name, description, systemPrompt, userPromptTemplate string, opts ...TemplateOption) (*PromptTemplate, error) {
	now := time.Now().UTC()
	t := &PromptTemplate{
		ID:                 uuid.New().String(),
		Name:               name,
		Description:        description,
		SystemPrompt:       systemPrompt,
		UserPromptTemplate: userPromptTemplate,
		DefaultTemperature: DefaultTemperature,
		DefaultMaxTokens:   DefaultMaxTokens,
		ResponseFormat:     FormatText,
		Version:            DefaultVersion,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks field formats and ranges, reporting every violation.
func (t *PromptTemplate) Validate() error {
	verr := &ValidationError{}
	// Surrounding whitespace is rejected, not trimmed.
	switch {
	case strings.TrimSpace(t.Name) == "":
		verr.Add("name cannot be empty")
	case !templateNamePattern.MatchString(t.Name):
		verr.Add(fmt.Sprintf("name %q must contain only alphanumeric characters, underscores, and hyphens", t.Name))
	}
	if !templateVersionPattern.MatchString(t.Version) {
		verr.Add(fmt.Sprintf("version %q must follow semantic versioning (e.g. 1.0, 1.1, 2.0.1)", t.Version))
	}
	if !t.ResponseFormat.Valid() {
		verr.Add(fmt.Sprintf("response format %q must be one of: text, json", t.ResponseFormat))
	}
	if t.DefaultTemperature < 0 || t.DefaultTemperature > 2 {
		verr.Add(fmt.Sprintf("default temperature %g must be between 0 and 2", t.DefaultTemperature))
	}
	if t.DefaultMaxTokens < 100 || t.DefaultMaxTokens > 32000 {
		verr.Add(fmt.Sprintf("default max tokens %d must be between 100 and 32000", t.DefaultMaxTokens))
	}
	if t.UsageCount < 0 {
		verr.Add("usage count cannot be negative")
	}
	return verr.OrNil()
}

// ExtractPlaceholders returns every {name} token in the user prompt, in order,
// duplicates included.
func (t *PromptTemplate) ExtractPlaceholders() []string {
	matches := placeholderPattern.FindAllStringSubmatch(t.UserPromptTemplate, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ValidateContext checks required keys and template placeholders against
// context independently and reports both kinds of gap together.
func (t *PromptTemplate) ValidateContext(context map[string]any) error {
	verr := &ValidationError{}
	if missing := missingKeys(t.RequiredContextKeys, context); len(missing) > 0 {
		verr.Add("Missing required context keys: " + strings.Join(missing, ", "))
	}
	if missing := missingKeys(t.ExtractPlaceholders(), context); len(missing) > 0 {
		verr.Add("Missing context values for placeholders: " + strings.Join(missing, ", "))
	}
	return verr.OrNil()
}

func missingKeys(keys []string, context map[string]any) []string {
	var missing []string
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := context[k]; ok || seen[k] {
			continue
		}
		seen[k] = true
		missing = append(missing, k)
	}
	return missing
}

// Render validates context then substitutes every {key} in the user prompt.
// The system prompt is returned as stored.
func (t *PromptTemplate) Render(context map[string]any) (systemPrompt, userPrompt string, err error) {
	if err := t.ValidateContext(context); err != nil {
		return "", "", err
	}
	pairs := make([]string, 0, len(context)*2)
	for k, v := range context {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return t.SystemPrompt, strings.NewReplacer(pairs...).Replace(t.UserPromptTemplate), nil
}

// Clone returns a deep copy safe to hand out from a shared cache.
func (t *PromptTemplate) Clone() *PromptTemplate {
	c := *t
	c.RequiredContextKeys = append([]string(nil), t.RequiredContextKeys...)
	c.Tags = append([]string(nil), t.Tags...)
	if t.JSONSchema != nil {
		c.JSONSchema = make(map[string]any, len(t.JSONSchema))
		for k, v := range t.JSONSchema {
			c.JSONSchema[k] = v
		}
	}
	return &c
}

// HasAnyTag reports whether the template carries at least one of tags.
func (t *PromptTemplate) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range t.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

// PromptVersion is an immutable snapshot of a template's prompt content.
type PromptVersion struct {
	ID                 string         `json:"id"`
	TemplateID         string         `json:"template_id"`
	Version            string         `json:"version"`
	SystemPrompt       string         `json:"system_prompt"`
	UserPromptTemplate string         `json:"user_prompt_template"`
	JSONSchema         map[string]any `json:"json_schema,omitempty"`
	ChangeDescription  string         `json:"change_description"`
	ChangedBy          string         `json:"changed_by,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
}

// NewPromptVersion snapshots t as of now.
func NewPromptVersion(t *PromptTemplate, changeDescription, changedBy string, now time.Time) *PromptVersion {
	return &PromptVersion{
		ID:                 uuid.New().String(),
		TemplateID:         t.ID,
		Version:            t.Version,
		SystemPrompt:       t.SystemPrompt,
		UserPromptTemplate: t.UserPromptTemplate,
		JSONSchema:         t.JSONSchema,
		ChangeDescription:  changeDescription,
		ChangedBy:          changedBy,
		Timestamp:          now.UTC(),
	}
}

// PromptUsageStats is an aggregate read model over a period.
type PromptUsageStats struct {
	TemplateID        string    `json:"template_id"`
	TemplateName      string    `json:"template_name"`
	TotalUses         int       `json:"total_uses"`
	SuccessfulUses    int       `json:"successful_uses"`
	FailedUses        int       `json:"failed_uses"`
	AvgResponseTimeMs float64   `json:"avg_response_time_ms"`
	AvgTokensUsed     float64   `json:"avg_tokens_used"`
	TotalCostUSD      float64   `json:"total_cost_usd"`
	PeriodStart       time.Time `json:"period_start"`
	PeriodEnd         time.Time `json:"period_end"`
}

// SuccessRate is the percentage of successful uses, 0 when unused.
func (s PromptUsageStats) SuccessRate() float64 {
	if s.TotalUses == 0 {
		return 0
	}
	return float64(s.SuccessfulUses) / float64(s.TotalUses) * 100
}
