package importer

import (
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

// Convert turns a validated TemplateFile into prompt templates, applying
// defaults and running domain validation on each.
// Call ValidateTemplateFile first; Convert assumes names are present.
func Convert(file *TemplateFile) ([]*domain.PromptTemplate, error) {
	defaults := DefaultsImport{}
	if file.Defaults != nil {
		defaults = *file.Defaults
	}

	out := make([]*domain.PromptTemplate, 0, len(file.Templates))
	for _, t := range file.Templates {
		opts := []domain.TemplateOption{
			domain.WithRequiredKeys(t.RequiredContextKeys...),
			domain.WithTags(mergeTags(defaults.Tags, t.Tags)...),
			domain.WithCreatedBy(firstNonEmpty(t.CreatedBy, defaults.CreatedBy)),
		}
		if t.JSONSchema != nil {
			opts = append(opts, domain.WithJSONSchema(t.JSONSchema))
		}
		if t.DefaultTemperature != nil {
			opts = append(opts, domain.WithTemperature(*t.DefaultTemperature))
		}
		if t.DefaultMaxTokens != nil {
			opts = append(opts, domain.WithMaxTokens(*t.DefaultMaxTokens))
		}
		if f := firstNonEmpty(t.ResponseFormat, defaults.ResponseFormat); f != "" {
			opts = append(opts, domain.WithResponseFormat(domain.ResponseFormat(f)))
		}
		if t.Version != "" {
			opts = append(opts, domain.WithVersion(t.Version))
		}
		if t.ParentTemplateID != "" {
			opts = append(opts, domain.WithParent(t.ParentTemplateID))
		}
		if t.Active != nil {
			opts = append(opts, domain.WithActive(*t.Active))
		}

		tmpl, err := domain.NewPromptTemplate(t.Name, t.Description, t.SystemPrompt, t.UserPromptTemplate, opts...)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Name, err)
		}
		out = append(out, tmpl)
	}
	return out, nil
}

// mergeTags appends the template's own tags after the defaults, dropping repeats.
func mergeTags(defaults, own []string) []string {
	seen := make(map[string]bool, len(defaults)+len(own))
	var out []string
	for _, tag := range append(append([]string(nil), defaults...), own...) {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
