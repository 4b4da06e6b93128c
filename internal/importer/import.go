package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/service"
)

// TemplateCreator is the part of PromptService an import needs.
type TemplateCreator interface {
	CreateTemplate(ctx context.Context, t *domain.PromptTemplate) (*domain.PromptTemplate, error)
}

// Result reports what an import did. Skipped holds names that already existed.
type Result struct {
	Created []*domain.PromptTemplate
	Skipped []string
}

// Import validates file and creates each template through creator, in file
// order. Templates whose name is taken are skipped rather than failing the run.
func Import(ctx context.Context, creator TemplateCreator, file *TemplateFile) (*Result, error) {
	if errs := ValidateTemplateFile(file); len(errs) > 0 {
		return nil, fmt.Errorf("invalid template file: %w", errors.Join(errs...))
	}
	templates, err := Convert(file)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, t := range templates {
		created, err := creator.CreateTemplate(ctx, t)
		if errors.Is(err, service.ErrTemplateExists) {
			res.Skipped = append(res.Skipped, t.Name)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("creating template %q: %w", t.Name, err)
		}
		res.Created = append(res.Created, created)
	}
	return res, nil
}

// ImportFile loads path and imports it.
func ImportFile(ctx context.Context, creator TemplateCreator, path string) (*Result, error) {
	file, err := LoadTemplateFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return Import(ctx, creator, file)
}
