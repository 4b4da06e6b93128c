package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

// ValidateTemplateFile checks the file for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateTemplateFile(file *TemplateFile) []error {
	var errs []error

	if file.Defaults != nil && file.Defaults.ResponseFormat != "" &&
		!domain.ResponseFormat(file.Defaults.ResponseFormat).Valid() {
		errs = append(errs, fmt.Errorf("defaults.response_format: invalid value %q", file.Defaults.ResponseFormat))
	}

	if len(file.Templates) == 0 {
		errs = append(errs, fmt.Errorf("templates: at least one template is required"))
	}

	seen := make(map[string]int)
	for i, t := range file.Templates {
		prefix := fmt.Sprintf("templates[%d]", i)
		name := strings.TrimSpace(t.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if first, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("%s.name %q duplicates templates[%d]", prefix, name, first))
		} else {
			seen[name] = i
		}
		if strings.TrimSpace(t.UserPromptTemplate) == "" {
			errs = append(errs, fmt.Errorf("%s.user_prompt_template is required", prefix))
		}
	}

	return errs
}
