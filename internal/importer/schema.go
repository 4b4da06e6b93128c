package importer

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// TemplateFile is the top-level YAML structure for prompt template import.
type TemplateFile struct {
	Defaults  *DefaultsImport  `yaml:"defaults,omitempty"`
	Templates []TemplateImport `yaml:"templates"`
}

// DefaultsImport holds values that cascade to every template lacking them.
type DefaultsImport struct {
	CreatedBy      string   `yaml:"created_by,omitempty"`
	ResponseFormat string   `yaml:"response_format,omitempty"`
	Tags           []string `yaml:"tags,omitempty"`
}

// TemplateImport defines one prompt template in the import file.
type TemplateImport struct {
	Name                string         `yaml:"name"`
	Description         string         `yaml:"description"`
	SystemPrompt        string         `yaml:"system_prompt"`
	UserPromptTemplate  string         `yaml:"user_prompt_template"`
	RequiredContextKeys []string       `yaml:"required_context_keys,omitempty"`
	JSONSchema          map[string]any `yaml:"json_schema,omitempty"`
	DefaultTemperature  *float64       `yaml:"default_temperature,omitempty"`
	DefaultMaxTokens    *int           `yaml:"default_max_tokens,omitempty"`
	ResponseFormat      string         `yaml:"response_format,omitempty"`
	Version             string         `yaml:"version,omitempty"`
	ParentTemplateID    string         `yaml:"parent_template_id,omitempty"`
	Active              *bool          `yaml:"active,omitempty"`
	CreatedBy           string         `yaml:"created_by,omitempty"`
	Tags                []string       `yaml:"tags,omitempty"`
}

// LoadTemplateFile reads and parses a template import YAML file.
func LoadTemplateFile(path string) (*TemplateFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTemplateFile(f)
}

// ParseTemplateFile decodes a template file, rejecting unknown keys.
func ParseTemplateFile(r io.Reader) (*TemplateFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file TemplateFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return &file, nil
		}
		return nil, fmt.Errorf("parsing template file: %w", err)
	}
	return &file, nil
}
