package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/service"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	flagJSON = "json"
	flagUser = "user"

	defaultUser = "local"
)

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.Bool(flagJSON, false, "print machine-readable JSON instead of styled output")
	fs.StringP(flagUser, "u", envOr("NUTRILOG_USER", defaultUser), "user the command acts for")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func currentUser(cmd *cobra.Command) (string, error) {
	id, err := cmd.Flags().GetString(flagUser)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("--%s cannot be empty", flagUser)
	}
	return id, nil
}

// templateFlags are the prompt template fields shared by create and update.
type templateFlags struct {
	name             string
	description      string
	system           string
	systemFile       string
	userTemplate     string
	userTemplateFile string
	require          []string
	tags             []string
	temperature      float64
	maxTokens        int
	format           string
	version          string
	schemaFile       string
}

func (f *templateFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "template name (letters, digits, _ and -)")
	fs.StringVar(&f.description, "description", "", "what the template is for")
	fs.StringVar(&f.system, "system", "", "system prompt")
	fs.StringVar(&f.systemFile, "system-file", "", "read the system prompt from a file")
	fs.StringVar(&f.userTemplate, "user-template", "", "user prompt with {placeholders}")
	fs.StringVar(&f.userTemplateFile, "user-template-file", "", "read the user prompt from a file")
	fs.StringSliceVar(&f.require, "require", nil, "required context keys")
	fs.StringSliceVar(&f.tags, "tag", nil, "tags")
	fs.Float64Var(&f.temperature, "temperature", domain.DefaultTemperature, "default sampling temperature (0-2)")
	fs.IntVar(&f.maxTokens, "max-tokens", domain.DefaultMaxTokens, "default max tokens (100-32000)")
	fs.StringVar(&f.format, "format", string(domain.FormatText), "response format: text or json")
	fs.StringVar(&f.version, "version", domain.DefaultVersion, "template version, e.g. 1.0 or 2.0.1")
	fs.StringVar(&f.schemaFile, "schema-file", "", "JSON schema file for json responses")
	cmd.MarkFlagsMutuallyExclusive("system", "system-file")
	cmd.MarkFlagsMutuallyExclusive("user-template", "user-template-file")
}

// text resolves an inline/file flag pair. ok reports whether either was set.
func text(fs *pflag.FlagSet, inline, path, inlineFlag, fileFlag string) (value string, ok bool, err error) {
	if fs.Changed(fileFlag) {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("reading --%s: %w", fileFlag, err)
		}
		return strings.TrimRight(string(b), "\n"), true, nil
	}
	return inline, fs.Changed(inlineFlag), nil
}

func (f *templateFlags) schema(fs *pflag.FlagSet) (map[string]any, bool, error) {
	if !fs.Changed("schema-file") {
		return nil, false, nil
	}
	b, err := os.ReadFile(f.schemaFile)
	if err != nil {
		return nil, false, fmt.Errorf("reading --schema-file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(b, &schema); err != nil {
		return nil, false, fmt.Errorf("parsing --schema-file: %w", err)
	}
	return schema, true, nil
}

// newTemplate builds a template from the flags, leaving unset fields at their defaults.
func (f *templateFlags) newTemplate(fs *pflag.FlagSet, createdBy string) (*domain.PromptTemplate, error) {
	system, _, err := text(fs, f.system, f.systemFile, "system", "system-file")
	if err != nil {
		return nil, err
	}
	user, ok, err := text(fs, f.userTemplate, f.userTemplateFile, "user-template", "user-template-file")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("one of --user-template or --user-template-file is required")
	}
	schema, hasSchema, err := f.schema(fs)
	if err != nil {
		return nil, err
	}

	opts := []domain.TemplateOption{
		domain.WithRequiredKeys(f.require...),
		domain.WithTags(f.tags...),
		domain.WithTemperature(f.temperature),
		domain.WithMaxTokens(f.maxTokens),
		domain.WithResponseFormat(domain.ResponseFormat(f.format)),
		domain.WithVersion(f.version),
		domain.WithCreatedBy(createdBy),
	}
	if hasSchema {
		opts = append(opts, domain.WithJSONSchema(schema))
	}
	return domain.NewPromptTemplate(f.name, f.description, system, user, opts...)
}

// update collects only the flags the user set into a partial update.
func (f *templateFlags) update(fs *pflag.FlagSet) (service.TemplateUpdate, error) {
	var upd service.TemplateUpdate
	if fs.Changed("name") {
		upd.Name = &f.name
	}
	if fs.Changed("description") {
		upd.Description = &f.description
	}
	if system, ok, err := text(fs, f.system, f.systemFile, "system", "system-file"); err != nil {
		return upd, err
	} else if ok {
		upd.SystemPrompt = &system
	}
	if user, ok, err := text(fs, f.userTemplate, f.userTemplateFile, "user-template", "user-template-file"); err != nil {
		return upd, err
	} else if ok {
		upd.UserPromptTemplate = &user
	}
	if fs.Changed("require") {
		upd.RequiredContextKeys = &f.require
	}
	if fs.Changed("tag") {
		upd.Tags = &f.tags
	}
	if fs.Changed("temperature") {
		upd.DefaultTemperature = &f.temperature
	}
	if fs.Changed("max-tokens") {
		upd.DefaultMaxTokens = &f.maxTokens
	}
	if fs.Changed("format") {
		format := domain.ResponseFormat(f.format)
		upd.ResponseFormat = &format
	}
	if fs.Changed("version") {
		upd.Version = &f.version
	}
	schema, ok, err := f.schema(fs)
	if err != nil {
		return upd, err
	}
	if ok {
		upd.JSONSchema = &schema
	}
	return upd, nil
}
