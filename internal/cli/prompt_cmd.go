package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/cli/formatter"
	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/importer"
	"github.com/alexanderramin/nutrilog/internal/service"
	"github.com/spf13/cobra"
)

func newPromptCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Manage versioned prompt templates",
	}

	cmd.AddCommand(
		newPromptCreateCmd(app),
		newPromptImportCmd(app),
		newPromptListCmd(app),
		newPromptShowCmd(app),
		newPromptRenderCmd(app),
		newPromptUpdateCmd(app),
		newPromptVersionsCmd(app),
		newPromptClearCacheCmd(app),
	)

	return cmd
}

// resolveTemplate finds a template by name, falling back to id.
func resolveTemplate(ctx context.Context, app *App, ref string) (*domain.PromptTemplate, error) {
	t, err := app.Prompts.FindTemplateByName(ctx, ref)
	if errors.Is(err, service.ErrTemplateNotFound) {
		return app.Prompts.GetTemplate(ctx, ref)
	}
	return t, err
}

func newPromptCreateCmd(app *App) *cobra.Command {
	var flags templateFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prompt template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser(cmd)
			if err != nil {
				return err
			}
			t, err := flags.newTemplate(cmd.Flags(), user)
			if err != nil {
				return err
			}
			created, err := app.Prompts.CreateTemplate(cmd.Context(), t)
			if err != nil {
				return err
			}
			return emit(cmd, app, created, func() string {
				return fmt.Sprintf("Created template %s (%s)", formatter.Bold(created.Name), formatter.Dim(created.ID))
			})
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPromptImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create templates from a YAML file, skipping names that exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importer.ImportFile(cmd.Context(), app.Prompts, args[0])
			if err != nil {
				return err
			}
			names := make([]string, len(res.Created))
			for i, t := range res.Created {
				names[i] = t.Name
			}
			out := struct {
				Created []string `json:"created"`
				Skipped []string `json:"skipped"`
			}{names, res.Skipped}
			return emit(cmd, app, out, func() string {
				msg := fmt.Sprintf("Imported %d template(s)", len(names))
				if len(res.Skipped) > 0 {
					msg += formatter.Dim(fmt.Sprintf(", skipped %d existing", len(res.Skipped)))
				}
				return msg
			})
		},
	}
}

func newPromptListCmd(app *App) *cobra.Command {
	var all bool
	var tags []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompt templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.Prompts.ListTemplates(cmd.Context(), !all, tags)
			if err != nil {
				return err
			}
			if templates == nil {
				templates = []*domain.PromptTemplate{}
			}
			return emit(cmd, app, templates, func() string {
				if len(templates) == 0 {
					return "No templates found."
				}
				return formatter.FormatTemplateList(templates)
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include inactive templates")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "only templates carrying any of these tags")
	return cmd
}

func newPromptShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME|ID",
		Short: "Show template details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTemplate(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			return emit(cmd, app, t, func() string { return formatter.FormatTemplateShow(t) })
		},
	}
}

func newPromptRenderCmd(app *App) *cobra.Command {
	var vars map[string]string
	cmd := &cobra.Command{
		Use:   "render NAME|ID",
		Short: "Render a template against context values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTemplate(ctx, app, args[0])
			if err != nil {
				return err
			}
			values := make(map[string]any, len(vars))
			for k, v := range vars {
				values[k] = v
			}
			rendered, err := app.Prompts.RenderTemplate(ctx, t.ID, values)
			if err != nil {
				return err
			}
			return emit(cmd, app, rendered, func() string {
				return formatter.FormatRendered(rendered.SystemPrompt, rendered.UserPrompt)
			})
		},
	}
	cmd.Flags().StringToStringVar(&vars, "var", nil, "context value as key=value (repeatable)")
	return cmd
}

func newPromptUpdateCmd(app *App) *cobra.Command {
	var flags templateFlags
	var active bool
	var message string
	cmd := &cobra.Command{
		Use:   "update NAME|ID",
		Short: "Change a template and record a new version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := currentUser(cmd)
			if err != nil {
				return err
			}
			t, err := app.Prompts.FindTemplateByName(ctx, args[0])
			if errors.Is(err, service.ErrTemplateNotFound) {
				// Not a name; UpdateTemplate resolves it as an id.
				t, err = &domain.PromptTemplate{ID: args[0]}, nil
			}
			if err != nil {
				return err
			}

			upd, err := flags.update(cmd.Flags())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("active") {
				upd.IsActive = &active
			}
			updated, err := app.Prompts.UpdateTemplate(ctx, t.ID, upd, user, message)
			if err != nil {
				return err
			}
			return emit(cmd, app, updated, func() string {
				return fmt.Sprintf("Updated template %s to version %s", formatter.Bold(updated.Name), updated.Version)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&active, "active", true, "activate or deactivate the template")
	cmd.Flags().StringVarP(&message, "message", "m", "", "change description stored with the version")
	return cmd
}

func newPromptVersionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "versions NAME|ID",
		Short: "Show a template's version history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			if t, err := app.Prompts.FindTemplateByName(ctx, args[0]); err == nil {
				id = t.ID
			} else if !errors.Is(err, service.ErrTemplateNotFound) {
				return err
			}
			versions, err := app.Prompts.GetTemplateVersions(ctx, id)
			if err != nil {
				return err
			}
			if versions == nil {
				versions = []*domain.PromptVersion{}
			}
			return emit(cmd, app, versions, func() string { return formatter.FormatVersions(versions) })
		},
	}
}

func newPromptClearCacheCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Drop cached templates so the next read hits the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Prompts.ClearCache()
			fmt.Fprintln(cmd.OutOrStdout(), "Template cache cleared.")
			return nil
		},
	}
}
