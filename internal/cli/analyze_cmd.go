package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/nutrilog/internal/cli/formatter"
	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/intelligence"
	"github.com/alexanderramin/nutrilog/internal/llm"
	"github.com/alexanderramin/nutrilog/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errLLMDisabled = errors.New("LLM is disabled: set NUTRILOG_LLM_ENABLED=true or pass --raw")

type analyzeOptions struct {
	rawPath  string
	template string
	choose   int
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze TEXT...",
		Short: "Parse a food or activity log and explain the interpretation",
		Long: `Sends the log to the model through the parse template, then scores the
result, offers alternative readings when unsure, and explains how it got there.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, app, strings.Join(args, " "), opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.rawPath, "raw", "", "read the model reply from a file (- for stdin) instead of calling the LLM")
	fs.StringVar(&opts.template, "template", "", "prompt template used to build the parse request (default "+DefaultParseTemplate+")")
	fs.IntVar(&opts.choose, "choose", 0, "record alternative N (1-based) without prompting")
	return cmd
}

func runAnalyze(cmd *cobra.Command, app *App, input string, opts analyzeOptions) error {
	ctx := cmd.Context()
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	raw, model, err := modelReply(ctx, cmd, app, input, opts)
	if err != nil {
		return err
	}
	parsed, err := llm.ParseLogResponse(raw)
	if err != nil {
		return fmt.Errorf("reading model reply: %w", err)
	}

	history, err := app.Feedback.UserHistory(ctx, user)
	if err != nil {
		return err
	}
	if history.FeedbackSummary.TotalInteractions == 0 {
		history = nil
	}
	userCtx, err := app.UserContexts.Get(ctx, user)
	if errors.Is(err, repository.ErrNotFound) {
		userCtx, err = nil, nil
	}
	if err != nil {
		return err
	}

	resp := app.Pipeline.Analyze(intelligence.AnalyzeRequest{
		UserID:      user,
		UserInput:   input,
		Response:    parsed.Response,
		ParsedItems: parsed.Items,
		LLMResponse: parsed.Raw,
		UserHistory: history,
		UserContext: userCtx,
		ModelUsed:   model,
	})
	if resp.NeedsClarification && app.Clarifier != nil {
		resp.ClarificationQuestion = app.Clarifier.Refine(ctx, input, resp)
	}

	choice := -1
	if cmd.Flags().Changed("choose") {
		choice = opts.choose - 1
		if err := recordChoice(ctx, app, choice, resp.Alternatives, user); err != nil {
			return err
		}
	}

	if err := emit(cmd, app, resp, func() string { return formatter.FormatAnalysis(resp) }); err != nil {
		return err
	}

	if choice >= 0 || len(resp.Alternatives) == 0 || jsonOutput(cmd, app) {
		return nil
	}
	choice, err = chooseAlternative(app, resp.Alternatives)
	if err != nil || choice < 0 {
		return err
	}
	if err := recordChoice(ctx, app, choice, resp.Alternatives, user); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Noted: %s\n", resp.Alternatives[choice].Interpretation)
	return nil
}

// modelReply returns the raw model text and the model name that produced it.
func modelReply(ctx context.Context, cmd *cobra.Command, app *App, input string, opts analyzeOptions) (string, string, error) {
	if opts.rawPath != "" {
		var r io.Reader = cmd.InOrStdin()
		if opts.rawPath != "-" {
			f, err := os.Open(opts.rawPath)
			if err != nil {
				return "", "", fmt.Errorf("opening --raw: %w", err)
			}
			defer f.Close()
			r = f
		}
		b, err := io.ReadAll(r)
		if err != nil {
			return "", "", fmt.Errorf("reading --raw: %w", err)
		}
		return string(b), "", nil
	}

	if app.LLM == nil {
		return "", "", errLLMDisabled
	}
	name := opts.template
	if name == "" {
		name = app.parseTemplate()
	}
	tmpl, err := app.Prompts.FindTemplateByName(ctx, name)
	if err != nil {
		return "", "", err
	}
	rendered, err := app.Prompts.RenderTemplate(ctx, tmpl.ID, map[string]any{"user_input": input})
	if err != nil {
		return "", "", err
	}
	resp, err := app.LLM.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskParse,
		SystemPrompt: rendered.SystemPrompt,
		UserPrompt:   rendered.UserPrompt,
		Temperature:  &rendered.Temperature,
		MaxTokens:    &rendered.MaxTokens,
		JSON:         rendered.ResponseFormat == domain.FormatJSON,
	})
	if err != nil {
		return "", "", fmt.Errorf("parsing log with %s: %w", name, err)
	}
	return resp.Text, resp.Model, nil
}

func recordChoice(ctx context.Context, app *App, index int, alts []domain.AlternativeInterpretation, user string) error {
	rec, err := app.Pipeline.Generator().SelectAlternative(index, alts, user)
	if err != nil {
		return err
	}
	app.Feedback.RecordSelection(ctx, rec)
	app.logger().WithFields(logrus.Fields{
		"user_id":        user,
		"interpretation": rec.SelectedInterpretation,
	}).Debug("alternative selected")
	return nil
}
