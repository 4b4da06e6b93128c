package cli

import (
	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/intelligence"
	"github.com/alexanderramin/nutrilog/internal/llm"
	"github.com/alexanderramin/nutrilog/internal/repository"
	"github.com/alexanderramin/nutrilog/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DefaultParseTemplate is the prompt template analyze renders for the LLM.
const DefaultParseTemplate = "food_log_parser"

// App holds references to all services used by CLI commands.
type App struct {
	Prompts      service.PromptService
	Feedback     service.FeedbackService
	UserContexts repository.UserContextRepo
	Pipeline     *intelligence.Pipeline
	// LLM is nil when model calls are disabled; analyze then needs --raw.
	LLM           llm.LLMClient
	// Clarifier rephrases follow-up questions through the model. Nil keeps
	// the rule-based question.
	Clarifier     service.ClarifyService
	Logger        logrus.FieldLogger
	ParseTemplate string

	// IsInteractive reports whether stdin/stdout are a terminal. Nil means no.
	IsInteractive func() bool
	// ChooseAlternative asks the user to pick an alternative and returns its
	// index, or -1 to keep the primary reading. Nil uses a huh form.
	ChooseAlternative func(alts []domain.AlternativeInterpretation) (int, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) parseTemplate() string {
	if a.ParseTemplate != "" {
		return a.ParseTemplate
	}
	return DefaultParseTemplate
}

func (a *App) logger() logrus.FieldLogger {
	if a.Logger == nil {
		return logrus.StandardLogger()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "nutrilog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "nutrilog",
		Short:         "Explainable nutrition and fitness logging",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newAnalyzeCmd(app),
		newPromptCmd(app),
		newFeedbackCmd(app),
		newProfileCmd(app),
	)

	return root
}
