package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/nutrilog/internal/cli"
	"github.com/alexanderramin/nutrilog/internal/config"
	"github.com/alexanderramin/nutrilog/internal/docstore"
	"github.com/alexanderramin/nutrilog/internal/importer"
	"github.com/alexanderramin/nutrilog/internal/intelligence"
	"github.com/alexanderramin/nutrilog/internal/llm"
	"github.com/alexanderramin/nutrilog/internal/logging"
	"github.com/alexanderramin/nutrilog/internal/repository"
	"github.com/alexanderramin/nutrilog/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	// Wire repositories
	templateRepo := repository.NewDocPromptTemplateRepo(store)
	versionRepo := repository.NewDocPromptVersionRepo(store)
	feedbackRepo := repository.NewDocFeedbackRepo(store)
	selectionRepo := repository.NewDocSelectionRepo(store)
	userContextRepo := repository.NewDocUserContextRepo(store)

	// Wire services
	observer := service.NewLogUseCaseObserver(logger)
	prompts := service.NewPromptService(templateRepo, versionRepo,
		service.WithCacheTTL(cfg.CacheTTL),
		service.WithLogger(logger),
		service.WithObserver(observer),
	)
	defer prompts.Wait()
	feedback := service.NewFeedbackService(feedbackRepo, selectionRepo, logger, observer)

	if cfg.SeedTemplates != "" {
		res, err := importer.ImportFile(ctx, prompts, cfg.SeedTemplates)
		if err != nil {
			return fmt.Errorf("seeding templates: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"file":    cfg.SeedTemplates,
			"created": len(res.Created),
			"skipped": len(res.Skipped),
		}).Debug("seeded prompt templates")
	}

	pipeline := intelligence.NewPipeline(
		intelligence.NewConfidenceScorer(),
		intelligence.NewAlternativeGenerator(),
		intelligence.NewResponseExplainer(nil),
	)

	app := &cli.App{
		Prompts:      prompts,
		Feedback:     feedback,
		UserContexts: userContextRepo,
		Pipeline:     pipeline,
		Logger:       logger,
	}

	// Interactive selection needs a terminal on both ends.
	app.IsInteractive = func() bool {
		return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
	}

	// Wire the model client only when enabled
	if cfg.LLM.Enabled {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			llmObserver = llm.NewLogObserver(logger)
		}
		app.LLM = llm.NewOllamaClient(cfg.LLM, llmObserver)
		app.Clarifier = service.NewClarifyService(prompts, app.LLM, logger)
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

func openStore(ctx context.Context, cfg config.Config) (docstore.Store, error) {
	switch cfg.Store {
	case config.StoreMongo:
		store, err := docstore.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("opening mongo store: %w", err)
		}
		return store, nil
	default:
		store, err := docstore.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return store, nil
	}
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
