package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/llm"
	"github.com/sirupsen/logrus"
)

// ClarifyTemplate is the prompt template used to phrase follow-up questions.
const ClarifyTemplate = "clarification_followup"

const maxQuestionLen = 300

// ClarifyService phrases the follow-up question for a low-confidence log
// through the LLM. Any failure falls back to the rule-based question.
type ClarifyService interface {
	Refine(ctx context.Context, userInput string, resp domain.ExplainableResponse) string
}

type clarifyService struct {
	prompts PromptService
	client  llm.LLMClient
	logger  logrus.FieldLogger
}

func NewClarifyService(prompts PromptService, client llm.LLMClient, logger logrus.FieldLogger) ClarifyService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &clarifyService{prompts: prompts, client: client, logger: logger}
}

func (s *clarifyService) Refine(ctx context.Context, userInput string, resp domain.ExplainableResponse) string {
	fallback := resp.ClarificationQuestion
	if !resp.NeedsClarification {
		return fallback
	}
	question, err := s.ask(ctx, userInput, resp.ConfidenceFactors)
	if err != nil {
		s.logger.WithError(err).Debug("using rule-based clarification question")
		return fallback
	}
	return question
}

func (s *clarifyService) ask(ctx context.Context, userInput string, factors domain.ConfidenceFactors) (string, error) {
	tmpl, err := s.prompts.FindTemplateByName(ctx, ClarifyTemplate)
	if err != nil {
		return "", err
	}
	rendered, err := s.prompts.RenderTemplate(ctx, tmpl.ID, map[string]any{
		"user_input":  userInput,
		"uncertainty": describeUncertainty(factors),
	})
	if err != nil {
		return "", err
	}
	out, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskClarify,
		SystemPrompt: rendered.SystemPrompt,
		UserPrompt:   rendered.UserPrompt,
		Temperature:  &rendered.Temperature,
		MaxTokens:    &rendered.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	question := strings.Trim(strings.TrimSpace(out.Text), `"`)
	if question == "" || len(question) > maxQuestionLen || !strings.Contains(question, "?") {
		return "", fmt.Errorf("%w: unusable clarification %q", llm.ErrInvalidOutput, question)
	}
	return question, nil
}

// describeUncertainty names the weakest factors, lowest first.
func describeUncertainty(f domain.ConfidenceFactors) string {
	type factor struct {
		what  string
		score float64
	}
	factors := []factor{
		{"the amount or wording of the log is vague", f.InputClarity},
		{"nutrition details are missing", f.DataCompleteness},
		{"the parse itself was uncertain", f.ModelCertainty},
	}
	if f.HistoricalAccuracy != nil {
		factors = append(factors, factor{"similar logs were corrected before", *f.HistoricalAccuracy})
	}
	lowest := factors[0]
	for _, c := range factors[1:] {
		if c.score < lowest.score {
			lowest = c
		}
	}
	return fmt.Sprintf("%s (%.2f)", lowest.what, lowest.score)
}
