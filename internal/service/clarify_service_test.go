package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/llm"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	reply string
	err   error
	last  llm.GenerateRequest
	calls int
}

func (s *stubLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerateResponse{Text: s.reply, Model: "stub"}, nil
}

func (s *stubLLM) Available(context.Context) bool { return true }

func seedClarifyTemplate(t *testing.T, f *promptFixture) {
	t.Helper()
	tmpl, err := domain.NewPromptTemplate(
		ClarifyTemplate,
		"follow-up question",
		"Ask one short question.",
		"Log: {user_input}\nUnsure because {uncertainty}",
		domain.WithRequiredKeys("user_input", "uncertainty"),
		domain.WithTemperature(0.4),
		domain.WithMaxTokens(128),
	)
	require.NoError(t, err)
	_, err = f.svc.CreateTemplate(context.Background(), tmpl)
	require.NoError(t, err)
}

func uncertainResponse() domain.ExplainableResponse {
	return domain.ExplainableResponse{
		NeedsClarification:    true,
		ClarificationQuestion: "How much did you have?",
		ConfidenceFactors: domain.ConfidenceFactors{
			InputClarity:     0.3,
			DataCompleteness: 0.8,
			ModelCertainty:   0.6,
		},
	}
}

func TestClarifyService_Refine_UsesModelQuestion(t *testing.T) {
	f := setupPromptService(t, nil)
	seedClarifyTemplate(t, f)
	client := &stubLLM{reply: `"Was that one bowl or two?"`}
	svc := NewClarifyService(f.svc, client, nil)

	got := svc.Refine(context.Background(), "some rice", uncertainResponse())

	assert.Equal(t, "Was that one bowl or two?", got)
	assert.Equal(t, llm.TaskClarify, client.last.Task)
	assert.Contains(t, client.last.UserPrompt, "Log: some rice")
	assert.Contains(t, client.last.UserPrompt, "the amount or wording of the log is vague (0.30)")
	require.NotNil(t, client.last.MaxTokens)
	assert.Equal(t, 128, *client.last.MaxTokens)
}

func TestClarifyService_Refine_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		seed   bool
		client *stubLLM
	}{
		{name: "missing template", seed: false, client: &stubLLM{reply: "How big?"}},
		{name: "model error", seed: true, client: &stubLLM{err: llm.ErrTimeout}},
		{name: "empty reply", seed: true, client: &stubLLM{reply: "  "}},
		{name: "not a question", seed: true, client: &stubLLM{reply: "Rice is tasty."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupPromptService(t, nil)
			if tt.seed {
				seedClarifyTemplate(t, f)
			}
			logger, hook := logtest.NewNullLogger()
			logger.SetLevel(logrus.DebugLevel)
			svc := NewClarifyService(f.svc, tt.client, logger)

			got := svc.Refine(context.Background(), "some rice", uncertainResponse())

			assert.Equal(t, "How much did you have?", got)
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, "using rule-based clarification question", hook.LastEntry().Message)
		})
	}
}

func TestClarifyService_Refine_SkipsConfidentResponses(t *testing.T) {
	f := setupPromptService(t, nil)
	seedClarifyTemplate(t, f)
	client := &stubLLM{err: errors.New("should not be called")}
	svc := NewClarifyService(f.svc, client, nil)

	resp := uncertainResponse()
	resp.NeedsClarification = false
	resp.ClarificationQuestion = ""

	assert.Empty(t, svc.Refine(context.Background(), "2 eggs", resp))
	assert.Zero(t, client.calls)
}

func TestDescribeUncertainty_PicksWeakestFactor(t *testing.T) {
	f := domain.ConfidenceFactors{
		InputClarity:       0.9,
		DataCompleteness:   0.7,
		ModelCertainty:     0.8,
		HistoricalAccuracy: ptr(0.4),
	}
	assert.Equal(t, "similar logs were corrected before (0.40)", describeUncertainty(f))

	f.HistoricalAccuracy = nil
	assert.Equal(t, "nutrition details are missing (0.70)", describeUncertainty(f))
}
