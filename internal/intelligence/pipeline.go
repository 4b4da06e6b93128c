package intelligence

import (
	"fmt"
	"time"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

// AnalyzeRequest is everything known about one user turn after the LLM parse.
type AnalyzeRequest struct {
	UserID      string
	UserInput   string
	Response    string
	ParsedItems []domain.ItemRecord
	LLMResponse map[string]any
	UserHistory *domain.UserHistory
	UserContext *domain.UserContext
	ModelUsed   string
}

// Pipeline runs scoring, alternatives and explanation in order. Its parts
// are constructed once and shared; it holds no per-request state.
type Pipeline struct {
	scorer    *ConfidenceScorer
	generator *AlternativeGenerator
	explainer *ResponseExplainer
	now       func() time.Time
}

func NewPipeline(scorer *ConfidenceScorer, generator *AlternativeGenerator, explainer *ResponseExplainer) *Pipeline {
	return &Pipeline{scorer: scorer, generator: generator, explainer: explainer, now: time.Now}
}

// Generator exposes the alternative generator so callers can record selections.
func (p *Pipeline) Generator() *AlternativeGenerator {
	return p.generator
}

// Analyze assembles the explainable response for a parsed user turn.
func (p *Pipeline) Analyze(req AnalyzeRequest) domain.ExplainableResponse {
	start := p.now()

	score, factors := p.scorer.CalculateConfidence(req.UserInput, req.ParsedItems, req.LLMResponse, req.UserHistory)
	needsClarification := p.scorer.ShouldRequestClarification(score)

	var question string
	if needsClarification {
		question = p.scorer.GenerateClarificationQuestion(req.UserInput, req.ParsedItems, factors)
	}

	var primary domain.ItemData
	classification := domain.ClassificationOther
	if len(req.ParsedItems) > 0 {
		primary = req.ParsedItems[0].Data
		classification = domain.ParseClassification(string(req.ParsedItems[0].Category))
	}

	alternatives := p.generator.GenerateAlternatives(req.UserInput, primary, score, req.UserContext)
	explanation := p.explainer.ExplainClassification(req.UserInput, req.ParsedItems, classification, score, req.UserContext)

	return domain.ExplainableResponse{
		Response:              responseText(req),
		Items:                 req.ParsedItems,
		ConfidenceScore:       score,
		ConfidenceLevel:       domain.ConfidenceLevelFor(score),
		ConfidenceFactors:     factors,
		Explanation:           explanation,
		Alternatives:          alternatives,
		NeedsClarification:    needsClarification,
		ClarificationQuestion: question,
		ModelUsed:             req.ModelUsed,
		ProcessingTimeMs:      p.now().Sub(start).Milliseconds(),
	}
}

func responseText(req AnalyzeRequest) string {
	if req.Response != "" {
		return req.Response
	}
	switch n := len(req.ParsedItems); n {
	case 0:
		return "I couldn't find anything to log."
	case 1:
		if s := req.ParsedItems[0].Summary; s != "" {
			return s
		}
		return fmt.Sprintf("Logged %s.", req.ParsedItems[0].Data.ItemOr("1 item"))
	default:
		return fmt.Sprintf("Logged %d items.", n)
	}
}
