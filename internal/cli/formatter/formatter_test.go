package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable(
		[]string{"A", "B"},
		[][]string{{StyleGreen.Render("long-cell"), "x"}, {"s", "y"}},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(lines[3]))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestScoreBar_ClampsAndFormats(t *testing.T) {
	assert.Contains(t, ScoreBar(0.45, 10), "0.45")
	assert.Contains(t, ScoreBar(-1, 10), "0.00")
	assert.Contains(t, ScoreBar(3, 10), "1.00")
	assert.Contains(t, ScoreBar(1, 4), strings.Repeat(filledBlock, 4))
}

func TestConfidenceIndicator(t *testing.T) {
	assert.Contains(t, ConfidenceIndicator(domain.ConfidenceVeryHigh), "VERY HIGH")
	assert.Contains(t, ConfidenceIndicator(domain.ConfidenceLow), "LOW")
	assert.Contains(t, ConfidenceIndicator(""), "UNKNOWN")
}

func TestFormatAnalysis_IncludesEverySection(t *testing.T) {
	resp := domain.ExplainableResponse{
		Response: "Logged rice.",
		Items: []domain.ItemRecord{{
			Category: domain.ClassificationMeal,
			Data:     domain.ItemData{Item: "rice", Quantity: "1 cup", Calories: domain.Float(205)},
		}},
		ConfidenceScore:       0.62,
		ConfidenceLevel:       domain.ConfidenceLow,
		ConfidenceFactors:     domain.ConfidenceFactors{InputClarity: 0.5, DataCompleteness: 0.6, ModelCertainty: 0.8},
		NeedsClarification:    true,
		ClarificationQuestion: "How much rice did you have?",
		Explanation: domain.ResponseExplanation{
			Reasoning:             "1. You said: 'rice'\n2. Identified 'rice' as food item",
			WhyThisClassification: "It's afternoon, so I assumed lunch",
			Assumptions:           []string{"Assumed cooked weight (not dry/raw)"},
			DataSources:           []string{"USDA FoodData Central"},
			ConfidenceBreakdown:   map[string]float64{"overall": 0.62, "input_clarity": 0.5},
		},
		Alternatives: []domain.AlternativeInterpretation{{
			Interpretation: "Large portion of rice",
			Confidence:     0.6,
			Explanation:    "If you meant a large serving (130% of standard)",
			Data:           domain.ItemData{Item: "rice", Calories: domain.Float(266)},
		}},
		ModelUsed: "llama3.2",
	}

	out := FormatAnalysis(resp)
	for _, want := range []string{
		"ANALYSIS", "Logged rice.", "1 cup", "205", "0.62", "LOW", "no history",
		"How much rice", "You said", "assumed lunch", "cooked weight", "USDA",
		"input_clarity 0.50", "1.", "Large portion of rice", "266 kcal", "llama3.2",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatAnalysis_ConfidentResponseOmitsAlternatives(t *testing.T) {
	out := FormatAnalysis(domain.ExplainableResponse{
		Response:          "Logged 2 eggs.",
		ConfidenceScore:   0.91,
		ConfidenceLevel:   domain.ConfidenceVeryHigh,
		ConfidenceFactors: domain.ConfidenceFactors{HistoricalAccuracy: domain.Float(0.9)},
	})
	assert.NotContains(t, out, "DID YOU MEAN")
	assert.NotContains(t, out, "no history")
	assert.Contains(t, out, "0.90")
}

func TestFormatTemplateShow(t *testing.T) {
	tmpl := &domain.PromptTemplate{
		ID:                  "abc",
		Name:                "food_log_parser",
		Description:         "Parse logs",
		SystemPrompt:        "You are a nutrition assistant.",
		UserPromptTemplate:  "Parse: {user_input}",
		RequiredContextKeys: []string{"user_input"},
		JSONSchema:          map[string]any{"type": "object"},
		DefaultTemperature:  0.1,
		DefaultMaxTokens:    1024,
		ResponseFormat:      domain.FormatJSON,
		Version:             "1.2",
		Tags:                []string{"parsing"},
		UsageCount:          7,
		UpdatedAt:           time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	out := FormatTemplateShow(tmpl)
	for _, want := range []string{
		"food_log_parser", "active", "1.2", "1024", "user_input", "parsing",
		"2026-03-14 09:30", "Parse: {user_input}", `"type": "object"`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatTemplateList(t *testing.T) {
	out := FormatTemplateList([]*domain.PromptTemplate{
		{Name: "a_template", Version: "1.0", ResponseFormat: domain.FormatText, IsActive: true, UsageCount: 3},
		{Name: "b_template", Version: "2.0", ResponseFormat: domain.FormatJSON, Tags: []string{"x", "y"}},
	})
	for _, want := range []string{"PROMPT TEMPLATES", "a_template", "b_template", "inactive", "x, y"} {
		assert.Contains(t, out, want)
	}
}

func TestFormatHistory(t *testing.T) {
	out := FormatHistory("u1", &domain.UserHistory{
		FeedbackSummary: domain.FeedbackSummary{TotalInteractions: 4, Corrections: 1},
		CorrectionHistory: []domain.Correction{
			{Category: domain.ClassificationMeal, Correction: "it was lunch"},
		},
	})
	assert.Contains(t, out, "u1")
	assert.Contains(t, out, "0.75")
	assert.Contains(t, out, "it was lunch")
}

func TestFormatUserContext(t *testing.T) {
	out := FormatUserContext("u1", &domain.UserContext{
		DailyCalorieGoal:      domain.Float(2000),
		CaloriesConsumedToday: 500,
		Preferences:           map[string]any{"diet": "vegetarian"},
	})
	assert.Contains(t, out, "2000")
	assert.Contains(t, out, "0.25")
	assert.Contains(t, out, "diet: vegetarian")
}
