package intelligence

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

// ClarificationThreshold is the score below which the user is asked to clarify.
// It coincides with the lower bound of the medium confidence level.
const ClarificationThreshold = 0.7

const (
	defaultModelCertainty     = 0.75
	defaultHistoricalAccuracy = 0.7
	emptyItemsCompleteness    = 0.3
)

type ScoringWeights struct {
	InputClarity       float64
	DataCompleteness   float64
	ModelCertainty     float64
	HistoricalAccuracy float64
}

func defaultWeights() ScoringWeights {
	return ScoringWeights{
		InputClarity:       0.3,
		DataCompleteness:   0.3,
		ModelCertainty:     0.2,
		HistoricalAccuracy: 0.2,
	}
}

var (
	ambiguousKeywords     = []string{"maybe", "probably", "around", "about", "roughly", "approximately"}
	vagueQuantities       = []string{"some", "a few", "a bit", "little", "lot"}
	vagueInputPatterns    = []string{"something", "stuff", "things", "food", "ate"}
	uncertaintyIndicators = []string{"not sure", "unclear", "might be", "could be", "possibly", "maybe", "uncertain", "ambiguous"}

	quantityWithUnit = regexp.MustCompile(`\d+\s*(g|kg|oz|cup|tbsp|ml|l)\b`)
)

// ConfidenceScorer turns a parsed user log into a confidence score from four
// independent heuristics. It holds no mutable state and is safe for concurrent use.
type ConfidenceScorer struct {
	weights ScoringWeights
}

func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{weights: defaultWeights()}
}

// CalculateConfidence returns the weighted score and the factors behind it.
// llmResponse and history may be nil.
func (s *ConfidenceScorer) CalculateConfidence(
	userInput string,
	items []domain.ItemRecord,
	llmResponse map[string]any,
	history *domain.UserHistory,
) (float64, domain.ConfidenceFactors) {
	clarity := inputClarity(userInput)
	completeness := dataCompleteness(items)
	certainty := modelCertainty(llmResponse)
	accuracy := historicalAccuracy(history, items)

	score := clarity*s.weights.InputClarity +
		completeness*s.weights.DataCompleteness +
		certainty*s.weights.ModelCertainty +
		accuracy*s.weights.HistoricalAccuracy

	factors := domain.ConfidenceFactors{
		InputClarity:     clarity,
		DataCompleteness: completeness,
		ModelCertainty:   certainty,
	}
	// Reported only when history exists; the score used the default either way.
	if history != nil {
		factors.HistoricalAccuracy = domain.Float(accuracy)
	}
	return clamp(score, 0, 1), factors
}

// ShouldRequestClarification reports whether score is below the clarification threshold.
func (s *ConfidenceScorer) ShouldRequestClarification(score float64) bool {
	return score < ClarificationThreshold
}

// GenerateClarificationQuestion asks about the weakest of input clarity, data
// completeness and model certainty. Ties go to the earlier factor in that order.
func (s *ConfidenceScorer) GenerateClarificationQuestion(userInput string, items []domain.ItemRecord, factors domain.ConfidenceFactors) string {
	switch weakestFactor(factors) {
	case factorInputClarity:
		return clarifyInput(userInput, items)
	case factorDataCompleteness:
		return clarifyData(items)
	default:
		return clarifyGeneral(userInput)
	}
}

type scoringFactor int

const (
	factorInputClarity scoringFactor = iota
	factorDataCompleteness
	factorModelCertainty
)

func weakestFactor(f domain.ConfidenceFactors) scoringFactor {
	weakest, lowest := factorInputClarity, f.InputClarity
	if f.DataCompleteness < lowest {
		weakest, lowest = factorDataCompleteness, f.DataCompleteness
	}
	if f.ModelCertainty < lowest {
		weakest = factorModelCertainty
	}
	return weakest
}

func clarifyInput(userInput string, items []domain.ItemRecord) string {
	if len(items) == 0 {
		return fmt.Sprintf("I'm not sure I understood '%s' correctly. Can you be more specific? For example, '2 eggs for breakfast' or '1 cup of rice'.", userInput)
	}
	return fmt.Sprintf("Did you mean %s? If so, how much did you have? (e.g., '2 eggs' or '150g')", items[0].Data.ItemOr("that"))
}

func clarifyData(items []domain.ItemRecord) string {
	if len(items) == 0 {
		return "Can you tell me more about what you ate? Include quantity if possible."
	}
	return fmt.Sprintf("I found %s, but I'm not sure about the exact amount. Was it a standard serving, or can you specify the quantity?", items[0].Data.ItemOr("that item"))
}

func clarifyGeneral(userInput string) string {
	return fmt.Sprintf("I logged what I understood from '%s', but I'm not entirely certain. Does this look correct?", userInput)
}

// inputClarity penalises hedging and vague amounts and rewards explicit numbers and units.
func inputClarity(userInput string) float64 {
	lower := strings.ToLower(userInput)
	score := 1.0

	score -= 0.15 * float64(countPresent(lower, ambiguousKeywords))
	score -= 0.2 * float64(countPresent(lower, vagueQuantities))

	if containsDigit(userInput) {
		score += 0.1
	}
	if quantityWithUnit.MatchString(lower) {
		score += 0.1
	}
	if len([]rune(strings.TrimSpace(userInput))) < 5 {
		score -= 0.3
	}
	if countPresent(lower, vagueInputPatterns) > 0 && len(strings.Fields(userInput)) < 3 {
		score -= 0.3
	}
	return clamp(score, 0, 1)
}

func dataCompleteness(items []domain.ItemRecord) float64 {
	if len(items) == 0 {
		return emptyItemsCompleteness
	}
	var total float64
	for _, item := range items {
		total += itemCompleteness(item)
	}
	return total / float64(len(items))
}

func itemCompleteness(item domain.ItemRecord) float64 {
	d := item.Data
	score := 0.5
	if d.HasCalories() {
		score += 0.2
	}
	if d.HasProtein() {
		score += 0.1
	}
	if d.HasCarbs() {
		score += 0.1
	}
	if d.HasFat() {
		score += 0.1
	}
	if d.Quantity != "" {
		score += 0.1
	}
	if d.Preparation != "" {
		score += 0.05
	}
	if strings.Contains(strings.ToLower(item.Summary), "estimated") {
		score -= 0.2
	}
	return math.Min(score, 1)
}

// modelCertainty prefers an explicit "confidence" from the LLM and otherwise
// looks for hedging phrases anywhere in the response.
func modelCertainty(llmResponse map[string]any) float64 {
	if len(llmResponse) == 0 {
		return defaultModelCertainty
	}
	if raw, ok := llmResponse["confidence"]; ok {
		if v, ok := toFloat(raw); ok {
			return clamp(v, 0, 1)
		}
	}
	text := strings.ToLower(fmt.Sprint(llmResponse))
	certainty := 0.8 - 0.15*float64(countPresent(text, uncertaintyIndicators))
	return clamp(certainty, 0.3, 1)
}

func historicalAccuracy(history *domain.UserHistory, items []domain.ItemRecord) float64 {
	if history == nil || history.FeedbackSummary.TotalInteractions == 0 {
		return defaultHistoricalAccuracy
	}
	summary := history.FeedbackSummary
	rate := 1 - float64(summary.Corrections)/float64(summary.TotalInteractions)

	current := make(map[domain.Classification]bool, len(items))
	for _, item := range items {
		current[item.Category] = true
	}
	similar := 0
	for _, c := range history.CorrectionHistory {
		if current[c.Category] {
			similar++
		}
	}
	if similar > 3 {
		rate -= 0.15
	}
	return clamp(rate, 0.3, 1)
}

// countPresent counts how many of terms occur in s; repeats of one term count once.
func countPresent(s string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(s, t) {
			n++
		}
	}
	return n
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
