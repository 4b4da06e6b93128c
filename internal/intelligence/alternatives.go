package intelligence

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

// ErrInvalidAlternativeIndex is returned when a selection falls outside the shown alternatives.
var ErrInvalidAlternativeIndex = errors.New("invalid alternative index")

const (
	// AlternativesCutoff is the primary confidence at or above which no alternatives are offered.
	AlternativesCutoff = 0.85
	maxAlternatives    = 3
	maxTimingOptions   = 2
	defaultBaseCalorie = 100
)

var (
	vagueAmountWords = []string{"some", "a few", "a bit", "little", "lot", "bunch"}
	mealKeywords     = []string{"breakfast", "lunch", "dinner", "snack"}
	prepSubjects     = []string{"chicken", "beef", "fish", "eggs", "vegetables"}
	prepKeywords     = []string{"fried", "grilled", "baked", "boiled", "raw", "cooked", "steamed"}
	// Vegetables make preparation ambiguous but only meat and eggs get prep alternatives.
	prepAlternativeSubjects = []string{"chicken", "beef", "fish", "eggs"}
)

type portion struct {
	size        string
	multiplier  float64
	confidence  float64
	description string
}

var portionAlternatives = []portion{
	{size: "small", multiplier: 0.7, confidence: 0.65, description: "If you meant a small serving (70% of standard)"},
	{size: "large", multiplier: 1.3, confidence: 0.6, description: "If you meant a large serving (130% of standard)"},
}

type PrepMethod string

const (
	PrepFried   PrepMethod = "fried"
	PrepGrilled PrepMethod = "grilled"
	PrepSteamed PrepMethod = "steamed"
)

// prepMethods is ordered; only the first two are considered and grilled is the baseline.
var prepMethods = []PrepMethod{PrepFried, PrepGrilled, PrepSteamed}

func (p PrepMethod) multiplier() float64 {
	switch p {
	case PrepFried:
		return 1.4
	case PrepSteamed:
		return 0.95
	default:
		return 1.0
	}
}

func (p PrepMethod) explanation() string {
	switch p {
	case PrepFried:
		return "If fried in oil (adds ~40% calories from fat)"
	case PrepSteamed:
		return "If steamed (minimal calories added)"
	default:
		return "If grilled without added fat (standard)"
	}
}

// AlternativeGenerator proposes other readings of an uncertain log entry.
type AlternativeGenerator struct {
	now func() time.Time
}

type GeneratorOption func(*AlternativeGenerator)

// WithClock overrides the wall clock used to infer meal timing.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *AlternativeGenerator) { g.now = now }
}

func NewAlternativeGenerator(opts ...GeneratorOption) *AlternativeGenerator {
	g := &AlternativeGenerator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateAlternatives returns up to three alternatives sorted by confidence,
// or none when the primary reading is already confident enough.
func (g *AlternativeGenerator) GenerateAlternatives(userInput string, primary domain.ItemData, primaryConfidence float64, _ *domain.UserContext) []domain.AlternativeInterpretation {
	if primaryConfidence >= AlternativesCutoff {
		return nil
	}

	var alts []domain.AlternativeInterpretation
	if hasQuantityAmbiguity(userInput) {
		alts = append(alts, quantityAlternatives(primary)...)
	}
	if hasTimingAmbiguity(userInput) {
		alts = append(alts, timingAlternatives(primary, g.now().UTC().Hour())...)
	}
	if hasPreparationAmbiguity(userInput) {
		alts = append(alts, preparationAlternatives(primary)...)
	}

	sort.SliceStable(alts, func(i, j int) bool {
		return alts[i].Confidence > alts[j].Confidence
	})
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	return alts
}

// SelectAlternative builds the selection record for the chosen alternative.
// Persisting it is the caller's job.
func (g *AlternativeGenerator) SelectAlternative(selectedIndex int, alts []domain.AlternativeInterpretation, userID string) (*domain.SelectionRecord, error) {
	if selectedIndex < 0 || selectedIndex >= len(alts) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAlternativeIndex, selectedIndex)
	}
	selected := alts[selectedIndex]
	return &domain.SelectionRecord{
		UserID:                 userID,
		SelectedInterpretation: selected.Interpretation,
		SelectedData:           selected.Data.Clone(),
		AlternativesShown:      append([]domain.AlternativeInterpretation(nil), alts...),
		Timestamp:              g.now().UTC(),
	}, nil
}

func hasQuantityAmbiguity(userInput string) bool {
	return countPresent(strings.ToLower(userInput), vagueAmountWords) > 0 || !containsDigit(userInput)
}

func hasTimingAmbiguity(userInput string) bool {
	return countPresent(strings.ToLower(userInput), mealKeywords) == 0
}

func hasPreparationAmbiguity(userInput string) bool {
	lower := strings.ToLower(userInput)
	return countPresent(lower, prepSubjects) > 0 && countPresent(lower, prepKeywords) == 0
}

func quantityAlternatives(primary domain.ItemData) []domain.AlternativeInterpretation {
	base := primary.CaloriesOr(defaultBaseCalorie)
	item := primary.ItemOr("item")

	out := make([]domain.AlternativeInterpretation, 0, len(portionAlternatives))
	for _, p := range portionAlternatives {
		data := primary.Clone()
		data.Calories = domain.Float(float64(int(base * p.multiplier)))
		data.ProteinG = domain.Float(primary.ProteinOr(0) * p.multiplier)
		data.CarbsG = domain.Float(primary.CarbsOr(0) * p.multiplier)
		data.FatG = domain.Float(primary.FatOr(0) * p.multiplier)
		data.PortionSize = p.size
		out = append(out, domain.AlternativeInterpretation{
			Interpretation: fmt.Sprintf("%s portion of %s", capitalize(p.size), item),
			Confidence:     p.confidence,
			Explanation:    p.description,
			Data:           data,
		})
	}
	return out
}

func timingAlternatives(primary domain.ItemData, hour int) []domain.AlternativeInterpretation {
	current := primary.MealType
	if current == "" {
		current = domain.InferMealTypeFromHour(hour)
	}
	item := primary.ItemOr("item")

	var out []domain.AlternativeInterpretation
	for _, meal := range domain.MealTypes {
		if meal == current {
			continue
		}
		if len(out) == maxTimingOptions {
			break
		}
		data := primary.Clone()
		data.MealType = meal
		out = append(out, domain.AlternativeInterpretation{
			Interpretation: fmt.Sprintf("%s as %s", capitalize(item), meal),
			Confidence:     0.7 - float64(len(out))*0.1,
			Explanation:    fmt.Sprintf("If you had this for %s instead", meal),
			Data:           data,
		})
	}
	return out
}

func preparationAlternatives(primary domain.ItemData) []domain.AlternativeInterpretation {
	item := strings.ToLower(primary.Item)
	if countPresent(item, prepAlternativeSubjects) == 0 {
		return nil
	}
	base := primary.CaloriesOr(defaultBaseCalorie)

	var out []domain.AlternativeInterpretation
	for _, method := range prepMethods[:2] {
		if method == PrepGrilled {
			continue
		}
		data := primary.Clone()
		data.Calories = domain.Float(float64(int(base * method.multiplier())))
		data.FatG = domain.Float(primary.FatOr(0) * method.multiplier())
		data.Preparation = string(method)
		out = append(out, domain.AlternativeInterpretation{
			Interpretation: fmt.Sprintf("%s %s", capitalize(string(method)), item),
			Confidence:     0.65,
			Explanation:    method.explanation(),
			Data:           data,
		})
	}
	if len(out) > 1 {
		out = out[:1]
	}
	return out
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
