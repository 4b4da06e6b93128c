package intelligence

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

// DataSource identifies where nutrition figures came from.
type DataSource int

const (
	SourceUSDA DataSource = iota
	SourceUserHistory
	SourceTypicalPortions
	SourceLLMKnowledge
	SourceUserPreferences
)

func (s DataSource) String() string {
	switch s {
	case SourceUSDA:
		return "USDA FoodData Central"
	case SourceUserHistory:
		return "Your previous logs"
	case SourceTypicalPortions:
		return "Standard serving sizes"
	case SourceLLMKnowledge:
		return "AI nutritional knowledge base"
	case SourceUserPreferences:
		return "Your saved preferences"
	default:
		return "unknown"
	}
}

const noAssumptions = "No major assumptions made"

var (
	explicitMealWords = []string{"breakfast", "lunch", "dinner"}
	contextMealWords  = []string{"breakfast", "lunch", "dinner", "snack", "ate", "had"}
	workoutWords      = []string{"ran", "jogged", "workout", "exercise", "gym", "lifted"}
	waterWords        = []string{"water", "glass", "ml"}
	supplementWords   = []string{"vitamin", "protein", "supplement", "pill", "capsule"}
	meatWords         = []string{"chicken", "beef", "fish", "turkey"}
	grainWords        = []string{"rice", "pasta", "quinoa", "oats"}
)

// ResponseExplainer describes, in plain language, how a log entry was interpreted.
type ResponseExplainer struct {
	now func() time.Time
}

func NewResponseExplainer(now func() time.Time) *ResponseExplainer {
	if now == nil {
		now = time.Now
	}
	return &ResponseExplainer{now: now}
}

// ExplainClassification builds the full explanation for one user turn.
// userCtx may be nil.
func (e *ResponseExplainer) ExplainClassification(
	userInput string,
	items []domain.ItemRecord,
	classification domain.Classification,
	confidenceScore float64,
	userCtx *domain.UserContext,
) domain.ResponseExplanation {
	hour := e.now().UTC().Hour()
	return domain.ResponseExplanation{
		Reasoning:             reasoningSteps(userInput, items, classification, userCtx),
		DataSources:           dataSourceNames(items, userCtx),
		Assumptions:           assumptions(items, userInput, hour),
		WhyThisClassification: classificationReason(userInput, classification, hour),
		ConfidenceBreakdown:   confidenceBreakdown(userInput, items, confidenceScore),
	}
}

func reasoningSteps(userInput string, items []domain.ItemRecord, classification domain.Classification, userCtx *domain.UserContext) string {
	steps := []string{fmt.Sprintf("1. You said: '%s'", userInput)}

	if len(items) > 0 {
		d := items[0].Data
		name := d.ItemOr("item")
		if d.Quantity != "" {
			steps = append(steps, fmt.Sprintf("2. Identified '%s %s' as food item", d.Quantity, name))
		} else {
			steps = append(steps, fmt.Sprintf("2. Identified '%s' as food item", name))
		}
	} else {
		steps = append(steps, "2. Parsed your input to understand intent")
	}

	steps = append(steps, fmt.Sprintf("3. Classified as '%s' based on context", classification))

	if len(items) > 0 {
		if d := items[0].Data; d.HasCalories() {
			steps = append(steps,
				"4. Looked up nutritional data",
				fmt.Sprintf("5. Calculated %d total calories", int(*d.Calories)))
		} else {
			steps = append(steps, "4. Estimated nutritional values")
		}
	}

	if userCtx != nil && userCtx.DailyCalorieGoal != nil && *userCtx.DailyCalorieGoal != 0 {
		remaining := *userCtx.DailyCalorieGoal - userCtx.CaloriesConsumedToday
		steps = append(steps, fmt.Sprintf("6. Checked progress: %d calories remaining today", int(remaining)))
	}

	return strings.Join(steps, "\n")
}

func dataSources(items []domain.ItemRecord, userCtx *domain.UserContext) []DataSource {
	var sources []DataSource
	if len(items) > 0 && items[0].Data.HasCalories() {
		sources = append(sources, SourceUSDA)
	}
	if userCtx != nil {
		if len(userCtx.RecentMeals) > 0 {
			sources = append(sources, SourceUserHistory)
		}
		if len(userCtx.Preferences) > 0 {
			sources = append(sources, SourceUserPreferences)
		}
	}
	if len(sources) == 0 {
		sources = append(sources, SourceLLMKnowledge)
	}
	if len(items) > 0 && items[0].Data.Quantity == "" {
		sources = append(sources, SourceTypicalPortions)
	}
	return sources
}

func dataSourceNames(items []domain.ItemRecord, userCtx *domain.UserContext) []string {
	sources := dataSources(items, userCtx)
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.String()
	}
	return names
}

func assumptions(items []domain.ItemRecord, userInput string, hour int) []string {
	if len(items) == 0 {
		return []string{"No specific assumptions - awaiting more information"}
	}
	d := items[0].Data
	food := strings.ToLower(d.Item)
	input := strings.ToLower(userInput)

	var out []string
	if strings.Contains(food, "egg") && !strings.Contains(input, "large") && !strings.Contains(input, "small") {
		out = append(out, "Assumed medium-sized eggs (typical for calculations)")
	}
	if countPresent(food, meatWords) > 0 && !strings.Contains(input, "fried") && !strings.Contains(input, "oil") {
		out = append(out, "Assumed grilled/baked (no added fats)")
	}
	if d.Quantity == "" {
		out = append(out, "Assumed standard serving size")
	}
	if countPresent(input, explicitMealWords) == 0 {
		// Late-night hours add no timing assumption.
		if meal := domain.InferMealTypeFromHour(hour); meal != domain.MealSnack {
			out = append(out, fmt.Sprintf("Assumed %s based on current time", meal))
		}
	}
	if countPresent(food, grainWords) > 0 && !strings.Contains(input, "raw") && !strings.Contains(input, "dry") {
		out = append(out, "Assumed cooked weight (not dry/raw)")
	}

	if len(out) == 0 {
		return []string{noAssumptions}
	}
	return out
}

func classificationReason(userInput string, classification domain.Classification, hour int) string {
	input := strings.ToLower(userInput)
	switch classification {
	case domain.ClassificationMeal:
		if countPresent(input, contextMealWords) > 0 {
			return fmt.Sprintf("You used meal-related keywords ('%s')", userInput)
		}
		switch domain.InferMealTypeFromHour(hour) {
		case domain.MealBreakfast:
			return "It's morning, so I assumed breakfast"
		case domain.MealLunch:
			return "It's afternoon, so I assumed lunch"
		case domain.MealDinner:
			return "It's evening, so I assumed dinner"
		default:
			return "You mentioned food, classified as late-night snack"
		}
	case domain.ClassificationWorkout:
		if countPresent(input, workoutWords) > 0 {
			return "You used workout-related keywords"
		}
		return "Classified as workout based on activity description"
	case domain.ClassificationWater:
		if countPresent(input, waterWords) > 0 {
			return "You mentioned water intake"
		}
		return "Classified as hydration based on liquid mention"
	case domain.ClassificationSupplement:
		if countPresent(input, supplementWords) > 0 {
			return "You mentioned supplements or vitamins"
		}
		return "Classified as supplement based on keywords"
	default:
		return fmt.Sprintf("Classified as '%s' based on context analysis", classification)
	}
}

// confidenceBreakdown is a coarse display view re-derived from the input,
// independent of the scorer's factors. "overall" mirrors the given score.
func confidenceBreakdown(userInput string, items []domain.ItemRecord, overall float64) map[string]float64 {
	words := len(strings.Fields(userInput))

	clarity := 0.5
	switch {
	case words > 2 && containsDigit(userInput):
		clarity = 0.9
	case words > 1:
		clarity = 0.7
	}

	quality := 0.4
	if len(items) > 0 {
		d := items[0].Data
		switch {
		case d.HasProtein() && d.HasCarbs():
			quality = 0.95
		case d.HasCalories():
			quality = 0.8
		default:
			quality = 0.6
		}
	}

	match := 0.7
	if countPresent(strings.ToLower(userInput), contextMealWords) > 0 {
		match = 0.9
	}

	return map[string]float64{
		"input_clarity": clarity,
		"data_quality":  quality,
		"context_match": match,
		"overall":       overall,
	}
}
