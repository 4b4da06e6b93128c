package domain

// Classification is the category the LLM assigned to a parsed item.
type Classification string

const (
	ClassificationMeal       Classification = "meal"
	ClassificationWorkout    Classification = "workout"
	ClassificationWater      Classification = "water"
	ClassificationSupplement Classification = "supplement"
	ClassificationOther      Classification = "other"
)

// ParseClassification maps free text to a known classification, defaulting to other.
func ParseClassification(s string) Classification {
	switch c := Classification(s); c {
	case ClassificationMeal, ClassificationWorkout, ClassificationWater, ClassificationSupplement:
		return c
	default:
		return ClassificationOther
	}
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists meal types in the order alternatives are offered.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// InferMealTypeFromHour maps an hour of day (0-23) to the meal usually eaten then:
// [6,11) breakfast, [11,16) lunch, [16,22) dinner, anything else a snack.
func InferMealTypeFromHour(hour int) MealType {
	switch {
	case hour >= 6 && hour < 11:
		return MealBreakfast
	case hour >= 11 && hour < 16:
		return MealLunch
	case hour >= 16 && hour < 22:
		return MealDinner
	default:
		return MealSnack
	}
}

type FeedbackRating string

const (
	RatingHelpful    FeedbackRating = "helpful"
	RatingNotHelpful FeedbackRating = "not_helpful"
	RatingIncorrect  FeedbackRating = "incorrect"
)

func (r FeedbackRating) Valid() bool {
	switch r {
	case RatingHelpful, RatingNotHelpful, RatingIncorrect:
		return true
	}
	return false
}

type ResponseFormat string

const (
	FormatText ResponseFormat = "text"
	FormatJSON ResponseFormat = "json"
)

func (f ResponseFormat) Valid() bool {
	return f == FormatText || f == FormatJSON
}
