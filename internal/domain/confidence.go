package domain

type ConfidenceLevel string

const (
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceVeryLow  ConfidenceLevel = "very_low"
)

// ConfidenceLevelFor buckets a score. Buckets are closed-open except the top one.
func ConfidenceLevelFor(score float64) ConfidenceLevel {
	switch {
	case score >= 0.9:
		return ConfidenceVeryHigh
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.7:
		return ConfidenceMedium
	case score >= 0.5:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// ConfidenceFactors are the four sub-scores behind a confidence score.
// HistoricalAccuracy is nil when no user history was available, even though
// the overall score still used a default for it.
type ConfidenceFactors struct {
	InputClarity       float64  `json:"input_clarity"`
	DataCompleteness   float64  `json:"data_completeness"`
	ModelCertainty     float64  `json:"model_certainty"`
	HistoricalAccuracy *float64 `json:"historical_accuracy"`
}

type AlternativeInterpretation struct {
	Interpretation string   `json:"interpretation"`
	Confidence     float64  `json:"confidence"`
	Explanation    string   `json:"explanation"`
	Data           ItemData `json:"data"`
}

type ResponseExplanation struct {
	Reasoning             string             `json:"reasoning"`
	DataSources           []string           `json:"data_sources"`
	Assumptions           []string           `json:"assumptions"`
	WhyThisClassification string             `json:"why_this_classification"`
	ConfidenceBreakdown   map[string]float64 `json:"confidence_breakdown"`
}

// ExplainableResponse is the payload attached to an outward chat response.
type ExplainableResponse struct {
	Response              string                      `json:"response"`
	Items                 []ItemRecord                `json:"items"`
	ConfidenceScore       float64                     `json:"confidence_score"`
	ConfidenceLevel       ConfidenceLevel             `json:"confidence_level"`
	ConfidenceFactors     ConfidenceFactors           `json:"confidence_factors"`
	Explanation           ResponseExplanation         `json:"explanation"`
	Alternatives          []AlternativeInterpretation `json:"alternatives"`
	NeedsClarification    bool                        `json:"needs_clarification"`
	ClarificationQuestion string                      `json:"clarification_question,omitempty"`
	ModelUsed             string                      `json:"model_used,omitempty"`
	ProcessingTimeMs      int64                       `json:"processing_time_ms"`
}
