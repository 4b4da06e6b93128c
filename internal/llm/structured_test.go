package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Item       string  `json:"item"`
	Confidence float64 `json:"confidence"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	result, err := ExtractJSON[testPayload](`{"item":"oatmeal","confidence":0.95}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "oatmeal", result.Item)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestExtractJSON_FencedWithProse(t *testing.T) {
	raw := "Here is the log:\n```json\n{\"item\":\"banana\",\"confidence\":0.88}\n```\nHope that helps!"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "banana", result.Item)
	assert.Equal(t, 0.88, result.Confidence)
}

func TestExtractJSON_NestedAndBracesInStrings(t *testing.T) {
	type nested struct {
		Item string            `json:"item"`
		Data map[string]string `json:"data"`
	}
	raw := `noise {"item":"curly {fries}","data":{"note":"a \"quoted\" }"}} trailing {"other":1}`
	result, err := ExtractJSON[nested](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "curly {fries}", result.Item)
	assert.Equal(t, `a "quoted" }`, result.Data["note"])
}

func TestExtractJSON_CommentsAndLeadingDecimals(t *testing.T) {
	raw := `{
		// model commentary
		"item": "toast // not a comment",
		/* block
		   comment */
		"confidence": .8
	}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "toast // not a comment", result.Item)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestExtractJSON_NegativeLeadingDecimal(t *testing.T) {
	type delta struct {
		Change float64 `json:"change"`
	}
	result, err := ExtractJSON[delta](`{"change": -.25}`, nil)
	require.NoError(t, err)
	assert.Equal(t, -0.25, result.Change)
}

func TestExtractJSON_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json", "I don't know what you mean."},
		{"unbalanced", `{"item":"rice"`},
		{"invalid", `{"item":"rice", broken}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractJSON[testPayload](tc.raw, nil)
			assert.ErrorIs(t, err, ErrInvalidOutput)
		})
	}
}

func TestExtractJSON_Validator(t *testing.T) {
	validator := func(p testPayload) error {
		if p.Confidence < 0 || p.Confidence > 1 {
			return errors.New("confidence out of range")
		}
		return nil
	}

	_, err := ExtractJSON(`{"item":"rice","confidence":1.5}`, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")

	result, err := ExtractJSON(`{"item":"rice","confidence":0.9}`, validator)
	require.NoError(t, err)
	assert.Equal(t, "rice", result.Item)
}
