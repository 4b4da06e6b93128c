package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplate(t *testing.T, userTmpl string, opts ...TemplateOption) *PromptTemplate {
	t.Helper()
	tmpl, err := NewPromptTemplate("meal_planning", "plans meals", "You are a nutritionist.", userTmpl, opts...)
	require.NoError(t, err)
	return tmpl
}

func TestNewPromptTemplate_Defaults(t *testing.T) {
	tmpl := newTemplate(t, "Hello {name}")

	assert.NotEmpty(t, tmpl.ID)
	assert.Equal(t, 0.7, tmpl.DefaultTemperature)
	assert.Equal(t, 4000, tmpl.DefaultMaxTokens)
	assert.Equal(t, FormatText, tmpl.ResponseFormat)
	assert.Equal(t, "1.0", tmpl.Version)
	assert.True(t, tmpl.IsActive)
	assert.Zero(t, tmpl.UsageCount)
	assert.False(t, tmpl.CreatedAt.IsZero())
}

func TestNewPromptTemplate_Name(t *testing.T) {
	_, err := NewPromptTemplate("bad name!", "d", "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alphanumeric")

	tmpl, err := NewPromptTemplate("bad_name-1", "d", "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "bad_name-1", tmpl.Name)
}

func TestNewPromptTemplate_NameWithSurroundingSpaceRejected(t *testing.T) {
	_, err := NewPromptTemplate(" padded ", "d", "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alphanumeric")

	_, err = NewPromptTemplate("   ", "d", "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestNewPromptTemplate_Version(t *testing.T) {
	for _, bad := range []string{"v1.0", "1", "1.0.0.0", ""} {
		_, err := NewPromptTemplate("ok", "d", "s", "u", WithVersion(bad))
		assert.Error(t, err, "should reject %q", bad)
	}
	for _, good := range []string{"1.0", "2.1.3", "10.20"} {
		_, err := NewPromptTemplate("ok", "d", "s", "u", WithVersion(good))
		assert.NoError(t, err, "should accept %q", good)
	}
}

func TestNewPromptTemplate_ReportsEveryProblem(t *testing.T) {
	_, err := NewPromptTemplate("bad name", "d", "s", "u",
		WithVersion("v2"),
		WithResponseFormat("xml"),
		WithTemperature(3),
		WithMaxTokens(50),
	)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 5)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "version")
	assert.Contains(t, err.Error(), "response format")
	assert.Contains(t, err.Error(), "temperature")
	assert.Contains(t, err.Error(), "max tokens")
}

func TestExtractPlaceholders_OrderAndDuplicates(t *testing.T) {
	tmpl := newTemplate(t, "Plan for {num_days} days with {goal}.")
	assert.Equal(t, []string{"num_days", "goal"}, tmpl.ExtractPlaceholders())

	tmpl = newTemplate(t, "{a} then {b} then {a}")
	assert.Equal(t, []string{"a", "b", "a"}, tmpl.ExtractPlaceholders())

	tmpl = newTemplate(t, "no markers, {not valid} either")
	assert.Empty(t, tmpl.ExtractPlaceholders())
}

func TestValidateContext_MissingRequiredKey(t *testing.T) {
	tmpl := newTemplate(t, "Plan for {num_days} days", WithRequiredKeys("num_days", "user_id"))

	err := tmpl.ValidateContext(map[string]any{"num_days": 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing required context keys: user_id")
	assert.NotContains(t, err.Error(), "placeholders")
}

func TestValidateContext_MissingPlaceholderNotDeclaredRequired(t *testing.T) {
	tmpl := newTemplate(t, "Plan for {num_days} days with {goal}")

	err := tmpl.ValidateContext(map[string]any{"num_days": 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing context values for placeholders: goal")
}

func TestValidateContext_ReportsBothChecksJointly(t *testing.T) {
	tmpl := newTemplate(t, "{a} {b} {a}", WithRequiredKeys("x", "y"))

	err := tmpl.ValidateContext(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing required context keys: x, y")
	assert.Contains(t, err.Error(), "Missing context values for placeholders: a, b")
}

func TestRender_SubstitutesAllKeys(t *testing.T) {
	tmpl := newTemplate(t, "Generate a {num_days}-day plan for a {age}-year-old", WithRequiredKeys("num_days"))

	system, user, err := tmpl.Render(map[string]any{"num_days": 7, "age": 30, "unused": "x"})
	require.NoError(t, err)
	assert.Equal(t, "You are a nutritionist.", system)
	assert.Equal(t, "Generate a 7-day plan for a 30-year-old", user)
}

func TestRender_FailsNamingMissingKey(t *testing.T) {
	tmpl := newTemplate(t, "Hello {name}")

	_, _, err := tmpl.Render(map[string]any{"other": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestRender_ValuesAreNotReexpanded(t *testing.T) {
	tmpl := newTemplate(t, "{a} and {b}")

	_, user, err := tmpl.Render(map[string]any{"a": "{b}", "b": "bee"})
	require.NoError(t, err)
	assert.Equal(t, "{b} and bee", user)
}

func TestRender_RoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rendering with exactly the declared keys leaves no markers", prop.ForAll(
		func(keys []string, value string) bool {
			var sb strings.Builder
			context := make(map[string]any, len(keys))
			for _, k := range keys {
				sb.WriteString("text {" + k + "} ")
				context[k] = value
			}
			tmpl, err := NewPromptTemplate("prop", "d", "s", sb.String(), WithRequiredKeys(keys...))
			if err != nil {
				return false
			}
			_, user, err := tmpl.Render(context)
			if err != nil {
				return false
			}
			for _, k := range keys {
				if strings.Contains(user, "{"+k+"}") {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestClone_Independent(t *testing.T) {
	tmpl := newTemplate(t, "x", WithTags("a"), WithRequiredKeys("k"))
	c := tmpl.Clone()
	c.Tags[0] = "changed"
	c.RequiredContextKeys[0] = "changed"

	assert.Equal(t, "a", tmpl.Tags[0])
	assert.Equal(t, "k", tmpl.RequiredContextKeys[0])
}

func TestHasAnyTag(t *testing.T) {
	tmpl := newTemplate(t, "x", WithTags("meal", "v2"))
	assert.True(t, tmpl.HasAnyTag([]string{"workout", "meal"}))
	assert.False(t, tmpl.HasAnyTag([]string{"workout"}))
	assert.False(t, tmpl.HasAnyTag(nil))
}

func TestPromptUsageStats_SuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, PromptUsageStats{TotalUses: 0}.SuccessRate())
	assert.Equal(t, 95.0, PromptUsageStats{TotalUses: 100, SuccessfulUses: 95, FailedUses: 5}.SuccessRate())
}
