package domain

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemData_DecodeKeepsExtraKeys(t *testing.T) {
	raw := `{"item":"eggs","quantity":2,"calories":140,"protein_g":"12","fat_g":null,"brand":"farm","meal_type":"Breakfast"}`

	var d ItemData
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.Equal(t, "eggs", d.Item)
	assert.Equal(t, "2", d.Quantity)
	require.NotNil(t, d.Calories)
	assert.Equal(t, 140.0, *d.Calories)
	require.NotNil(t, d.ProteinG)
	assert.Equal(t, 12.0, *d.ProteinG)
	assert.Nil(t, d.FatG)
	assert.Equal(t, MealBreakfast, d.MealType)
	assert.Equal(t, "farm", d.Extra["brand"])
}

func TestItemData_DecodeFalsyTextIsAbsent(t *testing.T) {
	for _, raw := range []string{
		`{"item":"rice","quantity":0}`,
		`{"item":"rice","quantity":false}`,
		`{"item":"rice","quantity":null}`,
		`{"item":"rice","quantity":""}`,
	} {
		var d ItemData
		require.NoError(t, json.Unmarshal([]byte(raw), &d), raw)
		assert.Empty(t, d.Quantity, raw)
	}

	var d ItemData
	require.NoError(t, json.Unmarshal([]byte(`{"quantity":0.5}`), &d))
	assert.Equal(t, "0.5", d.Quantity)
}

func TestItemData_EncodeFlattensExtra(t *testing.T) {
	d := ItemData{Item: "rice", Calories: Float(200), Extra: map[string]any{"brand": "x", "item": "shadowed"}}

	b, err := json.Marshal(d)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "rice", m["item"])
	assert.Equal(t, 200.0, m["calories"])
	assert.Equal(t, "x", m["brand"])
	assert.NotContains(t, m, "protein_g")
}

func TestItemData_Truthiness(t *testing.T) {
	d := ItemData{Calories: Float(0), ProteinG: Float(3)}
	assert.False(t, d.HasCalories())
	assert.True(t, d.HasProtein())
	assert.False(t, d.HasCarbs())
	assert.Equal(t, 100.0, ItemData{}.CaloriesOr(100))
}

func TestItemData_CloneDoesNotAlias(t *testing.T) {
	d := ItemData{Calories: Float(100), Extra: map[string]any{"k": 1}}
	c := d.Clone()
	*c.Calories = 5
	c.Extra["k"] = 2

	assert.Equal(t, 100.0, *d.Calories)
	assert.Equal(t, 1, d.Extra["k"])
}
