package domain

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ItemRecord is one entry the LLM parsed out of a user's free-text log.
type ItemRecord struct {
	Category Classification `json:"category"`
	Summary  string         `json:"summary,omitempty"`
	Data     ItemData       `json:"data"`
}

// ItemData carries the nutrition/activity fields of a parsed item. Numeric
// fields are nil when the LLM did not supply them. Keys that are not modelled
// explicitly survive a decode/encode round trip through Extra.
type ItemData struct {
	Item        string
	Quantity    string
	Calories    *float64
	ProteinG    *float64
	CarbsG      *float64
	FatG        *float64
	MealType    MealType
	Preparation string
	PortionSize string
	Extra       map[string]any
}

// Float returns a pointer to v, for populating optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

func truthy(v *float64) bool {
	return v != nil && *v != 0
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func (d ItemData) HasCalories() bool { return truthy(d.Calories) }
func (d ItemData) HasProtein() bool  { return truthy(d.ProteinG) }
func (d ItemData) HasCarbs() bool    { return truthy(d.CarbsG) }
func (d ItemData) HasFat() bool      { return truthy(d.FatG) }

// CaloriesOr returns the calorie value, or fallback when absent.
func (d ItemData) CaloriesOr(fallback float64) float64 { return valueOr(d.Calories, fallback) }

// ProteinOr returns protein grams, or fallback when absent.
func (d ItemData) ProteinOr(fallback float64) float64 { return valueOr(d.ProteinG, fallback) }

// CarbsOr returns carbohydrate grams, or fallback when absent.
func (d ItemData) CarbsOr(fallback float64) float64 { return valueOr(d.CarbsG, fallback) }

// FatOr returns fat grams, or fallback when absent.
func (d ItemData) FatOr(fallback float64) float64 { return valueOr(d.FatG, fallback) }

// ItemOr returns the item name, or fallback when empty.
func (d ItemData) ItemOr(fallback string) string {
	if d.Item == "" {
		return fallback
	}
	return d.Item
}

// Clone returns a copy that shares no mutable state with d.
func (d ItemData) Clone() ItemData {
	out := d
	out.Calories = clonePtr(d.Calories)
	out.ProteinG = clonePtr(d.ProteinG)
	out.CarbsG = clonePtr(d.CarbsG)
	out.FatG = clonePtr(d.FatG)
	if d.Extra != nil {
		out.Extra = make(map[string]any, len(d.Extra))
		for k, v := range d.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

var knownItemKeys = map[string]bool{
	"item": true, "quantity": true, "calories": true, "protein_g": true,
	"carbs_g": true, "fat_g": true, "meal_type": true, "preparation": true,
	"portion_size": true,
}

// MarshalJSON flattens the explicit fields and the extension bag into one object.
func (d ItemData) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+9)
	for k, v := range d.Extra {
		if !knownItemKeys[k] {
			out[k] = v
		}
	}
	setString(out, "item", d.Item)
	setString(out, "quantity", d.Quantity)
	setString(out, "meal_type", string(d.MealType))
	setString(out, "preparation", d.Preparation)
	setString(out, "portion_size", d.PortionSize)
	setFloat(out, "calories", d.Calories)
	setFloat(out, "protein_g", d.ProteinG)
	setFloat(out, "carbs_g", d.CarbsG)
	setFloat(out, "fat_g", d.FatG)
	return json.Marshal(out)
}

// UnmarshalJSON accepts numbers or strings for quantity and keeps unknown keys in Extra.
func (d *ItemData) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = ItemData{}
	for k, v := range raw {
		var err error
		switch k {
		case "item":
			d.Item, err = decodeText(v)
		case "quantity":
			d.Quantity, err = decodeText(v)
		case "meal_type":
			var s string
			s, err = decodeText(v)
			d.MealType = MealType(strings.ToLower(s))
		case "preparation":
			d.Preparation, err = decodeText(v)
		case "portion_size":
			d.PortionSize, err = decodeText(v)
		case "calories":
			d.Calories, err = decodeNumber(v)
		case "protein_g":
			d.ProteinG, err = decodeNumber(v)
		case "carbs_g":
			d.CarbsG, err = decodeNumber(v)
		case "fat_g":
			d.FatG, err = decodeNumber(v)
		default:
			var val any
			if err = json.Unmarshal(v, &val); err == nil {
				if d.Extra == nil {
					d.Extra = make(map[string]any)
				}
				d.Extra[k] = val
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func setString(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func setFloat(m map[string]any, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

// decodeText reads a JSON string or number as text. Null, zero and false
// become "" so they read as absent.
func decodeText(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		if t == 0 {
			return "", nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		if !t {
			return "", nil
		}
		return strconv.FormatBool(t), nil
	default:
		return string(raw), nil
	}
}

// decodeNumber reads a JSON number (or numeric string); null stays absent.
func decodeNumber(raw json.RawMessage) (*float64, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &t, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, nil
		}
		return &f, nil
	default:
		return nil, nil
	}
}
