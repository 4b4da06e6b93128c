package llm

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

// ParsedLog is model output for one user message: the parsed items, an
// optional reply, and the raw mapping handed to the confidence scorer.
type ParsedLog struct {
	Items    []domain.ItemRecord
	Response string
	Raw      map[string]any
}

type parsedPayload struct {
	Items    []domain.ItemRecord `json:"items"`
	Response string              `json:"response"`

	// Single-item replies put the record at the top level.
	Category domain.Classification `json:"category"`
	Summary  string                `json:"summary"`
	Data     *domain.ItemData      `json:"data"`
}

// ParseLogResponse turns raw model text into a ParsedLog. Unknown
// categories become "other".
func ParseLogResponse(raw string) (*ParsedLog, error) {
	mapping, err := ExtractJSON[map[string]any](raw, nil)
	if err != nil {
		return nil, err
	}
	payload, err := ExtractJSON[parsedPayload](raw, validatePayload)
	if err != nil {
		return nil, err
	}

	items := payload.Items
	if len(items) == 0 && payload.Data != nil {
		items = []domain.ItemRecord{{Category: payload.Category, Summary: payload.Summary, Data: *payload.Data}}
	}
	for i := range items {
		items[i].Category = domain.ParseClassification(string(items[i].Category))
	}
	return &ParsedLog{Items: items, Response: payload.Response, Raw: mapping}, nil
}

func validatePayload(p parsedPayload) error {
	for i, item := range p.Items {
		if item.Category == "" {
			return fmt.Errorf("item %d has no category", i)
		}
	}
	if len(p.Items) == 0 && p.Data == nil && p.Response == "" {
		return errors.New("response has neither items nor a reply")
	}
	return nil
}
