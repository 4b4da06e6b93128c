// Package docstore is a small document/collection store: get, overwrite,
// merge, atomic increment and ordered equality queries over JSON-shaped
// documents. SQLite and MongoDB backends implement it.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

var ErrNotFound = errors.New("document not found")

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Filter matches documents whose top-level Field equals Value.
type Filter struct {
	Field string
	Value any
}

type Query struct {
	Where     []Filter
	OrderBy   string
	Direction Direction
	// Limit caps the result count; zero means no limit.
	Limit int
}

// Where is shorthand for a single-filter query.
func Where(field string, value any) Query {
	return Query{Where: []Filter{{Field: field, Value: value}}}
}

// Document is one stored record. Data never contains the id.
type Document struct {
	ID   string
	Data map[string]any
}

// Decode copies the document's fields into v, which must be a pointer.
func (d Document) Decode(v any) error {
	b, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding document %s: %w", d.ID, err)
	}
	return nil
}

// Iterator streams query results. Next returns false once exhausted.
type Iterator interface {
	Next(ctx context.Context) (Document, bool, error)
	Close() error
}

type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set overwrites the whole document, creating it when absent.
	Set(ctx context.Context, collection, id string, data any) error
	// Update merges top-level fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Increment atomically adds delta to a numeric field, treating a missing field as 0.
	Increment(ctx context.Context, collection, id, field string, delta int64) error
	Query(ctx context.Context, collection string, q Query) (Iterator, error)
	Close(ctx context.Context) error
}

// Collect drains it into a slice and closes it.
func Collect(ctx context.Context, it Iterator) ([]Document, error) {
	defer it.Close()
	var docs []Document
	for {
		doc, ok, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return docs, nil
		}
		docs = append(docs, doc)
	}
}

// SubCollection builds the path of a collection nested under a document.
func SubCollection(parent, id, child string) string {
	return strings.Join([]string{parent, id, child}, "/")
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateField(field string) error {
	if !fieldPattern.MatchString(field) {
		return fmt.Errorf("invalid field name %q", field)
	}
	return nil
}

func validateQuery(q Query) error {
	for _, f := range q.Where {
		if err := validateField(f.Field); err != nil {
			return err
		}
	}
	if q.OrderBy != "" {
		if err := validateField(q.OrderBy); err != nil {
			return err
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("negative limit %d", q.Limit)
	}
	return nil
}

// toMap normalises a struct or map into the JSON object shape stored by backends.
func toMap(data any) (map[string]any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("document must encode to a JSON object: %w", err)
	}
	if out == nil {
		return nil, errors.New("document must encode to a JSON object")
	}
	return out, nil
}

type sliceIterator struct {
	docs []Document
	pos  int
}

func (s *sliceIterator) Next(ctx context.Context) (Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, false, err
	}
	if s.pos >= len(s.docs) {
		return Document{}, false, nil
	}
	d := s.docs[s.pos]
	s.pos++
	return d, true, nil
}

func (s *sliceIterator) Close() error { return nil }
