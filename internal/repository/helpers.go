package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/nutrilog/internal/docstore"
)

// queryAll runs q against collection and decodes every match into a new T.
func queryAll[T any](ctx context.Context, store docstore.Store, collection string, q docstore.Query) ([]*T, error) {
	it, err := store.Query(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	docs, err := docstore.Collect(ctx, it)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", collection, err)
	}
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		v := new(T)
		if err := doc.Decode(v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// getOne fetches and decodes a single document.
func getOne[T any](ctx context.Context, store docstore.Store, collection, id string) (*T, error) {
	doc, err := store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	v := new(T)
	if err := doc.Decode(v); err != nil {
		return nil, err
	}
	return v, nil
}
