package testutil

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/nutrilog/internal/docstore"
)

// FailingStore wraps a Store and injects Err into chosen write operations.
// Collections match by prefix, so "prompt_templates/" covers every
// template's version history.
type FailingStore struct {
	docstore.Store
	Err error

	// FailIncrement makes every Increment fail.
	FailIncrement bool
	// FailSetPrefix makes Set fail for collections starting with it.
	FailSetPrefix string
	// FailQuery makes every Query fail.
	FailQuery bool

	Increments atomic.Int32
}

func (f *FailingStore) Set(ctx context.Context, collection, id string, data any) error {
	if f.FailSetPrefix != "" && strings.HasPrefix(collection, f.FailSetPrefix) {
		return f.Err
	}
	return f.Store.Set(ctx, collection, id, data)
}

func (f *FailingStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	f.Increments.Add(1)
	if f.FailIncrement {
		return f.Err
	}
	return f.Store.Increment(ctx, collection, id, field, delta)
}

func (f *FailingStore) Query(ctx context.Context, collection string, q docstore.Query) (docstore.Iterator, error) {
	if f.FailQuery {
		return nil, f.Err
	}
	return f.Store.Query(ctx, collection, q)
}
