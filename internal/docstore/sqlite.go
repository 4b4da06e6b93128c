package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/nutrilog/internal/db"
	"github.com/goccy/go-json"
)

// SQLiteStore keeps every collection in one documents table with JSON bodies.
type SQLiteStore struct {
	db  *sql.DB
	uow db.UnitOfWork
}

func NewSQLiteStore(database *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// OpenSQLiteStore opens (and migrates) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	database, err := db.OpenDB(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(database), nil
}

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (Document, error) {
	return getDoc(ctx, s.db, collection, id)
}

func getDoc(ctx context.Context, q db.DBTX, collection, id string) (Document, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("getting %s/%s: %w", collection, id, err)
	}
	return decodeRow(id, raw)
}

func decodeRow(id, raw string) (Document, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return Document{}, fmt.Errorf("decoding %s: %w", id, err)
	}
	return Document{ID: id, Data: data}, nil
}

func (s *SQLiteStore) Set(ctx context.Context, collection, id string, data any) error {
	m, err := toMap(data)
	if err != nil {
		return err
	}
	return putDoc(ctx, s.db, collection, id, m)
}

func putDoc(ctx context.Context, q db.DBTX, collection, id string, data map[string]any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, id, err)
	}
	now := timestamp()
	_, err = q.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, id, string(b), now, now,
	)
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := toMap(fields)
	if err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		doc, err := getDoc(ctx, tx, collection, id)
		if err != nil {
			return err
		}
		for k, v := range patch {
			doc.Data[k] = v
		}
		return putDoc(ctx, tx, collection, id, doc.Data)
	})
}

func (s *SQLiteStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	if err := validateField(field); err != nil {
		return err
	}
	path := "$." + field
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents
		 SET data = json_set(data, ?, COALESCE(json_extract(data, ?), 0) + ?), updated_at = ?
		 WHERE collection = ? AND id = ?`,
		path, path, delta, timestamp(), collection, id,
	)
	if err != nil {
		return fmt.Errorf("incrementing %s on %s/%s: %w", field, collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("incrementing %s on %s/%s: %w", field, collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// Query reads all matches up front; result sets here are small.
func (s *SQLiteStore) Query(ctx context.Context, collection string, q Query) (Iterator, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	var sb strings.Builder
	args := []any{collection}
	sb.WriteString(`SELECT id, data FROM documents WHERE collection = ?`)
	for _, f := range q.Where {
		fmt.Fprintf(&sb, ` AND json_extract(data, '$.%s') = ?`, f.Field)
		args = append(args, sqliteValue(f.Value))
	}
	if q.OrderBy != "" {
		dir := "ASC"
		if q.Direction == Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, ` ORDER BY json_extract(data, '$.%s') %s, id %s`, q.OrderBy, dir, dir)
	} else {
		sb.WriteString(` ORDER BY id`)
	}
	if q.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", collection, err)
		}
		doc, err := decodeRow(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", collection, err)
	}
	return &sliceIterator{docs: docs}, nil
}

// sqliteValue maps Go values to what json_extract returns for them.
func sqliteValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}
