package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is a schema-less document database with merge writes.
type Store interface {
	// Merge updates only the given fields, creating the document if needed.
	Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Get(ctx context.Context, collection, id string) (map[string]interface{}, error)
	Query(ctx context.Context, q Query) ([]Document, error)
	// Update reads the document and merges the fields fn returns, atomically.
	// fn sees nil for a missing document; returning nil fields writes nothing.
	// fn may be retried and must not have side effects.
	Update(ctx context.Context, collection, id string, fn UpdateFunc) error
}

type UpdateFunc func(current map[string]interface{}) (map[string]interface{}, error)

type Filter struct {
	Field string
	Op    string
	Value interface{}
}

type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

type Document struct {
	ID   string
	Data map[string]interface{}
}

// String returns data[key] when it is a string.
func String(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func Bool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

// Time returns data[key] as a time. Firestore timestamps decode to time.Time.
func Time(data map[string]interface{}, key string) time.Time {
	switch v := data[key].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}
