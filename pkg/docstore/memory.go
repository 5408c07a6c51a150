package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Write records one Merge call made against a MemoryStore.
type Write struct {
	Collection string
	ID         string
	Fields     map[string]interface{}
}

// MemoryStore is an in-process Store used for local development and tests.
// Queries support equality filters only.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string]map[string]map[string]interface{}
	writes   []Write
	mergeErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]map[string]interface{})}
}

// FailMerges makes every subsequent Merge return err (nil restores normal behaviour).
func (s *MemoryStore) FailMerges(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergeErr = err
}

// Writes returns the merges applied so far, in order.
func (s *MemoryStore) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Write, len(s.writes))
	copy(out, s.writes)
	return out
}

func (s *MemoryStore) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(collection, id, fields)
}

// Update holds the store lock across fn, so no other write interleaves.
func (s *MemoryStore) Update(ctx context.Context, collection, id string, fn UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current map[string]interface{}
	if doc, ok := s.docs[collection][id]; ok {
		current = cloneData(doc)
	}
	fields, err := fn(current)
	if err != nil || fields == nil {
		return err
	}
	return s.mergeLocked(collection, id, fields)
}

func (s *MemoryStore) mergeLocked(collection, id string, fields map[string]interface{}) error {
	if s.mergeErr != nil {
		return s.mergeErr
	}

	coll, ok := s.docs[collection]
	if !ok {
		coll = make(map[string]map[string]interface{})
		s.docs[collection] = coll
	}
	doc, ok := coll[id]
	if !ok {
		doc = make(map[string]interface{})
		coll[id] = doc
	}

	copied := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		doc[k] = v
		copied[k] = v
	}
	s.writes = append(s.writes, Write{Collection: collection, ID: id, Fields: copied})
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneData(doc), nil
}

func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, f := range q.Filters {
		if f.Op != "==" {
			return nil, fmt.Errorf("memory store: unsupported operator %q", f.Op)
		}
	}

	s.mu.Lock()
	var docs []Document
	for id, data := range s.docs[q.Collection] {
		if matches(data, q.Filters) {
			docs = append(docs, Document{ID: id, Data: cloneData(data)})
		}
	}
	s.mu.Unlock()

	sort.SliceStable(docs, func(i, j int) bool {
		if q.OrderBy == "" {
			return docs[i].ID < docs[j].ID
		}
		a, b := docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy]
		if q.Descending {
			a, b = b, a
		}
		return lessValue(a, b)
	})

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func matches(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if data[f.Field] != f.Value {
			return false
		}
	}
	return true
}

func lessValue(a, b interface{}) bool {
	switch av := a.(type) {
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Before(bv)
	case string:
		bv, _ := b.(string)
		return av < bv
	case float64:
		bv, _ := b.(float64)
		return av < bv
	case int:
		bv, _ := b.(int)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	}
	return false
}

func cloneData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
