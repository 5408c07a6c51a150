package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return snap.Data(), nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fn UpdateFunc) error {
	ref := s.client.Collection(collection).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var current map[string]interface{}
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			current = snap.Data()
		case status.Code(err) != codes.NotFound:
			return err
		}

		fields, err := fn(current)
		if err != nil || fields == nil {
			return err
		}
		return tx.Set(ref, fields, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Query(ctx context.Context, q Query) ([]Document, error) {
	query := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Descending {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
