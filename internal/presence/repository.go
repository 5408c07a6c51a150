package presence

import (
	"context"
	"time"

	"agristock-backend/pkg/docstore"
)

const (
	usersCollection = "users"
	fieldOnline     = "online"
	fieldLastSeen   = "lastSeen"
)

// Repository persists the presence fields of a user document.
type Repository interface {
	SetOnline(ctx context.Context, userID string, online bool, at time.Time) error
}

type docRepository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) Repository {
	return &docRepository{store: store}
}

func (r *docRepository) SetOnline(ctx context.Context, userID string, online bool, at time.Time) error {
	return r.store.Merge(ctx, usersCollection, userID, map[string]interface{}{
		fieldOnline:   online,
		fieldLastSeen: at,
	})
}
