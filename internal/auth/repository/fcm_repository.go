package repository

import (
	"context"
	"errors"
	"time"

	"agristock-backend/pkg/docstore"
)

const (
	fieldFCMToken          = "fcmToken"
	fieldFCMTokenUpdatedAt = "fcmTokenUpdatedAt"
)

// FCMTokenRepository defines the interface for FCM token operations
type FCMTokenRepository interface {
	SaveToken(ctx context.Context, userID, token string, at time.Time) error
	// GetToken returns "" when the user has no registered device
	GetToken(ctx context.Context, userID string) (string, error)
	// DeleteToken clears the user's token if it still equals token
	DeleteToken(ctx context.Context, userID, token string) error
}

// fcmTokenRepository implements FCMTokenRepository interface
type fcmTokenRepository struct {
	store docstore.Store
}

// NewFCMTokenRepository creates a new instance of fcmTokenRepository
func NewFCMTokenRepository(store docstore.Store) FCMTokenRepository {
	return &fcmTokenRepository{
		store: store,
	}
}

// SaveToken merges the token into the user document, leaving other fields untouched
func (r *fcmTokenRepository) SaveToken(ctx context.Context, userID, token string, at time.Time) error {
	return r.store.Merge(ctx, usersCollection, userID, map[string]interface{}{
		fieldFCMToken:          token,
		fieldFCMTokenUpdatedAt: at,
	})
}

func (r *fcmTokenRepository) GetToken(ctx context.Context, userID string) (string, error) {
	data, err := r.store.Get(ctx, usersCollection, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return docstore.String(data, fieldFCMToken), nil
}

// DeleteToken compares and clears in one transaction, so a token saved by a
// concurrent registration is never wiped.
func (r *fcmTokenRepository) DeleteToken(ctx context.Context, userID, token string) error {
	return r.store.Update(ctx, usersCollection, userID, func(current map[string]interface{}) (map[string]interface{}, error) {
		if current == nil || docstore.String(current, fieldFCMToken) != token {
			return nil, nil
		}
		return map[string]interface{}{
			fieldFCMToken:          "",
			fieldFCMTokenUpdatedAt: time.Now(),
		}, nil
	})
}
