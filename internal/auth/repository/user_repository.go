package repository

import (
	"context"
	"errors"

	authdomain "agristock-backend/internal/auth/domain"
	"agristock-backend/pkg/docstore"
)

const (
	usersCollection = "users"

	fieldEmail              = "email"
	fieldDisplayName        = "displayName"
	fieldPhoneNumber        = "phoneNumber"
	fieldOnline             = "online"
	fieldLastSeen           = "lastSeen"
	fieldVerificationStatus = "verificationStatus"
)

// UserRepository defines the interface for user document reads
type UserRepository interface {
	// FindByID returns nil, nil when the user document does not exist
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	store docstore.Store
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(store docstore.Store) UserRepository {
	return &userRepository{
		store: store,
	}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*authdomain.User, error) {
	data, err := r.store.Get(ctx, usersCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &authdomain.User{
		ID:                 id,
		Email:              docstore.String(data, fieldEmail),
		DisplayName:        docstore.String(data, fieldDisplayName),
		PhoneNumber:        docstore.String(data, fieldPhoneNumber),
		Online:             docstore.Bool(data, fieldOnline),
		LastSeen:           docstore.Time(data, fieldLastSeen),
		VerificationStatus: authdomain.ParseVerificationStatus(docstore.String(data, fieldVerificationStatus)),
	}, nil
}
