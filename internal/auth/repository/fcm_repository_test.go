package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agristock-backend/pkg/docstore"
)

func TestFCMTokenRepository_DeleteToken(t *testing.T) {
	ctx := context.Background()
	registered := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("matching token is cleared", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		repo := NewFCMTokenRepository(store)
		require.NoError(t, repo.SaveToken(ctx, "farmer-1", "device-token", registered))

		require.NoError(t, repo.DeleteToken(ctx, "farmer-1", "device-token"))

		token, err := repo.GetToken(ctx, "farmer-1")
		require.NoError(t, err)
		assert.Equal(t, "", token)
		assert.Len(t, store.Writes(), 2)
	})

	t.Run("token changed since the send is kept", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		repo := NewFCMTokenRepository(store)
		require.NoError(t, repo.SaveToken(ctx, "farmer-1", "new-device-token", registered))

		require.NoError(t, repo.DeleteToken(ctx, "farmer-1", "device-token"))

		token, err := repo.GetToken(ctx, "farmer-1")
		require.NoError(t, err)
		assert.Equal(t, "new-device-token", token)
		assert.Len(t, store.Writes(), 1)
	})

	t.Run("unknown user is not created", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		repo := NewFCMTokenRepository(store)

		require.NoError(t, repo.DeleteToken(ctx, "ghost", "device-token"))

		assert.Empty(t, store.Writes())
		_, err := store.Get(ctx, "users", "ghost")
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})
}
