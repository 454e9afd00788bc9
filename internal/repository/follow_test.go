package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	t.Run("create is idempotent", func(t *testing.T) {
		created, err := repo.Create(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.Create(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("both views come from the same edge", func(t *testing.T) {
		_, err := repo.Create(ctx, carol.ID, bob.ID)
		require.NoError(t, err)

		followers, err := repo.ListFollowers(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, followers, 2)

		following, err := repo.ListFollowing(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, bob.ID, following[0].ID)

		nFollowers, nFollowing, err := repo.Counts(ctx, bob.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, nFollowers)
		assert.EqualValues(t, 0, nFollowing)
	})

	t.Run("delete removes the edge from both views", func(t *testing.T) {
		removed, err := repo.Delete(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		exists, err := repo.Exists(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		followers, err := repo.ListFollowers(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, followers, 1)

		following, err := repo.ListFollowing(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, following)
	})

	t.Run("delete of a missing edge is a no-op", func(t *testing.T) {
		removed, err := repo.Delete(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}
