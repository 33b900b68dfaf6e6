package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/identity"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAdminUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAdminUserRepository(newSQLiteDB(t))

	user, err := identity.NewAdminUser("Admin@Example.org", "Admin", "correct-horse", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	exists, err := repo.ExistsByEmail(ctx, " ADMIN@example.org ")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindByEmail(ctx, "ADMIN@EXAMPLE.ORG")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.VerifyPassword("correct-horse"))
	assert.Equal(t, identity.RoleAdmin, found.Role)

	found.RecordLogin()
	found.Deactivate()
	require.NoError(t, repo.Update(ctx, found))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.NotNil(t, reloaded.LastLoginAt)

	dup, err := identity.NewAdminUser("admin@example.org", "", "another-pass", identity.RoleEditor)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
