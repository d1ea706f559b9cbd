package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	u, err := identity.NewUser("proveedor1", "secret123", identity.RoleProvider)
	require.NoError(t, err)
	require.NoError(t, u.BindCUIT("20123456786"))
	require.NoError(t, repo.Save(ctx, u))

	found, err := repo.FindByUsername(ctx, "proveedor1")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleProvider, found.Role)
	assert.Equal(t, "20123456786", found.CUIT)
	assert.True(t, found.VerifyPassword("secret123"))

	now := time.Now()
	found.RecordLoginSuccess(now)
	require.NoError(t, repo.Save(ctx, found))

	reloaded, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.WithinDuration(t, now, *reloaded.LastLoginAt, time.Second)

	exists, err := repo.ExistsByUsername(ctx, "proveedor1")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	admin, err := identity.NewUser("admin", "secret123", identity.RoleAdministrator)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, admin))

	items, total, err := repo.FindAll(ctx, shared.Filter{Search: "PROV"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, u.ID, items[0].ID)
}
