package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, cuit, name, account string) *partner.Provider {
	t.Helper()
	p, err := partner.NewProvider(cuit, name, account, "")
	require.NoError(t, err)
	return p
}

func TestGormProviderRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProviderRepository(db)
	ctx := context.Background()

	p := newTestProvider(t, "20-12345678-6", "Café Martínez S.A.", "0000100234")
	require.NoError(t, repo.Save(ctx, p))

	byID, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "20123456786", byID.CUIT)
	assert.Equal(t, "CAFE MARTINEZ S.A.", byID.SearchName)
	assert.Equal(t, 1, byID.Version)

	byCUIT, err := repo.FindByCUIT(ctx, "20-12345678-6")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byCUIT.ID)

	byAccount, err := repo.FindBySAPAccount(ctx, "0000100234")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byAccount.ID)

	exists, err := repo.ExistsByCUIT(ctx, "20123456786")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormProviderRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProviderRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindBySAPAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProviderRepository_DuplicateCUIT(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProviderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestProvider(t, "20123456786", "First", "1")))
	err := repo.Save(ctx, newTestProvider(t, "20123456786", "Second", "2"))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormProviderRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProviderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestProvider(t, "20123456786", "Café Martínez", "100")))
	require.NoError(t, repo.Save(ctx, newTestProvider(t, "30712345671", "Ferretería Norte", "200")))
	inactive := newTestProvider(t, "30500000003", "Cafetera del Sur", "300")
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	t.Run("accent insensitive search", func(t *testing.T) {
		filter := partner.ProviderFilter{Filter: shared.Filter{Search: "cafe"}}
		items, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("active only", func(t *testing.T) {
		filter := partner.ProviderFilter{Filter: shared.Filter{Search: "cafe"}, ActiveOnly: true}
		items, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, "Café Martínez", items[0].BusinessName)
	})

	t.Run("search by cuit prefix", func(t *testing.T) {
		filter := partner.ProviderFilter{Filter: shared.Filter{Search: "30-7123"}}
		items, _, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "200", items[0].SAPAccount)
	})

	t.Run("paging", func(t *testing.T) {
		filter := partner.ProviderFilter{Filter: shared.Filter{Page: 2, PageSize: 2, OrderBy: "cuit", OrderDir: "asc"}}
		items, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, items, 1)
		assert.Equal(t, "30712345671", items[0].CUIT)
	})
}

func TestGormSocietyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSocietyRepository(db)
	ctx := context.Background()

	s1, err := partner.NewSociety("1000", "SOC-01", "30712345671", "Sociedad Uno", "900001")
	require.NoError(t, err)
	s2, err := partner.NewSociety("2000", "SOC-02", "30500000003", "Sociedad Dos", "900002")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s1))
	require.NoError(t, repo.Save(ctx, s2))

	found, err := repo.FindByExternalID(ctx, " SOC-02 ")
	require.NoError(t, err)
	assert.Equal(t, "2000", found.Code)

	_, err = repo.FindByExternalID(ctx, "SOC-99")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	list, err := repo.FindByIDs(ctx, []uuid.UUID{s2.ID, s1.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1000", list[0].Code)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	exists, err := repo.ExistsByCode(ctx, "1000")
	require.NoError(t, err)
	assert.True(t, exists)

	items, total, err := repo.FindAll(ctx, shared.Filter{Search: "dos"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, s2.ID, items[0].ID)
}

func TestGormUserSocietyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserSocietyRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	societyA, societyB := uuid.New(), uuid.New()

	require.NoError(t, repo.Assign(ctx, userID, societyA))
	require.NoError(t, repo.Assign(ctx, userID, societyA))
	require.NoError(t, repo.Assign(ctx, userID, societyB))

	ids, err := repo.FindSocietyIDsByUser(ctx, userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{societyA, societyB}, ids)

	require.NoError(t, repo.Unassign(ctx, userID, societyA))
	ids, err = repo.FindSocietyIDsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{societyB}, ids)

	none, err := repo.FindSocietyIDsByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
