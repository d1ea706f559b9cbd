package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScopeResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	newResolver := func() (*ScopeResolver, *testutil.MockProviderRepository, *testutil.MockSocietyRepository, *testutil.MockUserSocietyRepository) {
		providers := new(testutil.MockProviderRepository)
		societies := new(testutil.MockSocietyRepository)
		assignments := new(testutil.MockUserSocietyRepository)
		return NewScopeResolver(providers, societies, assignments, zap.NewNop()), providers, societies, assignments
	}

	t.Run("administrator and read-only are unrestricted", func(t *testing.T) {
		r, _, _, _ := newResolver()
		for _, role := range []identity.Role{identity.RoleAdministrator, identity.RoleReadOnly} {
			scope, err := r.Resolve(ctx, identity.Principal{UserID: uuid.New(), Role: role})
			require.NoError(t, err)
			assert.True(t, scope.Unrestricted)
		}
	})

	t.Run("provider resolves to its SAP account", func(t *testing.T) {
		r, providers, _, _ := newResolver()
		p, err := partner.NewProvider("20123456786", "Norte SA", "100200", "")
		require.NoError(t, err)
		providers.On("FindByCUIT", ctx, "20123456786").Return(p, nil)

		scope, err := r.Resolve(ctx, identity.Principal{UserID: uuid.New(), Role: identity.RoleProvider, CUIT: "20123456786"})
		require.NoError(t, err)
		assert.Equal(t, []string{"100200"}, scope.ProviderAccounts)
		assert.Equal(t, []uuid.UUID{p.ID}, scope.ProviderIDs)
		assert.True(t, scope.AllowsProviderAccount("100200"))
		assert.False(t, scope.AllowsProviderAccount("999999"))
	})

	t.Run("unknown CUIT yields empty scope", func(t *testing.T) {
		r, providers, _, _ := newResolver()
		providers.On("FindByCUIT", ctx, "20123456786").Return(nil, shared.ErrNotFound)

		scope, err := r.Resolve(ctx, identity.Principal{UserID: uuid.New(), Role: identity.RoleProvider, CUIT: "20123456786"})
		require.NoError(t, err)
		assert.True(t, scope.IsEmpty())
	})

	t.Run("society resolves to assigned codes", func(t *testing.T) {
		r, _, societies, assignments := newResolver()
		userID := uuid.New()
		s, err := partner.NewSociety("1000", "SOC-1", "30712345671", "Sociedad Uno", "")
		require.NoError(t, err)
		assignments.On("FindSocietyIDsByUser", ctx, userID).Return([]uuid.UUID{s.ID}, nil)
		societies.On("FindByIDs", ctx, []uuid.UUID{s.ID}).Return([]partner.Society{*s}, nil)

		scope, err := r.Resolve(ctx, identity.Principal{UserID: userID, Role: identity.RoleSociety})
		require.NoError(t, err)
		assert.Equal(t, []string{"1000"}, scope.SocietyCodes)
		assert.True(t, scope.AllowsSocietyCode("1000"))
		assert.False(t, scope.AllowsSocietyCode("2000"))
	})

	t.Run("society without assignments yields empty scope", func(t *testing.T) {
		r, _, societies, assignments := newResolver()
		userID := uuid.New()
		assignments.On("FindSocietyIDsByUser", ctx, userID).Return([]uuid.UUID{}, nil)

		scope, err := r.Resolve(ctx, identity.Principal{UserID: userID, Role: identity.RoleSociety})
		require.NoError(t, err)
		assert.True(t, scope.IsEmpty())
		societies.AssertNotCalled(t, "FindByIDs")
	})
}
