package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleNames(t *testing.T) {
	names := DefaultRoleNames()

	t.Run("parses external names", func(t *testing.T) {
		r, ok := names.Parse("proveedor")
		require.True(t, ok)
		assert.Equal(t, RoleProvider, r)
	})

	t.Run("parses role constants", func(t *testing.T) {
		r, ok := names.Parse("READ_ONLY")
		require.True(t, ok)
		assert.Equal(t, RoleReadOnly, r)
	})

	t.Run("rejects unknown", func(t *testing.T) {
		_, ok := names.Parse("Superuser")
		assert.False(t, ok)
	})

	t.Run("empty names fall back to constant", func(t *testing.T) {
		var empty RoleNames
		assert.Equal(t, "SOCIETY", empty.NameOf(RoleSociety))
	})
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdministrator.SeesEverything())
	assert.True(t, RoleReadOnly.SeesEverything())
	assert.False(t, RoleProvider.SeesEverything())
	assert.False(t, RoleReadOnly.CanWrite())
	assert.True(t, RoleSociety.CanWrite())
	assert.False(t, Role("GUEST").IsValid())
}

func TestNewUser(t *testing.T) {
	t.Run("hashes password", func(t *testing.T) {
		u, err := NewUser("proveedor.uno", "clave1234", RoleProvider)
		require.NoError(t, err)
		assert.NotEqual(t, "clave1234", u.PasswordHash)
		assert.True(t, u.VerifyPassword("clave1234"))
		assert.False(t, u.VerifyPassword("otra1234"))
		assert.True(t, u.Active)
	})

	t.Run("validates input", func(t *testing.T) {
		_, err := NewUser("ab", "clave1234", RoleProvider)
		assert.Error(t, err)
		_, err = NewUser("usuario", "short1", RoleProvider)
		assert.Error(t, err)
		_, err = NewUser("usuario", "solamenteletras", RoleProvider)
		assert.Error(t, err)
		_, err = NewUser("usuario", "clave1234", Role("ROOT"))
		assert.Error(t, err)
	})

	t.Run("only providers bind cuit", func(t *testing.T) {
		u, err := NewUser("sociedad1", "clave1234", RoleSociety)
		require.NoError(t, err)
		assert.Error(t, u.BindCUIT("20123456786"))
	})
}

func TestUser_LoginFailures(t *testing.T) {
	u, err := NewUser("usuario", "clave1234", RoleAdministrator)
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.False(t, u.RecordLoginFailure(now, 3, time.Minute))
	assert.False(t, u.RecordLoginFailure(now, 3, time.Minute))
	assert.True(t, u.RecordLoginFailure(now, 3, time.Minute))

	assert.False(t, u.CanLogin(now.Add(30*time.Second)))
	assert.True(t, u.CanLogin(now.Add(2*time.Minute)))

	u.RecordLoginSuccess(now.Add(2 * time.Minute))
	assert.Nil(t, u.LockedUntil)
	require.NotNil(t, u.LastLoginAt)
}

func TestAccessScope(t *testing.T) {
	provID := uuid.New()
	socID := uuid.New()

	t.Run("unrestricted allows all", func(t *testing.T) {
		s := UnrestrictedScope()
		assert.True(t, s.AllowsProviderAccount("any"))
		assert.True(t, s.AllowsSocietyCode("any"))
		assert.True(t, s.AllowsDocument(uuid.New(), uuid.New()))
		assert.False(t, s.IsEmpty())
	})

	t.Run("provider scope", func(t *testing.T) {
		s := AccessScope{ProviderIDs: []uuid.UUID{provID}, ProviderAccounts: []string{"0000100234"}}
		assert.True(t, s.AllowsProviderAccount("0000100234"))
		assert.False(t, s.AllowsProviderAccount("0000999999"))
		assert.True(t, s.AllowsSocietyCode("1000"))
		assert.True(t, s.AllowsDocument(provID, uuid.New()))
		assert.False(t, s.AllowsDocument(uuid.New(), socID))
	})

	t.Run("society scope", func(t *testing.T) {
		s := AccessScope{SocietyIDs: []uuid.UUID{socID}, SocietyCodes: []string{"1000"}}
		assert.True(t, s.AllowsSocietyCode("1000"))
		assert.False(t, s.AllowsSocietyCode("2000"))
		assert.True(t, s.AllowsProviderAccount("anything"))
		assert.True(t, s.AllowsDocument(uuid.New(), socID))
	})

	t.Run("empty scope allows nothing", func(t *testing.T) {
		var s AccessScope
		assert.True(t, s.IsEmpty())
		assert.False(t, s.AllowsProviderAccount("x"))
		assert.False(t, s.AllowsSocietyCode("x"))
		assert.False(t, s.AllowsDocument(provID, socID))
	})
}
