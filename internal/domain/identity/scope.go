package identity

import (
	"slices"

	"github.com/google/uuid"
)

// AccessScope bounds the data a principal may read.
// Unrestricted scopes ignore the slices. A restricted scope with empty
// slices matches nothing.
type AccessScope struct {
	Unrestricted     bool
	ProviderIDs      []uuid.UUID
	ProviderAccounts []string
	SocietyIDs       []uuid.UUID
	SocietyCodes     []string
}

// UnrestrictedScope returns the scope of administrators and read-only users
func UnrestrictedScope() AccessScope {
	return AccessScope{Unrestricted: true}
}

// IsEmpty reports whether a restricted scope grants nothing
func (s AccessScope) IsEmpty() bool {
	return !s.Unrestricted && len(s.ProviderIDs) == 0 && len(s.SocietyIDs) == 0 &&
		len(s.ProviderAccounts) == 0 && len(s.SocietyCodes) == 0
}

// RestrictsProviders reports whether the scope filters by provider
func (s AccessScope) RestrictsProviders() bool {
	return !s.Unrestricted && (len(s.ProviderIDs) > 0 || len(s.ProviderAccounts) > 0)
}

// RestrictsSocieties reports whether the scope filters by society
func (s AccessScope) RestrictsSocieties() bool {
	return !s.Unrestricted && (len(s.SocietyIDs) > 0 || len(s.SocietyCodes) > 0)
}

// AllowsProviderAccount reports whether rows of the SAP account are visible
func (s AccessScope) AllowsProviderAccount(account string) bool {
	if s.Unrestricted {
		return true
	}
	if !s.RestrictsProviders() {
		return s.RestrictsSocieties()
	}
	return slices.Contains(s.ProviderAccounts, account)
}

// AllowsSocietyCode reports whether rows of the society code are visible
func (s AccessScope) AllowsSocietyCode(code string) bool {
	if s.Unrestricted {
		return true
	}
	if !s.RestrictsSocieties() {
		return s.RestrictsProviders()
	}
	return slices.Contains(s.SocietyCodes, code)
}

// AllowsDocument reports whether a document of provider/society is visible
func (s AccessScope) AllowsDocument(providerID, societyID uuid.UUID) bool {
	if s.Unrestricted {
		return true
	}
	if s.IsEmpty() {
		return false
	}
	if s.RestrictsProviders() && !slices.Contains(s.ProviderIDs, providerID) {
		return false
	}
	if s.RestrictsSocieties() && !slices.Contains(s.SocietyIDs, societyID) {
		return false
	}
	return true
}
