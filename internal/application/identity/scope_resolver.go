package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ScopeResolver turns a principal into the data it may read.
// Unknown CUITs and users without assignments get an empty scope.
type ScopeResolver struct {
	providerRepo    partner.ProviderRepository
	societyRepo     partner.SocietyRepository
	assignmentsRepo partner.UserSocietyRepository
	logger          *zap.Logger
}

// NewScopeResolver creates a ScopeResolver
func NewScopeResolver(
	providerRepo partner.ProviderRepository,
	societyRepo partner.SocietyRepository,
	assignmentsRepo partner.UserSocietyRepository,
	logger *zap.Logger,
) *ScopeResolver {
	return &ScopeResolver{
		providerRepo:    providerRepo,
		societyRepo:     societyRepo,
		assignmentsRepo: assignmentsRepo,
		logger:          logger,
	}
}

// Resolve returns the scope of p
func (r *ScopeResolver) Resolve(ctx context.Context, p identity.Principal) (identity.AccessScope, error) {
	switch p.Role {
	case identity.RoleAdministrator, identity.RoleReadOnly:
		return identity.UnrestrictedScope(), nil
	case identity.RoleProvider:
		return r.providerScope(ctx, p)
	case identity.RoleSociety:
		return r.societyScope(ctx, p)
	}
	return identity.AccessScope{}, nil
}

func (r *ScopeResolver) providerScope(ctx context.Context, p identity.Principal) (identity.AccessScope, error) {
	if p.CUIT == "" {
		return identity.AccessScope{}, nil
	}
	provider, err := r.providerRepo.FindByCUIT(ctx, p.CUIT)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			r.logger.Warn("Provider user without provider record", zap.String("user_id", p.UserID.String()))
			return identity.AccessScope{}, nil
		}
		return identity.AccessScope{}, err
	}
	return identity.AccessScope{
		ProviderIDs:      []uuid.UUID{provider.ID},
		ProviderAccounts: []string{provider.SAPAccount},
	}, nil
}

func (r *ScopeResolver) societyScope(ctx context.Context, p identity.Principal) (identity.AccessScope, error) {
	ids, err := r.assignmentsRepo.FindSocietyIDsByUser(ctx, p.UserID)
	if err != nil {
		return identity.AccessScope{}, err
	}
	if len(ids) == 0 {
		return identity.AccessScope{}, nil
	}
	societies, err := r.societyRepo.FindByIDs(ctx, ids)
	if err != nil {
		return identity.AccessScope{}, err
	}
	scope := identity.AccessScope{}
	for _, s := range societies {
		scope.SocietyIDs = append(scope.SocietyIDs, s.ID)
		scope.SocietyCodes = append(scope.SocietyCodes, s.Code)
	}
	return scope, nil
}
