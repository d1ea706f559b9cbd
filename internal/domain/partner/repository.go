package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/shared"
)

// ProviderFilter narrows provider listings
type ProviderFilter struct {
	shared.Filter
	ActiveOnly bool
}

// ProviderRepository persists providers
type ProviderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	FindByCUIT(ctx context.Context, cuit string) (*Provider, error)
	FindBySAPAccount(ctx context.Context, account string) (*Provider, error)
	// FindAll matches Filter.Search against the normalized business name and the CUIT
	FindAll(ctx context.Context, filter ProviderFilter) ([]Provider, int64, error)
	ExistsByCUIT(ctx context.Context, cuit string) (bool, error)
	Save(ctx context.Context, provider *Provider) error
}

// SocietyRepository persists societies
type SocietyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Society, error)
	FindByExternalID(ctx context.Context, externalID string) (*Society, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Society, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Society, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, society *Society) error
}

// UserSocietyRepository stores user to society assignments
type UserSocietyRepository interface {
	Assign(ctx context.Context, userID, societyID uuid.UUID) error
	Unassign(ctx context.Context, userID, societyID uuid.UUID) error
	FindSocietyIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
