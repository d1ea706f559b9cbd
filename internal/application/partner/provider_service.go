package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/shared"
)

// ProviderService handles provider-related operations
type ProviderService struct {
	providerRepo partner.ProviderRepository
}

// NewProviderService creates a new ProviderService
func NewProviderService(providerRepo partner.ProviderRepository) *ProviderService {
	return &ProviderService{providerRepo: providerRepo}
}

// Create registers a provider; the CUIT must be unused
func (s *ProviderService) Create(ctx context.Context, req CreateProviderRequest) (*ProviderResponse, error) {
	exists, err := s.providerRepo.ExistsByCUIT(ctx, partner.NormalizeCUIT(req.CUIT))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Provider with this CUIT already exists")
	}

	provider, err := partner.NewProvider(req.CUIT, req.BusinessName, req.SAPAccount, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	resp := ToProviderResponse(provider)
	return &resp, nil
}

// GetByID returns a provider
func (s *ProviderService) GetByID(ctx context.Context, id uuid.UUID) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProviderResponse(provider)
	return &resp, nil
}

// List returns a page of providers matching the filter
func (s *ProviderService) List(ctx context.Context, filter ProviderListFilter) (shared.Paginated[ProviderResponse], error) {
	f := partner.ProviderFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		ActiveOnly: filter.ActiveOnly,
	}
	f.Normalize()

	providers, total, err := s.providerRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[ProviderResponse]{}, err
	}
	items := make([]ProviderResponse, len(providers))
	for i := range providers {
		items[i] = ToProviderResponse(&providers[i])
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Update changes descriptive fields; omitted fields keep their value
func (s *ProviderService) Update(ctx context.Context, id uuid.UUID, req UpdateProviderRequest) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, account, email := provider.BusinessName, provider.SAPAccount, provider.Email
	if req.BusinessName != nil {
		name = *req.BusinessName
	}
	if req.SAPAccount != nil {
		account = *req.SAPAccount
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := provider.Update(name, account, email); err != nil {
		return nil, err
	}
	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	resp := ToProviderResponse(provider)
	return &resp, nil
}

// Activate re-enables a provider
func (s *ProviderService) Activate(ctx context.Context, id uuid.UUID) (*ProviderResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate blocks new submissions from a provider
func (s *ProviderService) Deactivate(ctx context.Context, id uuid.UUID) (*ProviderResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *ProviderService) setActive(ctx context.Context, id uuid.UUID, active bool) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		provider.Activate()
	} else {
		provider.Deactivate()
	}
	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	resp := ToProviderResponse(provider)
	return &resp, nil
}
