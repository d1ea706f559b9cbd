package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/shared"
)

// SocietyService handles societies and their user assignments
type SocietyService struct {
	societyRepo    partner.SocietyRepository
	assignmentRepo partner.UserSocietyRepository
	userRepo       identity.UserRepository
}

// NewSocietyService creates a new SocietyService
func NewSocietyService(societyRepo partner.SocietyRepository, assignmentRepo partner.UserSocietyRepository, userRepo identity.UserRepository) *SocietyService {
	return &SocietyService{
		societyRepo:    societyRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
	}
}

// Create registers a society; the code must be unused
func (s *SocietyService) Create(ctx context.Context, req CreateSocietyRequest) (*SocietyResponse, error) {
	exists, err := s.societyRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Society with this code already exists")
	}

	society, err := partner.NewSociety(req.Code, req.ExternalID, req.CUIT, req.Name, req.SAPAccount)
	if err != nil {
		return nil, err
	}
	if err := s.societyRepo.Save(ctx, society); err != nil {
		return nil, err
	}
	resp := ToSocietyResponse(society)
	return &resp, nil
}

// GetByID returns a society
func (s *SocietyService) GetByID(ctx context.Context, id uuid.UUID) (*SocietyResponse, error) {
	society, err := s.societyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSocietyResponse(society)
	return &resp, nil
}

// GetByExternalID returns the society callers know by externalID
func (s *SocietyService) GetByExternalID(ctx context.Context, externalID string) (*SocietyResponse, error) {
	society, err := s.societyRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	resp := ToSocietyResponse(society)
	return &resp, nil
}

// List returns a page of societies
func (s *SocietyService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[SocietyResponse], error) {
	filter.Normalize()
	societies, total, err := s.societyRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[SocietyResponse]{}, err
	}
	return shared.NewPaginated(ToSocietyResponses(societies), total, filter.Page, filter.PageSize), nil
}

// Rename changes the display name
func (s *SocietyService) Rename(ctx context.Context, id uuid.UUID, req RenameSocietyRequest) (*SocietyResponse, error) {
	society, err := s.societyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := society.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.societyRepo.Save(ctx, society); err != nil {
		return nil, err
	}
	resp := ToSocietyResponse(society)
	return &resp, nil
}

// AssignUser grants a society user access to the society
func (s *SocietyService) AssignUser(ctx context.Context, societyID, userID uuid.UUID) error {
	if _, err := s.societyRepo.FindByID(ctx, societyID); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != identity.RoleSociety {
		return shared.NewDomainError("INVALID_ROLE", "Only society users can be assigned to a society")
	}
	return s.assignmentRepo.Assign(ctx, userID, societyID)
}

// UnassignUser revokes a society assignment
func (s *SocietyService) UnassignUser(ctx context.Context, societyID, userID uuid.UUID) error {
	return s.assignmentRepo.Unassign(ctx, userID, societyID)
}

// ListForUser returns the societies assigned to userID
func (s *SocietyService) ListForUser(ctx context.Context, userID uuid.UUID) ([]SocietyResponse, error) {
	ids, err := s.assignmentRepo.FindSocietyIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	societies, err := s.societyRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ToSocietyResponses(societies), nil
}
