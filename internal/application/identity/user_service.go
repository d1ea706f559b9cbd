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

// UserService manages accounts
type UserService struct {
	userRepo     identity.UserRepository
	providerRepo partner.ProviderRepository
	roleNames    identity.RoleNames
	logger       *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, providerRepo partner.ProviderRepository, roleNames identity.RoleNames, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:     userRepo,
		providerRepo: providerRepo,
		roleNames:    roleNames,
		logger:       logger,
	}
}

// Create registers a new user. Provider users must reference a known provider CUIT.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserInfo, error) {
	role, ok := s.roleNames.Parse(input.Role)
	if !ok {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	user, err := identity.NewUser(input.Username, input.Password, role)
	if err != nil {
		return nil, err
	}
	user.DisplayName = input.DisplayName
	if err := user.SetEmail(input.Email); err != nil {
		return nil, err
	}

	if role == identity.RoleProvider {
		if !partner.ValidCUIT(input.CUIT) {
			return nil, shared.NewDomainError("INVALID_CUIT", "Provider users need a valid CUIT")
		}
		if _, err := s.providerRepo.FindByCUIT(ctx, input.CUIT); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("PROVIDER_NOT_FOUND", "No provider is registered with this CUIT")
			}
			return nil, err
		}
		if err := user.BindCUIT(partner.NormalizeCUIT(input.CUIT)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created", zap.String("user_id", user.ID.String()), zap.String("role", role.String()))

	info := toUserInfo(user, s.roleNames)
	return &info, nil
}

// GetByID returns one user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user, s.roleNames)
	return &info, nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[UserInfo], error) {
	filter.Normalize()
	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[UserInfo]{}, err
	}
	items := make([]UserInfo, len(users))
	for i := range users {
		items[i] = toUserInfo(&users[i], s.roleNames)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Deactivate disables an account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Deactivate()
	return s.userRepo.Save(ctx, user)
}
