package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains the login policy
type AuthServiceConfig struct {
	MaxLoginAttempts int           // failed attempts before the account locks
	LockDuration     time.Duration // how long a lock lasts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	roleNames  identity.RoleNames
	config     AuthServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	roleNames identity.RoleNames,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		roleNames:  roleNames,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

func principalOf(u *identity.User) identity.Principal {
	return identity.Principal{UserID: u.ID, Username: u.Username, Role: u.Role, CUIT: u.CUIT}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown user", zap.String("username", input.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if !user.Active {
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}
	if user.IsLocked(now) {
		s.logger.Warn("Login attempt for locked account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(now, s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", input.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		return nil, errInvalidCredentials
	}

	user.RecordLoginSuccess(now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	pair, err := s.jwtService.GenerateTokenPair(principalOf(user))
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  toUserInfo(user, s.roleNames),
	}, nil
}

// RefreshToken issues a new pair for a valid, unrevoked refresh token.
// The presented refresh token is revoked so it cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		}
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "User no longer exists")
		}
		return nil, err
	}
	if !user.CanLogin(s.now()) {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, err := s.jwtService.GenerateTokenPair(principalOf(user))
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
	}

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the access token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" || input.ExpiresIn <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.ExpiresIn); err != nil {
		return err
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// GetCurrentUser returns the caller's account
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user, s.roleNames)
	return &info, nil
}
