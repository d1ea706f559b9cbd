package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/identity"
)

// LoginInput contains login credentials
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is returned after a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// RefreshTokenResult is returned after a refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput identifies the access token being retired
type LogoutInput struct {
	UserID    uuid.UUID
	TokenJTI  string
	ExpiresIn time.Duration
}

// UserInfo is the public view of a user
// @Description Account details returned by the API
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Role        string     `json:"role"`
	RoleName    string     `json:"role_name"`
	CUIT        string     `json:"cuit,omitempty"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateUserInput carries a new account. Role accepts either the role
// constant or its configured external name.
type CreateUserInput struct {
	Username    string
	Password    string
	Email       string
	DisplayName string
	Role        string
	CUIT        string
}

func toUserInfo(u *identity.User, names identity.RoleNames) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        u.Role.String(),
		RoleName:    names.NameOf(u.Role),
		CUIT:        u.CUIT,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
