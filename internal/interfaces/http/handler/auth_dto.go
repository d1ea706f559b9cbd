package handler

import (
	"time"

	appidentity "github.com/preload/backend/internal/application/identity"
)

// LoginRequest represents the request body for user login
// @Description Request body for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100" example:"proveedor1"`
	Password string `json:"password" binding:"required,min=1,max=128" example:"s3cret-pass"`
}

// RefreshTokenRequest represents the request body for token refresh
// @Description Request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateUserRequest is the admin request for a new account. Role takes the
// role constant or its configured display name; CUIT is required for providers.
// @Description Request body for creating an account
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100" example:"proveedor1"`
	Password    string `json:"password" binding:"required,min=8,max=72" example:"s3cret-pass"`
	Email       string `json:"email" binding:"omitempty,email,max=200" example:"ventas@acme.com.ar"`
	DisplayName string `json:"display_name" binding:"max=200" example:"Acme SA"`
	Role        string `json:"role" binding:"required,max=50" example:"Proveedor"`
	CUIT        string `json:"cuit" binding:"omitempty,cuit" example:"20123456786"`
}

// TokenResponse represents the token data in auth responses
// @Description Token pair issued on login and refresh
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// LoginResponse represents the response body for successful login
// @Description Tokens and account of a successful login
type LoginResponse struct {
	Token TokenResponse        `json:"token"`
	User  appidentity.UserInfo `json:"user"`
}

// RefreshTokenResponse represents the response body for successful token refresh
// @Description Token pair of a successful refresh
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// LogoutResponse represents the response body for logout
// @Description Logout confirmation
type LogoutResponse struct {
	Message string `json:"message"`
}
