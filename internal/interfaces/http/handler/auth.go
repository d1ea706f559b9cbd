package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/preload/backend/internal/application/identity"
	"github.com/preload/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @ID           loginAuth
// @Summary      User login
// @Description  Exchange username and password for an access and refresh token pair. Repeated failures lock the account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      423 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		User: result.User,
	})
}

// RefreshToken godoc
// @ID           refreshTokenAuth
// @Summary      Refresh tokens
// @Description  Rotate a refresh token into a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[RefreshTokenResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RefreshTokenResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
	})
}

// Logout godoc
// @ID           logoutAuth
// @Summary      User logout
// @Description  Revoke the presented access token until it expires
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[LogoutResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err := h.authService.Logout(c.Request.Context(), appidentity.LogoutInput{
		UserID:    p.UserID,
		TokenJTI:  claims.ID,
		ExpiresIn: claims.RemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LogoutResponse{Message: "Logged out successfully"})
}

// GetCurrentUser godoc
// @ID           getCurrentUserAuth
// @Summary      Get current user
// @Description  Return the account of the authenticated caller
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[appidentity.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	user, err := h.authService.GetCurrentUser(c.Request.Context(), p.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
