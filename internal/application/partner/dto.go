package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/partner"
)

// =============================================================================
// Provider DTOs
// =============================================================================

// CreateProviderRequest represents a request to register a provider
// @Description Request body for registering a provider
type CreateProviderRequest struct {
	CUIT         string `json:"cuit" binding:"required,cuit" example:"30712345671"`
	BusinessName string `json:"business_name" binding:"required,min=1,max=200" example:"Acme SA"`
	SAPAccount   string `json:"sap_account" binding:"required,max=20" example:"0000100234"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
}

// UpdateProviderRequest represents a request to update a provider
// @Description Request body for updating a provider
type UpdateProviderRequest struct {
	BusinessName *string `json:"business_name" binding:"omitempty,min=1,max=200"`
	SAPAccount   *string `json:"sap_account" binding:"omitempty,max=20"`
	Email        *string `json:"email" binding:"omitempty,email,max=200"`
}

// ProviderListFilter narrows provider listings
type ProviderListFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=business_name cuit created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProviderResponse represents a provider in API responses
// @Description Provider details returned by the API
type ProviderResponse struct {
	ID           uuid.UUID `json:"id"`
	CUIT         string    `json:"cuit"`
	BusinessName string    `json:"business_name"`
	SAPAccount   string    `json:"sap_account"`
	Email        string    `json:"email,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToProviderResponse converts a domain provider
func ToProviderResponse(p *partner.Provider) ProviderResponse {
	return ProviderResponse{
		ID:           p.ID,
		CUIT:         p.CUIT,
		BusinessName: p.BusinessName,
		SAPAccount:   p.SAPAccount,
		Email:        p.Email,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// =============================================================================
// Society DTOs
// =============================================================================

// CreateSocietyRequest represents a request to register a society
// @Description Request body for registering a society
type CreateSocietyRequest struct {
	Code       string `json:"code" binding:"required,min=1,max=10" example:"AR01"`
	ExternalID string `json:"external_id" binding:"required,max=50" example:"1000"`
	CUIT       string `json:"cuit" binding:"required,cuit"`
	Name       string `json:"name" binding:"required,min=1,max=200"`
	SAPAccount string `json:"sap_account" binding:"max=20"`
}

// RenameSocietyRequest changes a society's display name
// @Description Request body for renaming a society
type RenameSocietyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// AssignUserRequest links a society user to a society
// @Description Request body for assigning a user to a society
type AssignUserRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// SocietyResponse represents a society in API responses
// @Description Society details returned by the API
type SocietyResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	ExternalID string    `json:"external_id"`
	CUIT       string    `json:"cuit"`
	Name       string    `json:"name"`
	SAPAccount string    `json:"sap_account,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToSocietyResponse converts a domain society
func ToSocietyResponse(s *partner.Society) SocietyResponse {
	return SocietyResponse{
		ID:         s.ID,
		Code:       s.Code,
		ExternalID: s.ExternalID,
		CUIT:       s.CUIT,
		Name:       s.Name,
		SAPAccount: s.SAPAccount,
		Active:     s.Active,
		CreatedAt:  s.CreatedAt,
	}
}

// ToSocietyResponses converts a slice of societies
func ToSocietyResponses(societies []partner.Society) []SocietyResponse {
	out := make([]SocietyResponse, len(societies))
	for i := range societies {
		out[i] = ToSocietyResponse(&societies[i])
	}
	return out
}
