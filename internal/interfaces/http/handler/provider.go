package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/application/partner"
)

// ProviderHandler handles provider master data
type ProviderHandler struct {
	BaseHandler
	providerService *partner.ProviderService
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(providerService *partner.ProviderService) *ProviderHandler {
	return &ProviderHandler{providerService: providerService}
}

// Create godoc
// @ID           createProvider
// @Summary      Create a provider
// @Description  Register a provider by CUIT and SAP account
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        request body partner.CreateProviderRequest true "Provider creation request"
// @Success      201 {object} APIResponse[partner.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /providers [post]
func (h *ProviderHandler) Create(c *gin.Context) {
	var req partner.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	provider, err := h.providerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, provider)
}

// GetByID godoc
// @ID           getProviderById
// @Summary      Get provider by ID
// @Description  Retrieve a provider by its ID
// @Tags         providers
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[partner.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id} [get]
func (h *ProviderHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	provider, err := h.providerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, provider)
}

// List godoc
// @ID           listProviders
// @Summary      List providers
// @Description  List providers with filtering and paging
// @Tags         providers
// @Produce      json
// @Param        search query string false "Search term (business name, CUIT)"
// @Param        active_only query bool false "Only active providers"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(business_name, cuit, created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]partner.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	var filter partner.ProviderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}
	page, err := h.providerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Update godoc
// @ID           updateProvider
// @Summary      Update a provider
// @Description  Change the business name, SAP account or email of a provider
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Param        request body partner.UpdateProviderRequest true "Provider update request"
// @Success      200 {object} APIResponse[partner.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id} [put]
func (h *ProviderHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partner.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	provider, err := h.providerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, provider)
}

// Activate godoc
// @ID           activateProvider
// @Summary      Activate a provider
// @Description  Allow the provider to submit documents again
// @Tags         providers
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[partner.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id}/activate [post]
func (h *ProviderHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	provider, err := h.providerService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, provider)
}

// Deactivate godoc
// @ID           deactivateProvider
// @Summary      Deactivate a provider
// @Description  Stop the provider from submitting documents
// @Tags         providers
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[partner.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id}/deactivate [post]
func (h *ProviderHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	provider, err := h.providerService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, provider)
}
