package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/application/partner"
)

// SocietyHandler handles societies and their user assignments
type SocietyHandler struct {
	BaseHandler
	societyService *partner.SocietyService
}

// NewSocietyHandler creates a new SocietyHandler
func NewSocietyHandler(societyService *partner.SocietyService) *SocietyHandler {
	return &SocietyHandler{societyService: societyService}
}

// Create godoc
// @ID           createSociety
// @Summary      Create a society
// @Description  Register a buying society of the group
// @Tags         societies
// @Accept       json
// @Produce      json
// @Param        request body partner.CreateSocietyRequest true "Society creation request"
// @Success      201 {object} APIResponse[partner.SocietyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /societies [post]
func (h *SocietyHandler) Create(c *gin.Context) {
	var req partner.CreateSocietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	society, err := h.societyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, society)
}

// GetByID godoc
// @ID           getSocietyById
// @Summary      Get society by ID
// @Description  Retrieve a society by its ID
// @Tags         societies
// @Produce      json
// @Param        id path string true "Society ID" format(uuid)
// @Success      200 {object} APIResponse[partner.SocietyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /societies/{id} [get]
func (h *SocietyHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	society, err := h.societyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, society)
}

// GetByExternalID godoc
// @ID           getSocietyByExternalId
// @Summary      Get society by external ID
// @Description  Retrieve a society by the identifier used in the purchasing system
// @Tags         societies
// @Produce      json
// @Param        external_id path string true "External society ID"
// @Success      200 {object} APIResponse[partner.SocietyResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /societies/external/{external_id} [get]
func (h *SocietyHandler) GetByExternalID(c *gin.Context) {
	society, err := h.societyService.GetByExternalID(c.Request.Context(), c.Param("external_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, society)
}

// List godoc
// @ID           listSocieties
// @Summary      List societies
// @Description  List societies with paging and search
// @Tags         societies
// @Produce      json
// @Param        search query string false "Search term (name, code)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]partner.SocietyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /societies [get]
func (h *SocietyHandler) List(c *gin.Context) {
	page, err := h.societyService.List(c.Request.Context(), listFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Rename godoc
// @ID           renameSociety
// @Summary      Rename a society
// @Description  Change the display name of a society
// @Tags         societies
// @Accept       json
// @Produce      json
// @Param        id path string true "Society ID" format(uuid)
// @Param        request body partner.RenameSocietyRequest true "New society name"
// @Success      200 {object} APIResponse[partner.SocietyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /societies/{id} [put]
func (h *SocietyHandler) Rename(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partner.RenameSocietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	society, err := h.societyService.Rename(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, society)
}

// AssignUser godoc
// @ID           assignSocietyUser
// @Summary      Assign a user to a society
// @Description  Give a society user access to the documents of the society
// @Tags         societies
// @Accept       json
// @Produce      json
// @Param        id path string true "Society ID" format(uuid)
// @Param        request body partner.AssignUserRequest true "User to assign"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /societies/{id}/users [post]
func (h *SocietyHandler) AssignUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partner.AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	if err := h.societyService.AssignUser(c.Request.Context(), id, req.UserID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UnassignUser godoc
// @ID           unassignSocietyUser
// @Summary      Remove a user from a society
// @Description  Revoke a society user's access to the documents of the society
// @Tags         societies
// @Produce      json
// @Param        id path string true "Society ID" format(uuid)
// @Param        user_id path string true "User ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /societies/{id}/users/{user_id} [delete]
func (h *SocietyHandler) UnassignUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.societyService.UnassignUser(c.Request.Context(), id, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Mine godoc
// @ID           listMySocieties
// @Summary      List my societies
// @Description  List the societies the caller is assigned to
// @Tags         societies
// @Produce      json
// @Success      200 {object} APIResponse[[]partner.SocietyResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /societies/mine [get]
func (h *SocietyHandler) Mine(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	societies, err := h.societyService.ListForUser(c.Request.Context(), p.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, societies)
}
