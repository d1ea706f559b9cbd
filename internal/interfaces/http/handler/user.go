package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/preload/backend/internal/application/identity"
)

// UserHandler exposes account administration
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
// @ID           createUser
// @Summary      Create a user
// @Description  Register an account. Provider accounts need a CUIT.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User creation request"
// @Success      201 {object} APIResponse[appidentity.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), appidentity.CreateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		CUIT:        req.CUIT,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// GetByID godoc
// @ID           getUserById
// @Summary      Get user by ID
// @Description  Retrieve an account by its ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[appidentity.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  List accounts with paging and search
// @Tags         users
// @Produce      json
// @Param        search query string false "Search term (username, display name, email)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]appidentity.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	page, err := h.userService.List(c.Request.Context(), listFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Deactivate godoc
// @ID           deactivateUser
// @Summary      Deactivate a user
// @Description  Disable an account. Its tokens stop working at the next check.
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
