package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/interfaces/http/dto"
)

// Version is stamped at build time with -ldflags
var Version = "dev"

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime    time.Time
	checks       map[string]HealthCheck
	checkTimeout time.Duration
}

// NewSystemHandler creates a new SystemHandler. checks are run by Ready.
func NewSystemHandler(checks map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{
		startTime:    time.Now(),
		checks:       checks,
		checkTimeout: 3 * time.Second,
	}
}

// SystemInfoResponse represents the system information response
// @Description Basic system information
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthResponse is the body of the health endpoints
// @Description Health check result with per-dependency status
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Preload API",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Live GET /health. It sits outside the API base path and is not in the
// OpenAPI document.
func (h *SystemHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready runs every dependency check. Any failure answers 503.
// GET /health/ready
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.checkTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	resp := HealthResponse{
		Status: "ready",
		Checks: make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if status != http.StatusOK {
		c.JSON(status, dto.Response{
			Success: false,
			Data:    resp,
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeServiceUnavailable, Message: "Dependencies unavailable", Timestamp: time.Now()},
		})
		return
	}
	c.JSON(status, resp)
}
