package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler(nil)
	r := gin.New()
	r.GET("/system/info", h.GetSystemInfo)

	w := doJSON(t, r, http.MethodGet, "/system/info", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var info SystemInfoResponse
	dataAs(t, w, &info)
	assert.Equal(t, "Preload API", info.Name)
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestSystemHandler_Live(t *testing.T) {
	h := NewSystemHandler(nil)
	r := gin.New()
	r.GET("/health", h.Live)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestSystemHandler_Ready(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("all checks pass", func(t *testing.T) {
		h := NewSystemHandler(map[string]HealthCheck{"database": ok, "storage": ok})
		r := gin.New()
		r.GET("/health/ready", h.Ready)

		w := doJSON(t, r, http.MethodGet, "/health/ready", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, map[string]string{"database": "ok", "storage": "ok"}, resp.Checks)
	})

	t.Run("failing check", func(t *testing.T) {
		h := NewSystemHandler(map[string]HealthCheck{
			"database": ok,
			"storage":  func(context.Context) error { return errors.New("bucket unreachable") },
		})
		r := gin.New()
		r.GET("/health/ready", h.Ready)

		w := doJSON(t, r, http.MethodGet, "/health/ready", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decode(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeServiceUnavailable, resp.Error.Code)

		var health HealthResponse
		dataAs(t, w, &health)
		assert.Equal(t, "not_ready", health.Status)
		assert.Equal(t, "bucket unreachable", health.Checks["storage"])
	})
}
