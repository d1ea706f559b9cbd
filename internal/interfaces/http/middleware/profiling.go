package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/infrastructure/telemetry"
)

// profilingSkipPrefixes never get labels: health checks and docs are noise in profiles
var profilingSkipPrefixes = []string{"/health", "/swagger"}

// Profiling labels the CPU samples taken while serving a request with its
// route template, method and caller role. Disabled returns a pass-through.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		for _, prefix := range profilingSkipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		labels := map[string]string{
			telemetry.ProfilingLabelRoute:  c.FullPath(),
			telemetry.ProfilingLabelMethod: c.Request.Method,
		}
		if p, ok := GetPrincipal(c); ok {
			labels[telemetry.ProfilingLabelRole] = p.Role.String()
		}

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
