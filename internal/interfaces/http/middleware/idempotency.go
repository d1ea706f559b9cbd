package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/infrastructure/logger"
	"github.com/preload/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyHeader carries the client-chosen key of a retried submission
const IdempotencyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// IdempotencyStore claims request keys for a limited time
type IdempotencyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency rejects a second request carrying the same Idempotency-Key
// from the same caller within ttl. Requests without the header pass through.
// A failed request releases its key so the client can retry it.
func Idempotency(store IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(IdempotencyHeader)
		if raw == "" || store == nil {
			c.Next()
			return
		}
		if len(raw) > maxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Idempotency-Key is too long")
			return
		}

		// per resource: the same key may be reused on another document
		key := c.GetString(JWTUserIDKey) + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + raw
		ctx := c.Request.Context()
		claimed, err := store.Claim(ctx, key, ttl)
		if err != nil {
			// fail open
			logger.L(ctx).Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			abortWithError(c, http.StatusConflict, dto.ErrCodeDuplicateRequest, "A request with this Idempotency-Key was already received")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
				logger.L(ctx).Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}
