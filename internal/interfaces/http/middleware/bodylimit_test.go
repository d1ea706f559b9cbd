package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	newRouter := func(limit int64) *gin.Engine {
		r := gin.New()
		r.Use(BodyLimit(limit))
		r.POST("/documents", func(c *gin.Context) {
			if _, err := io.ReadAll(c.Request.Body); err != nil {
				c.String(http.StatusRequestEntityTooLarge, "too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})
		return r
	}

	t.Run("allows request within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(1024).ServeHTTP(w, httptest.NewRequest("POST", "/documents", strings.NewReader("small body")))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects declared length over the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(100).ServeHTTP(w, httptest.NewRequest("POST", "/documents", strings.NewReader(strings.Repeat("x", 200))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_REQUEST_TOO_LARGE")
	})

	t.Run("caps streamed bodies", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/documents", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		newRouter(100).ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("zero disables the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(0).ServeHTTP(w, httptest.NewRequest("POST", "/documents", strings.NewReader(strings.Repeat("x", 200))))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
