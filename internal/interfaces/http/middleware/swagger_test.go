package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swaggerRouter(cfg SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Secure())
	r.GET("/swagger/*any", SwaggerProtection(cfg, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "swagger")
	})
	return r
}

func swaggerRequest(r *gin.Engine, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection_Disabled(t *testing.T) {
	r := swaggerRouter(SwaggerConfig{Enabled: false}, nil)

	w := swaggerRequest(r, "127.0.0.1:4000", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
}

func TestSwaggerProtection_Enabled_NoRestrictions(t *testing.T) {
	r := swaggerRouter(SwaggerConfig{Enabled: true}, nil)

	w := swaggerRequest(r, "203.0.113.9:4000", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "swagger", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "script-src 'self'")
}

func TestSwaggerProtection_IPWhitelist(t *testing.T) {
	cfg := SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1", "10.0.0.0/8", "not-an-ip"}}
	r := swaggerRouter(cfg, nil)

	tests := []struct {
		name       string
		remoteAddr string
		want       int
	}{
		{"exact ip", "127.0.0.1:4000", http.StatusOK},
		{"inside cidr", "10.20.30.40:4000", http.StatusOK},
		{"outside list", "192.168.1.10:4000", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := swaggerRequest(r, tt.remoteAddr, nil)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
			}
		})
	}
}

func TestSwaggerProtection_RequireAuth(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	jwt := JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: svc})
	r := swaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, jwt)

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		w := swaggerRequest(r, "127.0.0.1:4000", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("caller with access token is served", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(testPrincipal())
		require.NoError(t, err)

		w := swaggerRequest(r, "127.0.0.1:4000", withBearer(pair.AccessToken))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIsIPAllowed(t *testing.T) {
	_, network, err := net.ParseCIDR("192.168.0.0/16")
	require.NoError(t, err)
	ips := []net.IP{net.ParseIP("::1")}
	nets := []*net.IPNet{network}

	assert.True(t, isIPAllowed(net.ParseIP("::1"), ips, nets))
	assert.True(t, isIPAllowed(net.ParseIP("192.168.4.2"), ips, nets))
	assert.False(t, isIPAllowed(net.ParseIP("172.16.0.1"), ips, nets))
	assert.False(t, isIPAllowed(nil, ips, nets))
}
