package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

// asPrincipal injects an authenticated caller the way the JWT middleware does
func asPrincipal(p identity.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTPrincipalKey, p)
		c.Set(middleware.JWTUserIDKey, p.UserID.String())
		c.Next()
	}
}

func adminPrincipal() identity.Principal {
	return identity.Principal{UserID: uuid.New(), Username: "admin", Role: identity.RoleAdministrator}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// dataAs re-decodes the envelope data into out
func dataAs(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	resp := decode(t, w)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
