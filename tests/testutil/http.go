package testutil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// APIClient sends requests straight into an http.Handler, optionally with a
// bearer token
type APIClient struct {
	Handler http.Handler
	Token   string
}

// envelope mirrors the API response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// JSON sends body encoded as JSON. Extra headers come as key/value pairs.
func (c *APIClient) JSON(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body), "Failed to marshal request body")
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, headers)
}

// Upload posts content as a multipart file under field
func (c *APIClient) Upload(t *testing.T, path, field, filename string, content []byte, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, headers)
}

func (c *APIClient) do(req *http.Request, headers []string) *httptest.ResponseRecorder {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	return w
}

// DecodeData unmarshals the data field of a success response into out
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse JSON response")
	require.True(t, env.Success, "Expected success response, got %s", w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// AssertErrorCode asserts an error response carrying code
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	assert.Equal(t, status, w.Code, w.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse JSON response")
	assert.False(t, env.Success)
	require.NotNil(t, env.Error, "Expected error object in response")
	assert.Equal(t, code, env.Error.Code)
}
