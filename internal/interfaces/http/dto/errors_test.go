package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeAccountLocked, http.StatusLocked},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeLocked, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeAttachmentRequired, http.StatusUnprocessableEntity},
		{ErrCodeAttachmentTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeInvalidAttachment, http.StatusUnsupportedMediaType},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// unlisted field validation codes
		{"ERR_INVALID_CAE", http.StatusBadRequest},
		{"ERR_INVALID_ISSUE_DATE", http.StatusBadRequest},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"TOKEN_REVOKED", ErrCodeTokenRevoked},
		{"INVALID_CUIT", ErrCodeInvalidCUIT},
		{"ATTACHMENT_TOO_LARGE", ErrCodeAttachmentTooLarge},
		{"ACCOUNT_DEACTIVATED", ErrCodeAccountDisabled},
		{"PROVIDER_NOT_FOUND", ErrCodeNotFound},
		{"LOCKED", ErrCodeLocked},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainCodesHaveStatus(t *testing.T) {
	// every code raised by the domain and application layers
	codes := []string{
		"ACCOUNT_DEACTIVATED", "ACCOUNT_INACTIVE", "ACCOUNT_LOCKED",
		"ALREADY_EXISTS", "AMOUNT_MISMATCH", "ATTACHMENT_NOT_FOUND",
		"ATTACHMENT_REQUIRED", "ATTACHMENT_TOO_LARGE", "CONCURRENCY_CONFLICT",
		"FORBIDDEN", "INVALID_ATTACHMENT", "INVALID_CREDENTIALS",
		"INVALID_DOCUMENT_TYPE", "INVALID_STATE", "LOCKED", "NOT_FOUND",
		"PROVIDER_INACTIVE", "PROVIDER_NOT_FOUND", "REASON_REQUIRED",
		"TOKEN_EXPIRED", "TOKEN_INVALID", "TOKEN_REVOKED", "TOO_MANY_PAGES",
		"UNAUTHORIZED", "INVALID_CAE", "INVALID_ACTION", "INVALID_ROLE",
	}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			status := GetHTTPStatus(NormalizeErrorCode(code))
			assert.Less(t, status, http.StatusInternalServerError)
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Resource not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Resource not found", "req-123-456")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123-456", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "cuit", Message: "cuit must be a valid CUIT"},
		{Field: "number", Message: "number is required"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "cuit", resp.Error.Details[0].Field)
}

func TestNewErrorResponseWithHelp(t *testing.T) {
	resp := NewErrorResponseWithHelp(ErrCodeUnauthorized, "Not authenticated", "req-001", "/docs/auth")

	assert.Equal(t, ErrCodeUnauthorized, resp.Error.Code)
	assert.Equal(t, "/docs/auth", resp.Error.Help)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Document not found", "req-test-123")

	data, err := json.Marshal(resp)
	assert.NoError(t, err)

	var decoded Response
	err = json.Unmarshal(data, &decoded)
	assert.NoError(t, err)

	assert.False(t, decoded.Success)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
}

func TestErrorResponseTimestamp(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse(ErrCodeInternal, "Server error")
	after := time.Now()

	assert.False(t, resp.Error.Timestamp.Before(before))
	assert.False(t, resp.Error.Timestamp.After(after))
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 10, 10, 10},
		{101, 10, 11, 10},
		{0, 10, 0, 10},
		{9, 10, 1, 10},
		{100, 0, 5, 20},
		{100, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}
