package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeServiceUnavailable is used when a dependency check fails
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
	ErrCodeValidationLength   = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"
	ErrCodeAccountDisabled    = "ERR_ACCOUNT_DISABLED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "ERR_DUPLICATE_REQUEST"
	// ErrCodeLocked is used when another request holds the document lock
	ErrCodeLocked = "ERR_LOCKED"
)

// Document workflow error codes
const (
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeBusinessRule        = "ERR_BUSINESS_RULE"
	ErrCodeAmountMismatch      = "ERR_AMOUNT_MISMATCH"
	ErrCodeProviderInactive    = "ERR_PROVIDER_INACTIVE"
	ErrCodeReasonRequired      = "ERR_REASON_REQUIRED"
	ErrCodeAttachmentRequired  = "ERR_ATTACHMENT_REQUIRED"
	ErrCodeAttachmentNotFound  = "ERR_ATTACHMENT_NOT_FOUND"
	ErrCodeAttachmentTooLarge  = "ERR_ATTACHMENT_TOO_LARGE"
	ErrCodeInvalidAttachment   = "ERR_INVALID_ATTACHMENT"
	ErrCodeTooManyPages        = "ERR_TOO_MANY_PAGES"
	ErrCodeInvalidDocumentType = "ERR_INVALID_DOCUMENT_TYPE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeInvalidCUIT  = "ERR_INVALID_CUIT"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountLocked:      http.StatusLocked,
	ErrCodeAccountDisabled:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,
	ErrCodeLocked:              http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeAmountMismatch:      http.StatusUnprocessableEntity,
	ErrCodeProviderInactive:    http.StatusUnprocessableEntity,
	ErrCodeReasonRequired:      http.StatusUnprocessableEntity,
	ErrCodeAttachmentRequired:  http.StatusUnprocessableEntity,
	ErrCodeTooManyPages:        http.StatusUnprocessableEntity,
	ErrCodeInvalidDocumentType: http.StatusUnprocessableEntity,
	ErrCodeAttachmentNotFound:  http.StatusNotFound,
	ErrCodeAttachmentTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeInvalidAttachment:   http.StatusUnsupportedMediaType,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeInvalidCUIT:  http.StatusBadRequest,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted ERR_INVALID_* codes are field validation failures and map to 400;
// anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "ERR_INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes whose HTTP code differs
// from the plain ERR_ prefixed form
var LegacyErrorCodeMapping = map[string]string{
	"ACCOUNT_DEACTIVATED": ErrCodeAccountDisabled,
	"ACCOUNT_INACTIVE":    ErrCodeAccountDisabled,
	"PROVIDER_NOT_FOUND":  ErrCodeNotFound,
	"LOCKED":              ErrCodeLocked,
	"VALIDATION_ERROR":    ErrCodeValidation,
	"BAD_REQUEST":         ErrCodeBadRequest,
	"INTERNAL":            ErrCodeInternal,
	"INTERNAL_ERROR":      ErrCodeInternal,
	"PASSWORD_HASH_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the ERR_ format.
// Codes already in that format pass through unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	if code == "" || strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
