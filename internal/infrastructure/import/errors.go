package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// Row error codes
const (
	ErrCodeRequiredField = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidFormat = "ERR_IMPORT_INVALID_FORMAT"
	ErrCodeInvalidLength = "ERR_IMPORT_INVALID_LENGTH"
	ErrCodeInvalidRange  = "ERR_IMPORT_INVALID_RANGE"
	ErrCodeDuplicate     = "ERR_IMPORT_DUPLICATE_IN_FILE"
	ErrCodeMalformedRow  = "ERR_IMPORT_MALFORMED_ROW"
)

var (
	// ErrEmptyFile is returned when the input has no bytes
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrMissingHeader is returned when the input has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// MissingColumnsError lists required columns absent from the header
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// RowError is a problem found in one row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ErrorCollection keeps the first maxErrors row errors and counts the rest
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates an ErrorCollection. maxErrors <= 0 means 100.
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

// Add records err
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequired records a blank required column
func (ec *ErrorCollection) AddRequired(row int, column string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeRequiredField, Message: "value is required"})
}

// AddFormat records a value that does not parse
func (ec *ErrorCollection) AddFormat(row int, column, expected, value string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeInvalidFormat,
		Message: "expected " + expected, Value: value})
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns every error seen, kept or not
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors reports whether any error was recorded
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated reports whether errors were dropped
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > len(ec.errors)
}

// Summary counts errors per code
func (ec *ErrorCollection) Summary() map[string]int {
	out := make(map[string]int)
	for _, e := range ec.errors {
		out[e.Code]++
	}
	return out
}
