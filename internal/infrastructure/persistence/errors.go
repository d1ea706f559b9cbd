package persistence

import (
	"errors"
	"strings"

	"github.com/preload/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors to domain errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if isUniqueViolation(err) {
		return shared.WrapDomainError("ALREADY_EXISTS", "Resource already exists", err)
	}
	return err
}

// isUniqueViolation detects unique constraint errors from postgres (23505) and sqlite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func applyPaging(query *gorm.DB, filter shared.Filter, allowedOrder map[string]string) *gorm.DB {
	column, ok := allowedOrder[filter.OrderBy]
	if !ok {
		column = allowedOrder["created_at"]
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	return query.Order(column + " " + dir).Offset(filter.Offset()).Limit(filter.PageSize)
}
