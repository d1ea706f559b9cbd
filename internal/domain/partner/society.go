package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/shared"
)

// Society is an internal business unit that receives and pays documents.
// Code is the company code used by SAP rows; ExternalID is how callers
// refer to the society.
type Society struct {
	shared.BaseAggregateRoot
	Code       string
	ExternalID string
	CUIT       string
	Name       string
	SAPAccount string
	Active     bool
}

// NewSociety creates an active society
func NewSociety(code, externalID, cuit, name, sapAccount string) (*Society, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Society code cannot be empty")
	}
	if len(code) > 10 {
		return nil, shared.NewDomainError("INVALID_CODE", "Society code cannot exceed 10 characters")
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External identifier cannot be empty")
	}
	if err := validateCUIT(cuit); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Society name cannot be empty")
	}

	return &Society{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		ExternalID:        externalID,
		CUIT:              NormalizeCUIT(cuit),
		Name:              name,
		SAPAccount:        strings.TrimSpace(sapAccount),
		Active:            true,
	}, nil
}

// Rename changes the display name
func (s *Society) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Society name cannot be empty")
	}
	s.Name = name
	s.Touch()
	s.IncrementVersion()
	return nil
}

// UserSociety assigns a society-role user to a society
type UserSociety struct {
	UserID    uuid.UUID
	SocietyID uuid.UUID
	CreatedAt time.Time
}
