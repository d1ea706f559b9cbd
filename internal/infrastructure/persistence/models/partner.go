package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/partner"
)

// ProviderModel is the persistence model for Provider
type ProviderModel struct {
	AggregateModel
	CUIT         string `gorm:"type:varchar(11);not null;uniqueIndex"`
	BusinessName string `gorm:"type:varchar(200);not null"`
	SearchName   string `gorm:"type:varchar(200);not null;index"`
	SAPAccount   string `gorm:"column:sap_account;type:varchar(20);not null;index"`
	Email        string `gorm:"type:varchar(200)"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProviderModel) TableName() string {
	return "providers"
}

// ToDomain converts the model to a domain Provider
func (m *ProviderModel) ToDomain() *partner.Provider {
	return &partner.Provider{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CUIT:              m.CUIT,
		BusinessName:      m.BusinessName,
		SearchName:        m.SearchName,
		SAPAccount:        m.SAPAccount,
		Email:             m.Email,
		Active:            m.Active,
	}
}

// ProviderModelFromDomain creates a persistence model from a domain Provider
func ProviderModelFromDomain(p *partner.Provider) *ProviderModel {
	m := &ProviderModel{
		CUIT:         p.CUIT,
		BusinessName: p.BusinessName,
		SearchName:   p.SearchName,
		SAPAccount:   p.SAPAccount,
		Email:        p.Email,
		Active:       p.Active,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// SocietyModel is the persistence model for Society
type SocietyModel struct {
	AggregateModel
	Code       string `gorm:"type:varchar(10);not null;uniqueIndex"`
	ExternalID string `gorm:"column:external_id;type:varchar(50);not null;uniqueIndex"`
	CUIT       string `gorm:"type:varchar(11);not null"`
	Name       string `gorm:"type:varchar(200);not null"`
	SAPAccount string `gorm:"column:sap_account;type:varchar(20)"`
	Active     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SocietyModel) TableName() string {
	return "societies"
}

// ToDomain converts the model to a domain Society
func (m *SocietyModel) ToDomain() *partner.Society {
	return &partner.Society{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		ExternalID:        m.ExternalID,
		CUIT:              m.CUIT,
		Name:              m.Name,
		SAPAccount:        m.SAPAccount,
		Active:            m.Active,
	}
}

// SocietyModelFromDomain creates a persistence model from a domain Society
func SocietyModelFromDomain(s *partner.Society) *SocietyModel {
	m := &SocietyModel{
		Code:       s.Code,
		ExternalID: s.ExternalID,
		CUIT:       s.CUIT,
		Name:       s.Name,
		SAPAccount: s.SAPAccount,
		Active:     s.Active,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// UserSocietyModel links a user to a society
type UserSocietyModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SocietyID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserSocietyModel) TableName() string {
	return "user_societies"
}
