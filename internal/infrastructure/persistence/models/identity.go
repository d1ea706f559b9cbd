package models

import (
	"time"

	"github.com/preload/backend/internal/domain/identity"
)

// UserModel is the persistence model for User
type UserModel struct {
	AggregateModel
	Username       string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email          string     `gorm:"type:varchar(200)"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"`
	DisplayName    string     `gorm:"type:varchar(200)"`
	Role           string     `gorm:"type:varchar(20);not null;index"`
	CUIT           string     `gorm:"type:varchar(11)"`
	Active         bool       `gorm:"not null;default:true"`
	LastLoginAt    *time.Time `gorm:"type:timestamptz"`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Role:              identity.Role(m.Role),
		CUIT:              m.CUIT,
		Active:            m.Active,
		LastLoginAt:       m.LastLoginAt,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:       u.Username,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		DisplayName:    u.DisplayName,
		Role:           string(u.Role),
		CUIT:           u.CUIT,
		Active:         u.Active,
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
