package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.@]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
)

// User is a person or system account that can log in
type User struct {
	shared.BaseAggregateRoot
	Username       string
	Email          string
	PasswordHash   string
	DisplayName    string
	Role           Role
	CUIT           string // providers only
	Active         bool
	LastLoginAt    *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(username, password string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.TrimSpace(username),
		Role:              role,
		Active:            true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetEmail sets the contact email
func (u *User) SetEmail(email string) error {
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	u.Email = email
	u.Touch()
	return nil
}

// BindCUIT sets the tax id that links a provider user to its provider record
func (u *User) BindCUIT(cuit string) error {
	if u.Role != RoleProvider {
		return shared.NewDomainError("INVALID_ROLE", "Only provider users carry a CUIT")
	}
	u.CUIT = cuit
	u.Touch()
	return nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return shared.WrapDomainError("PASSWORD_HASH_ERROR", "Failed to hash password", err)
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsLocked reports whether a lock is in force at now
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// CanLogin reports whether the account may authenticate at now
func (u *User) CanLogin(now time.Time) bool {
	return u.Active && !u.IsLocked(now)
}

// RecordLoginSuccess clears failures and stamps the login
func (u *User) RecordLoginSuccess(now time.Time) {
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
}

// RecordLoginFailure counts a failed attempt and locks the account once
// maxAttempts is reached. Returns true when the account got locked.
func (u *User) RecordLoginFailure(now time.Time, maxAttempts int, lockFor time.Duration) bool {
	u.FailedAttempts++
	u.Touch()
	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := now.Add(lockFor)
		u.LockedUntil = &until
		u.FailedAttempts = 0
		return true
	}
	return false
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Active = false
	u.Touch()
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username contains invalid characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

// Principal is the authenticated caller as seen by application services
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     Role
	CUIT     string
}
