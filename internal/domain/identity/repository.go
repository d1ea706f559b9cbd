package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/shared"
)

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, user *User) error
}
