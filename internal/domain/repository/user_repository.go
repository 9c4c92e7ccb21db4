package repository

import (
	"context"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Not-found lookups return ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
