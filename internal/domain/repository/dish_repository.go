package repository

import (
	"context"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
)

// DishRepository defines dish lookups. Dishes are seeded out of band
// (cmd/seed); request handlers never create them.
type DishRepository interface {
	// List returns all dishes ordered by rating descending. A non-empty
	// query filters by case-insensitive substring match on the name.
	List(ctx context.Context, query string) ([]*entity.Dish, error)
	GetByID(ctx context.Context, id int64) (*entity.Dish, error)
	Create(ctx context.Context, d *entity.Dish) error
}
