package repository

import (
	"context"
	"errors"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
)

// ErrNotFound is returned by all repositories for missing rows.
var ErrNotFound = errors.New("not found")

// ReviewRepository is the single write path for reviews. Upsert and
// Delete run the row mutation and the dish rating recompute inside one
// transaction, so a committed write can never leave dishes.rating out of
// step with the review set.
type ReviewRepository interface {
	// Upsert inserts the review or, when one already exists for the same
	// (user, dish) pair, overwrites its rating, body and timestamp.
	// Returns the dish rating after the recompute.
	Upsert(ctx context.Context, r *entity.Review) (float64, error)

	// Delete removes the review and recomputes the dish rating.
	Delete(ctx context.Context, reviewID int64) (float64, error)

	GetByID(ctx context.Context, reviewID int64) (*entity.Review, error)
	GetByUserAndDish(ctx context.Context, userID string, dishID int64) (*entity.Review, error)

	// ListForDish returns the dish's reviews in the given sort order
	// (entity.SortNewest / SortHighest / SortLowest).
	ListForDish(ctx context.Context, dishID int64, sort string) ([]*entity.Review, error)
	ListForUser(ctx context.Context, userID string) ([]*entity.Review, error)
}
