package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/repository"
)

// ReviewRepository owns the only write path for reviews. Every mutation
// recomputes the owning dish's rating in the same transaction, keeping
// the dishes.rating cache consistent with the review set at commit.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Upsert(ctx context.Context, rev *entity.Review) (float64, error) {
	var rating float64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO reviews (dish_id, user_id, rating, body)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, dish_id)
			DO UPDATE SET rating = EXCLUDED.rating, body = EXCLUDED.body, created_at = now()
			RETURNING id, created_at
		`, rev.DishID, rev.UserID, rev.Rating, rev.Body)
		if err := row.Scan(&rev.ID, &rev.CreatedAt); err != nil {
			return err
		}
		var err error
		rating, err = recomputeDishRating(ctx, tx, rev.DishID)
		return err
	})
	return rating, err
}

func (r *ReviewRepository) Delete(ctx context.Context, reviewID int64) (float64, error) {
	var rating float64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var dishID int64
		row := tx.QueryRow(ctx, `
			DELETE FROM reviews
			WHERE id = $1
			RETURNING dish_id
		`, reviewID)
		if err := row.Scan(&dishID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrNotFound
			}
			return err
		}
		var err error
		rating, err = recomputeDishRating(ctx, tx, dishID)
		return err
	})
	return rating, err
}

// recomputeDishRating re-reads the whole review set for the dish and
// rewrites the denormalized rating. Must run inside the same transaction
// as the review mutation.
func recomputeDishRating(ctx context.Context, tx pgx.Tx, dishID int64) (float64, error) {
	rows, err := tx.Query(ctx, `SELECT rating FROM reviews WHERE dish_id = $1`, dishID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return 0, err
		}
		ratings = append(ratings, v)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	rating := entity.AverageRating(ratings)
	_, err = tx.Exec(ctx, `UPDATE dishes SET rating = $1 WHERE id = $2`, rating, dishID)
	return rating, err
}

func (r *ReviewRepository) GetByID(ctx context.Context, reviewID int64) (*entity.Review, error) {
	return r.getBy(ctx, `WHERE r.id = $1`, reviewID)
}

func (r *ReviewRepository) GetByUserAndDish(ctx context.Context, userID string, dishID int64) (*entity.Review, error) {
	return r.getBy(ctx, `WHERE r.user_id = $1 AND r.dish_id = $2`, userID, dishID)
}

func (r *ReviewRepository) getBy(ctx context.Context, where string, args ...any) (*entity.Review, error) {
	rev := &entity.Review{}
	row := r.pool.QueryRow(ctx, `
		SELECT r.id, r.dish_id, r.user_id, r.rating, r.body, r.created_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
	`+where, args...)

	if err := row.Scan(&rev.ID, &rev.DishID, &rev.UserID, &rev.Rating,
		&rev.Body, &rev.CreatedAt, &rev.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rev, nil
}

func (r *ReviewRepository) ListForDish(ctx context.Context, dishID int64, sort string) ([]*entity.Review, error) {
	order := `r.created_at DESC, r.id DESC`
	switch entity.NormalizeSort(sort) {
	case entity.SortHighest:
		order = `r.rating DESC, r.id DESC`
	case entity.SortLowest:
		order = `r.rating ASC, r.id DESC`
	}
	return r.list(ctx, `WHERE r.dish_id = $1 ORDER BY `+order, dishID)
}

func (r *ReviewRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Review, error) {
	return r.list(ctx, `WHERE r.user_id = $1 ORDER BY r.created_at DESC, r.id DESC`, userID)
}

func (r *ReviewRepository) list(ctx context.Context, tail string, arg any) ([]*entity.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.dish_id, r.user_id, r.rating, r.body, r.created_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
	`+tail, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		rev := &entity.Review{}
		if err := rows.Scan(&rev.ID, &rev.DishID, &rev.UserID, &rev.Rating,
			&rev.Body, &rev.CreatedAt, &rev.Username); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
