package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/repository"
)

type DishRepository struct {
	pool *pgxpool.Pool
}

func NewDishRepository(pool *pgxpool.Pool) *DishRepository {
	return &DishRepository{pool: pool}
}

const dishColumns = `id, name, ingredients, steps, calories, cooking_time, servings, rating`

func (r *DishRepository) List(ctx context.Context, query string) ([]*entity.Dish, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if query != "" {
		// ILIKE handles case-insensitive matching for non-ASCII names too
		// (e.g. "борщ" matches "Борщ") as long as the db uses an ICU or
		// proper libc collation.
		rows, err = r.pool.Query(ctx, `
			SELECT `+dishColumns+`
			FROM dishes
			WHERE name ILIKE '%' || $1 || '%'
			ORDER BY rating DESC, id
		`, query)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+dishColumns+`
			FROM dishes
			ORDER BY rating DESC, id
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dishes []*entity.Dish
	for rows.Next() {
		d := &entity.Dish{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Ingredients, &d.Steps,
			&d.Calories, &d.CookingTime, &d.Servings, &d.Rating); err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

func (r *DishRepository) GetByID(ctx context.Context, id int64) (*entity.Dish, error) {
	d := &entity.Dish{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+dishColumns+`
		FROM dishes
		WHERE id = $1
	`, id)

	if err := row.Scan(&d.ID, &d.Name, &d.Ingredients, &d.Steps,
		&d.Calories, &d.CookingTime, &d.Servings, &d.Rating); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *DishRepository) Create(ctx context.Context, d *entity.Dish) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO dishes (name, ingredients, steps, calories, cooking_time, servings, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, d.Name, d.Ingredients, d.Steps, d.Calories, d.CookingTime, d.Servings, d.Rating)

	return row.Scan(&d.ID)
}

var _ repository.DishRepository = (*DishRepository)(nil)
