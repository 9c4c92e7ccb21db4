package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
	repo "github.com/gardenviki-prog/Cooking-Recipes/internal/domain/repository"
)

var ErrDishNotFound = errors.New("dish not found")

// RecipeService serves the dish listing and detail pages and maintains
// the Elasticsearch dish index. The listing `q` filter deliberately uses
// the database (ILIKE substring match); the index backs the separate
// full-text /search endpoint.
type RecipeService struct {
	Dishes  repo.DishRepository
	Reviews repo.ReviewRepository
	Logger  *logrus.Logger

	ES      *elasticsearch.Client
	ESIndex string
}

func NewRecipeService(dishes repo.DishRepository, reviews repo.ReviewRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *RecipeService {
	return &RecipeService{Dishes: dishes, Reviews: reviews, Logger: logger, ES: es, ESIndex: esIndex}
}

// List returns all dishes ordered by rating descending, optionally
// filtered by a case-insensitive substring of the name.
func (s *RecipeService) List(ctx context.Context, query string) ([]*entity.Dish, error) {
	return s.Dishes.List(ctx, strings.TrimSpace(query))
}

// DishDetail is the dish page payload: the dish, its text fields split
// into display lists, and the review set in the requested order.
type DishDetail struct {
	Dish        *entity.Dish
	Ingredients []string
	Steps       []string
	Reviews     []*entity.Review
	Sort        string
}

// Get loads a dish and its reviews. Unknown sort keys fall back to
// newest-first.
func (s *RecipeService) Get(ctx context.Context, id int64, sort string) (*DishDetail, error) {
	d, err := s.Dishes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}
	sort = entity.NormalizeSort(sort)
	reviews, err := s.Reviews.ListForDish(ctx, id, sort)
	if err != nil {
		return nil, err
	}
	return &DishDetail{
		Dish:        d,
		Ingredients: entity.SplitLines(d.Ingredients),
		Steps:       entity.SplitLines(d.Steps),
		Reviews:     reviews,
		Sort:        sort,
	}, nil
}

// IndexDish writes the dish document into Elasticsearch. Best effort:
// the database stays authoritative and index failures are only logged.
func (s *RecipeService) IndexDish(ctx context.Context, d *entity.Dish) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":           d.ID,
		"name":         d.Name,
		"ingredients":  d.Ingredients,
		"calories":     d.Calories,
		"cooking_time": d.CookingTime,
		"servings":     d.Servings,
		"rating":       d.Rating,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(d.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("dish_id", d.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("dish_id", d.ID).Warn("es index response error")
	}
	return nil
}

// ReindexDish refreshes the index entry after a rating change.
func (s *RecipeService) ReindexDish(ctx context.Context, dishID int64) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	d, err := s.Dishes.GetByID(ctx, dishID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("dish_id", dishID).Warn("reindex lookup failed")
		}
		return
	}
	_ = s.IndexDish(ctx, d)
}

// SearchDishes performs a multi_match query over name and ingredients.
func (s *RecipeService) SearchDishes(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "ingredients"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
