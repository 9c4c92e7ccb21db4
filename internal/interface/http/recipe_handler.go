package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/application"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/response"
)

type RecipeHandler struct {
	Svc    *application.RecipeService
	Logger *logrus.Logger
}

func NewRecipeHandler(svc *application.RecipeService, logger *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{Svc: svc, Logger: logger}
}

func dishBody(d *entity.Dish) gin.H {
	return gin.H{
		"id":           d.ID,
		"name":         d.Name,
		"calories":     d.Calories,
		"cooking_time": d.CookingTime,
		"servings":     d.Servings,
		"rating":       d.Rating,
	}
}

func reviewBody(r *entity.Review) gin.H {
	return gin.H{
		"id":         r.ID,
		"dish_id":    r.DishID,
		"username":   r.Username,
		"rating":     r.Rating,
		"body":       r.Body,
		"created_at": r.CreatedAt,
	}
}

// List GET /api/recipes?q=
func (h *RecipeHandler) List(c *gin.Context) {
	q := c.Query("q")
	dishes, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list dishes", nil)
		return
	}
	out := make([]gin.H, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, dishBody(d))
	}
	response.Success(c, http.StatusOK, out, "dishes", map[string]any{"count": len(out), "q": q})
}

// Detail GET /api/recipes/:id?sort=newest|highest|lowest
func (h *RecipeHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "dish not found", nil)
		return
	}
	detail, err := h.Svc.Get(c.Request.Context(), id, c.Query("sort"))
	if err != nil {
		if errors.Is(err, application.ErrDishNotFound) {
			response.Error[any](c, http.StatusNotFound, "dish not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to load dish", nil)
		return
	}

	reviews := make([]gin.H, 0, len(detail.Reviews))
	for _, r := range detail.Reviews {
		reviews = append(reviews, reviewBody(r))
	}
	body := dishBody(detail.Dish)
	body["ingredients"] = detail.Ingredients
	body["steps"] = detail.Steps
	body["reviews"] = reviews
	response.Success(c, http.StatusOK, body, "dish", map[string]any{"sort": detail.Sort})
}

// Search GET /api/search?q=&size=
func (h *RecipeHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchDishes(c.Request.Context(), q, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
