package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/application"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/interface/middleware"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/response"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/validation"
)

type ReviewHandler struct {
	Svc    *application.ReviewService
	Logger *logrus.Logger
}

func NewReviewHandler(svc *application.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Logger: logger}
}

type submitReviewRequest struct {
	Rating int    `json:"rating" binding:"required,stars"`
	Body   string `json:"body" binding:"required"`
}

// GetOwn returns the caller's review for the dish, if any.
func (h *ReviewHandler) GetOwn(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	dishID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "dish not found", nil)
		return
	}
	rev, err := h.Svc.GetOwn(c.Request.Context(), uid, dishID)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrDishNotFound):
			response.Error[any](c, http.StatusNotFound, "dish not found", nil)
		case errors.Is(err, application.ErrReviewNotFound):
			response.Success[any](c, http.StatusOK, nil, "no review yet", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to load review", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, reviewBody(rev), "review", nil)
}

// Submit creates or overwrites the caller's review for the dish.
func (h *ReviewHandler) Submit(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	dishID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "dish not found", nil)
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	rev, rating, err := h.Svc.Submit(c.Request.Context(), uid, dishID, req.Rating, req.Body)
	if err != nil {
		if errors.Is(err, application.ErrDishNotFound) {
			response.Error[any](c, http.StatusNotFound, "dish not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to submit review", nil)
		return
	}
	body := reviewBody(rev)
	body["username"] = c.GetString(middleware.CtxUsernameKey)
	response.Success(c, http.StatusOK, body, "review saved", map[string]any{"dish_rating": rating})
}

// Delete removes the caller's own review.
func (h *ReviewHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "review not found", nil)
		return
	}
	rating, err := h.Svc.Delete(c.Request.Context(), uid, reviewID)
	if err != nil {
		switch {
		// Another user's review is reported as missing rather than
		// forbidden; either way no state changes.
		case errors.Is(err, application.ErrReviewNotFound), errors.Is(err, application.ErrNotReviewOwner):
			response.Error[any](c, http.StatusNotFound, "review not found", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to delete review", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "review deleted", map[string]any{"dish_rating": rating})
}

// ListOwn returns the caller's reviews, newest first.
func (h *ReviewHandler) ListOwn(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	reviews, err := h.Svc.ListForUser(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list reviews", nil)
		return
	}
	out := make([]gin.H, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewBody(r))
	}
	response.Success(c, http.StatusOK, out, "reviews", map[string]any{"count": len(out)})
}
