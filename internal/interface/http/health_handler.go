package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gardenviki-prog/Cooking-Recipes/pkg/response"
)

type HealthHandler struct {
	Pool *pgxpool.Pool
}

func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{Pool: pool}
}

// Check GET /api/healthz
func (h *HealthHandler) Check(c *gin.Context) {
	if h.Pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Pool.Ping(ctx); err != nil {
			response.Error[any](c, http.StatusServiceUnavailable, "database unreachable", nil)
			return
		}
	}
	response.Success[any](c, http.StatusOK, gin.H{"ok": true}, "healthy", nil)
}
