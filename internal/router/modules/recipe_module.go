package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/application"
	handlers "github.com/gardenviki-prog/Cooking-Recipes/internal/interface/http"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/interface/middleware"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/helpers"
)

// RecipeModule wires dish browsing and review routes.
// Public: GET /api/recipes, /api/recipes/:id, /api/search
// Protected: GET/POST /api/recipes/:id/review, POST /api/reviews/delete/:id

type RecipeModule struct {
	Recipes  *handlers.RecipeHandler
	Reviews  *handlers.ReviewHandler
	Sessions application.SessionStore
	JWT      *helpers.JWTManager
}

func NewRecipeModule(recipes *handlers.RecipeHandler, reviews *handlers.ReviewHandler, sessions application.SessionStore, jwt *helpers.JWTManager) *RecipeModule {
	return &RecipeModule{Recipes: recipes, Reviews: reviews, Sessions: sessions, JWT: jwt}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/recipes", m.Recipes.List)
	rg.GET("/recipes/:id", m.Recipes.Detail)
	rg.GET("/search", m.Recipes.Search)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Sessions, m.JWT))
	{
		auth.GET("/recipes/:id/review", m.Reviews.GetOwn)
		auth.POST("/recipes/:id/review", m.Reviews.Submit)
		auth.POST("/reviews/delete/:id", m.Reviews.Delete)
	}
}
