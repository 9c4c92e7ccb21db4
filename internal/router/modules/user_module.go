package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/application"
	handlers "github.com/gardenviki-prog/Cooking-Recipes/internal/interface/http"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/interface/middleware"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/helpers"
)

// UserModule wires account and profile routes.
// Public: POST /api/register, /api/login, /api/refresh
// Protected: POST /api/logout, /api/profile/change-password,
// GET/PUT /api/profile, GET /api/profile/reviews

type UserModule struct {
	Handler  *handlers.UserHandler
	Reviews  *handlers.ReviewHandler
	Sessions application.SessionStore
	JWT      *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, reviews *handlers.ReviewHandler, sessions application.SessionStore, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Reviews: reviews, Sessions: sessions, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
	rg.POST("/refresh", m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Sessions, m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.GET("/profile/reviews", m.Reviews.ListOwn)
		auth.POST("/profile/change-password", m.Handler.ChangePassword)
	}
}
