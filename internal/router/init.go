package router

import (
	"github.com/gardenviki-prog/Cooking-Recipes/internal/application"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/container"
	pginfra "github.com/gardenviki-prog/Cooking-Recipes/internal/infrastructure/postgres"
	handlers "github.com/gardenviki-prog/Cooking-Recipes/internal/interface/http"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/router/modules"
)

// InitModules builds repositories, services and handlers from the
// container singletons and registers every feature module.
// Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	dishRepo := pginfra.NewDishRepository(pool)
	reviewRepo := pginfra.NewReviewRepository(pool)

	recipeSvc := application.NewRecipeService(
		dishRepo,
		reviewRepo,
		logger,
		container.GetES(),
		cfg.ESDishesIndex,
	)
	reviewSvc := application.NewReviewService(dishRepo, reviewRepo, recipeSvc, logger)
	userSvc := application.NewUserService(
		userRepo,
		container.GetSessions(),
		container.GetJWT(),
		container.GetAvatars(),
		container.GetRabbitPub(),
		logger,
		cfg.MailSendEnabled,
	)

	userHandler := handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	recipeHandler := handlers.NewRecipeHandler(recipeSvc, logger)
	reviewHandler := handlers.NewReviewHandler(reviewSvc, logger)
	healthHandler := handlers.NewHealthHandler(pool)

	r.Add(modules.NewHealthModule(healthHandler))
	r.Add(modules.NewRecipeModule(recipeHandler, reviewHandler, container.GetSessions(), container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, reviewHandler, container.GetSessions(), container.GetJWT()))
}
