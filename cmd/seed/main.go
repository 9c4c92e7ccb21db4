package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/gardenviki-prog/Cooking-Recipes/config"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/application"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
	pginfra "github.com/gardenviki-prog/Cooking-Recipes/internal/infrastructure/postgres"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/helpers"
)

// Dishes are administered out of band; this is the only code path that
// creates them.
var dishes = []entity.Dish{
	{
		Name:        "Борщ",
		Ingredients: "буряк\nкапуста\nкартопля\nморква\nцибуля\nтоматна паста",
		Steps:       "Зварити бульйон\nДодати овочі\nВарити 40 хвилин\nПодавати зі сметаною",
		Calories:    250,
		CookingTime: 90,
		Servings:    6,
	},
	{
		Name:        "Вареники з картоплею",
		Ingredients: "борошно\nвода\nкартопля\nцибуля",
		Steps:       "Замісити тісто\nПриготувати начинку\nЛіпити вареники\nВарити 7 хвилин",
		Calories:    320,
		CookingTime: 60,
		Servings:    4,
	},
	{
		Name:        "Деруни",
		Ingredients: "картопля\nцибуля\nяйце\nборошно",
		Steps:       "Натерти картоплю\nЗмішати з яйцем і борошном\nСмажити з обох боків",
		Calories:    280,
		CookingTime: 40,
		Servings:    4,
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	dishRepo := pginfra.NewDishRepository(pool)
	reviewRepo := pginfra.NewReviewRepository(pool)
	userRepo := pginfra.NewUserRepository(pool)

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Printf("elasticsearch unavailable, seeding db only: %v", err)
		es = nil
	}
	recipes := application.NewRecipeService(dishRepo, reviewRepo, nil, es, cfg.ESDishesIndex)

	for i := range dishes {
		d := &dishes[i]
		if err := dishRepo.Create(ctx, d); err != nil {
			log.Fatalf("failed to seed dish %q: %v", d.Name, err)
		}
		if err := recipes.IndexDish(ctx, d); err != nil {
			log.Printf("failed to index dish %q: %v", d.Name, err)
		}
		fmt.Printf("seeded dish: id=%d name=%s\n", d.ID, d.Name)
	}

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{Username: "demo", PasswordHash: hash}
	if err := userRepo.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s password=%s\n", u.ID, u.Username, password)
}
