package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/pageza/mealprepai/backend/config"
	"github.com/pageza/mealprepai/backend/internal/database"
	"github.com/pageza/mealprepai/backend/internal/logger"
	"github.com/pageza/mealprepai/backend/internal/store"
)

func main() {
	dataPath := flag.String("data", "data/recipes.json", "path to the recipe dataset")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.DBHost == "" {
		log.Fatal("DB_HOST is required to seed the database")
	}

	data, err := os.ReadFile(*dataPath)
	if err != nil {
		log.Fatalf("failed to read dataset %s: %v", *dataPath, err)
	}
	recipes, err := store.DecodeRecipes(data)
	if err != nil {
		log.Fatalf("failed to decode dataset: %v", err)
	}
	if len(recipes) == 0 {
		log.Fatalf("dataset %s contains no recipes", *dataPath)
	}

	db, err := database.New(cfg, logger.NewNop())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate recipes table: %v", err)
	}

	// Save upserts by primary key, so re-running the seeder refreshes rows
	// instead of duplicating them.
	for _, recipe := range recipes {
		record := store.NewRecipeRecord(recipe)
		if err := db.Save(&record).Error; err != nil {
			log.Fatalf("failed to save recipe %d (%s): %v", recipe.ID, recipe.Title, err)
		}
		log.Printf("seeded recipe %d: %s", recipe.ID, recipe.Title)
	}

	log.Printf("successfully seeded %d recipes from %s", len(recipes), *dataPath)
}
