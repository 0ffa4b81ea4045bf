package service

import (
	"context"

	"github.com/pageza/mealprepai/backend/internal/model"
	"github.com/pageza/mealprepai/backend/internal/rank"
)

type LLMServiceInterface interface {
	GenerateSuggestions(ctx context.Context, mealType string, goals []string, comments string, count int) ([]model.Recipe, error)
	Instructions(ctx context.Context, recipe model.Recipe) (string, error)
	Chat(ctx context.Context, message string, recipe *model.Recipe) (string, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Suggest(ctx context.Context, query rank.Query, comments string) ([]model.Recipe, error)
	Detail(ctx context.Context, id int, pantry []string) (*RecipeDetail, error)
}

// IEmailService defines the interface for email operations
type IEmailService interface {
	SendGroceryList(list GroceryList) (string, error)
}
