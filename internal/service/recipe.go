package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/mealprepai/backend/internal/model"
	"github.com/pageza/mealprepai/backend/internal/rank"
	"github.com/pageza/mealprepai/backend/internal/store"
)

// ErrRecipeNotFound is returned when an id cannot be resolved, either because
// it never existed or because a newer suggestion batch replaced it.
var ErrRecipeNotFound = errors.New("recipe not found")

// DeltaItem is one shopping list entry: an ingredient the caller still
// needs to buy.
type DeltaItem struct {
	Item string         `json:"item"`
	Qty  model.Quantity `json:"qty"`
	Unit string         `json:"unit"`
}

// RecipeDetail is the drill-down view of a single recipe. HasDelta is false
// in generated mode, where no pantry comparison happens and the response
// carries the full ingredient list only.
type RecipeDetail struct {
	Title         string
	Ingredients   []model.Ingredient
	CostUSD       float64
	Macros        model.Macros
	TimeMin       int
	ShoppingDelta []DeltaItem
	HasDelta      bool
}

// RecipeService resolves suggestions and recipe details for the configured
// source mode.
type RecipeService struct {
	mode   string
	source store.Source
	cache  *store.SuggestionCache
	llm    LLMServiceInterface
	limits rank.Limits
	logger *zap.SugaredLogger
}

// NewRecipeService creates a RecipeService. source may be nil in ai mode;
// cache and llm may be nil in dataset modes.
func NewRecipeService(mode string, source store.Source, cache *store.SuggestionCache, llm LLMServiceInterface, limits rank.Limits, logger *zap.SugaredLogger) *RecipeService {
	return &RecipeService{
		mode:   mode,
		source: source,
		cache:  cache,
		llm:    llm,
		limits: limits,
		logger: logger,
	}
}

// Suggest returns the ranked candidates for a query. Dataset modes filter
// and rank a fresh snapshot; ai mode replaces the cached batch with newly
// generated recipes and runs the same engine over them.
func (s *RecipeService) Suggest(ctx context.Context, query rank.Query, comments string) ([]model.Recipe, error) {
	if s.mode == store.ModeAI {
		return s.suggestGenerated(ctx, query, comments)
	}

	recipes, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	return rank.Select(recipes, query, s.limits), nil
}

func (s *RecipeService) suggestGenerated(ctx context.Context, query rank.Query, comments string) ([]model.Recipe, error) {
	count := s.limits.Clamp(query.Limit)
	batch, err := s.llm.GenerateSuggestions(ctx, query.MealType, query.Goals, comments, count)
	if err != nil {
		return nil, err
	}

	// The whole batch replaces the cache; prior ids become invalid here.
	s.cache.Reset()
	stored := make([]model.Recipe, 0, len(batch))
	for _, recipe := range batch {
		recipe.ID = s.cache.Put(recipe)
		stored = append(stored, recipe)
	}
	s.logger.Infow("generated suggestion batch", "count", len(stored))

	return rank.Select(stored, query, s.limits), nil
}

// Detail resolves one recipe by id. Dataset modes also compute the shopping
// delta against the caller's pantry; generated mode serves the cached batch
// as-is.
func (s *RecipeService) Detail(ctx context.Context, id int, pantry []string) (*RecipeDetail, error) {
	if s.mode == store.ModeAI {
		recipe, ok := s.cache.Get(id)
		if !ok {
			return nil, ErrRecipeNotFound
		}
		return &RecipeDetail{
			Title:       recipe.Title,
			Ingredients: recipe.Ingredients,
			CostUSD:     recipe.Cost(),
			Macros:      recipe.Macros,
			TimeMin:     recipe.TimeMinutes(),
		}, nil
	}

	recipes, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, recipe := range recipes {
		if recipe.ID == id {
			return &RecipeDetail{
				Title:         recipe.Title,
				Ingredients:   recipe.Ingredients,
				CostUSD:       recipe.Cost(),
				Macros:        recipe.Macros,
				TimeMin:       recipe.TimeMinutes(),
				ShoppingDelta: ShoppingDelta(recipe.Ingredients, pantry),
				HasDelta:      true,
			}, nil
		}
	}
	return nil, ErrRecipeNotFound
}

// ShoppingDelta lists the ingredients whose names are not in the pantry.
// Names compare case-insensitively, ingredient order is preserved, and
// entries without a name are skipped.
func ShoppingDelta(ingredients []model.Ingredient, pantry []string) []DeltaItem {
	owned := make(map[string]bool, len(pantry))
	for _, p := range pantry {
		owned[strings.ToLower(strings.TrimSpace(p))] = true
	}

	delta := make([]DeltaItem, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing.Name == "" {
			continue
		}
		if owned[strings.ToLower(ing.Name)] {
			continue
		}
		delta = append(delta, DeltaItem{Item: ing.Name, Qty: ing.Qty, Unit: ing.Unit})
	}
	return delta
}
