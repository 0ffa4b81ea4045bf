package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pageza/mealprepai/backend/internal/model"
)

// RawRecipe is the wire shape of a recipe before normalization. It tolerates
// the variations that exist in real datasets: the legacy cost_per_serving_usd
// field and goal tags with stray case or whitespace.
type RawRecipe struct {
	ID             int                `json:"id"`
	Title          string             `json:"title"`
	MealType       string             `json:"meal_type"`
	Goals          []string           `json:"goal"`
	TimeMin        *int               `json:"time_min"`
	CostUSD        *float64           `json:"cost_usd"`
	CostPerServing *float64           `json:"cost_per_serving_usd"`
	Macros         model.Macros       `json:"macros"`
	Ingredients    []model.Ingredient `json:"ingredients"`
}

// Canonical converts the raw record into the single Recipe shape the rest of
// the service works with. The cost alias folds into cost_usd here and nowhere
// else; goal tags are trimmed and lowercased.
func (r RawRecipe) Canonical() model.Recipe {
	cost := r.CostUSD
	if cost == nil {
		cost = r.CostPerServing
	}

	goals := make([]string, 0, len(r.Goals))
	for _, g := range r.Goals {
		goals = append(goals, strings.ToLower(strings.TrimSpace(g)))
	}

	return model.Recipe{
		ID:          r.ID,
		Title:       r.Title,
		MealType:    r.MealType,
		Goals:       goals,
		TimeMin:     r.TimeMin,
		CostUSD:     cost,
		Macros:      r.Macros,
		Ingredients: r.Ingredients,
	}
}

// DecodeRecipes parses a JSON array of recipes and normalizes every record.
func DecodeRecipes(data []byte) ([]model.Recipe, error) {
	var raw []RawRecipe
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse recipe dataset: %w", err)
	}

	recipes := make([]model.Recipe, 0, len(raw))
	for _, r := range raw {
		recipes = append(recipes, r.Canonical())
	}
	return recipes, nil
}
