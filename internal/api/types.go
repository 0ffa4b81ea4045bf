package api

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pageza/mealprepai/backend/internal/model"
	"github.com/pageza/mealprepai/backend/internal/service"
)

// Limit accepts a JSON number or a numeric string. Anything unparseable
// degrades to zero, which the clamp later turns into the default; a bad
// limit never fails the request.
type Limit int

func (l *Limit) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*l = Limit(int(num))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			*l = Limit(n)
			return nil
		}
	}

	*l = 0
	return nil
}

// SuggestRequest carries the /suggest filters. Every field is optional; an
// empty body asks for the default batch.
type SuggestRequest struct {
	MealType string   `json:"meal_type"`
	Goals    []string `json:"goals"`
	Comments string   `json:"comments"`
	Limit    Limit    `json:"limit"`
}

// RecipeSummary is the list projection served by /suggest. Cost always uses
// the canonical name, prep time always carries a value, and the collection
// fields are never null.
type RecipeSummary struct {
	ID          int                `json:"id"`
	Title       string             `json:"title"`
	MealType    string             `json:"meal_type"`
	Goals       []string           `json:"goal"`
	CostUSD     float64            `json:"cost_usd"`
	TimeMin     int                `json:"time_min"`
	Macros      model.Macros       `json:"macros"`
	Ingredients []model.Ingredient `json:"ingredients"`
}

func newRecipeSummary(recipe model.Recipe) RecipeSummary {
	goals := recipe.Goals
	if goals == nil {
		goals = []string{}
	}
	ingredients := recipe.Ingredients
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}
	return RecipeSummary{
		ID:          recipe.ID,
		Title:       recipe.Title,
		MealType:    recipe.MealType,
		Goals:       goals,
		CostUSD:     recipe.Cost(),
		TimeMin:     recipe.TimeMinutes(),
		Macros:      recipe.Macros,
		Ingredients: ingredients,
	}
}

// DetailRequest resolves one suggestion against the caller's pantry.
type DetailRequest struct {
	ID     int      `json:"id" binding:"required"`
	Pantry []string `json:"pantry"`
}

// RecipePayload is the inline recipe clients attach to the AI endpoints.
// Older clients send the meal type under "meal".
type RecipePayload struct {
	Title       string             `json:"title"`
	MealType    string             `json:"meal_type"`
	Meal        string             `json:"meal"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Macros      model.Macros       `json:"macros"`
	TimeMin     *int               `json:"time_min"`
}

// Recipe converts the payload to the model form the services consume.
func (p RecipePayload) Recipe() model.Recipe {
	mealType := p.MealType
	if mealType == "" {
		mealType = p.Meal
	}
	return model.Recipe{
		Title:       p.Title,
		MealType:    mealType,
		Ingredients: p.Ingredients,
		Macros:      p.Macros,
		TimeMin:     p.TimeMin,
	}
}

// InstructionsRequest asks for a narrated walkthrough of a recipe.
type InstructionsRequest struct {
	Recipe RecipePayload `json:"recipe"`
}

// ChatRequest is a free-form cooking question, optionally about a recipe.
type ChatRequest struct {
	Message string         `json:"message"`
	Recipe  *RecipePayload `json:"recipe"`
}

// EmailRequest sends a grocery list. Items normally come from shopping_delta;
// clients without a pantry comparison may send raw ingredients instead. An
// explicitly empty shopping_delta means there is nothing to buy and is
// honored as such.
type EmailRequest struct {
	To             string              `json:"to"`
	Name           string              `json:"name"`
	Title          string              `json:"title"`
	ShoppingDelta  []service.DeltaItem `json:"shopping_delta"`
	Ingredients    []model.Ingredient  `json:"ingredients"`
	TotalEstimated float64             `json:"total_estimated"`
}

// Items picks the grocery entries to mail out.
func (r EmailRequest) Items() []service.DeltaItem {
	if r.ShoppingDelta != nil || len(r.Ingredients) == 0 {
		return r.ShoppingDelta
	}
	items := make([]service.DeltaItem, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		items = append(items, service.DeltaItem{Item: ing.Name, Qty: ing.Qty, Unit: ing.Unit})
	}
	return items
}
