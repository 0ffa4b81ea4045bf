package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealprepai/backend/internal/model"
	"github.com/pageza/mealprepai/backend/internal/rank"
	"github.com/pageza/mealprepai/backend/internal/service"
)

// RecipeHandler serves suggestion lists and single-recipe drill-downs.
type RecipeHandler struct {
	recipes service.IRecipeService
	logger  *zap.SugaredLogger
}

func NewRecipeHandler(recipes service.IRecipeService, logger *zap.SugaredLogger) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		logger:  logger,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/suggest", h.Suggest)
	router.POST("/recipe", h.Detail)
}

// Suggest returns the ranked recipe list for the caller's filters.
func (h *RecipeHandler) Suggest(c *gin.Context) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := rank.Query{MealType: req.MealType, Goals: req.Goals, Limit: int(req.Limit)}
	recipes, err := h.recipes.Suggest(c.Request.Context(), query, req.Comments)
	if err != nil {
		h.logger.Errorw("suggestion request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"recipes": []RecipeSummary{}, "error": err.Error()})
		return
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, newRecipeSummary(recipe))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": summaries})
}

// Detail resolves one recipe by id, with a shopping delta against the
// caller's pantry when the mode supports it.
func (h *RecipeHandler) Detail(c *gin.Context) {
	var req DetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.recipes.Detail(c.Request.Context(), req.ID, req.Pantry)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		h.logger.Errorw("recipe detail failed", "id", req.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ingredients := detail.Ingredients
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}
	resp := gin.H{
		"title":       detail.Title,
		"ingredients": ingredients,
		"cost_usd":    detail.CostUSD,
		"macros":      detail.Macros,
		"time_min":    detail.TimeMin,
	}
	if detail.HasDelta {
		resp["shopping_delta"] = detail.ShoppingDelta
	}
	c.JSON(http.StatusOK, resp)
}
