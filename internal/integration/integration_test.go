package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealprepai/backend/config"
	"github.com/pageza/mealprepai/backend/internal/logger"
	"github.com/pageza/mealprepai/backend/internal/rank"
	"github.com/pageza/mealprepai/backend/internal/router"
	"github.com/pageza/mealprepai/backend/internal/service"
	"github.com/pageza/mealprepai/backend/internal/store"
)

// completion wraps content in the chat-completions response shape the
// upstream API returns.
func completion(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func newTestConfig(apiURL string) *config.Config {
	return &config.Config{
		RecipeSource:  store.ModeFile,
		RecipePath:    filepath.Join("..", "..", "data", "recipes.json"),
		OpenAIAPIKey:  "test-key",
		OpenAIModel:   "gpt-4.1-mini",
		OpenAIAPIURL:  apiURL,
		EmailFrom:     "no-reply@mealprepai.app",
		EmailFromName: "MealPrepAI",
		MinLimit:      3,
		MaxLimit:      8,
		DefaultLimit:  6,
		CORSOrigins:   []string{"http://localhost:5173"},
	}
}

// TestDatasetFlow walks the whole API over the shipped dataset: suggest,
// drill into a recipe with a pantry, fetch instructions and a chat reply
// from a faked upstream, then send the grocery list in dry-run mode.
func TestDatasetFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completion(t, "Hi, I'm Emil-ia! 1. Grill the chicken. 2. Steam the rice."))
	}))
	defer ts.Close()

	cfg := newTestConfig(ts.URL)
	log := logger.NewNop()

	llm, err := service.NewLLMService(cfg, nil, log)
	require.NoError(t, err)
	recipes := service.NewRecipeService(
		cfg.RecipeSource,
		store.NewFileSource(cfg.RecipePath),
		store.NewSuggestionCache(),
		llm,
		rank.Limits{Min: cfg.MinLimit, Max: cfg.MaxLimit, Default: cfg.DefaultLimit},
		log,
	)
	email := service.NewEmailService(cfg, log)
	engine := router.SetupRouter(cfg, log, recipes, llm, email, nil)

	w := do(t, engine, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodPost, "/suggest", gin.H{
		"meal_type": "lunch",
		"goals":     []string{"high_protein"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var suggestResp struct {
		Recipes []struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestResp))
	require.NotEmpty(t, suggestResp.Recipes)
	assert.Equal(t, "Chicken Rice Meal-Prep Bowl", suggestResp.Recipes[0].Title)

	w = do(t, engine, http.MethodPost, "/recipe", gin.H{
		"id":     suggestResp.Recipes[0].ID,
		"pantry": []string{"jasmine rice", "soy sauce"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var detailResp struct {
		Title         string  `json:"title"`
		CostUSD       float64 `json:"cost_usd"`
		TimeMin       int     `json:"time_min"`
		ShoppingDelta []struct {
			Item string `json:"item"`
		} `json:"shopping_delta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detailResp))
	assert.Equal(t, "Chicken Rice Meal-Prep Bowl", detailResp.Title)
	assert.InDelta(t, 3.2, detailResp.CostUSD, 0.001)
	assert.Equal(t, 35, detailResp.TimeMin)
	var deltaItems []string
	for _, item := range detailResp.ShoppingDelta {
		deltaItems = append(deltaItems, item.Item)
	}
	assert.Contains(t, deltaItems, "chicken breast")
	assert.NotContains(t, deltaItems, "jasmine rice")

	w = do(t, engine, http.MethodPost, "/ai/instructions", gin.H{
		"recipe": gin.H{"title": "Chicken Rice Meal-Prep Bowl", "meal_type": "lunch"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var instructionsResp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &instructionsResp))
	assert.Contains(t, instructionsResp.Message, "Emil-ia")
	assert.Contains(t, instructionsResp.Message, "Grill the chicken.\n")

	ts.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completion(t, "Swap the rice for quinoa if you like."))
	})

	w = do(t, engine, http.MethodPost, "/ai/chat", gin.H{
		"message": "any substitutions for rice?",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var chatResp struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chatResp))
	assert.Equal(t, "Swap the rice for quinoa if you like.", chatResp.Reply)

	w = do(t, engine, http.MethodPost, "/email", gin.H{
		"to":    "jane@example.com",
		"name":  "jane",
		"title": "Chicken Rice Meal-Prep Bowl",
		"shopping_delta": []gin.H{
			{"item": "chicken breast", "qty": 200, "unit": "g"},
		},
		"total_estimated": 3.2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"mode":"dry_run"}`, w.Body.String())
}

// TestGeneratedFlow runs the same surface in generated mode: the upstream
// fake produces the batch, suggestions come from the cache, and the detail
// view carries no shopping delta.
func TestGeneratedFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	batch := `{"recipes":[
		{"title":"Avocado Toast Deluxe","meal_type":"breakfast","goal":["quick_meal"],"time_min":8,"cost_usd":2.1,"macros":{"kcal":350,"protein_g":12},"ingredients":[{"name":"sourdough bread","qty":2,"unit":"slices"},{"name":"avocado","qty":1,"unit":""}]},
		{"title":"Berry Protein Bowl","meal_type":"breakfast","goal":["high_protein"],"time_min":10,"cost_usd":3.4,"macros":{"kcal":410,"protein_g":28},"ingredients":[{"name":"greek yogurt","qty":200,"unit":"g"}]},
		{"title":"Spinach Omelette","meal_type":"breakfast","goal":["low_carb"],"time_min":12,"cost_usd":2.5,"macros":{"kcal":320,"protein_g":22},"ingredients":[{"name":"eggs","qty":3,"unit":""}]}
	]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completion(t, batch))
	}))
	defer ts.Close()

	cfg := newTestConfig(ts.URL)
	cfg.RecipeSource = store.ModeAI
	log := logger.NewNop()

	llm, err := service.NewLLMService(cfg, nil, log)
	require.NoError(t, err)
	recipes := service.NewRecipeService(
		cfg.RecipeSource,
		nil,
		store.NewSuggestionCache(),
		llm,
		rank.Limits{Min: cfg.MinLimit, Max: cfg.MaxLimit, Default: cfg.DefaultLimit},
		log,
	)
	email := service.NewEmailService(cfg, log)
	engine := router.SetupRouter(cfg, log, recipes, llm, email, nil)

	w := do(t, engine, http.MethodPost, "/suggest", gin.H{"meal_type": "breakfast"})
	require.Equal(t, http.StatusOK, w.Code)
	var suggestResp struct {
		Recipes []struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestResp))
	require.Len(t, suggestResp.Recipes, 3)

	w = do(t, engine, http.MethodPost, "/recipe", gin.H{
		"id":     suggestResp.Recipes[0].ID,
		"pantry": []string{"avocado"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var detail map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, suggestResp.Recipes[0].Title, detail["title"])
	assert.NotContains(t, detail, "shopping_delta")

	// Ids from a previous batch stop resolving once a new one replaces it.
	staleID := suggestResp.Recipes[0].ID
	w = do(t, engine, http.MethodPost, "/suggest", gin.H{"meal_type": "breakfast"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodPost, "/recipe", gin.H{"id": staleID})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"recipe not found"}`, w.Body.String())
}
