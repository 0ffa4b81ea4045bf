package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/mealprepai/backend/config"
	"github.com/pageza/mealprepai/backend/internal/model"
	"github.com/pageza/mealprepai/backend/internal/store"
)

// Stages at which a generation call can fail.
const (
	StageTransport = "transport"
	StageParse     = "parse"
)

// GenerationError describes a failed language model call. Stage separates
// transport problems (the request could not be sent, or came back non-2xx)
// from parse problems (a response arrived but was unusable).
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s stage: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat-completions API request
type Request struct {
	Model            string            `json:"model"`
	Messages         []Message         `json:"messages"`
	ResponseFormat   map[string]string `json:"response_format,omitempty"`
	Temperature      float64           `json:"temperature,omitempty"`
	TopP             float64           `json:"top_p,omitempty"`
	FrequencyPenalty float64           `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64           `json:"presence_penalty,omitempty"`
}

// LLMService talks to an OpenAI-compatible chat-completions API. One
// attempt per call, no retries; failures surface as *GenerationError.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	redis  *redis.Client
	logger *zap.SugaredLogger
}

// NewLLMService creates an LLMService from the loaded configuration.
// redisClient is optional; without it instruction responses are simply not
// cached.
func NewLLMService(cfg *config.Config, redisClient *redis.Client, logger *zap.SugaredLogger) (*LLMService, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY or the openai_api_key secret must be set")
	}

	return &LLMService{
		apiKey: cfg.OpenAIAPIKey,
		apiURL: cfg.OpenAIAPIURL,
		model:  cfg.OpenAIModel,
		client: &http.Client{Timeout: 60 * time.Second},
		redis:  redisClient,
		logger: logger,
	}, nil
}

// chatCompletion sends one request and returns the first choice's content.
func (s *LLMService) chatCompletion(ctx context.Context, reqBody Request) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GenerationError{Stage: StageTransport, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &GenerationError{Stage: StageTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &GenerationError{Stage: StageTransport, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Stage: StageTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GenerationError{Stage: StageTransport, Err: fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &GenerationError{Stage: StageParse, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &GenerationError{Stage: StageParse, Err: fmt.Errorf("no response from API")}
	}

	return result.Choices[0].Message.Content, nil
}

// GenerateSuggestions asks the model for a batch of recipe candidates and
// normalizes them like every other recipe boundary. Returned recipes carry
// no ids; the suggestion cache assigns them.
func (s *LLMService) GenerateSuggestions(ctx context.Context, mealType string, goals []string, comments string, count int) ([]model.Recipe, error) {
	prompt := fmt.Sprintf("Suggest %d meal-prep friendly recipes", count)
	if mealType != "" {
		prompt = fmt.Sprintf("Suggest %d %s recipes", count, mealType)
	}
	if len(goals) > 0 {
		prompt += ". They should fit these goals: " + strings.Join(goals, ", ")
	}
	if comments != "" {
		prompt += ". Extra notes from the user: " + comments
	}

	messages := []Message{
		{
			Role: "system",
			Content: `You are a meal-prep assistant. Please provide your response in JSON format with the following structure:
{
    "recipes": [
        {
            "title": "Recipe name",
            "meal_type": "breakfast, lunch or dinner",
            "goal": ["low_budget", "high_protein"],
            "time_min": 20,
            "cost_usd": 3.5,
            "macros": {"kcal": 420, "protein_g": 30, "carbs_g": 40, "fat_g": 12},
            "ingredients": [
                {"name": "rolled oats", "qty": 0.5, "unit": "cup"}
            ]
        }
    ]
}

Note: time_min, cost_usd and the macro fields must be numbers, not strings.
Every recipe must include the full ingredient list.`,
		},
		{
			Role:    "user",
			Content: prompt,
		},
	}

	reqBody := Request{
		Model:    s.model,
		Messages: messages,
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature:      0.9, // Higher temperature for more variety
		TopP:             0.9,
		FrequencyPenalty: 0.5, // Penalize repeated tokens
		PresencePenalty:  0.5,
	}

	content, err := s.chatCompletion(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Recipes []store.RawRecipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, &GenerationError{Stage: StageParse, Err: fmt.Errorf("failed to parse recipes: %w", err)}
	}
	if len(parsed.Recipes) == 0 {
		return nil, &GenerationError{Stage: StageParse, Err: fmt.Errorf("model returned no recipes")}
	}

	recipes := make([]model.Recipe, 0, len(parsed.Recipes))
	for _, raw := range parsed.Recipes {
		recipes = append(recipes, raw.Canonical())
	}
	return recipes, nil
}

// Instructions asks Emil-ia to narrate the preparation of a recipe. Replies
// are cached in Redis for a day when a client is configured.
func (s *LLMService) Instructions(ctx context.Context, recipe model.Recipe) (string, error) {
	cacheKey := instructionsCacheKey(recipe)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	title := recipe.Title
	if title == "" {
		title = "Recipe"
	}
	ingredientList := recipe.Ingredients
	if ingredientList == nil {
		ingredientList = []model.Ingredient{}
	}
	ingredients, _ := json.Marshal(ingredientList)
	macros, _ := json.Marshal(recipe.Macros)

	prompt := fmt.Sprintf(`You are Emil-ia, a friendly cooking assistant for MealPrepAI.

Your job:
- Greet the user once: "Hi, I'm Emil-ia! I'm here to guide you through preparing <title>."
- Then give 5–8 detailed cooking steps.
- Each step MUST appear on its own line, numbered clearly as:
  1. ...
  2. ...
  3. ...
  (etc)
- Add a blank line between each step for readability.
- End with: "If you have any questions, let me know!"

Use only ENGLISH, natural friendly tone (like a human cooking coach).
You can include little helpful tips (heat level, timing, texture, etc.).
Be concise, warm, and clear.

Recipe context:
Title: %s
Meal type: %s
Ingredients: %s
Known data: %s, time_min=%d`, title, recipe.MealType, ingredients, macros, recipe.TimeMinutes())

	content, err := s.chatCompletion(ctx, Request{
		Model:    s.model,
		Messages: []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	// Models tend to compress numbered steps onto one line; break them up.
	formatted := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(content, ". ", ".\n"), "  ", " "))

	if s.redis != nil {
		if err := s.redis.Set(ctx, cacheKey, formatted, 24*time.Hour).Err(); err != nil {
			s.logger.Warnw("failed to cache instructions", "error", err)
		}
	}

	return formatted, nil
}

// Chat answers a free-form cooking question, optionally in the context of a
// recipe. Replies are never cached.
func (s *LLMService) Chat(ctx context.Context, message string, recipe *model.Recipe) (string, error) {
	title := "Recipe"
	ingredients := []model.Ingredient{}
	if recipe != nil {
		if recipe.Title != "" {
			title = recipe.Title
		}
		if recipe.Ingredients != nil {
			ingredients = recipe.Ingredients
		}
	}
	ingredientsJSON, _ := json.Marshal(ingredients)

	coach := fmt.Sprintf("You are Emil-ia, a helpful cooking coach. "+
		"Always reply in ENGLISH, concise, friendly, with practical substitutions when relevant.\n"+
		"Recipe context: %s\n"+
		"Ingredients: %s\n"+
		"User message: %s", title, ingredientsJSON, strings.TrimSpace(message))

	content, err := s.chatCompletion(ctx, Request{
		Model:    s.model,
		Messages: []Message{{Role: "user", Content: coach}},
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

// instructionsCacheKey hashes the recipe body. The id is zeroed first: it
// changes across generated batches and must not affect the key.
func instructionsCacheKey(recipe model.Recipe) string {
	recipe.ID = 0
	payload, _ := json.Marshal(recipe)
	sum := sha256.Sum256(payload)
	return "ai:instructions:" + hex.EncodeToString(sum[:])
}
