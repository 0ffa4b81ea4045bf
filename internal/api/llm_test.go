package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealprepai/backend/internal/model"
)

type fakeLLMService struct {
	instructions    string
	instructionsErr error
	reply           string
	chatErr         error
	gotRecipe       model.Recipe
	gotChatRecipe   *model.Recipe
	gotMessage      string
}

func (f *fakeLLMService) GenerateSuggestions(ctx context.Context, mealType string, goals []string, comments string, count int) ([]model.Recipe, error) {
	return nil, nil
}

func (f *fakeLLMService) Instructions(ctx context.Context, recipe model.Recipe) (string, error) {
	f.gotRecipe = recipe
	if f.instructionsErr != nil {
		return "", f.instructionsErr
	}
	return f.instructions, nil
}

func (f *fakeLLMService) Chat(ctx context.Context, message string, recipe *model.Recipe) (string, error) {
	f.gotMessage = message
	f.gotChatRecipe = recipe
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.reply, nil
}

func llmRouter(svc *fakeLLMService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewLLMHandler(svc, nil, zap.NewNop().Sugar()).RegisterRoutes(r.Group(""))
	return r
}

func TestInstructionsEndpoint(t *testing.T) {
	t.Run("should return the narrated message", func(t *testing.T) {
		svc := &fakeLLMService{instructions: "Hi! 1.\nBoil water."}
		body := `{"recipe": {"title": "Protein Oats", "meal_type": "breakfast", "time_min": 10,
			"ingredients": [{"name": "rolled oats", "qty": 0.5, "unit": "cup"}]}}`

		rec := performJSON(t, llmRouter(svc), http.MethodPost, "/ai/instructions", body)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message": "Hi! 1.\nBoil water."}`, rec.Body.String())
		assert.Equal(t, "Protein Oats", svc.gotRecipe.Title)
		assert.Equal(t, "breakfast", svc.gotRecipe.MealType)
		require.NotNil(t, svc.gotRecipe.TimeMin)
		assert.Equal(t, 10, *svc.gotRecipe.TimeMin)
	})

	t.Run("should honor the legacy meal field", func(t *testing.T) {
		svc := &fakeLLMService{instructions: "ok"}
		rec := performJSON(t, llmRouter(svc), http.MethodPost, "/ai/instructions", `{"recipe": {"title": "Stew", "meal": "dinner"}}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "dinner", svc.gotRecipe.MealType)
	})

	t.Run("should apologize when generation fails", func(t *testing.T) {
		svc := &fakeLLMService{instructionsErr: errors.New("upstream timeout")}
		rec := performJSON(t, llmRouter(svc), http.MethodPost, "/ai/instructions", `{"recipe": {"title": "Stew"}}`)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{
			"message": "(AI error) I couldn’t load the instructions right now.",
			"error": "upstream timeout"
		}`, rec.Body.String())
	})
}

func TestChatEndpoint(t *testing.T) {
	t.Run("should forward the message and recipe", func(t *testing.T) {
		svc := &fakeLLMService{reply: "Use olive oil."}
		body := `{"message": "dairy free?", "recipe": {"title": "Turkey Chili", "ingredients": [{"name": "butter"}]}}`

		rec := performJSON(t, llmRouter(svc), http.MethodPost, "/ai/chat", body)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"reply": "Use olive oil."}`, rec.Body.String())
		assert.Equal(t, "dairy free?", svc.gotMessage)
		require.NotNil(t, svc.gotChatRecipe)
		assert.Equal(t, "Turkey Chili", svc.gotChatRecipe.Title)
	})

	t.Run("should chat without a recipe", func(t *testing.T) {
		svc := &fakeLLMService{reply: "Hello!"}
		rec := performJSON(t, llmRouter(svc), http.MethodPost, "/ai/chat", `{"message": "hi"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, svc.gotChatRecipe)
	})

	t.Run("should wrap failures in the reply", func(t *testing.T) {
		svc := &fakeLLMService{chatErr: errors.New("upstream timeout")}
		rec := performJSON(t, llmRouter(svc), http.MethodPost, "/ai/chat", `{"message": "hi"}`)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"reply": "(error) upstream timeout"}`, rec.Body.String())
	})
}
