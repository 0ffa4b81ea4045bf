package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealprepai/backend/internal/middleware"
	"github.com/pageza/mealprepai/backend/internal/model"
	"github.com/pageza/mealprepai/backend/internal/service"
)

// LLMHandler handles the Emil-ia endpoints: narrated cooking instructions and
// free-form coaching chat.
type LLMHandler struct {
	llm     service.LLMServiceInterface
	limiter *middleware.RateLimiter
	logger  *zap.SugaredLogger
}

func NewLLMHandler(llm service.LLMServiceInterface, limiter *middleware.RateLimiter, logger *zap.SugaredLogger) *LLMHandler {
	return &LLMHandler{
		llm:     llm,
		limiter: limiter,
		logger:  logger,
	}
}

func (h *LLMHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/ai")
	if h.limiter != nil {
		ai.Use(h.limiter.Middleware())
	}
	{
		ai.POST("/instructions", h.Instructions)
		ai.POST("/chat", h.Chat)
	}
}

// Instructions returns Emil-ia's full walkthrough message for a recipe.
func (h *LLMHandler) Instructions(c *gin.Context) {
	var req InstructionsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.llm.Instructions(c.Request.Context(), req.Recipe.Recipe())
	if err != nil {
		h.logger.Errorw("instructions generation failed", "title", req.Recipe.Title, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "(AI error) I couldn’t load the instructions right now.",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Chat answers a cooking question, optionally grounded in a recipe.
func (h *LLMHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var recipe *model.Recipe
	if req.Recipe != nil {
		r := req.Recipe.Recipe()
		recipe = &r
	}

	reply, err := h.llm.Chat(c.Request.Context(), req.Message, recipe)
	if err != nil {
		h.logger.Errorw("chat failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"reply": fmt.Sprintf("(error) %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
