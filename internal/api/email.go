package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealprepai/backend/internal/service"
)

// EmailHandler mails grocery lists.
type EmailHandler struct {
	email  service.IEmailService
	logger *zap.SugaredLogger
}

func NewEmailHandler(email service.IEmailService, logger *zap.SugaredLogger) *EmailHandler {
	return &EmailHandler{
		email:  email,
		logger: logger,
	}
}

func (h *EmailHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/email", h.Send)
}

// Send delivers a grocery list, or logs it when SMTP is not configured.
func (h *EmailHandler) Send(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if req.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing email"})
		return
	}

	mode, err := h.email.SendGroceryList(service.GroceryList{
		To:             req.To,
		Name:           req.Name,
		Title:          req.Title,
		Items:          req.Items(),
		TotalEstimated: req.TotalEstimated,
	})
	if err != nil {
		h.logger.Errorw("grocery email failed", "to", req.To, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "mode": mode})
}
