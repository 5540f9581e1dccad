package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"audit-agent/engine"
	apperrors "audit-agent/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

type ChatRequest struct {
	Message  string `json:"message"`
	TenantID string `json:"tenant_id"`
	Limit    int    `json:"limit"`
}

func (r ChatRequest) validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("%w: message cannot be empty", apperrors.ErrInvalidInput)
	}
	return nil
}

func NewChatHandler(engine *engine.Engine, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		engine: engine,
		logger: logger,
	}
}

// Chat handles POST /api/chat. Apart from request validation it always
// answers 200 with a best-effort response: the engine never fails, and a
// recover here keeps even an engine bug from surfacing as a 500.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := req.validate(); err != nil {
		h.logger.Debug("Rejected chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	if req.TenantID == "" {
		req.TenantID = c.GetHeader("X-Tenant-ID")
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Chat engine panicked, returning degraded answer", zap.Any("panic", r))
			c.JSON(http.StatusOK, gin.H{
				"response":       "The assistant hit an internal problem answering that. Please try rephrasing your question.",
				"usedLLM":        false,
				"dataProvenance": "empty",
			})
		}
	}()

	response := h.engine.GenerateResponse(c.Request.Context(), req.Message, engine.Options{
		Limit:    req.Limit,
		TenantID: req.TenantID,
	})

	h.logger.Info("Chat request served",
		zap.String("request_id", response.RequestID),
		zap.Bool("used_llm", response.UsedLLM),
		zap.String("backend", response.Backend),
		zap.Int64("processing_ms", response.ProcessingTimeMS))

	c.JSON(http.StatusOK, response)
}
