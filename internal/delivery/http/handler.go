package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysisService *usecase.AnalysisService
	chatService     *usecase.ChatService
}

// NewHandler creates a new HTTP handler
func NewHandler(analysisService *usecase.AnalysisService, chatService *usecase.ChatService) *Handler {
	return &Handler{
		analysisService: analysisService,
		chatService:     chatService,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shoplens-backend",
		"version": "1.0.0",
	})
}

// AnalyzeImage handles image analysis requests. Degraded analyses (model
// unreachable, unparseable response) are still HTTP 200: the result carries
// the failure description and empty product lists.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	if h.analysisService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service not configured"})
		return
	}

	var request domain.AnalysisRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.analysisService.AnalyzeImage(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SendChatMessage handles follow-up messages against an analysis session.
func (h *Handler) SendChatMessage(c *gin.Context) {
	if h.chatService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat service not configured"})
		return
	}

	var request domain.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	reply, err := h.chatService.SendMessage(c.Request.Context(), request.SessionID, request.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "chat session not found or expired"})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "chat failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
