package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sammies/models"
	"sammies/services/llm"
	"sammies/services/receptionist"
	"sammies/utils"
)

// ReceptionistHandler is the JSON adapter over the conversation core.
type ReceptionistHandler struct {
	Svc receptionist.Service
}

func NewReceptionistHandler(svc receptionist.Service) *ReceptionistHandler {
	return &ReceptionistHandler{Svc: svc}
}

// HandleTurn processes one conversation turn: POST /receptionist with
// {sessionId, userMessage}.
func (h *ReceptionistHandler) HandleTurn(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid receptionist request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and userMessage are required: " + err.Error()})
		return
	}

	result, err := h.Svc.HandleTurn(c.Request.Context(), req.SessionID, req.UserMessage)
	if err != nil {
		h.writeProviderError(c, req.SessionID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeProviderError maps provider failure kinds to caller-visible
// responses. Rate limits and auth failures must stay distinguishable.
func (h *ReceptionistHandler) writeProviderError(c *gin.Context, sessionID string, err error) {
	logger := utils.GetLogger()
	logger.Error("Receptionist turn failed",
		zap.String("sessionID", sessionID),
		zap.Error(err))

	pe, ok := llm.AsProviderError(err)
	if !ok {
		utils.JSONAbort(c, http.StatusInternalServerError, "AI receptionist error", "An error occurred while processing your request.")
		return
	}
	switch pe.Kind {
	case llm.KindRateLimit:
		utils.JSONAbort(c, http.StatusServiceUnavailable, "Assistant temporarily unavailable", "Provider rate limit exceeded. Please try again later.")
	case llm.KindAuth:
		utils.JSONAbort(c, http.StatusInternalServerError, "Assistant configuration error", "Provider authentication failed. Please check the API key.")
	case llm.KindTimeout:
		utils.JSONAbort(c, http.StatusGatewayTimeout, "Assistant timed out", "The assistant took too long to answer. Please try again.")
	default:
		utils.JSONAbort(c, http.StatusInternalServerError, "AI receptionist error", "An error occurred while processing your request.")
	}
}

// NewSession mints a session id for web clients that don't manage their
// own: POST /receptionist/session.
func (h *ReceptionistHandler) NewSession(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewSessionResponse{SessionID: uuid.NewString()})
}

// ClearSession drops a session: DELETE /receptionist/session/:sessionID.
func (h *ReceptionistHandler) ClearSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionID is required"})
		return
	}
	if err := h.Svc.ClearSession(c.Request.Context(), sessionID); err != nil {
		utils.GetLogger().Error("Failed to clear session", zap.String("sessionID", sessionID), zap.Error(err))
		utils.JSONAbort(c, http.StatusInternalServerError, "Failed to clear session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "cleared": true})
}
