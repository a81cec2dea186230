package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"safenest/internal/ai"
	"safenest/internal/app"
	"safenest/internal/transport/http/response"
)

type ClinicHandler struct {
	clinicService *app.ClinicService
}

func NewClinicHandler(clinicService *app.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinicService: clinicService}
}

type ClinicChatRequest struct {
	Message   string `json:"message"`
	Location  string `json:"location"`
	SessionID string `json:"session_id"`
}

func (h *ClinicHandler) Chat(c *gin.Context) {
	var req ClinicChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		response.Error(c, http.StatusBadRequest, "Message is required")
		return
	}

	result, err := h.clinicService.SendMessage(c.Request.Context(), app.ClinicChatInput{
		SessionID: req.SessionID,
		Message:   req.Message,
		Location:  req.Location,
	})
	if err != nil {
		var genErr *ai.GenerationError
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "Message is required")
		case errors.Is(err, app.ErrGeneratorNotConfigured):
			response.Error(c, http.StatusInternalServerError, "LLM API key not configured")
		case errors.As(err, &genErr):
			response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to get clinic recommendations", genErr.Detail)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to get clinic recommendations")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ClinicHandler) History(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, "session_id is required")
		return
	}

	messages, err := h.clinicService.History(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, app.ErrClinicSessionNotFound) {
			response.Error(c, http.StatusNotFound, "session not found")
		} else {
			response.Error(c, http.StatusInternalServerError, "failed to load history")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "messages": messages})
}

type ClinicResetRequest struct {
	SessionID string `json:"session_id"`
}

func (h *ClinicHandler) Reset(c *gin.Context) {
	var req ClinicResetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		response.Error(c, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := h.clinicService.Reset(c.Request.Context(), req.SessionID); err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to reset session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": req.SessionID, "reset": true})
}
