package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"safenest/internal/ai"
	"safenest/internal/app"
	"safenest/internal/model"
	"safenest/internal/transport/http/response"
)

type RAGHandler struct {
	ragService *app.RAGService
}

func NewRAGHandler(ragService *app.RAGService) *RAGHandler {
	return &RAGHandler{ragService: ragService}
}

// AskRAGRequest is the query boundary: the client ships its whole chunk pool
// with every question.
type AskRAGRequest struct {
	Query  string        `json:"query"`
	Chunks []model.Chunk `json:"chunks"`
}

func (h *RAGHandler) Ask(c *gin.Context) {
	var req AskRAGRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Query and chunks are required")
		return
	}
	if req.Query == "" || len(req.Chunks) == 0 {
		response.Error(c, http.StatusBadRequest, "Query and chunks are required")
		return
	}

	result, err := h.ragService.Answer(c.Request.Context(), app.AnswerInput{
		Query:  req.Query,
		Chunks: req.Chunks,
	})
	if err != nil {
		var genErr *ai.GenerationError
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "Query and chunks are required")
		case errors.Is(err, app.ErrGeneratorNotConfigured):
			response.Error(c, http.StatusInternalServerError, "LLM API key not configured")
		case errors.As(err, &genErr):
			response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to generate response", genErr.Detail)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to generate response")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
