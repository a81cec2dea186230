package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"safenest/internal/app"
	"safenest/internal/transport/http/response"
)

type CommunityHandler struct {
	communityService *app.CommunityService
}

func NewCommunityHandler(communityService *app.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

func (h *CommunityHandler) ListComments(c *gin.Context) {
	threads, err := h.communityService.ListThreads()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": threads})
}

type CreateCommentRequest struct {
	Author   string `json:"author"`
	Text     string `json:"text"`
	ParentID uint   `json:"parent_id"`
}

func (h *CommunityHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	comment, err := h.communityService.AddComment(app.AddCommentInput{
		Author:   req.Author,
		Text:     req.Text,
		ParentID: req.ParentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "comment text is required")
		case errors.Is(err, app.ErrParentCommentNotFound):
			response.Error(c, http.StatusNotFound, "parent comment not found")
		default:
			response.Error(c, http.StatusInternalServerError, "failed to create comment")
		}
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.communityService.DeleteComment(uint(id)); err != nil {
		if errors.Is(err, app.ErrCommentNotFound) {
			response.Error(c, http.StatusNotFound, "comment not found")
		} else {
			response.Error(c, http.StatusInternalServerError, "failed to delete comment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted_comment_id": id})
}

func (h *CommunityHandler) ClearComments(c *gin.Context) {
	if err := h.communityService.ClearComments(); err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to clear comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
