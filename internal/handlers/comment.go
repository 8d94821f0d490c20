package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/play-builder/layer-x-forum/internal/db"
	"github.com/play-builder/layer-x-forum/internal/middleware"
	"github.com/play-builder/layer-x-forum/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{comments: services.NewCommentService(db.DB)}
}

func (h *CommentHandler) Get(c *gin.Context) {
	comment, err := h.comments.Get(viewerName(c), c.Param("identifier"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	var in struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.comments.Update(middleware.CurrentUser(c), c.Param("identifier"), in.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(middleware.CurrentUser(c), c.Param("identifier")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
