package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/play-builder/layer-x-forum/internal/db"
	"github.com/play-builder/layer-x-forum/internal/middleware"
	"github.com/play-builder/layer-x-forum/internal/services"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler() *PostHandler {
	return &PostHandler{posts: services.NewPostService(db.DB)}
}

func viewerName(c *gin.Context) string {
	if user := middleware.CurrentUser(c); user != nil {
		return user.Username
	}
	return ""
}

func (h *PostHandler) List(c *gin.Context) {
	page, perPage := pageParams(c, 10)
	posts, pagination, err := h.posts.List(viewerName(c), page, perPage)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "pagination": pagination})
}

func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(viewerName(c), c.Param("identifier"), c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Create(c *gin.Context) {
	var in services.CreatePostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.posts.Create(middleware.CurrentUser(c), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	var in services.UpdatePostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.posts.Update(middleware.CurrentUser(c), c.Param("identifier"), c.Param("slug"), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	err := h.posts.Delete(middleware.CurrentUser(c), c.Param("identifier"), c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *PostHandler) ListComments(c *gin.Context) {
	page, perPage := pageParams(c, 20)
	comments, pagination, err := h.posts.Comments(viewerName(c), c.Param("identifier"), c.Param("slug"), page, perPage)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments, "pagination": pagination})
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	var in struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.posts.CreateComment(middleware.CurrentUser(c), c.Param("identifier"), c.Param("slug"), in.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
