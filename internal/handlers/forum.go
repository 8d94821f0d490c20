package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/play-builder/layer-x-forum/internal/db"
	"github.com/play-builder/layer-x-forum/internal/middleware"
	"github.com/play-builder/layer-x-forum/internal/models"
	"github.com/play-builder/layer-x-forum/internal/services"
	"github.com/play-builder/layer-x-forum/internal/storage"
)

type ForumHandler struct {
	forums *services.ForumService
	store  storage.BlobStore
}

func NewForumHandler(store storage.BlobStore) *ForumHandler {
	return &ForumHandler{
		forums: services.NewForumService(db.DB),
		store:  store,
	}
}

func (h *ForumHandler) Create(c *gin.Context) {
	var in services.CreateForumInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	forum, err := h.forums.Create(middleware.CurrentUser(c), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, forum)
}

func (h *ForumHandler) Get(c *gin.Context) {
	page, perPage := pageParams(c, 10)
	forum, pagination, err := h.forums.Get(viewerName(c), c.Param("name"), page, perPage)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.fillImageURLs(forum)
	c.JSON(http.StatusOK, gin.H{"forum": forum, "pagination": pagination})
}

func (h *ForumHandler) List(c *gin.Context) {
	page, perPage := pageParams(c, 20)
	forums, pagination, err := h.forums.List(page, perPage)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	for i := range forums {
		h.fillImageURLs(&forums[i])
	}
	c.JSON(http.StatusOK, gin.H{"forums": forums, "pagination": pagination})
}

func (h *ForumHandler) Top(c *gin.Context) {
	forums, err := h.forums.Top()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if h.store != nil {
		for i := range forums {
			if forums[i].ImageURN != "" {
				forums[i].ImageURL = h.store.PublicURL(forums[i].ImageURN)
			}
		}
	}
	c.JSON(http.StatusOK, forums)
}

// Upload handles POST /api/forums/:name/upload. Only the owner may replace
// the forum's image or banner; the previous blob is removed after the swap.
func (h *ForumHandler) Upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image storage is not configured"})
		return
	}

	kind := services.ImageKind(c.PostForm("type"))
	if kind != services.ImageKindImage && kind != services.ImageKindBanner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type must be image or banner"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only jpeg and png images are allowed"})
		return
	}

	file, err := header.Open()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	defer file.Close()

	objectName := storage.ObjectName(header.Filename)
	if err := h.store.Put(c.Request.Context(), objectName, file, header.Size, contentType); err != nil {
		writeServiceError(c, err)
		return
	}

	forum, oldObject, err := h.forums.SetImage(middleware.CurrentUser(c), c.Param("name"), kind, objectName)
	if err != nil {
		// The forum row was not touched; drop the blob we just wrote.
		h.store.Remove(context.Background(), objectName)
		writeServiceError(c, err)
		return
	}

	if oldObject != "" {
		h.store.Remove(context.Background(), oldObject)
	}

	h.fillImageURLs(forum)
	c.JSON(http.StatusOK, forum)
}

func (h *ForumHandler) fillImageURLs(forum *models.Forum) {
	if h.store == nil {
		return
	}
	if forum.ImageURN != "" {
		forum.ImageURL = h.store.PublicURL(forum.ImageURN)
	}
	if forum.BannerURN != "" {
		forum.BannerURL = h.store.PublicURL(forum.BannerURN)
	}
}
