package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/play-builder/layer-x-forum/internal/db"
	"github.com/play-builder/layer-x-forum/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler() *UserHandler {
	return &UserHandler{users: services.NewUserService(db.DB)}
}

// Profile returns a user's public data and their merged post/comment
// timeline.
func (h *UserHandler) Profile(c *gin.Context) {
	page, perPage := pageParams(c, 10)
	user, items, pagination, err := h.users.Profile(viewerName(c), c.Param("username"), page, perPage)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"userData":   items,
		"pagination": pagination,
	})
}
