package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/play-builder/layer-x-forum/internal/db"
	"github.com/play-builder/layer-x-forum/internal/middleware"
	"github.com/play-builder/layer-x-forum/internal/services"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{votes: services.NewVoteService(db.DB)}
}

// Cast handles POST /api/votes. The response is the full updated post so
// the client can replace its view in one round trip.
func (h *VoteHandler) Cast(c *gin.Context) {
	var in services.VoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	post, err := h.votes.CastVote(user, in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
