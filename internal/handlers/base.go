package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/play-builder/layer-x-forum/internal/services"
)

// writeServiceError maps the service failure taxonomy to HTTP statuses.
// Unexpected errors are logged server-side and answered with a generic 500.
func writeServiceError(c *gin.Context, err error) {
	var fieldErrs services.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidVoteValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNameTaken),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTargetNotFound),
		errors.Is(err, services.ErrNothingToRemove):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

// pageParams reads zero-based ?page and ?count with the given default page
// size, mirroring the client's pagination contract.
func pageParams(c *gin.Context, defaultPerPage int) (page, perPage int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	perPage, _ = strconv.Atoi(c.Query("count"))
	if perPage <= 0 || perPage > 100 {
		perPage = defaultPerPage
	}
	return page, perPage
}
