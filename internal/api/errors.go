package api

import (
	"errors"   // Error kind matching
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"finance_tracker/internal/domain"     // Domain error kinds
	"finance_tracker/internal/middleware" // Request ID lookup

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusOf maps a domain error kind to its HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message": ...}. Only *domain.Error messages
// reach the client; anything else is logged and reported generically.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.JSON(statusOf(de), gin.H{"message": de.Message})
		return
	}
	log.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
		"error":      err.Error(),
	}).Error("Unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}

// badBody reports a request body that could not be decoded
func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
}

// pathID parses the :id parameter. Anything that is not a positive integer
// names no resource, so it is reported as not found.
func pathID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 || uint64(uint(id)) != id {
		c.JSON(http.StatusNotFound, gin.H{"message": what + " not found"})
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user's ID set by the JWT middleware
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
	}
	return id, ok
}
