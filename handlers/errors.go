package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skillcheck/apperr"
	"skillcheck/logger"
	"skillcheck/middleware"
)

// respondError writes err with the status apperr assigns to it. Server-side
// failures are logged and replaced by a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := apperr.Status(err)
	switch {
	case status == http.StatusServiceUnavailable:
		log.Error("store unavailable", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "Service temporarily unavailable"})
	case status >= http.StatusInternalServerError:
		log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "Internal server error"})
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return userID, ok
}
