package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a structured error response
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}

// JSONRejection sends a structured bid rejection with the reason code and
// the minimum amount that would have been accepted.
func JSONRejection(c *gin.Context, status int, err error, reason string, minimumBid any) {
	c.JSON(status, gin.H{
		"status":      status,
		"message":     "bid rejected",
		"error":       err.Error(),
		"reason":      reason,
		"minimum_bid": minimumBid,
	})
}
