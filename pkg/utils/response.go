package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONError sends the standard {"error": ...} body with the given status code
func JSONError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": message,
	})
}

// JSONErrorDetails sends an error body carrying the remote response verbatim
func JSONErrorDetails(c *gin.Context, statusCode int, message, details string) {
	c.JSON(statusCode, gin.H{
		"error":   message,
		"details": details,
	})
}
