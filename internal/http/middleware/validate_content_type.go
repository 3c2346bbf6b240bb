package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ValidateContentType rejects request bodies that are not JSON.
func ValidateContentType() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodPost || ctx.Request.ContentLength == 0 {
			ctx.Next()
			return
		}

		contentType := ctx.GetHeader("Content-Type")
		if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
			ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"success": false,
				"error":   "Content-Type must be application/json",
			})
			return
		}

		ctx.Next()
	}
}
