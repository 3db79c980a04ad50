package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warehouse/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects request bodies larger than maxBytes. Requests with a
// Content-Length above the limit are rejected up front; chunked bodies are
// capped by MaxBytesReader and fail inside the handler's bind.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
