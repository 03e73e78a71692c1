package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/listforge/backend/internal/interfaces/http/dto"
)

// IngestKeyHeader is the header the scraping agent sends its pre-shared key in
const IngestKeyHeader = "X-Ingest-Key"

// IngestAuth returns a middleware that checks the ingestion pre-shared key.
// An empty configured key disables the endpoint entirely rather than leaving
// it open.
func IngestAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Ingestion is not configured"))
			return
		}

		provided := c.GetHeader(IngestKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid ingestion key"))
			return
		}

		c.Next()
	}
}
