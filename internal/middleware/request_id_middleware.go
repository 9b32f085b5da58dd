package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader — заголовок, в котором передаётся идентификатор запроса
const RequestIDHeader = "X-Request-ID"

// RequestID присваивает каждому запросу уникальный идентификатор.
// Если клиент уже прислал X-Request-ID, он сохраняется как есть.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
