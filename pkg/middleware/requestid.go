package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID はリクエストIDを運ぶHTTPヘッダー。
	HeaderRequestID = "X-Request-ID"

	contextKeyRequestID = "request_id"
	maxRequestIDLength  = 128
)

// RequestID はクライアントが付与したリクエストIDを引き継ぐGinミドルウェアを返す。
// ヘッダーが無いか長すぎる場合は新しいUUIDを採番する。レスポンスにも同じIDを返す。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID はGinコンテキストからリクエストIDを取得する。
func GetRequestID(c *gin.Context) string {
	v, _ := c.Get(contextKeyRequestID)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
