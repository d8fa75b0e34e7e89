package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MessageInternalError は500応答のerrorフィールドに入れる文言。
const MessageInternalError = "内部サーバーエラーが発生しました"

// Recovery はパニックから回復して500を返すGinミドルウェアを返す。
// RequestIDより後に適用するとログと応答にリクエストIDが載る。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				AbortInternal(c, "[PANIC]", r)
			}
		}()
		c.Next()
	}
}

// AbortInternal は原因をtag付きでログに残し、500と {"error", "request_id"} を返して処理を打ち切る。
// 原因は応答に含めない。
func AbortInternal(c *gin.Context, tag string, cause any) {
	requestID := GetRequestID(c)
	log.Printf("%s request_id=%s %s %s: %v", tag, requestID, c.Request.Method, c.Request.URL.Path, cause)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":      MessageInternalError,
		"request_id": requestID,
	})
}
