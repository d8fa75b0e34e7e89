package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TestRequestID はRequestIDミドルウェアを検証する。
func TestRequestID(t *testing.T) {
	t.Parallel()

	serve := func(header string) (*httptest.ResponseRecorder, string) {
		var seen string
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			seen = GetRequestID(c)
			c.Status(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set(HeaderRequestID, header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w, seen
	}

	t.Run("クライアントのリクエストIDが引き継がれること", func(t *testing.T) {
		t.Parallel()

		w, seen := serve("req-123")
		if seen != "req-123" {
			t.Errorf("GetRequestID() = %q, want %q", seen, "req-123")
		}
		if got := w.Header().Get(HeaderRequestID); got != "req-123" {
			t.Errorf("X-Request-ID = %q, want %q", got, "req-123")
		}
	})

	t.Run("ヘッダーが無い場合UUIDが採番されること", func(t *testing.T) {
		t.Parallel()

		_, seen := serve("")
		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("GetRequestID() = %q はUUIDではない: %v", seen, err)
		}
	})

	t.Run("長すぎるIDは採番し直されること", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("x", maxRequestIDLength+1)
		_, seen := serve(long)
		if seen == long {
			t.Error("長すぎるIDがそのまま使われた")
		}
	})
}
