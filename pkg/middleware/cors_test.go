package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serveCORS(origins []string, method, origin string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(CORS(origins))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("許可されたオリジンにCORSヘッダーが設定されること", func(t *testing.T) {
		t.Parallel()

		w := serveCORS([]string{"http://localhost:5173"}, http.MethodGet, "http://localhost:5173")
		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type, X-Request-ID" {
			t.Errorf("Access-Control-Allow-Headers = %q", got)
		}
		if got := w.Header().Get("Access-Control-Expose-Headers"); got != HeaderRequestID {
			t.Errorf("Access-Control-Expose-Headers = %q", got)
		}
	})

	t.Run("許可されていないオリジンにはCORSヘッダーが設定されないこと", func(t *testing.T) {
		t.Parallel()

		w := serveCORS([]string{"http://localhost:5173"}, http.MethodGet, "https://evil.example")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("ワイルドカード指定で任意のオリジンが許可されること", func(t *testing.T) {
		t.Parallel()

		w := serveCORS([]string{AllowAnyOrigin}, http.MethodGet, "https://admin.example")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})

	t.Run("Originヘッダーが無い場合はCORSヘッダーが設定されないこと", func(t *testing.T) {
		t.Parallel()

		w := serveCORS([]string{AllowAnyOrigin}, http.MethodGet, "")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("OPTIONSリクエストに204が返ること", func(t *testing.T) {
		t.Parallel()

		w := serveCORS([]string{"http://localhost:5173"}, http.MethodOptions, "http://localhost:5173")
		if w.Code != http.StatusNoContent {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusNoContent)
		}
	})
}
