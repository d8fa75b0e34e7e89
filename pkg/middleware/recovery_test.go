package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestRecovery はRecoveryミドルウェアを検証する。
func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("パニックが発生した場合500とエラー本文が返ること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(RequestID(), Recovery())
		router.GET("/panic", func(_ *gin.Context) {
			panic("テスト用パニック")
		})

		req := httptest.NewRequest(http.MethodGet, "/panic", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if body["error"] != MessageInternalError {
			t.Errorf("error = %q", body["error"])
		}
		requestID := w.Header().Get(HeaderRequestID)
		if requestID == "" {
			t.Error("パニック時もX-Request-IDが返るべき")
		}
		if body["request_id"] != requestID {
			t.Errorf("request_id = %q, want %q", body["request_id"], requestID)
		}
	})

	t.Run("パニックが発生しない場合は正常にレスポンスが返ること", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/ok", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("AbortInternalで後続のハンドラーが実行されないこと", func(t *testing.T) {
		t.Parallel()

		reached := false
		router := gin.New()
		router.Use(RequestID())
		router.GET("/fail", func(c *gin.Context) {
			AbortInternal(c, "[Test]", "失敗")
		}, func(_ *gin.Context) {
			reached = true
		})

		req := httptest.NewRequest(http.MethodGet, "/fail", nil)
		req.Header.Set(HeaderRequestID, "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		if !strings.Contains(w.Body.String(), `"request_id":"req-42"`) {
			t.Errorf("body = %s, want request_id を含む", w.Body.String())
		}
		if reached {
			t.Error("AbortInternal後にハンドラーが実行された")
		}
	})
}
