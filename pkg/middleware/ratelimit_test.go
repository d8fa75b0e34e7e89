package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// fakeClock はテスト用に進められる時計。
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newLimiterWithClock(limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRateLimiter(limit, window)
	r.now = clock.now
	return r, clock
}

// TestRateLimiter はRateLimiterを検証する。
func TestRateLimiter(t *testing.T) {
	t.Parallel()

	t.Run("上限回数までは許可され超えると拒否されること", func(t *testing.T) {
		t.Parallel()

		r, _ := newLimiterWithClock(3, time.Minute)
		for i := 0; i < 3; i++ {
			if ok, _ := r.Allow("10.0.0.1"); !ok {
				t.Fatalf("%d回目が拒否された", i+1)
			}
		}
		ok, retry := r.Allow("10.0.0.1")
		if ok {
			t.Fatal("4回目は拒否されるべき")
		}
		if retry != time.Minute {
			t.Errorf("retryAfter = %v, want %v", retry, time.Minute)
		}
	})

	t.Run("キーごとに独立して数えること", func(t *testing.T) {
		t.Parallel()

		r, _ := newLimiterWithClock(1, time.Minute)
		if ok, _ := r.Allow("a"); !ok {
			t.Fatal("aの1回目が拒否された")
		}
		if ok, _ := r.Allow("b"); !ok {
			t.Fatal("bの1回目が拒否された")
		}
	})

	t.Run("時間幅が過ぎると再び許可されること", func(t *testing.T) {
		t.Parallel()

		r, clock := newLimiterWithClock(1, time.Minute)
		r.Allow("a")
		clock.t = clock.t.Add(30 * time.Second)
		if ok, retry := r.Allow("a"); ok || retry != 30*time.Second {
			t.Fatalf("Allow() = %v, %v, want false, 30s", ok, retry)
		}
		clock.t = clock.t.Add(31 * time.Second)
		if ok, _ := r.Allow("a"); !ok {
			t.Error("時間幅の経過後は許可されるべき")
		}
	})

	t.Run("0以下の値は既定値になること", func(t *testing.T) {
		t.Parallel()

		r := NewRateLimiter(0, -1)
		if r.limit != DefaultLoginLimit || r.window != DefaultLoginWindow {
			t.Errorf("limit=%d window=%v", r.limit, r.window)
		}
	})
}

// TestRateLimiterMiddleware はミドルウェアとしての応答を検証する。
func TestRateLimiterMiddleware(t *testing.T) {
	t.Parallel()

	r, _ := newLimiterWithClock(1, 90*time.Second)
	router := gin.New()
	router.POST("/login", r.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := send(); w.Code != http.StatusOK {
		t.Fatalf("1回目のステータスコード = %d, want %d", w.Code, http.StatusOK)
	}
	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("2回目のステータスコード = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if got := w.Header().Get("Retry-After"); got != "90" {
		t.Errorf("Retry-After = %q, want %q", got, "90")
	}
	if got := errorBody(t, w); got == "" {
		t.Error("errorが空")
	}
}
