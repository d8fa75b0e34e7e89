package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLoginLimit はログイン試行の既定の上限回数。
	DefaultLoginLimit = 5
	// DefaultLoginWindow はログイン試行を数える既定の時間幅。
	DefaultLoginWindow = time.Minute
)

// RateLimiter はキーごとのスライディングウィンドウ制限。
type RateLimiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter はwindowの間にlimit回まで許可するRateLimiterを生成する。
// 0以下の値は既定値に置き換える。
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultLoginLimit
	}
	if window <= 0 {
		window = DefaultLoginWindow
	}
	return &RateLimiter{
		events: make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow はkeyの新しい試行を許可するかどうかを返す。
// 拒否した場合は、次に許可されるまでの待ち時間も返す。
func (r *RateLimiter) Allow(key string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cut := now.Add(-r.window)
	kept := r.events[key][:0]
	for _, t := range r.events[key] {
		if t.After(cut) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= r.limit {
		r.events[key] = kept
		return false, kept[0].Sub(cut)
	}
	kept = append(kept, now)
	r.events[key] = kept
	return true, 0
}

// Middleware はクライアントIPごとに試行を制限するGinミドルウェアを返す。
// 上限を超えた場合は429とRetry-Afterを返す。
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := r.Allow(c.ClientIP())
		if !ok {
			secs := int64(retryAfter / time.Second)
			if retryAfter%time.Second != 0 {
				secs++
			}
			c.Header("Retry-After", strconv.FormatInt(secs, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "試行回数が多すぎます。しばらく待ってから再試行してください",
			})
			return
		}
		c.Next()
	}
}
