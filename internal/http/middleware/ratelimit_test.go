package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/raja1702/computer-storage-solutions/internal/platform/ctxutil"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

func limitedRouter(rl *RateLimiter, subject string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if subject != "" {
			c.Request = c.Request.WithContext(ctxutil.WithPrincipal(c.Request.Context(), &ctxutil.Principal{Subject: subject, Role: AdminRole}))
		}
		c.Next()
	})
	r.Use(rl.Handler())
	r.GET("/r", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r *gin.Engine) int {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/r", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(logger.Nop(), 1, 2)
	rl.now = func() time.Time { return clock }

	r := limitedRouter(rl, "admin-1")
	for i := 0; i < 2; i++ {
		if got := hit(r); got != http.StatusOK {
			t.Fatalf("request %d: want=200 got=%d", i, got)
		}
	}
	if got := hit(r); got != http.StatusTooManyRequests {
		t.Fatalf("want=429 got=%d", got)
	}

	clock = clock.Add(time.Second)
	if got := hit(r); got != http.StatusOK {
		t.Fatalf("after refill: want=200 got=%d", got)
	}
}

func TestRateLimiterKeysBySubject(t *testing.T) {
	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(logger.Nop(), 1, 1)
	rl.now = func() time.Time { return clock }

	if got := hit(limitedRouter(rl, "admin-1")); got != http.StatusOK {
		t.Fatalf("admin-1: want=200 got=%d", got)
	}
	if got := hit(limitedRouter(rl, "admin-2")); got != http.StatusOK {
		t.Fatalf("admin-2 has its own bucket: want=200 got=%d", got)
	}
	if got := hit(limitedRouter(rl, "admin-1")); got != http.StatusTooManyRequests {
		t.Fatalf("admin-1 again: want=429 got=%d", got)
	}
}

func TestRateLimiterSweep(t *testing.T) {
	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(logger.Nop(), 5, 0)
	rl.now = func() time.Time { return clock }
	if rl.burst != 5 {
		t.Fatalf("default burst: want=5 got=%d", rl.burst)
	}

	hit(limitedRouter(rl, ""))
	clock = clock.Add(time.Minute)
	if n := rl.Sweep(); n != 0 {
		t.Fatalf("fresh caller swept: got=%d", n)
	}
	clock = clock.Add(11 * time.Minute)
	if n := rl.Sweep(); n != 1 {
		t.Fatalf("idle caller: want=1 got=%d", n)
	}
}
