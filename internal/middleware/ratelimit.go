package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// DailyLimiter counts state-changing calls per client address and route and
// rejects everything over the cap until the next UTC calendar day.
type DailyLimiter struct {
	mu     sync.Mutex
	day    string // UTC date the counters belong to
	counts map[string]int
	now    func() time.Time
}

func NewDailyLimiter() *DailyLimiter {
	return &DailyLimiter{
		counts: make(map[string]int),
		now:    time.Now,
	}
}

// Allow increments the counter for key and reports whether the call is still
// within the cap. Counters reset when the UTC date changes.
func (l *DailyLimiter) Allow(key string, max int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := l.now().UTC().Format("2006-01-02")
	if today != l.day {
		l.day = today
		l.counts = make(map[string]int)
	}

	if l.counts[key] >= max {
		return false
	}

	l.counts[key]++
	return true
}

// PerDay caps requests at max per client address per route per calendar day.
// Over-cap requests are rejected before the handler runs.
func (l *DailyLimiter) PerDay(max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + " " + c.Request.Method + " " + c.FullPath()

		if !l.Allow(key, max) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again tomorrow."})
			return
		}

		c.Next()
	}
}
