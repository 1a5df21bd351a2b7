package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ResponseCache is a short-TTL in-process cache for read endpoints, keyed by
// route plus query string. Entries are never invalidated on writes; staleness
// inside the TTL window is an accepted tradeoff.
type ResponseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	status      int
	contentType string
	body        []byte
	expiresAt   time.Time
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (rc *ResponseCache) get(key string) (cacheEntry, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	entry, ok := rc.entries[key]
	if !ok {
		return cacheEntry{}, false
	}
	if rc.now().After(entry.expiresAt) {
		delete(rc.entries, key)
		return cacheEntry{}, false
	}
	return entry, true
}

func (rc *ResponseCache) put(key string, entry cacheEntry) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	entry.expiresAt = rc.now().Add(rc.ttl)
	rc.entries[key] = entry
}

// Cached serves GET responses from the cache when a fresh entry exists and
// captures successful responses otherwise.
func (rc *ResponseCache) Cached() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.Path + "?" + c.Request.URL.RawQuery

		if entry, ok := rc.get(key); ok {
			c.Data(entry.status, entry.contentType, entry.body)
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = capture

		c.Next()

		if capture.Status() == http.StatusOK {
			rc.put(key, cacheEntry{
				status:      capture.Status(),
				contentType: capture.Header().Get("Content-Type"),
				body:        capture.buf.Bytes(),
			})
		}
	}
}

type bodyCapture struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
