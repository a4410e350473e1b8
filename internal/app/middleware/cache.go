package middleware

import (
	"bytes"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type cacheEntry struct {
	Content     []byte
	ContentType string
	Expiration  time.Time
}

// ResponseCache keeps successful GET responses in memory until they expire or
// a write request succeeds.
type ResponseCache struct {
	mu    sync.RWMutex
	items map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time

	// generation counts purges; a response computed before a purge is not stored.
	generation uint64
	swept      time.Time

	hits   int64
	misses int64
}

// NewResponseCache creates a cache whose entries live for ttl
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ResponseCache{
		items: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		swept: time.Now(),
	}
}

// cacheKey is the path plus the sorted query string
func cacheKey(c *gin.Context) string {
	query := c.Request.URL.Query()
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(c.Request.URL.Path)
	b.WriteByte('?')
	for _, key := range keys {
		values := query[key]
		sort.Strings(values)
		for _, value := range values {
			b.WriteString(key + "=" + value + "&")
		}
	}
	return b.String()
}

// Middleware serves cached GET responses and purges everything after a
// successful non-GET request.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			if status := c.Writer.Status(); status >= 200 && status < 300 {
				rc.Purge()
			}
			return
		}

		key := cacheKey(c)
		rc.mu.RLock()
		entry, found := rc.items[key]
		rc.mu.RUnlock()

		if found && entry.Expiration.After(rc.now()) {
			rc.mu.Lock()
			rc.hits++
			rc.mu.Unlock()
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, entry.ContentType, entry.Content)
			c.Abort()
			return
		}

		rc.mu.Lock()
		rc.misses++
		generation := rc.generation
		rc.mu.Unlock()

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		rc.mu.Lock()
		defer rc.mu.Unlock()
		if generation != rc.generation {
			return
		}
		now := rc.now()
		if now.Sub(rc.swept) >= rc.ttl {
			rc.purgeExpired(now)
		}
		rc.items[key] = cacheEntry{
			Content:     writer.body.Bytes(),
			ContentType: c.Writer.Header().Get("Content-Type"),
			Expiration:  now.Add(rc.ttl),
		}
	}
}

// Purge drops every entry and keeps responses still being computed from
// being stored.
func (rc *ResponseCache) Purge() {
	rc.mu.Lock()
	rc.items = make(map[string]cacheEntry)
	rc.generation++
	rc.mu.Unlock()
}

// PurgeExpired drops entries whose time is up. Stores run it at most once
// per TTL.
func (rc *ResponseCache) PurgeExpired() {
	now := rc.now()
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.purgeExpired(now)
}

func (rc *ResponseCache) purgeExpired(now time.Time) {
	for key, entry := range rc.items {
		if !entry.Expiration.After(now) {
			delete(rc.items, key)
		}
	}
	rc.swept = now
}

// Stats reports the entries and hit counters
func (rc *ResponseCache) Stats() map[string]interface{} {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	now := rc.now()
	items := make([]map[string]interface{}, 0, len(rc.items))
	for key, entry := range rc.items {
		items = append(items, map[string]interface{}{
			"key":        key,
			"size":       len(entry.Content),
			"expiration": entry.Expiration.Format(time.RFC3339),
			"expired":    entry.Expiration.Before(now),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i]["key"].(string) < items[j]["key"].(string)
	})
	return map[string]interface{}{
		"total_items": len(rc.items),
		"hits":        rc.hits,
		"misses":      rc.misses,
		"items":       items,
	}
}

// responseWriter copies the body while writing it
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
