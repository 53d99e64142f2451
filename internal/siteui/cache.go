package siteui

import (
	"bytes"
	"net/http"
	"sync"
)

// PageCache holds fully rendered public pages keyed by path. Admin mutations
// call Invalidate so visitors see changes on the next request instead of
// waiting out a TTL.
type PageCache struct {
	mu    sync.RWMutex
	pages map[string][]byte
}

func NewPageCache() *PageCache {
	return &PageCache{pages: make(map[string][]byte)}
}

func (c *PageCache) get(path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.pages[path]
	return body, ok
}

func (c *PageCache) put(path string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[path] = body
}

func (c *PageCache) Invalidate(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		delete(c.pages, p)
	}
}

// captureWriter tees a rendered page into a buffer so it can be cached.
// Only a clean 200 render is kept.
type captureWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *captureWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

// cached serves path from the cache when possible, otherwise renders and
// stores the result. A nil cache falls through to a plain render.
func (a *app) cached(path string, render http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.cache == nil {
			render(w, r)
			return
		}
		if body, ok := a.cache.get(path); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(body)
			return
		}

		cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		render(cw, r)
		if cw.status == http.StatusOK {
			a.cache.put(path, cw.buf.Bytes())
		}
	}
}
