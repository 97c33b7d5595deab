package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var site = fstest.MapFS{
	"index.html":           {Data: []byte("home")},
	"2013/06/06/61.html":   {Data: []byte("post 61")},
	"2013/06/06/legacy":    {Data: []byte("legacy post")},
	"tag/nodejs.html":      {Data: []byte("node")},
	"feed.xml":             {Data: []byte("<rss/>")},
	"archive/index":        {Data: []byte("archive")},
	"empty/.keep":          {Data: []byte{}},
	"recommendations.html": {Data: []byte("read")},
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestFileHandler(t *testing.T) {
	h := FileHandler(site)
	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/", http.StatusOK, "home"},
		{"/index.html", http.StatusOK, "home"},
		{"/2013/06/06/61.html", http.StatusOK, "post 61"},
		{"/2013/06/06/61", http.StatusOK, "post 61"},
		{"/2013/06/06/61/", http.StatusOK, "post 61"},
		{"/2013/06/06/legacy/", http.StatusOK, "legacy post"},
		{"/archive/", http.StatusOK, "archive"},
		{"/tag/nodejs.html", http.StatusOK, "node"},
		{"/empty/", http.StatusNotFound, "Not found"},
		{"/missing", http.StatusNotFound, "Not found"},
		{"/../index.html", http.StatusOK, "home"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, h, tt.target)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestFileHandlerContentType(t *testing.T) {
	h := FileHandler(site)
	assert.Equal(t, "text/html; charset=utf-8", get(t, h, "/2013/06/06/legacy").Header().Get("Content-Type"))
	assert.Equal(t, "text/html; charset=utf-8", get(t, h, "/tag/nodejs.html").Header().Get("Content-Type"))
	assert.Equal(t, "text/plain; charset=utf-8", get(t, h, "/missing").Header().Get("Content-Type"))
}

func TestFileHandlerMethod(t *testing.T) {
	w := httptest.NewRecorder()
	FileHandler(site).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCacheHandler(t *testing.T) {
	h := CacheHandler(FileHandler(site), 2*time.Hour)
	for _, target := range []string{"/", "/missing"} {
		w := get(t, h, target)
		assert.Equal(t, "max-age=7200", w.Header().Get("Cache-Control"), target)
		exp, err := time.Parse(time.RFC1123, w.Header().Get("Expires"))
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp, time.Minute)
	}

	w := get(t, CacheHandler(FileHandler(site), 0), "/")
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestHeaderHandler(t *testing.T) {
	h := HeaderHandler(FileHandler(site), map[string]string{"X-Frame-Options": "DENY"})
	assert.Equal(t, "DENY", get(t, h, "/").Header().Get("X-Frame-Options"))
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	get(t, LogHandler(FileHandler(site), log), "/missing")
	assert.Contains(t, buf.String(), "path=/missing")
	assert.Contains(t, buf.String(), "status=404")
}
