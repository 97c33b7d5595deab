package web

import (
	"log/slog"
	"net/http"

	"github.com/thecodebarbarian/barbarian/internal/logfields"
)

// LogHandler logs the path and status of every request.
func LogHandler(h http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(writer, r)
		level := slog.LevelDebug
		if writer.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "Request",
			logfields.Path(r.URL.Path), slog.Int("status", writer.status))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// notFound writes the plain text not-found response.
func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not found"))
}
