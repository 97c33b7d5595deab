// Package logfields holds the slog attribute keys shared by the build and the server.
package logfields

import "log/slog"

const (
	KeyPhase      = "phase"
	KeyUnit       = "unit"
	KeyPath       = "path"
	KeyPost       = "post"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyCategory   = "category"
	KeyError      = "error"
)

func Phase(name string) slog.Attr      { return slog.String(KeyPhase, name) }
func Unit(name string) slog.Attr       { return slog.String(KeyUnit, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Post(title string) slog.Attr      { return slog.String(KeyPost, title) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
