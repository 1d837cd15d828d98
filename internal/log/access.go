package log

import (
	"log/slog"
	"net/http"
)

// LogHTTP writes the access log line, at warn for 4xx and error for 5xx.
func LogHTTP(l *Logger, r *http.Request, status int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	f := NewFields().
		WithHTTP(r.Method, r.URL.Path, r.URL.RawQuery, status, durationMs).
		WithClientIP(clientIP).
		WithUser(r.Header.Get("X-User-ID"))
	l.Log(r.Context(), level, "HTTP request completed", f.Args()...)
}
