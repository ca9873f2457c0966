package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// RequestLogging logs each API request with status, duration, and client IP.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		log.Printf("[HTTP] %s %s %d %.1fms %s",
			r.Method, r.URL.Path, wrapped.statusCode,
			float64(time.Since(start).Microseconds())/1000.0,
			getClientIP(r))
	})
}

// shouldSkipLogging returns true for paths that shouldn't be logged.
func shouldSkipLogging(path string) bool {
	skipPaths := []string{
		"/healthz",
		"/metrics",
		"/favicon.ico",
		"/robots.txt",
	}

	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}

	return false
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}
