package http

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// Unwrap lets http.ResponseController and the websocket upgrader reach
// the underlying writer
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack is required for websocket upgrades through the middleware chain
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// loggingMiddleware logs every request once it completes
func loggingMiddleware(next http.Handler, logger HTTPLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		logger.Info("HTTP %s %s - %d %d bytes in %v",
			r.Method, r.URL.Path, wrapped.status, wrapped.size, time.Since(start))
	})
}

// securityHeadersMiddleware adds security headers to all responses
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// gallery images may be remote
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self' ws: wss:; "+
				"frame-ancestors 'none'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-DNS-Prefetch-Control", "off")

		next.ServeHTTP(w, r)
	})
}

// rateLimiter is a sliding-window request counter per client IP
type rateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientInfo
	limit       int
	window      time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

type clientInfo struct {
	lastSeen time.Time
	requests []time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		clients:     make(map[string]*clientInfo),
		limit:       limit,
		window:      window,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// isAllowed records a request from ip and reports whether it is within the limit
func (rl *rateLimiter) isAllowed(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	// idle clients are dropped every few windows
	if now.Sub(rl.lastCleanup) > 5*rl.window {
		for addr, info := range rl.clients {
			if info.lastSeen.Before(cutoff) {
				delete(rl.clients, addr)
			}
		}
		rl.lastCleanup = now
	}

	client, ok := rl.clients[ip]
	if !ok {
		client = &clientInfo{}
		rl.clients[ip] = client
	}
	client.lastSeen = now

	valid := client.requests[:0]
	for _, t := range client.requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	client.requests = valid

	if len(valid) >= rl.limit {
		return false
	}
	client.requests = append(client.requests, now)
	return true
}

// rateLimitMiddleware rejects clients over the limit with 429
func rateLimitMiddleware(next http.Handler, rl *rateLimiter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.isAllowed(getClientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP, preferring proxy headers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	if ip := net.ParseIP(r.Header.Get("X-Real-IP")); ip != nil {
		return ip.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// recoveryMiddleware turns handler panics into 500s
func recoveryMiddleware(next http.Handler, logger HTTPLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered in HTTP handler: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware counts every request that passed rate limiting
func metricsMiddleware(next http.Handler, metrics ports.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordHTTPRequest()
		next.ServeHTTP(w, r)
	})
}
