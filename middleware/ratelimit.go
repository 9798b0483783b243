package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a per-client-address request budget on the
// handler it wraps: perMinute requests each minute, with a burst of the
// same size. Limiters are kept per remote IP.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*rate.Limiter
	perMinute int
	logger    *slog.Logger
}

func NewRateLimiter(perMinute int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*rate.Limiter),
		perMinute: perMinute,
		logger:    logger,
	}
}

// Wrap returns a handler that applies the limit before next.
func (rl *RateLimiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientAddress(r)) {
			rl.logger.Warn("Rate limit exceeded",
				slog.String("client", clientAddress(r)),
				slog.String("path", r.URL.Path))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Rate limit exceeded. Try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(client string) bool {
	rl.mu.Lock()
	limiter, ok := rl.clients[client]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.perMinute)
		rl.clients[client] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// clientAddress extracts the remote IP, ignoring the ephemeral port.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
