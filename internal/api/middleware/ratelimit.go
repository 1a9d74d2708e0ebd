package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/parenthaven/backend/internal/api/response"
	"github.com/rs/zerolog/log"
)

// Limiter checks whether a keyed request may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, resetTime time.Time, err error)
}

// RateLimitMiddleware limits requests per client IP. The chat endpoints are
// reachable without an account, so the key is the client address rather than
// a user ID.
type RateLimitMiddleware struct {
	limiter Limiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit applies rate limiting keyed by client IP. RealIP runs earlier in the
// chain, so RemoteAddr already holds the client address.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, resetTime, err := m.limiter.Allow(r.Context(), r.RemoteAddr)
		if err != nil {
			// Fail open when the limiter backend is unavailable
			log.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.UTC().Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
