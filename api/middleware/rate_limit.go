package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/farmlink-co/farmlink-backend/api/responses"
	"github.com/farmlink-co/farmlink-backend/pkg/config"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit throttles by client IP with a Redis fixed window. A limiter
// outage lets traffic through; throttling must never take the API down.
func RateLimit(cfg config.RateLimitConfig, limiter rateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Disabled || limiter == nil || cfg.IPLimit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			scope := "ip:" + clientIP(r)
			allowed, _, err := limiter.FixedWindowAllow(r.Context(), scope, int64(cfg.IPLimit), cfg.Window)
			if err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "rate limiter unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
