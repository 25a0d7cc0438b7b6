package ratelimit

import (
	"net/http"
	"time"

	"middleware-guard/httperr"
	"middleware-guard/middleware/ratelimit/domain"
	"middleware-guard/middleware/ratelimit/infra"
)

type BucketOptions struct {
	Store *infra.BucketStore
	KeyFn KeyFunc
	// RetryAfter vai no header e no corpo quando bloquear (padrão 1s).
	RetryAfter time.Duration
	// AddRateLimitHeaders expõe rps/burst configurados nos headers.
	AddRateLimitHeaders bool
}

// BucketMiddleware é o estágio opcional de suavização de rajadas (token
// bucket por chave). Fica na frente da janela deslizante no gateway; com
// Store nil vira passthrough.
func BucketMiddleware(opts BucketOptions) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-RPS", formatFloat(opts.Store.RPS()))
				w.Header().Set("X-RateLimit-Burst", formatInt(opts.Store.Burst()))
			}

			if !opts.Store.Allow(key) {
				retryAfter := int(opts.RetryAfter.Seconds())
				w.Header().Set("Retry-After", formatInt(retryAfter))
				httperr.Write(w, http.StatusTooManyRequests, string(domain.CodeMinute), "too many requests",
					httperr.Field("retryAfter", retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
