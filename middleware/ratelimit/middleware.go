package ratelimit

import (
	"net/http"
	"time"

	"middleware-guard/httperr"
	"middleware-guard/identity"
	"middleware-guard/middleware/ratelimit/application"
	"middleware-guard/middleware/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

// DefaultKeyFunc particiona pela identidade da requisição: user id
// autenticado quando existe, senão a origem de rede.
func DefaultKeyFunc(r *http.Request) string {
	return identity.FromRequest(r).Key()
}

type Options struct {
	Service application.Service
	Stats   domain.StatsStore
	KeyFn   KeyFunc
	// AddRateLimitHeaders expõe a chave usada no header X-RateLimit-Key.
	AddRateLimitHeaders bool
}

// Middleware aplica a janela deslizante por identidade a TODAS as
// requisições, inclusive leituras. É um estágio independente, montado na
// frente das rotas, sem vínculo com schema de rota.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
			}

			dec := opts.Service.Decide(r.Context(), domain.Key(key))
			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     domain.Key(key),
					Allowed: dec.Allowed,
					Code:    dec.Code,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}
			if !dec.Allowed {
				retryAfter := int(dec.RetryAfter.Seconds())
				w.Header().Set("Retry-After", formatInt(retryAfter))
				httperr.Write(w, http.StatusTooManyRequests, string(dec.Code), "too many requests",
					httperr.Field("retryAfter", retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

