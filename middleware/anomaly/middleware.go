package anomaly

import (
	"net/http"
	"sort"
	"time"

	"middleware-guard/httperr"
	"middleware-guard/identity"
	"middleware-guard/methods"
	"middleware-guard/middleware/anomaly/application"
	"middleware-guard/middleware/anomaly/domain"
	"middleware-guard/middleware/payload"
)

// Code vai no corpo do 429 quando a rajada é detectada.
const Code = "ANOMALY_DETECTED"

type Options struct {
	Service application.Service
}

// Middleware observa requisições mutantes de identidades autenticadas.
// Leituras e chamadas sem usuário resolvido passam direto, sem registrar.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := identity.FromRequest(r)
			if methods.Safe(r.Method) || !id.Authenticated() {
				next.ServeHTTP(w, r)
				return
			}

			ev := domain.ChangeEvent{
				At:     time.Now(),
				Method: r.Method,
				Path:   r.URL.Path,
			}
			// campos do payload (nomes, nunca valores); JSON malformado
			// fica para a validação responder 400 mais adiante
			if m, r2, err := payload.Decode(r); err == nil {
				r = r2
				ev.Fields = fieldNames(m)
			}

			allowed, err := opts.Service.Observe(r.Context(), id.Key(), ev)
			if err != nil {
				// histórico indisponível: segue sem bloquear
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				httperr.Write(w, http.StatusTooManyRequests, Code, "suspicious burst of deletions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func fieldNames(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
