package sanitize

import (
	"net/http"

	"middleware-guard/middleware/payload"
)

// Middleware sanitiza os parâmetros de query e, nas requisições com
// corpo JSON, os valores string do objeto decodificado. O corpo segue
// para os próximos handlers já reescrito.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			changed := false
			for k, vs := range q {
				for i, v := range vs {
					if s := String(v); s != v {
						vs[i] = s
						changed = true
					}
				}
				q[k] = vs
			}
			if changed {
				r.URL.RawQuery = q.Encode()
			}

			body, r, err := payload.Decode(r)
			if err == nil && body != nil {
				Map(body)
				r = payload.Rebody(r, body)
			}

			next.ServeHTTP(w, r)
		})
	}
}
