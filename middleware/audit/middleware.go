package audit

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"middleware-guard/identity"
	"middleware-guard/methods"
)

// Options configura o adaptador HTTP de auditoria.
type Options struct {
	Sink Sink
	// Now permite injetar o relógio nos testes.
	Now func() time.Time
}

// statusWriter captura o status efetivamente escrito na resposta.
// Write sem WriteHeader implica 200, como no net/http.
type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wrote {
		w.status = status
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.status = http.StatusOK
		w.wrote = true
	}
	return w.ResponseWriter.Write(b)
}

// Middleware registra as requisições mutantes depois da resposta,
// com o status final observado. O registro é melhor esforço.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Sink == nil || !methods.Mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			_ = opts.Sink.Record(r.Context(), Entry{
				ID:       uuid.New(),
				At:       now(),
				Identity: identity.FromRequest(r),
				Method:   r.Method,
				Path:     r.URL.Path,
				Status:   sw.status,
			})
		})
	}
}
