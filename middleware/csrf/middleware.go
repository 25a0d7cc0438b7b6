package csrf

import (
	"net/http"

	"middleware-guard/httperr"
	"middleware-guard/identity"
	"middleware-guard/middleware/csrf/application"
	"middleware-guard/middleware/csrf/domain"
)

// HeaderName é o header onde o cliente ecoa o token.
const HeaderName = "x-csrf-token"

// Códigos expostos no corpo dos 403 (contrato HTTP).
const (
	CodeMissing  = "CSRF_MISSING"
	CodeInvalid  = "CSRF_INVALID"
	CodeExpired  = "CSRF_EXPIRED"
	CodeMismatch = "CSRF_MISMATCH"
)

type Options struct {
	Service application.Service
	// Header sobrescreve o nome do header do token (padrão x-csrf-token).
	Header string
}

// Middleware valida o token anti-forgery de requisições mutantes.
// Métodos seguros passam direto.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.Header == "" {
		opts.Header = HeaderName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := identity.FromRequest(r)

			verdict, err := opts.Service.Validate(r.Context(), r.Header.Get(opts.Header), id.Key(), r.Method)
			if err != nil {
				httperr.Write(w, http.StatusInternalServerError, "INTERNAL", "token store unavailable")
				return
			}
			if verdict != domain.OK {
				code, msg := describe(verdict)
				httperr.Write(w, http.StatusForbidden, code, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func describe(v domain.Verdict) (code, message string) {
	switch v {
	case domain.Missing:
		return CodeMissing, "csrf token required"
	case domain.Invalid:
		return CodeInvalid, "invalid csrf token"
	case domain.Expired:
		return CodeExpired, "csrf token expired"
	case domain.Mismatch:
		return CodeMismatch, "csrf token does not belong to caller"
	}
	return "INTERNAL", "unexpected csrf verdict"
}
