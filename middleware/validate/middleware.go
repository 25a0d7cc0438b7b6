package validate

import (
	"net/http"

	"middleware-guard/httperr"
	"middleware-guard/methods"
	"middleware-guard/middleware/payload"
)

// Code é o código devolvido nas respostas de validação rejeitada.
const Code = "VALIDATION_ERROR"

// Options configura o adaptador HTTP de validação.
type Options struct {
	// Schema aplicado ao corpo das requisições mutantes. Nil desativa
	// a validação e o middleware vira passagem direta.
	Schema *CompiledSchema
}

// Middleware valida o corpo JSON das requisições mutantes contra o
// schema configurado. Corpo malformado ou violações de regra produzem
// 400 com a lista de detalhes.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Schema == nil || !methods.Mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			body, r, err := payload.Decode(r)
			if err != nil {
				details := []FieldError{{
					Field:   "body",
					Message: "request body is not valid JSON",
					Code:    CodeTypeMismatch,
				}}
				httperr.Write(w, http.StatusBadRequest, Code,
					"request validation failed", httperr.Field("details", details))
				return
			}

			if errs := opts.Schema.Check(body); len(errs) > 0 {
				httperr.Write(w, http.StatusBadRequest, Code,
					"request validation failed", httperr.Field("details", errs))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
