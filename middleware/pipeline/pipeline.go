// Package pipeline compõe os estágios de proteção em ordem fixa.
//
// Protect encadeia, do mais externo para o mais interno: csrf, anomalia,
// auditoria, sanitização e validação. A primeira negação encerra a
// requisição; os estágios seguintes não rodam. A auditoria vem depois de
// csrf e anomalia de propósito: só requisições de origem íntegra entram
// no histórico, e as negações de sanitização e validação ainda aparecem
// com o status final.
//
// O rate limiting fica fora do Protect. Ele cobre todas as requisições,
// inclusive as de rotas sem schema, e é montado à frente de tudo pelos
// binários.
package pipeline

import (
	"net/http"

	"middleware-guard/middleware/anomaly"
	anomalyapp "middleware-guard/middleware/anomaly/application"
	"middleware-guard/middleware/audit"
	"middleware-guard/middleware/csrf"
	csrfapp "middleware-guard/middleware/csrf/application"
	"middleware-guard/middleware/sanitize"
	"middleware-guard/middleware/validate"
)

// Pipeline agrega os serviços dos estágios. Os binários montam um por
// processo e derivam handlers por rota via Protect.
type Pipeline struct {
	Tokens  csrfapp.Service
	Anomaly anomalyapp.Service
	Audit   audit.Sink
	// CSRFHeader sobrescreve o header do token (padrão x-csrf-token).
	CSRFHeader string
}

// Protect devolve o middleware completo para uma rota. O schema pode ser
// nil: a rota fica sem validação de corpo mas mantém os demais estágios.
func (p Pipeline) Protect(schema *validate.CompiledSchema) func(next http.Handler) http.Handler {
	stages := []func(http.Handler) http.Handler{
		csrf.Middleware(csrf.Options{Service: p.Tokens, Header: p.CSRFHeader}),
		anomaly.Middleware(anomaly.Options{Service: p.Anomaly}),
		audit.Middleware(audit.Options{Sink: p.Audit}),
		sanitize.Middleware(),
		validate.Middleware(validate.Options{Schema: schema}),
	}
	return func(next http.Handler) http.Handler {
		h := next
		for i := len(stages) - 1; i >= 0; i-- {
			h = stages[i](h)
		}
		return h
	}
}

// Handler é Protect aplicado direto a um handler final.
func (p Pipeline) Handler(schema *validate.CompiledSchema, h http.Handler) http.Handler {
	return p.Protect(schema)(h)
}
