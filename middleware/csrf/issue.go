package csrf

import (
	"encoding/json"
	"net/http"

	"middleware-guard/httperr"
	"middleware-guard/identity"
	"middleware-guard/middleware/csrf/application"
)

// IssueHandler emite um token novo vinculado à identidade da requisição.
//
// Pensado para ser montado logo após o login (ex: POST /csrf/token). O corpo
// da resposta traz o valor e o prazo em segundos:
//
//	{ "token": "...", "expiresIn": 3600 }
func IssueHandler(svc application.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identity.FromRequest(r)

		t, err := svc.Issue(r.Context(), id.Key())
		if err != nil {
			httperr.Write(w, http.StatusInternalServerError, "INTERNAL", "could not issue token")
			return
		}

		ttl := svc.TTL
		if ttl <= 0 {
			ttl = application.DefaultTTL
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":     t.Value,
			"expiresIn": int(ttl.Seconds()),
		})
	})
}
