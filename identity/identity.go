package identity

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Identity é a identidade do chamador já resolvida pela etapa de autenticação
// (externa a este módulo). Quando não há usuário autenticado, Origin carrega
// a chave de origem de rede (IP) usada como fallback de particionamento.
type Identity struct {
	UserID string
	Role   string
	Origin string
}

// Key retorna a chave de particionamento usada por rate limit, anomalia e
// vínculo de token: user id autenticado quando existe, senão a origem de rede.
func (id Identity) Key() string {
	if id.UserID != "" {
		return id.UserID
	}
	if id.Origin != "" {
		return id.Origin
	}
	return "unknown"
}

// Authenticated informa se há um usuário autenticado por trás da requisição.
func (id Identity) Authenticated() bool { return id.UserID != "" }

type ctxKey struct{}

// With anexa a identidade ao contexto.
func With(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext recupera a identidade anexada, se houver.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// FromRequest recupera a identidade da requisição, completando Origin a
// partir do endereço remoto quando a etapa de autenticação não preencheu.
func FromRequest(r *http.Request) Identity {
	id, _ := FromContext(r.Context())
	if id.Origin == "" {
		id.Origin = OriginKey(r, false)
	}
	return id
}

// OriginKey extrai a chave de origem de rede da requisição.
//
// Com trustXFF=true usa o primeiro IP do X-Forwarded-For (cliente original);
// senão cai para o host de RemoteAddr.
func OriginKey(r *http.Request, trustXFF bool) string {
	if trustXFF {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				ip := strings.TrimSpace(parts[0])
				if ip != "" {
					return ip
				}
			}
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// Options configura o middleware de identidade.
type Options struct {
	// UserHeader e RoleHeader são os headers preenchidos pelo auth upstream.
	UserHeader string
	RoleHeader string
	// TrustXForwardedFor habilita o uso do X-Forwarded-For para a origem.
	TrustXForwardedFor bool
}

// Middleware anexa a identidade resolvida pelo auth upstream ao contexto.
//
// A autenticação em si está fora de escopo: aqui apenas consumimos o
// resultado (headers confiáveis preenchidos por um proxy de auth na frente).
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.UserHeader == "" {
		opts.UserHeader = "X-User-Id"
	}
	if opts.RoleHeader == "" {
		opts.RoleHeader = "X-User-Role"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := Identity{
				UserID: strings.TrimSpace(r.Header.Get(opts.UserHeader)),
				Role:   strings.TrimSpace(r.Header.Get(opts.RoleHeader)),
				Origin: OriginKey(r, opts.TrustXForwardedFor),
			}
			next.ServeHTTP(w, r.WithContext(With(r.Context(), id)))
		})
	}
}
