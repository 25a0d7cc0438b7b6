// Package application contém o caso de uso de decisão do rate limit de
// janela deslizante.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Decide(ctx, key) retorna uma Decision (allow/deny + código +
// retry-after).
package application
