// Package application contém o caso de uso de observação de mutações e
// disparo da heurística de rajada de exclusões.
//
// Ele depende apenas do pacote domain e não conhece net/http.
package application
