// Package application contém os casos de uso de emissão e validação de
// tokens anti-forgery.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Validate(valor, dono, método) retorna um Verdict.
package application
