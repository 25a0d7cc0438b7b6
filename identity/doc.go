// Package identity resolve e propaga a identidade do chamador.
//
// A autenticação acontece fora deste módulo (ex: um proxy de auth na frente
// do gateway). Aqui só consumimos o resultado: um user id opaco e um papel,
// anexados ao contexto da requisição. Sem usuário autenticado, a chave de
// particionamento vira a origem de rede (primeiro IP do X-Forwarded-For
// quando confiável, senão o host de RemoteAddr).
package identity
