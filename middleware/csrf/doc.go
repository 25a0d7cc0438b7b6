// Package csrf fornece o adapter HTTP (net/http) da proteção anti-forgery.
//
// Visão geral (camadas):
//
//   - domain: Token, Verdict e o contrato Store (sem dependência de net/http)
//   - application: emissão e validação (Issue/Validate), sem net/http
//   - infra: stores concretas (mapa em memória com janitor, Redis com TTL)
//   - csrf (este pacote): middleware HTTP + handler de emissão + tradução
//     de Verdict para status/código (403 CSRF_MISSING/INVALID/EXPIRED/MISMATCH)
//
// O token é multi-uso até expirar; reemitir para o mesmo dono não invalida
// os anteriores. O cliente ecoa o valor no header x-csrf-token em toda
// requisição mutante.
package csrf
