// Package ratelimit fornece os adapters HTTP (net/http) do rate limit de
// janela deslizante por identidade.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: caso de uso (decisão allow/deny por janela) sem net/http
//   - infra: implementações concretas (janela em memória ou Redis, token
//     bucket de suavização, contadores de decisão)
//   - ratelimit (este pacote): middlewares HTTP + extração de chave +
//     tradução da Decision para status/headers/corpo JSON
//
// Fluxo no gateway:
//
//  1. Extrai a chave do chamador (user id autenticado ou IP)
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, responde 429 com Retry-After e o código da janela
//     (RATE_LIMIT_EXCEEDED ou RATE_LIMIT_HOUR_EXCEEDED) no corpo
//  4. Se permitido, chama o próximo handler (ex: reverse proxy)
//
// Este estágio é independente das rotas protegidas: vale para todas as
// requisições, de leitura ou mutantes. Variáveis de ambiente do binário
// gateway (cmd/gateway) controlam limites e backends.
package ratelimit
