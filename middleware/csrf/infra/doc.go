// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - MemoryStore: mapa protegido por mutex, com varredura e janitor
//   - RedisStore: entradas com TTL nativo, para múltiplas instâncias
package infra
