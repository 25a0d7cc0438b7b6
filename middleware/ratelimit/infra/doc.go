// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - MemoryWindowStore / RedisWindowStore: janela deslizante por chave
//     (fatia de instantes em memória, sorted set no Redis)
//   - BucketStore: token bucket por chave usando golang.org/x/time/rate,
//     para suavização global de rajadas
//   - MemoryStatsStore / RedisStatsStore: contadores de decisões
package infra
