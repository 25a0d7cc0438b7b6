// Package anomaly fornece o adapter HTTP (net/http) da detecção de rajadas
// de mutação.
//
// Visão geral (camadas):
//
//   - domain: ChangeEvent e o contrato HistoryStore (sem net/http)
//   - application: observação + heurística de rajada de exclusões
//   - infra: histórico em memória com janitor
//   - anomaly (este pacote): middleware HTTP (429 ANOMALY_DETECTED)
//
// A heurística atual é uma só: mais de 10 DELETEs da mesma identidade em 60
// segundos. O evento que dispara a rejeição também fica no histórico.
package anomaly
