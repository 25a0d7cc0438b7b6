// Package infra contém a implementação em memória do histórico de mutações:
// fatias ordenadas por chave, protegidas por mutex, com janitor de chaves
// inativas.
package infra
