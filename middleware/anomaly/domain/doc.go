// Package domain define contratos e tipos de domínio para a detecção de
// anomalias de mutação.
//
// Este pacote não depende de net/http nem de implementações concretas.
package domain
