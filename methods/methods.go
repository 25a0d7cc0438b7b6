// Package methods classifica métodos HTTP entre seguros (somente leitura) e
// mutantes, sem depender de net/http. As camadas de aplicação usam isto para
// decidir se um estágio se aplica à requisição.
package methods

import "strings"

// Safe indica método somente leitura: GET, HEAD ou OPTIONS.
func Safe(method string) bool {
	switch strings.ToUpper(method) {
	case "GET", "HEAD", "OPTIONS":
		return true
	}
	return false
}

// Mutating indica método que altera estado (tudo que não é Safe).
func Mutating(method string) bool { return !Safe(method) }

// Delete indica o método DELETE (alvo da detecção de rajada de exclusões).
func Delete(method string) bool { return strings.EqualFold(method, "DELETE") }
