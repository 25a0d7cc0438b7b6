// Package audit registra um histórico das requisições mutantes.
//
// Cada entrada carrega a identidade resolvida, o método, o caminho e o
// status final da resposta. Negações dos estágios seguintes também são
// auditadas, já que o registro acontece depois da resposta. A gravação
// é melhor esforço e nunca interfere no fluxo da requisição.
package audit
