// Package validate aplica schemas declarativos ao corpo JSON das
// requisições mutantes.
//
// Um Schema descreve regras por campo (obrigatoriedade, tipo, limites de
// tamanho e de valor, padrão e enumeração) e é compilado uma única vez na
// inicialização. Os schemas podem ser declarados em código ou carregados
// de um arquivo YAML chaveado por rota.
//
// O adaptador HTTP devolve 400 com a lista completa de violações, para
// que o cliente corrija tudo em uma única rodada.
package validate
