// Package sanitize neutraliza a entrada textual das requisições antes
// do processamento da aplicação.
//
// A limpeza remove os caracteres < > ' " ; e apara os espaços das
// pontas, tanto nos parâmetros de query quanto nos valores string do
// corpo JSON, descendo em objetos aninhados. Elementos de array não
// são alterados.
package sanitize
