package sanitize

import "strings"

// replacer remove os caracteres usados nos vetores mais comuns de
// injeção em HTML e SQL.
var replacer = strings.NewReplacer(
	"<", "",
	">", "",
	"'", "",
	`"`, "",
	";", "",
)

// String remove os caracteres proibidos e apara os espaços das pontas.
func String(s string) string {
	return strings.TrimSpace(replacer.Replace(s))
}

// Value sanitiza strings e desce em objetos aninhados. Arrays não são
// percorridos: os elementos seguem como chegaram.
func Value(v any) any {
	switch x := v.(type) {
	case string:
		return String(x)
	case map[string]any:
		Map(x)
		return x
	}
	return v
}

// Map sanitiza os valores do objeto no lugar.
func Map(m map[string]any) {
	for k, v := range m {
		m[k] = Value(v)
	}
}
