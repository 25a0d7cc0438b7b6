package validate

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Load decodifica um conjunto de schemas em YAML, chaveado por rota,
// e compila cada um. Falha no primeiro schema inválido.
func Load(data []byte) (map[string]*CompiledSchema, error) {
	var raw map[string]Schema
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding schemas: %w", err)
	}

	routes := make([]string, 0, len(raw))
	for route := range raw {
		routes = append(routes, route)
	}
	sort.Strings(routes)

	out := make(map[string]*CompiledSchema, len(raw))
	for _, route := range routes {
		cs, err := Compile(raw[route])
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", route, err)
		}
		out[route] = cs
	}
	return out, nil
}

// LoadFile lê e compila os schemas de um arquivo YAML.
func LoadFile(path string) (map[string]*CompiledSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schemas file: %w", err)
	}
	return Load(data)
}
