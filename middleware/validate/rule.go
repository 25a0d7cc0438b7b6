package validate

import (
	"fmt"
	"regexp"
	"sort"
)

// FieldType enumera os tipos aceitos nas regras de schema.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
)

// Rule descreve as restrições de um único campo do corpo JSON.
type Rule struct {
	Required  bool      `yaml:"required"`
	Type      FieldType `yaml:"type"`
	MinLength *int      `yaml:"minLength"`
	MaxLength *int      `yaml:"maxLength"`
	Min       *float64  `yaml:"min"`
	Max       *float64  `yaml:"max"`
	Pattern   string    `yaml:"pattern"`
	Enum      []any     `yaml:"enum"`
}

// Schema mapeia nome de campo para a sua regra.
type Schema map[string]Rule

type compiledRule struct {
	Rule
	pattern *regexp.Regexp
}

// CompiledSchema é um Schema já verificado e com os padrões compilados.
type CompiledSchema struct {
	fields map[string]compiledRule
	order  []string
}

// Compile verifica a consistência do schema e pré-compila os padrões.
// Falha na primeira regra inválida encontrada.
func Compile(s Schema) (*CompiledSchema, error) {
	cs := &CompiledSchema{fields: make(map[string]compiledRule, len(s))}
	for name := range s {
		cs.order = append(cs.order, name)
	}
	sort.Strings(cs.order)

	for _, name := range cs.order {
		r := s[name]
		cr := compiledRule{Rule: r}

		switch r.Type {
		case "", TypeString, TypeNumber, TypeBoolean, TypeArray:
		default:
			return nil, fmt.Errorf("field %q: unknown type %q", name, r.Type)
		}
		if r.MinLength != nil && *r.MinLength < 0 {
			return nil, fmt.Errorf("field %q: minLength must not be negative", name)
		}
		if r.MaxLength != nil && *r.MaxLength < 0 {
			return nil, fmt.Errorf("field %q: maxLength must not be negative", name)
		}
		if r.MinLength != nil && r.MaxLength != nil && *r.MinLength > *r.MaxLength {
			return nil, fmt.Errorf("field %q: minLength greater than maxLength", name)
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return nil, fmt.Errorf("field %q: min greater than max", name)
		}
		if r.Pattern != "" {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("field %q: invalid pattern: %w", name, err)
			}
			cr.pattern = re
		}
		cs.fields[name] = cr
	}
	return cs, nil
}

// MustCompile é Compile com panic em erro. Útil em inicialização estática.
func MustCompile(s Schema) *CompiledSchema {
	cs, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return cs
}

// Fields devolve os nomes dos campos do schema em ordem estável.
func (cs *CompiledSchema) Fields() []string {
	out := make([]string, len(cs.order))
	copy(out, cs.order)
	return out
}
