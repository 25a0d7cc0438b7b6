package validate

import (
	"fmt"
	"unicode/utf8"
)

// Códigos de erro de campo emitidos no detalhe da resposta 400.
const (
	CodeRequired     = "REQUIRED"
	CodeTypeMismatch = "TYPE_MISMATCH"
	CodeMinLength    = "MIN_LENGTH"
	CodeMaxLength    = "MAX_LENGTH"
	CodeMinValue     = "MIN_VALUE"
	CodeMaxValue     = "MAX_VALUE"
	CodePattern      = "PATTERN"
	CodeEnum         = "ENUM"
)

// FieldError é uma violação individual de regra, serializada no corpo 400.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Check aplica o schema ao corpo já decodificado e acumula as violações.
// Campos ausentes ou com valor null contam como ausentes. Para cada campo,
// required e tipo curto-circuitam; as demais regras acumulam de forma
// independente.
func (cs *CompiledSchema) Check(body map[string]any) []FieldError {
	var errs []FieldError

	for _, name := range cs.order {
		r := cs.fields[name]

		v, present := body[name]
		if v == nil {
			present = false
		}
		if !present {
			if r.Required {
				errs = append(errs, FieldError{
					Field:   name,
					Message: "field is required",
					Code:    CodeRequired,
				})
			}
			continue
		}

		if r.Type != "" && !matchesType(v, r.Type) {
			errs = append(errs, FieldError{
				Field:   name,
				Message: fmt.Sprintf("expected %s", r.Type),
				Code:    CodeTypeMismatch,
			})
			continue
		}

		errs = append(errs, r.checkBounds(name, v)...)
	}
	return errs
}

func (r compiledRule) checkBounds(name string, v any) []FieldError {
	var errs []FieldError

	if n, ok := length(v); ok {
		if r.MinLength != nil && n < *r.MinLength {
			errs = append(errs, FieldError{
				Field:   name,
				Message: fmt.Sprintf("length must be at least %d", *r.MinLength),
				Code:    CodeMinLength,
			})
		}
		if r.MaxLength != nil && n > *r.MaxLength {
			errs = append(errs, FieldError{
				Field:   name,
				Message: fmt.Sprintf("length must be at most %d", *r.MaxLength),
				Code:    CodeMaxLength,
			})
		}
	}

	if f, ok := numberOf(v); ok {
		if r.Min != nil && f < *r.Min {
			errs = append(errs, FieldError{
				Field:   name,
				Message: fmt.Sprintf("value must be at least %v", *r.Min),
				Code:    CodeMinValue,
			})
		}
		if r.Max != nil && f > *r.Max {
			errs = append(errs, FieldError{
				Field:   name,
				Message: fmt.Sprintf("value must be at most %v", *r.Max),
				Code:    CodeMaxValue,
			})
		}
	}

	if r.pattern != nil {
		if s, ok := v.(string); ok && !r.pattern.MatchString(s) {
			errs = append(errs, FieldError{
				Field:   name,
				Message: fmt.Sprintf("value does not match pattern %s", r.Pattern),
				Code:    CodePattern,
			})
		}
	}

	if len(r.Enum) > 0 && !inEnum(v, r.Enum) {
		errs = append(errs, FieldError{
			Field:   name,
			Message: "value is not one of the allowed options",
			Code:    CodeEnum,
		})
	}
	return errs
}

func matchesType(v any, t FieldType) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeNumber:
		_, ok := v.(float64)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeArray:
		_, ok := v.([]any)
		return ok
	}
	return true
}

// length conta runas para strings e elementos para arrays.
func length(v any) (int, bool) {
	switch x := v.(type) {
	case string:
		return utf8.RuneCountInString(x), true
	case []any:
		return len(x), true
	}
	return 0, false
}

func numberOf(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// inEnum compara com tolerância entre tipos numéricos: o YAML decodifica
// inteiros como int, o JSON do pedido como float64.
func inEnum(v any, enum []any) bool {
	for _, e := range enum {
		if looseEqual(v, e) {
			return true
		}
	}
	return false
}

func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	return oka && okb && fa == fb
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
