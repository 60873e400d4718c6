package args

import "fmt"

// Values holds validated, normalized arguments keyed by field name.
// Getters return the zero value for absent fields.
type Values map[string]any

// Has reports whether the field was supplied or defaulted.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// String returns a string field.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns an integer field, or 0 when absent. It panics when the field
// holds a non-int, which means the schema declares a different kind.
func (v Values) Int(name string) int {
	raw, ok := v[name]
	if !ok {
		return 0
	}
	n, ok := raw.(int)
	if !ok {
		panic(fmt.Sprintf("args: field %q holds %T, not an integer", name, raw))
	}
	return n
}

// Float returns a number field, or 0 when absent. Integer fields widen.
// It panics on any other type.
func (v Values) Float(name string) float64 {
	switch n := v[name].(type) {
	case nil:
		return 0
	case float64:
		return n
	case int:
		return float64(n)
	default:
		panic(fmt.Sprintf("args: field %q holds %T, not a number", name, n))
	}
}

// Bool returns a boolean field.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Strings returns a string-list field.
func (v Values) Strings(name string) []string {
	s, _ := v[name].([]string)
	return s
}

// Object returns an object field.
func (v Values) Object(name string) map[string]any {
	m, _ := v[name].(map[string]any)
	return m
}

// List returns an untyped list field.
func (v Values) List(name string) []any {
	l, _ := v[name].([]any)
	return l
}
