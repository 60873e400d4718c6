// Package args validates loosely-typed caller arguments against a per-operation
// schema before any upstream call is made.
//
// A Schema is independent of the wire format: callers hand in a decoded
// map[string]any (from MCP, the CLI, or tests) and get back either normalized
// Values or a *ValidationError naming the offending field.
package args

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidInput is matched by every ValidationError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError describes why caller input was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) succeed.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds a ValidationError.
func Invalid(field, format string, a ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// Kind is the accepted shape of a field.
type Kind int

const (
	String Kind = iota
	Integer
	Number
	Boolean
	StringList
	Object
	AnyList
)

// JSONType returns the JSON Schema type name for the kind.
func (k Kind) JSONType() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case StringList, AnyList:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Bounds is an inclusive range. For numeric kinds it bounds the value,
// for list kinds it bounds the number of items.
type Bounds struct {
	Min float64
	Max float64
}

// Field describes one named argument.
type Field struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool
	Default     any
	Bounds      *Bounds
	Enum        []string

	// Normalize rewrites string values (and list items) before Pattern is checked.
	Normalize func(string) string
	// Pattern must match the normalized string value (and every list item).
	Pattern *regexp.Regexp
	// PatternHint is reported instead of the raw regexp when Pattern fails.
	PatternHint string

	// ItemName, on a StringList field, leaves Normalize, Pattern and Enum to
	// CheckItem so one bad item fails alone. Validate then checks only the
	// list shape and Bounds. Item errors name ItemName.
	ItemName string
}

// Schema is the full argument contract of one operation.
type Schema struct {
	Fields []Field
	// Check runs after every field passed, for rules spanning several fields.
	Check func(Values) error
}

// Validate checks raw against the schema and returns normalized values.
// Unknown keys are ignored. A nil value counts as absent.
func (s Schema) Validate(raw map[string]any) (Values, error) {
	vals := make(Values, len(s.Fields))
	for _, f := range s.Fields {
		v, present := raw[f.Name]
		if !present || v == nil {
			if f.Required {
				return nil, Invalid(f.Name, "is required")
			}
			if f.Default != nil {
				vals[f.Name] = f.Default
			}
			continue
		}

		converted, err := f.convert(v)
		if err != nil {
			return nil, err
		}
		if converted == nil {
			// Blank optional string.
			if f.Default != nil {
				vals[f.Name] = f.Default
			}
			continue
		}
		vals[f.Name] = converted
	}

	if s.Check != nil {
		if err := s.Check(vals); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

// Field returns the named field definition.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (f Field) convert(v any) (any, error) {
	switch f.Kind {
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, Invalid(f.Name, "must be a string")
		}
		s, err := f.checkString(s)
		if err != nil {
			return nil, err
		}
		if s == "" {
			if f.Required {
				return nil, Invalid(f.Name, "must not be empty")
			}
			return nil, nil
		}
		return s, nil

	case Integer:
		n, err := toFloat(v)
		if err != nil {
			return nil, Invalid(f.Name, "must be an integer")
		}
		if n != math.Trunc(n) {
			return nil, Invalid(f.Name, "must be an integer, got %v", n)
		}
		if err := f.checkRange(n); err != nil {
			return nil, err
		}
		return int(n), nil

	case Number:
		n, err := toFloat(v)
		if err != nil {
			return nil, Invalid(f.Name, "must be a number")
		}
		if err := f.checkRange(n); err != nil {
			return nil, err
		}
		return n, nil

	case Boolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				return nil, Invalid(f.Name, "must be a boolean")
			}
			return parsed, nil
		default:
			return nil, Invalid(f.Name, "must be a boolean")
		}

	case StringList:
		items, err := toStringList(v)
		if err != nil {
			return nil, Invalid(f.Name, "must be a list of strings")
		}
		if f.ItemName != "" {
			if err := f.checkCount(len(items)); err != nil {
				return nil, err
			}
			return items, nil
		}
		out := make([]string, 0, len(items))
		for i, item := range items {
			s, err := f.checkString(item)
			if err != nil {
				var ve *ValidationError
				if errors.As(err, &ve) {
					ve.Field = fmt.Sprintf("%s[%d]", f.Name, i)
				}
				return nil, err
			}
			if s == "" {
				return nil, Invalid(fmt.Sprintf("%s[%d]", f.Name, i), "must not be empty")
			}
			out = append(out, s)
		}
		if err := f.checkCount(len(out)); err != nil {
			return nil, err
		}
		return out, nil

	case Object:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, Invalid(f.Name, "must be an object")
		}
		return m, nil

	case AnyList:
		list, ok := v.([]any)
		if !ok {
			return nil, Invalid(f.Name, "must be a list")
		}
		if err := f.checkCount(len(list)); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, Invalid(f.Name, "has unsupported kind %d", f.Kind)
}

// CheckItem normalizes and checks one item of a list field declared with
// ItemName, the way a required String field is checked.
func (f Field) CheckItem(s string) (string, error) {
	item := f
	if f.ItemName != "" {
		item.Name = f.ItemName
	}
	s, err := item.checkString(s)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", Invalid(item.Name, "must not be empty")
	}
	return s, nil
}

func (f Field) checkString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if f.Normalize != nil {
		s = f.Normalize(s)
	}
	if s == "" {
		return "", nil
	}
	if f.Pattern != nil && !f.Pattern.MatchString(s) {
		hint := f.PatternHint
		if hint == "" {
			hint = "match " + f.Pattern.String()
		}
		return "", Invalid(f.Name, "must %s, got %q", hint, s)
	}
	if len(f.Enum) > 0 && !contains(f.Enum, s) {
		return "", Invalid(f.Name, "must be one of %s, got %q", strings.Join(f.Enum, ", "), s)
	}
	return s, nil
}

func (f Field) checkRange(n float64) error {
	if f.Bounds == nil {
		return nil
	}
	if n < f.Bounds.Min || n > f.Bounds.Max {
		return Invalid(f.Name, "must be between %s and %s, got %s",
			formatNum(f.Bounds.Min), formatNum(f.Bounds.Max), formatNum(n))
	}
	return nil
}

func (f Field) checkCount(n int) error {
	if f.Bounds == nil {
		return nil
	}
	if float64(n) < f.Bounds.Min || float64(n) > f.Bounds.Max {
		return Invalid(f.Name, "must have between %s and %s items, got %d",
			formatNum(f.Bounds.Min), formatNum(f.Bounds.Max), n)
	}
	return nil
}

// toFloat accepts JSON numbers, Go numeric types, and numeric strings.
func toFloat(v any) (float64, error) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case int32:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, err
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, err
		}
		n = f
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return n, nil
}

// toStringList accepts []any of strings, []string, or a comma-separated string.
func toStringList(v any) ([]string, error) {
	switch x := v.(type) {
	case []string:
		return x, nil
	case []any:
		out := make([]string, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is %T", i, item)
			}
			out[i] = s
		}
		return out, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, nil
		}
		return strings.Split(x, ","), nil
	default:
		return nil, fmt.Errorf("not a list: %T", v)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func formatNum(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
