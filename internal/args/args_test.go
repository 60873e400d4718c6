package args

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

var testSchema = Schema{
	Fields: []Field{
		{Name: "query", Kind: String, Required: true},
		{Name: "limit", Kind: Integer, Default: 20, Bounds: &Bounds{Min: 1, Max: 100}},
		{Name: "threshold", Kind: Number, Bounds: &Bounds{Min: 40, Max: 100}},
		{Name: "exact", Kind: Boolean},
		{Name: "order", Kind: String, Enum: []string{"asc", "desc"}},
		{
			Name:        "ids",
			Kind:        StringList,
			Bounds:      &Bounds{Min: 1, Max: 3},
			Normalize:   strings.ToUpper,
			Pattern:     regexp.MustCompile(`^CHEMBL\d+$`),
			PatternHint: "be a ChEMBL ID",
		},
	},
}

func TestValidate_Valid(t *testing.T) {
	vals, err := testSchema.Validate(map[string]any{
		"query":     "  aspirin ",
		"limit":     float64(5),
		"threshold": "70",
		"exact":     true,
		"order":     "desc",
		"ids":       []any{"chembl25", "CHEMBL1"},
		"unknown":   "ignored",
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if vals.String("query") != "aspirin" {
		t.Errorf("query = %q, want trimmed", vals.String("query"))
	}
	if vals.Int("limit") != 5 {
		t.Errorf("limit = %d, want 5", vals.Int("limit"))
	}
	if vals.Float("threshold") != 70 {
		t.Errorf("threshold = %v, want 70", vals.Float("threshold"))
	}
	if !vals.Bool("exact") {
		t.Error("exact = false, want true")
	}
	ids := vals.Strings("ids")
	if len(ids) != 2 || ids[0] != "CHEMBL25" || ids[1] != "CHEMBL1" {
		t.Errorf("ids = %v, want normalized upper case", ids)
	}
	if vals.Has("unknown") {
		t.Error("unknown keys should not be copied")
	}
}

func TestValidate_Defaults(t *testing.T) {
	vals, err := testSchema.Validate(map[string]any{"query": "x", "limit": nil})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if vals.Int("limit") != 20 {
		t.Errorf("limit = %d, want default 20", vals.Int("limit"))
	}
	if vals.Has("threshold") {
		t.Error("threshold should be absent")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		wantField string
	}{
		{name: "missing required", raw: map[string]any{}, wantField: "query"},
		{name: "blank required", raw: map[string]any{"query": "   "}, wantField: "query"},
		{name: "wrong type", raw: map[string]any{"query": 12}, wantField: "query"},
		{name: "fractional integer", raw: map[string]any{"query": "x", "limit": 2.5}, wantField: "limit"},
		{name: "integer out of range", raw: map[string]any{"query": "x", "limit": 1000}, wantField: "limit"},
		{name: "number not numeric", raw: map[string]any{"query": "x", "threshold": "high"}, wantField: "threshold"},
		{name: "number below range", raw: map[string]any{"query": "x", "threshold": 10}, wantField: "threshold"},
		{name: "bad boolean", raw: map[string]any{"query": "x", "exact": "maybe"}, wantField: "exact"},
		{name: "enum mismatch", raw: map[string]any{"query": "x", "order": "sideways"}, wantField: "order"},
		{name: "list item pattern", raw: map[string]any{"query": "x", "ids": []any{"CHEMBL1", "aspirin"}}, wantField: "ids[1]"},
		{name: "list item type", raw: map[string]any{"query": "x", "ids": []any{"CHEMBL1", 3}}, wantField: "ids"},
		{name: "list too long", raw: map[string]any{"query": "x", "ids": "CHEMBL1,CHEMBL2,CHEMBL3,CHEMBL4"}, wantField: "ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testSchema.Validate(tt.raw)
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("errors.Is(err, ErrInvalidInput) = false for %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error %v is not a *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q (%v)", ve.Field, tt.wantField, err)
			}
		})
	}
}

func TestValidate_Check(t *testing.T) {
	s := Schema{
		Fields: []Field{
			{Name: "molecule", Kind: String},
			{Name: "target", Kind: String},
		},
		Check: func(v Values) error {
			if !v.Has("molecule") && !v.Has("target") {
				return Invalid("", "one of molecule or target is required")
			}
			return nil
		},
	}

	if _, err := s.Validate(map[string]any{"target": "CHEMBL203"}); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	_, err := s.Validate(map[string]any{"molecule": ""})
	if err == nil {
		t.Fatal("Validate() expected error for blank optional fields")
	}
	if !strings.Contains(err.Error(), "one of molecule or target") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestValidate_ItemName(t *testing.T) {
	f := Field{
		Name:        "ids",
		Kind:        StringList,
		Bounds:      &Bounds{Min: 1, Max: 3},
		Normalize:   strings.ToUpper,
		Pattern:     regexp.MustCompile(`^CHEMBL\d+$`),
		PatternHint: "be a ChEMBL ID",
		ItemName:    "id",
	}
	s := Schema{Fields: []Field{f}}

	vals, err := s.Validate(map[string]any{"ids": []any{"chembl1", "aspirin", ""}})
	if err != nil {
		t.Fatalf("Validate() error = %v, want items left to CheckItem", err)
	}
	if got := vals.Strings("ids"); len(got) != 3 || got[1] != "aspirin" {
		t.Errorf("ids = %q, want raw items", got)
	}
	if _, err := s.Validate(map[string]any{"ids": []any{}}); err == nil {
		t.Error("Validate() should still enforce list bounds")
	}

	tests := []struct {
		item    string
		want    string
		wantErr bool
	}{
		{item: " chembl1 ", want: "CHEMBL1"},
		{item: "aspirin", wantErr: true},
		{item: "  ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := f.CheckItem(tt.item)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckItem(%q) error = %v, wantErr %v", tt.item, err, tt.wantErr)
			continue
		}
		var ve *ValidationError
		if err != nil && (!errors.As(err, &ve) || ve.Field != "id") {
			t.Errorf("CheckItem(%q) error = %v, want field id", tt.item, err)
		}
		if got != tt.want {
			t.Errorf("CheckItem(%q) = %q, want %q", tt.item, got, tt.want)
		}
	}
}

func TestValues_KindMismatchPanics(t *testing.T) {
	tests := []struct {
		name string
		read func(Values)
	}{
		{name: "number read as int", read: func(v Values) { v.Int("threshold") }},
		{name: "string read as int", read: func(v Values) { v.Int("query") }},
		{name: "string read as float", read: func(v Values) { v.Float("query") }},
	}
	vals := Values{"threshold": 70.5, "query": "aspirin", "limit": 5}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.read(vals)
		})
	}
	if vals.Int("missing") != 0 || vals.Float("missing") != 0 || vals.Float("limit") != 5 {
		t.Error("absent fields should read as zero and ints should widen")
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		want string
	}{
		{err: Invalid("doi", "is required"), want: "invalid input: doi is required"},
		{err: Invalid("", "nothing to do"), want: "invalid input: nothing to do"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestKind_JSONType(t *testing.T) {
	tests := map[Kind]string{
		String:     "string",
		Integer:    "integer",
		Number:     "number",
		Boolean:    "boolean",
		StringList: "array",
		AnyList:    "array",
		Object:     "object",
	}
	for k, want := range tests {
		if got := k.JSONType(); got != want {
			t.Errorf("Kind(%d).JSONType() = %q, want %q", k, got, want)
		}
	}
}
