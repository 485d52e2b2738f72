package schema

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/aidanlsb/folio/internal/sdl"
)

func TestValidationError(t *testing.T) {
	err := ValidationError{Field: "name", Message: "Must be a string"}
	expected := "Field 'name': Must be a string"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestValidateValues(t *testing.T) {
	t.Run("bounds violations", func(t *testing.T) {
		s := Schema{
			&StringField{Base: Base{Name: "title"}, MinLength: intPtr(5)},
			&NumberField{Base: Base{Name: "count"}, Min: floatPtr(0), Max: floatPtr(100)},
		}
		errs := ValidateValues(map[string]any{"title": "Test", "count": 150}, s)
		if len(errs) != 2 {
			t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
		}
		if !strings.Contains(errs["title"], "Must be at least") {
			t.Errorf("title error = %q", errs["title"])
		}
		if !strings.Contains(errs["count"], "Must be at most") {
			t.Errorf("count error = %q", errs["count"])
		}
	})

	t.Run("missing required field reports type mismatch", func(t *testing.T) {
		s := Schema{
			&StringField{Base: Base{Name: "title"}},
			&StringField{Base: Base{Name: "subtitle", IsOptional: true}},
		}
		errs := ValidateValues(map[string]any{"subtitle": "x"}, s)
		if len(errs) != 1 || errs["title"] != "Must be a string" {
			t.Fatalf("expected only title error, got %v", errs)
		}
	})

	t.Run("optional empty values are skipped", func(t *testing.T) {
		s := Schema{
			&NumberField{Base: Base{Name: "a", IsOptional: true}},
			&NumberField{Base: Base{Name: "b", IsOptional: true}},
			&NumberField{Base: Base{Name: "c", IsOptional: true}},
		}
		errs := ValidateValues(map[string]any{"a": nil, "b": ""}, s)
		if len(errs) != 0 {
			t.Fatalf("expected no errors, got %v", errs)
		}
	})

	t.Run("optional present value is checked", func(t *testing.T) {
		s := Schema{&NumberField{Base: Base{Name: "a", IsOptional: true}}}
		errs := ValidateValues(map[string]any{"a": "x"}, s)
		if errs["a"] != "Must be a number" {
			t.Fatalf("expected number error, got %v", errs)
		}
	})

	t.Run("required empty string is still validated", func(t *testing.T) {
		s := Schema{&EnumField{Base: Base{Name: "status"}, Options: []string{"a", "b"}}}
		errs := ValidateValues(map[string]any{"status": ""}, s)
		if errs["status"] != "Must be one of: a, b" {
			t.Fatalf("got %v", errs)
		}
	})

	t.Run("unknown values are ignored", func(t *testing.T) {
		errs := ValidateValues(map[string]any{"extra": 1}, Schema{})
		if len(errs) != 0 {
			t.Fatalf("expected no errors, got %v", errs)
		}
	})
}

func TestValidateField(t *testing.T) {
	when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	strs := &ArrayField{
		Base:     Base{Name: "tags"},
		MinItems: intPtr(1),
		MaxItems: intPtr(2),
		ItemType: &StringField{Base: Base{Name: "tagsItem"}, MinLength: intPtr(2)},
	}
	address := &ObjectField{Base: Base{Name: "address"}, Properties: []Field{
		&StringField{Base: Base{Name: "street"}},
		&StringField{Base: Base{Name: "zip", IsOptional: true}, MinLength: intPtr(5)},
	}}
	scores := &RecordField{Base: Base{Name: "scores"}, ValueType: &NumberField{Base: Base{Name: "scoresValue"}, Max: floatPtr(10)}}

	tests := []struct {
		name  string
		field Field
		value any
		want  string
	}{
		{"string ok", &StringField{}, "hi", ""},
		{"string type", &StringField{}, 3, "Must be a string"},
		{"string counts runes", &StringField{MaxLength: intPtr(2)}, "éé", ""},
		{"string too long", &StringField{MaxLength: intPtr(2)}, "abc", "Must be at most 2 characters"},
		{"min before max", &StringField{MinLength: intPtr(5), Format: FormatEmail}, "ab", "Must be at least 5 characters"},
		{"email weak check ok", &StringField{Format: FormatEmail}, "a@b", ""},
		{"email missing at", &StringField{Format: FormatEmail}, "ab.com", "Must be a valid email address"},
		{"url format not checked", &StringField{Format: FormatURL}, "not a url", ""},

		{"number ok", &NumberField{}, 3.5, ""},
		{"number int kind", &NumberField{IsInteger: true}, 4, ""},
		{"number type", &NumberField{}, "3", "Must be a number"},
		{"number nil", &NumberField{}, nil, "Must be a number"},
		{"integer", &NumberField{IsInteger: true}, 1.5, "Must be an integer"},
		{"infinity not integer", &NumberField{IsInteger: true}, math.Inf(-1), "Must be an integer"},
		{"zero not positive", &NumberField{IsPositive: true}, 0, "Must be positive"},
		{"integer before positive", &NumberField{IsInteger: true, IsPositive: true}, -1.5, "Must be an integer"},
		{"number min", &NumberField{Min: floatPtr(2.5)}, 1, "Must be at least 2.5"},
		{"number max", &NumberField{Max: floatPtr(100)}, 150, "Must be at most 100"},

		{"boolean ok", &BooleanField{}, false, ""},
		{"boolean type", &BooleanField{}, "true", "Must be a boolean"},

		{"date ok", &DateField{}, when, ""},
		{"date pointer ok", &DateField{}, &when, ""},
		{"date string", &DateField{}, "2024-05-01", "Must be a valid date"},
		{"date zero", &DateField{}, time.Time{}, "Must be a valid date"},
		{"date bounds ignored", &DateField{Min: timePtr(when.AddDate(1, 0, 0))}, when, ""},

		{"array ok", strs, []any{"ab", "cd"}, ""},
		{"array typed slice", strs, []string{"ab"}, ""},
		{"array type", strs, "ab", "Must be an array"},
		{"array too few", strs, []any{}, "Must have at least 1 items"},
		{"array too many", strs, []any{"ab", "cd", "ef"}, "Must have at most 2 items"},
		{"array first bad item", strs, []any{"ab", "c"}, "Item 2: Must be at least 2 characters"},

		{"object ok", address, map[string]any{"street": "Main"}, ""},
		{"object optional empty", address, map[string]any{"street": "Main", "zip": ""}, ""},
		{"object type", address, []any{}, "Must be an object"},
		{"object nil", address, nil, "Must be an object"},
		{"object missing prop", address, map[string]any{}, "street: Must be a string"},
		{"object bad optional", address, map[string]any{"street": "Main", "zip": "12"}, "zip: Must be at least 5 characters"},

		{"enum ok", &EnumField{Options: []string{"a", "b"}}, "b", ""},
		{"enum miss", &EnumField{Options: []string{"a", "b"}}, "c", "Must be one of: a, b"},
		{"enum type", &EnumField{Options: []string{"a"}}, 1, "Must be one of: a"},
		{"enum empty never valid", &EnumField{Options: []string{}}, "", "Must be one of: "},

		{"record ok", scores, map[string]any{"x": 1, "y": 2}, ""},
		{"record typed map", scores, map[string]int{"x": 1}, ""},
		{"record type", scores, "x", "Must be an object"},
		{"record bad value", scores, map[string]any{"b": 1, "a": 11}, "a: Must be at most 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateField(tt.value, tt.field); got != tt.want {
				t.Errorf("ValidateField(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestNestedMessages(t *testing.T) {
	f := &ArrayField{Base: Base{Name: "people"}, ItemType: &ObjectField{
		Base: Base{Name: "peopleItem"},
		Properties: []Field{
			&RecordField{Base: Base{Name: "links"}, ValueType: &StringField{Base: Base{Name: "linksValue"}}},
		},
	}}
	value := []any{
		map[string]any{"links": map[string]any{}},
		map[string]any{"links": map[string]any{"home": 5}},
	}
	want := "Item 2: links: home: Must be a string"
	if got := ValidateField(value, f); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDefaultsAreSelfValid(t *testing.T) {
	s, err := sdl.Parse([]byte(`{
		"title": {"type": "string"},
		"email": {"type": "string", "format": "email", "optional": true},
		"count": {"type": "number", "integer": true, "min": 0},
		"done": {"type": "boolean"},
		"due": {"type": "date", "min": "2020-01-01"},
		"tags": {"type": "array", "items": {"type": "string"}},
		"status": {"type": "enum", "options": ["draft", "final"]},
		"links": {"type": "record", "values": {"type": "string"}},
		"author": {"type": "object", "properties": {
			"name": {"type": "string"},
			"role": {"type": "enum", "options": ["editor"]}
		}}
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	internal := FromSDL(s)
	values := InitialValues(internal, FixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	if errs := ValidateValues(values, internal); len(errs) != 0 {
		t.Fatalf("expected defaults to validate, got %v", errs)
	}
}

// A required positive number without a declared default starts at 0, which
// its own validation rejects.
func TestPositiveNumberZeroDefault(t *testing.T) {
	s := Schema{&NumberField{Base: Base{Name: "qty"}, IsPositive: true}}
	errs := ValidateValues(GenerateInitialValues(s), s)
	if errs["qty"] != "Must be positive" {
		t.Fatalf("expected zero default to fail positive check, got %v", errs)
	}
}

func TestErrorsSorted(t *testing.T) {
	got := Errors(map[string]string{"b": "x", "a": "y"})
	if len(got) != 2 || got[0].Field != "a" || got[1].Field != "b" {
		t.Fatalf("unexpected order: %v", got)
	}
}
