package compiler_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/folio/internal/compiler"
	"github.com/aidanlsb/folio/internal/schema"
	"github.com/aidanlsb/folio/internal/sdl"
)

type absent struct{}

// Both validation paths must agree on pass or fail for every field type.
// Date bounds and defaults are excluded: only the compiled validator
// enforces the former and applies the latter.
func TestValidatorsAgree(t *testing.T) {
	fields := []struct {
		name    string
		decl    string
		valid   any
		invalid any
	}{
		{"string", `{"type": "string", "minLength": 3, "maxLength": 5, "optional": %t}`, "abcd", "ab"},
		{"email", `{"type": "string", "format": "email", "optional": %t}`, "ada@example.com", "nope"},
		{"number", `{"type": "number", "integer": true, "min": 0, "max": 10, "optional": %t}`, 4, 11},
		{"positive", `{"type": "number", "positive": true, "optional": %t}`, 0.5, 0},
		{"boolean", `{"type": "boolean", "optional": %t}`, true, "yes"},
		{"date", `{"type": "date", "optional": %t}`, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), time.Time{}},
		{"array", `{"type": "array", "items": {"type": "number"}, "minItems": 1, "optional": %t}`, []any{1}, []any{}},
		{"object", `{"type": "object", "properties": {"name": {"type": "string"}}, "optional": %t}`, map[string]any{"name": "x"}, map[string]any{}},
		{"nested optional", `{"type": "object", "properties": {"nick": {"type": "string", "minLength": 2, "optional": true}}, "optional": %t}`, map[string]any{"nick": ""}, map[string]any{"nick": "x"}},
		{"enum", `{"type": "enum", "options": ["a", "b"], "optional": %t}`, "a", "c"},
		{"record", `{"type": "record", "values": {"type": "number"}, "optional": %t}`, map[string]any{"x": 1}, map[string]any{"x": "y"}},
	}
	inputs := []struct {
		name  string
		value func(valid, invalid any) any
	}{
		{"missing", func(_, _ any) any { return absent{} }},
		{"nil", func(_, _ any) any { return nil }},
		{"empty string", func(_, _ any) any { return "" }},
		{"valid", func(valid, _ any) any { return valid }},
		{"invalid", func(_, invalid any) any { return invalid }},
	}

	for _, f := range fields {
		for _, optional := range []bool{false, true} {
			s, err := sdl.Parse([]byte(fmt.Sprintf(`{"f": %s}`, fmt.Sprintf(f.decl, optional))))
			require.NoError(t, err)
			normalized := schema.FromSDL(s)
			compiled := compiler.Compile(s)

			for _, in := range inputs {
				t.Run(fmt.Sprintf("%s/optional=%t/%s", f.name, optional, in.name), func(t *testing.T) {
					values := map[string]any{}
					if v := in.value(f.valid, f.invalid); v != (absent{}) {
						values["f"] = v
					}
					messages := schema.ValidateValues(values, normalized)
					result := compiled.SafeParse(values)
					assert.Equal(t, len(messages) == 0, result.Success,
						"value engine: %v, compiled: %v", messages, result.Error)
				})
			}
		}
	}
}

func TestOptionalEmptyPassesBothPaths(t *testing.T) {
	s, err := sdl.Parse([]byte(`{
		"email": {"type": "string", "format": "email", "optional": true},
		"note": {"type": "string", "minLength": 3, "optional": true}
	}`))
	require.NoError(t, err)

	values := map[string]any{"email": "", "note": nil}
	assert.Empty(t, schema.ValidateValues(values, schema.FromSDL(s)))

	out, err := compiler.Compile(s).ParseMap(values)
	require.NoError(t, err)
	assert.Empty(t, out)
}
