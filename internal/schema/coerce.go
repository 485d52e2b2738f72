package schema

import (
	"github.com/aidanlsb/folio/internal/dates"
)

// Coerce converts raw front-matter values into the shapes ValidateValues
// expects. YAML leaves dates as strings, so date fields (at any depth) are
// parsed into time.Time. Values that cannot be converted are kept as they
// are so validation reports them. The input map is not modified.
func Coerce(values map[string]any, s Schema) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, f := range s {
		name := f.Common().Name
		if v, ok := values[name]; ok {
			out[name] = CoerceValue(v, f)
		}
	}
	return out
}

// CoerceValue converts a single raw value for f.
func CoerceValue(value any, f Field) any {
	switch f := f.(type) {
	case *DateField:
		if s, ok := value.(string); ok && s != "" {
			if t, err := dates.Parse(s); err == nil {
				return t
			}
		}
	case *ArrayField:
		items, ok := value.([]any)
		if !ok {
			return value
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = CoerceValue(item, f.ItemType)
		}
		return out
	case *ObjectField:
		obj, ok := value.(map[string]any)
		if !ok || obj == nil {
			return value
		}
		out := make(map[string]any, len(obj))
		for k, v := range obj {
			out[k] = v
		}
		for _, prop := range f.Properties {
			name := prop.Common().Name
			if v, ok := obj[name]; ok {
				out[name] = CoerceValue(v, prop)
			}
		}
		return out
	case *RecordField:
		obj, ok := value.(map[string]any)
		if !ok || obj == nil {
			return value
		}
		out := make(map[string]any, len(obj))
		for k, v := range obj {
			out[k] = CoerceValue(v, f.ValueType)
		}
		return out
	}
	return value
}
