package schema

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/folio/internal/sdl"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("Field '%s': %s", e.Field, e.Message)
}

// Errors flattens a ValidateValues result into a list sorted by field name.
func Errors(messages map[string]string) []ValidationError {
	out := make([]ValidationError, 0, len(messages))
	for field, msg := range messages {
		out = append(out, ValidationError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// ValidateValues checks values against every top-level field of s and
// returns one message per invalid field. An empty map means all valid.
//
// Optional fields whose value is missing, nil or "" are skipped. A missing
// required field is reported by its type check ("Must be a string", ...).
func ValidateValues(values map[string]any, s Schema) map[string]string {
	errs := make(map[string]string)
	for _, f := range s {
		name := f.Common().Name
		value, present := values[name]
		if f.Common().IsOptional && isEmpty(value, present) {
			continue
		}
		if msg := ValidateField(value, f); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// ValidateField returns the first failing check for value, or "" when value
// satisfies f. Nested failures are prefixed with the property name, record
// key, or 1-based item index.
//
// Date bounds are not enforced here.
func ValidateField(value any, f Field) string {
	switch f := f.(type) {
	case *StringField:
		s, ok := value.(string)
		if !ok {
			return "Must be a string"
		}
		n := len([]rune(s))
		if f.MinLength != nil && n < *f.MinLength {
			return fmt.Sprintf("Must be at least %d characters", *f.MinLength)
		}
		if f.MaxLength != nil && n > *f.MaxLength {
			return fmt.Sprintf("Must be at most %d characters", *f.MaxLength)
		}
		if f.Format == FormatEmail && !strings.Contains(s, "@") {
			return "Must be a valid email address"
		}
		return ""

	case *NumberField:
		n, ok := sdl.ToFloat(value)
		if !ok || math.IsNaN(n) {
			return "Must be a number"
		}
		if f.IsInteger && (math.IsInf(n, 0) || n != math.Trunc(n)) {
			return "Must be an integer"
		}
		if f.IsPositive && n <= 0 {
			return "Must be positive"
		}
		if f.Min != nil && n < *f.Min {
			return "Must be at least " + formatNumber(*f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return "Must be at most " + formatNumber(*f.Max)
		}
		return ""

	case *BooleanField:
		if _, ok := value.(bool); !ok {
			return "Must be a boolean"
		}
		return ""

	case *DateField:
		if !isValidTime(value) {
			return "Must be a valid date"
		}
		return ""

	case *ArrayField:
		items, ok := asSlice(value)
		if !ok {
			return "Must be an array"
		}
		if f.MinItems != nil && len(items) < *f.MinItems {
			return fmt.Sprintf("Must have at least %d items", *f.MinItems)
		}
		if f.MaxItems != nil && len(items) > *f.MaxItems {
			return fmt.Sprintf("Must have at most %d items", *f.MaxItems)
		}
		for i, item := range items {
			if msg := ValidateField(item, f.ItemType); msg != "" {
				return fmt.Sprintf("Item %d: %s", i+1, msg)
			}
		}
		return ""

	case *ObjectField:
		obj, ok := asObject(value)
		if !ok {
			return "Must be an object"
		}
		for _, prop := range f.Properties {
			name := prop.Common().Name
			v, present := obj[name]
			if prop.Common().IsOptional && isEmpty(v, present) {
				continue
			}
			if msg := ValidateField(v, prop); msg != "" {
				return name + ": " + msg
			}
		}
		return ""

	case *EnumField:
		s, ok := value.(string)
		if ok {
			for _, opt := range f.Options {
				if s == opt {
					return ""
				}
			}
		}
		return "Must be one of: " + strings.Join(f.Options, ", ")

	case *RecordField:
		obj, ok := asObject(value)
		if !ok {
			return "Must be an object"
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := ValidateField(obj[k], f.ValueType); msg != "" {
				return k + ": " + msg
			}
		}
		return ""
	}
	panic(unknownField(f))
}

func isEmpty(v any, present bool) bool {
	if !present || v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func isValidTime(v any) bool {
	switch t := v.(type) {
	case time.Time:
		return !t.IsZero()
	case *time.Time:
		return t != nil && !t.IsZero()
	}
	return false
}

func asSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func asObject(v any) (map[string]any, bool) {
	if obj, ok := v.(map[string]any); ok {
		return obj, obj != nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	obj := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		obj[iter.Key().String()] = iter.Value().Interface()
	}
	return obj, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func unknownField(f Field) string {
	return fmt.Sprintf("schema: unsupported field %T", f)
}
