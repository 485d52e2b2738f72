package schema

import "time"

// Clock supplies the current time for date defaults.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// GenerateInitialValues returns a value for every top-level field, using the
// wall clock for undeclared date defaults.
func GenerateInitialValues(s Schema) map[string]any {
	return InitialValues(s, SystemClock{})
}

// InitialValues returns a value for every top-level field: the declared
// default when there is one, otherwise an empty value of the field's type.
func InitialValues(s Schema, clock Clock) map[string]any {
	values := make(map[string]any, len(s))
	for _, f := range s {
		values[f.Common().Name] = InitialValue(f, clock)
	}
	return values
}

// InitialValue returns the initial value of a single field.
func InitialValue(f Field, clock Clock) any {
	if b := f.Common(); b.HasDefault() {
		return b.DefaultValue
	}

	switch f := f.(type) {
	case *StringField:
		return ""
	case *NumberField:
		return float64(0)
	case *BooleanField:
		return false
	case *DateField:
		if clock == nil {
			clock = SystemClock{}
		}
		return clock.Now()
	case *ArrayField:
		return []any{}
	case *RecordField:
		return map[string]any{}
	case *EnumField:
		if len(f.Options) > 0 {
			return f.Options[0]
		}
		return ""
	case *ObjectField:
		obj := make(map[string]any, len(f.Properties))
		for _, prop := range f.Properties {
			obj[prop.Common().Name] = InitialValue(prop, clock)
		}
		return obj
	}
	panic(unknownField(f))
}
