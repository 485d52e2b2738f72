package schema

import (
	"log/slog"
	"time"

	"github.com/aidanlsb/folio/internal/dates"
	"github.com/aidanlsb/folio/internal/sdl"
)

// Normalizer converts declared fields into the normalized model.
type Normalizer struct {
	// Logger receives a debug record whenever an unknown type falls back to
	// string, and a warning for date bounds that cannot be parsed.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// FromSDL normalizes every declared field of s.
func FromSDL(s *sdl.Schema) Schema {
	return (&Normalizer{}).Schema(s)
}

// FieldFromSDL normalizes a single declared field under the given name.
func FieldFromSDL(name string, f *sdl.Field) Field {
	return (&Normalizer{}).Field(name, f)
}

// Schema normalizes every declared field of s in declaration order.
func (n *Normalizer) Schema(s *sdl.Schema) Schema {
	if s == nil {
		return Schema{}
	}
	out := make(Schema, 0, s.Len())
	s.Fields.Each(func(name string, f *sdl.Field) {
		out = append(out, n.Field(name, f))
	})
	return out
}

// Field normalizes a single declared field. Absent constraints stay absent.
func (n *Normalizer) Field(name string, f *sdl.Field) Field {
	base := Base{
		Name:         name,
		Description:  f.Description,
		IsOptional:   f.Optional,
		DefaultValue: f.Default,
	}

	switch f.Type {
	case sdl.TypeString:
		return &StringField{
			Base:      base,
			MinLength: copyInt(f.MinLength),
			MaxLength: copyInt(f.MaxLength),
			Format:    StringFormat(f.Format),
		}

	case sdl.TypeNumber:
		field := &NumberField{
			Base:       base,
			IsInteger:  f.Integer,
			IsPositive: f.Positive,
		}
		if v, ok := sdl.ToFloat(f.Min); ok {
			field.Min = &v
		}
		if v, ok := sdl.ToFloat(f.Max); ok {
			field.Max = &v
		}
		return field

	case sdl.TypeBoolean:
		return &BooleanField{Base: base}

	case sdl.TypeDate:
		return &DateField{
			Base: base,
			Min:  n.dateBound(name, "min", f.Min),
			Max:  n.dateBound(name, "max", f.Max),
		}

	case sdl.TypeArray:
		return &ArrayField{
			Base:     base,
			MinItems: copyInt(f.MinItems),
			MaxItems: copyInt(f.MaxItems),
			ItemType: n.Field(name+"Item", f.Items),
		}

	case sdl.TypeObject:
		props := make([]Field, 0, f.Properties.Len())
		f.Properties.Each(func(propName string, prop *sdl.Field) {
			props = append(props, n.Field(propName, prop))
		})
		return &ObjectField{Base: base, Properties: props}

	case sdl.TypeEnum:
		options := make([]string, len(f.Options))
		copy(options, f.Options)
		return &EnumField{Base: base, Options: options}

	case sdl.TypeRecord:
		return &RecordField{
			Base:      base,
			ValueType: n.Field(name+"Value", f.Values),
		}
	}

	n.logger().Debug("unknown field type, treating as string",
		"field", name, "type", string(f.Type))
	return &StringField{Base: base, FallbackFrom: f.Type}
}

func (n *Normalizer) dateBound(field, key string, v any) *time.Time {
	switch b := v.(type) {
	case nil:
		return nil
	case time.Time:
		return &b
	case *time.Time:
		if b == nil {
			return nil
		}
		t := *b
		return &t
	case string:
		t, err := dates.Parse(b)
		if err != nil {
			n.logger().Warn("ignoring unparsable date bound",
				"field", field, "bound", key, "value", b)
			return nil
		}
		return &t
	}
	n.logger().Warn("ignoring date bound of unexpected type",
		"field", field, "bound", key)
	return nil
}

func (n *Normalizer) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
