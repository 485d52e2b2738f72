// Package schema holds the normalized document field model and the value
// engine built on it: initial values for new documents and per-field
// validation messages for existing ones.
package schema

import (
	"time"

	"github.com/aidanlsb/folio/internal/sdl"
)

// Field is one normalized field. The set of implementations is closed:
// *StringField, *NumberField, *BooleanField, *DateField, *ArrayField,
// *ObjectField, *EnumField and *RecordField.
type Field interface {
	// Type returns the field's discriminator. It never changes.
	Type() sdl.FieldType
	// Common returns the attributes shared by every variant.
	Common() *Base
	isField()
}

// Base holds the attributes shared by every field variant.
type Base struct {
	// Name is the map key for top-level fields and object properties, or a
	// synthesized "<parent>Item" / "<parent>Value" for nested declarations.
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsOptional   bool   `json:"isOptional"`
	DefaultValue any    `json:"defaultValue,omitempty"`
}

// Common returns b.
func (b *Base) Common() *Base { return b }

// HasDefault reports whether a default value was declared.
func (b *Base) HasDefault() bool { return b.DefaultValue != nil }

// StringFormat is a named string format check.
type StringFormat string

const (
	FormatEmail StringFormat = "email"
	FormatURL   StringFormat = "url"
	FormatUUID  StringFormat = "uuid"
)

type StringField struct {
	Base
	MinLength *int         `json:"minLength,omitempty"`
	MaxLength *int         `json:"maxLength,omitempty"`
	Format    StringFormat `json:"format,omitempty"`

	// FallbackFrom is set when the declaration used a type this package
	// does not know and was read as a string.
	FallbackFrom sdl.FieldType `json:"fallbackFrom,omitempty"`
}

type NumberField struct {
	Base
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	IsInteger  bool     `json:"isInteger,omitempty"`
	IsPositive bool     `json:"isPositive,omitempty"`
}

type BooleanField struct {
	Base
}

// DateField bounds are always concrete times, never strings.
type DateField struct {
	Base
	Min *time.Time `json:"min,omitempty"`
	Max *time.Time `json:"max,omitempty"`
}

type ArrayField struct {
	Base
	MinItems *int  `json:"minItems,omitempty"`
	MaxItems *int  `json:"maxItems,omitempty"`
	ItemType Field `json:"itemType"`
}

// ObjectField properties keep declaration order.
type ObjectField struct {
	Base
	Properties []Field `json:"properties"`
}

type EnumField struct {
	Base
	Options []string `json:"options"`
}

type RecordField struct {
	Base
	ValueType Field `json:"valueType"`
}

func (*StringField) Type() sdl.FieldType  { return sdl.TypeString }
func (*NumberField) Type() sdl.FieldType  { return sdl.TypeNumber }
func (*BooleanField) Type() sdl.FieldType { return sdl.TypeBoolean }
func (*DateField) Type() sdl.FieldType    { return sdl.TypeDate }
func (*ArrayField) Type() sdl.FieldType   { return sdl.TypeArray }
func (*ObjectField) Type() sdl.FieldType  { return sdl.TypeObject }
func (*EnumField) Type() sdl.FieldType    { return sdl.TypeEnum }
func (*RecordField) Type() sdl.FieldType  { return sdl.TypeRecord }

func (*StringField) isField()  {}
func (*NumberField) isField()  {}
func (*BooleanField) isField() {}
func (*DateField) isField()    {}
func (*ArrayField) isField()   {}
func (*ObjectField) isField()  {}
func (*EnumField) isField()    {}
func (*RecordField) isField()  {}

// Schema is a normalized schema: top-level fields in declaration order.
// Names are unique.
type Schema []Field

// Field returns the top-level field called name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Common().Name == name {
			return f, true
		}
	}
	return nil, false
}

// Names returns the top-level field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Common().Name
	}
	return names
}
