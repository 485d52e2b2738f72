// Package sdl holds the raw, user-authored schema declarations embedded in
// document templates.
//
// The types here are deliberately loose: they mirror what an author can write
// in a template's front matter. internal/schema turns them into the strict
// field model used everywhere else.
package sdl

// FieldType is the discriminator of a declared field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
	TypeEnum    FieldType = "enum"
	TypeRecord  FieldType = "record"
)

// Known reports whether t is one of the declared field types.
func (t FieldType) Known() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate,
		TypeArray, TypeObject, TypeEnum, TypeRecord:
		return true
	}
	return false
}

// Schema is a declared schema: a set of named fields.
type Schema struct {
	Fields *FieldMap `yaml:"fields"`
}

// Field is one declared field. Only the attributes relevant to Type are
// meaningful; the others are ignored downstream.
type Field struct {
	Type        FieldType `yaml:"type"`
	Description string    `yaml:"description,omitempty"`
	Optional    bool      `yaml:"optional,omitempty"`
	Default     any       `yaml:"default,omitempty"`

	// string
	MinLength *int   `yaml:"minLength,omitempty"`
	MaxLength *int   `yaml:"maxLength,omitempty"`
	Format    string `yaml:"format,omitempty"`

	// number bounds are numeric; date bounds are date strings or time.Time
	Min      any  `yaml:"min,omitempty"`
	Max      any  `yaml:"max,omitempty"`
	Integer  bool `yaml:"integer,omitempty"`
	Positive bool `yaml:"positive,omitempty"`

	// array
	MinItems *int   `yaml:"minItems,omitempty"`
	MaxItems *int   `yaml:"maxItems,omitempty"`
	Items    *Field `yaml:"items,omitempty"`

	// object
	Properties *FieldMap `yaml:"properties,omitempty"`

	// enum
	Options []string `yaml:"options,omitempty"`

	// record
	Values *Field `yaml:"values,omitempty"`
}

// HasDefault reports whether the field declares a default value.
func (f *Field) HasDefault() bool {
	return f.Default != nil
}

// Len returns the number of declared top-level fields.
func (s *Schema) Len() int {
	if s == nil || s.Fields == nil {
		return 0
	}
	return s.Fields.Len()
}
