// Package compiler turns declared schemas into structural validators that
// check, default and strip arbitrary values.
//
// The compiled validators are independent of the per-field messages in
// internal/schema: they report every failing check with a path and code,
// apply declared defaults, and enforce date bounds.
package compiler

import (
	"log/slog"
	"time"

	"github.com/aidanlsb/folio/internal/dates"
	"github.com/aidanlsb/folio/internal/sdl"
)

// Validator is a compiled field validator.
type Validator struct {
	root node
}

// ObjectValidator validates a whole document: one key per declared field.
type ObjectValidator struct {
	Validator
	object *objectNode
}

// Compiler builds validators from declarations.
type Compiler struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Compile builds an object validator for every field declared in s.
func Compile(s *sdl.Schema) *ObjectValidator {
	return (&Compiler{}).Compile(s)
}

// CompileField builds a validator for one declared field.
func CompileField(f *sdl.Field) *Validator {
	return &Validator{root: (&Compiler{}).field("", f)}
}

// Compile builds an object validator for every field declared in s.
func (c *Compiler) Compile(s *sdl.Schema) *ObjectValidator {
	obj := &objectNode{props: make(map[string]node)}
	if s != nil {
		s.Fields.Each(func(name string, f *sdl.Field) {
			obj.keys = append(obj.keys, name)
			obj.props[name] = c.field(name, f)
		})
	}
	return &ObjectValidator{Validator: Validator{root: obj}, object: obj}
}

// field compiles one declaration: base type, then bounds and predicates,
// then description, optional and default wrappers in that order so that a
// supplied value is always checked against the constraints.
func (c *Compiler) field(name string, f *sdl.Field) node {
	var n node
	switch f.Type {
	case sdl.TypeString:
		n = &stringNode{minLength: f.MinLength, maxLength: f.MaxLength, format: f.Format}

	case sdl.TypeNumber:
		num := &numberNode{integer: f.Integer, positive: f.Positive}
		if v, ok := sdl.ToFloat(f.Min); ok {
			num.min = &v
		}
		if v, ok := sdl.ToFloat(f.Max); ok {
			num.max = &v
		}
		n = num

	case sdl.TypeBoolean:
		n = booleanNode{}

	case sdl.TypeDate:
		n = &dateNode{min: c.dateBound(name, f.Min), max: c.dateBound(name, f.Max)}

	case sdl.TypeArray:
		n = &arrayNode{
			item:     c.field(name+"Item", f.Items),
			minItems: f.MinItems,
			maxItems: f.MaxItems,
		}

	case sdl.TypeObject:
		obj := &objectNode{props: make(map[string]node)}
		f.Properties.Each(func(propName string, prop *sdl.Field) {
			obj.keys = append(obj.keys, propName)
			obj.props[propName] = c.field(propName, prop)
		})
		n = obj

	case sdl.TypeEnum:
		if len(f.Options) == 0 {
			n = &stringNode{}
		} else {
			n = &enumNode{options: append([]string(nil), f.Options...)}
		}

	case sdl.TypeRecord:
		n = &recordNode{value: c.field(name+"Value", f.Values)}

	default:
		c.logger().Debug("unknown field type, compiling as string",
			"field", name, "type", string(f.Type))
		n = &stringNode{}
	}

	if f.Description != "" {
		n = &describedNode{inner: n, description: f.Description}
	}
	if f.Optional {
		n = &optionalNode{inner: n}
	}
	if f.HasDefault() {
		n = &defaultNode{inner: n, value: f.Default}
	}
	return n
}

func (c *Compiler) dateBound(name string, v any) *time.Time {
	switch b := v.(type) {
	case time.Time:
		return &b
	case string:
		t, err := dates.Parse(b)
		if err != nil {
			c.logger().Warn("ignoring unparsable date bound", "field", name, "value", b)
			return nil
		}
		return &t
	}
	return nil
}

func (c *Compiler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Parse checks value and returns it with defaults applied and unknown object
// keys removed. The error is a *ParseError listing every failed check.
func (v *Validator) Parse(value any) (any, error) {
	r := v.SafeParse(value)
	if !r.Success {
		return nil, r.Error
	}
	return r.Data, nil
}

// SafeParse is Parse without the error return.
func (v *Validator) SafeParse(value any) Result {
	out, issues := v.root.check(value, nil)
	if len(issues) > 0 {
		return Result{Error: &ParseError{Issues: issues}}
	}
	if out == missing {
		out = nil
	}
	return Result{Success: true, Data: out}
}

// Description returns the declared description, if any.
func (v *Validator) Description() string {
	return describe(v.root)
}

// IsOptional reports whether a missing value is accepted.
func (v *Validator) IsOptional() bool {
	return acceptsMissing(v.root)
}

// Keys returns the declared field names in declaration order.
func (o *ObjectValidator) Keys() []string {
	return append([]string(nil), o.object.keys...)
}

// Field returns the validator compiled for one declared field.
func (o *ObjectValidator) Field(name string) (*Validator, bool) {
	n, ok := o.object.props[name]
	if !ok {
		return nil, false
	}
	return &Validator{root: n}, true
}

// ParseMap is Parse for document values.
func (o *ObjectValidator) ParseMap(values map[string]any) (map[string]any, error) {
	out, err := o.Parse(values)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func describe(n node) string {
	switch n := n.(type) {
	case *describedNode:
		return n.description
	case *optionalNode:
		return describe(n.inner)
	case *defaultNode:
		return describe(n.inner)
	}
	return ""
}

func acceptsMissing(n node) bool {
	switch n.(type) {
	case *optionalNode, *defaultNode:
		return true
	}
	return false
}
