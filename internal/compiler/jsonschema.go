package compiler

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// JSONSchema renders the validator as a JSON Schema document. Dates are
// strings in either date or date-time format and records use
// additionalProperties.
func (v *Validator) JSONSchema() *jsonschema.Schema {
	return toJSONSchema(v.root)
}

func toJSONSchema(n node) *jsonschema.Schema {
	switch n := n.(type) {
	case *stringNode:
		s := &jsonschema.Schema{Type: "string", MinLength: n.minLength, MaxLength: n.maxLength}
		switch n.format {
		case "email", "uuid":
			s.Format = n.format
		case "url":
			s.Format = "uri"
		}
		return s

	case *numberNode:
		s := &jsonschema.Schema{Type: "number", Minimum: n.min, Maximum: n.max}
		if n.integer {
			s.Type = "integer"
		}
		if n.positive {
			zero := 0.0
			s.ExclusiveMinimum = &zero
		}
		return s

	case booleanNode:
		return &jsonschema.Schema{Type: "boolean"}

	case *dateNode:
		s := &jsonschema.Schema{
			Type: "string",
			AnyOf: []*jsonschema.Schema{
				{Format: "date"},
				{Format: "date-time"},
			},
		}
		if n.min != nil || n.max != nil {
			s.Description = dateRangeNote(n)
		}
		return s

	case *arrayNode:
		return &jsonschema.Schema{
			Type:     "array",
			Items:    toJSONSchema(n.item),
			MinItems: n.minItems,
			MaxItems: n.maxItems,
		}

	case *objectNode:
		s := &jsonschema.Schema{Type: "object", Properties: make(map[string]*jsonschema.Schema, len(n.keys))}
		for _, k := range n.keys {
			prop := n.props[k]
			s.Properties[k] = toJSONSchema(prop)
			if !acceptsMissing(prop) {
				s.Required = append(s.Required, k)
			}
		}
		return s

	case *enumNode:
		values := make([]any, len(n.options))
		for i, o := range n.options {
			values[i] = o
		}
		return &jsonschema.Schema{Type: "string", Enum: values}

	case *recordNode:
		return &jsonschema.Schema{Type: "object", AdditionalProperties: toJSONSchema(n.value)}

	case *describedNode:
		s := toJSONSchema(n.inner)
		if s.Description != "" {
			s.Description = n.description + " (" + s.Description + ")"
		} else {
			s.Description = n.description
		}
		return s

	case *optionalNode:
		return toJSONSchema(n.inner)

	case *defaultNode:
		s := toJSONSchema(n.inner)
		if raw, err := json.Marshal(n.value); err == nil {
			s.Default = raw
		}
		return s
	}
	return &jsonschema.Schema{}
}

func dateRangeNote(n *dateNode) string {
	const layout = "2006-01-02T15:04:05Z07:00"
	switch {
	case n.min != nil && n.max != nil:
		return "between " + n.min.Format(layout) + " and " + n.max.Format(layout)
	case n.min != nil:
		return "on or after " + n.min.Format(layout)
	default:
		return "on or before " + n.max.Format(layout)
	}
}
