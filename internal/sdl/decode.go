package sdl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML rejects anything but a mapping so that a declaration such as
// `title: string` is reported instead of silently becoming an empty field.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: field declaration must be a mapping, got %s", node.Line, nodeKind(node))
	}
	type plain Field
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = Field(p)
	return nil
}

// Parse decodes a schema declaration from YAML or JSON text.
// Both `{fields: {...}}` and a bare field mapping are accepted.
func Parse(data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("empty schema declaration")
	}
	return DecodeNode(&doc)
}

// DecodeNode decodes a schema declaration from an already parsed node.
func DecodeNode(node *yaml.Node) (*Schema, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: schema must be a mapping, got %s", node.Line, nodeKind(node))
	}

	if fieldsNode := wrappedFields(node); fieldsNode != nil {
		fields := NewFieldMap()
		if err := fieldsNode.Decode(fields); err != nil {
			return nil, err
		}
		return &Schema{Fields: fields}, nil
	}

	fields := NewFieldMap()
	if err := node.Decode(fields); err != nil {
		return nil, err
	}
	return &Schema{Fields: fields}, nil
}

// wrappedFields returns the value of a top-level `fields` key when the
// mapping is the `{fields: ...}` form rather than a bare field map. A bare
// map that happens to declare a field called "fields" carries a `type` key
// inside it, which is how the two are told apart.
func wrappedFields(node *yaml.Node) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "fields" {
			continue
		}
		value := node.Content[i+1]
		if value.Kind == yaml.AliasNode {
			value = value.Alias
		}
		if value.Kind != yaml.MappingNode {
			return value
		}
		for j := 0; j+1 < len(value.Content); j += 2 {
			if value.Content[j].Value == "type" && value.Content[j+1].Kind == yaml.ScalarNode {
				return nil
			}
		}
		return value
	}
	return nil
}
