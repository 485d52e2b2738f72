package sdl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldMap is an insertion-ordered map of field name to declaration.
// Setting an existing key replaces its value and keeps its position.
type FieldMap struct {
	keys   []string
	fields map[string]*Field
}

// NewFieldMap returns an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{fields: make(map[string]*Field)}
}

// Set adds or replaces a field.
func (m *FieldMap) Set(name string, f *Field) *FieldMap {
	if m.fields == nil {
		m.fields = make(map[string]*Field)
	}
	if _, ok := m.fields[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.fields[name] = f
	return m
}

// Get returns the field declared under name.
func (m *FieldMap) Get(name string) (*Field, bool) {
	if m == nil {
		return nil, false
	}
	f, ok := m.fields[name]
	return f, ok
}

// Keys returns field names in declaration order.
func (m *FieldMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each calls fn for every field in declaration order.
func (m *FieldMap) Each(fn func(name string, f *Field)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.fields[k])
	}
}

// UnmarshalYAML decodes a mapping node while keeping key order.
func (m *FieldMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of fields, got %s", node.Line, nodeKind(node))
	}
	m.keys = nil
	m.fields = make(map[string]*Field, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var f Field
		if err := valueNode.Decode(&f); err != nil {
			return fmt.Errorf("field %q: %w", keyNode.Value, err)
		}
		m.Set(keyNode.Value, &f)
	}
	return nil
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return "null"
		}
		return "scalar " + node.Tag
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.DocumentNode:
		return "document"
	}
	return "unknown node"
}
