// Package parser reads markdown documents and templates: front matter
// blocks and embedded schema declarations.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter represents parsed frontmatter data.
type Frontmatter struct {
	// Fields are the decoded top-level values.
	Fields map[string]any

	// Keys lists the top-level keys in document order.
	Keys []string

	// Raw is the raw frontmatter content.
	Raw string

	// EndLine is the line where frontmatter ends (1-indexed).
	EndLine int

	// Body is everything after the closing delimiter.
	Body string
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// splitFrontmatter returns the raw front matter, the body, and the closing
// line index. ok is false when there is no closed block.
func splitFrontmatter(content string) (raw, body string, endLine int, ok bool) {
	lines := strings.Split(content, "\n")
	_, endLine, found := FrontmatterBounds(lines)
	if !found || endLine == -1 {
		return "", content, -1, false
	}
	raw = strings.Join(lines[1:endLine], "\n")
	body = strings.Join(lines[endLine+1:], "\n")
	return raw, body, endLine, true
}

// ParseFrontmatter parses YAML frontmatter from markdown content.
// Returns nil if no frontmatter is found.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	raw, body, endLine, ok := splitFrontmatter(content)
	if !ok {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}

	fm := &Frontmatter{
		Raw:     raw,
		EndLine: endLine + 1, // +1 for 1-indexed lines
		Body:    body,
		Fields:  make(map[string]any),
	}

	// YAML can decode an empty document (or comments/whitespace only) to
	// nothing. We still consider this "frontmatter present".
	mapping := documentMapping(&root)
	if mapping == nil {
		if root.Kind != 0 && !isNullDocument(&root) {
			return nil, fmt.Errorf("frontmatter must be a mapping")
		}
		return fm, nil
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		var value any
		if err := mapping.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode frontmatter key %q: %w", key, err)
		}
		if _, seen := fm.Fields[key]; !seen {
			fm.Keys = append(fm.Keys, key)
		}
		fm.Fields[key] = value
	}

	return fm, nil
}

func documentMapping(root *yaml.Node) *yaml.Node {
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind == yaml.MappingNode {
		return node
	}
	return nil
}

func isNullDocument(root *yaml.Node) bool {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return true
	}
	n := root.Content[0]
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
