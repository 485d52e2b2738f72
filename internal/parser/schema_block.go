package parser

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/folio/internal/sdl"
)

// schemaTagPattern matches a `{% set schema = ... %}` directive. The payload
// is captured non-greedily so the first closing delimiter ends it.
var schemaTagPattern = regexp.MustCompile(`(?s)\{%-?\s*set\s+schema\s*=\s*(.*?)\s*-?%\}`)

// Scanner finds schema declarations in template text.
//
// Two embeddings are recognized, in this order:
//   - a `schema:` key in the YAML front matter
//   - a `{% set schema = <JSON> %}` directive anywhere in the text
//
// A template without a declaration yields nil. A declaration that cannot be
// decoded also yields nil, plus a warning on Logger; it never blocks the
// rest of the template.
type Scanner struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// ExtractSchemaFromTemplate returns the schema declared in a template, or nil.
func ExtractSchemaFromTemplate(text string) *sdl.Schema {
	return (&Scanner{}).Extract(text)
}

// Extract returns the schema declared in text, or nil.
func (sc *Scanner) Extract(text string) *sdl.Schema {
	if s, found := sc.fromFrontmatter(text); found {
		return s
	}
	return sc.fromDirective(text)
}

// fromFrontmatter reports found=true when the front matter has a schema
// key, even if its value turned out to be unusable.
func (sc *Scanner) fromFrontmatter(text string) (*sdl.Schema, bool) {
	raw, _, _, ok := splitFrontmatter(text)
	if !ok {
		return nil, false
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		// Templates often carry placeholders that are not valid YAML.
		sc.logger().Debug("template front matter is not plain YAML", "error", err)
		return nil, false
	}
	mapping := documentMapping(&root)
	if mapping == nil {
		return nil, false
	}
	value := mappingValue(mapping, "schema")
	if value == nil {
		return nil, false
	}

	s, err := sdl.DecodeNode(value)
	if err != nil {
		sc.logger().Warn("ignoring malformed schema in front matter", "error", err)
		return nil, true
	}
	if err := s.Check(); err != nil {
		sc.logger().Warn("ignoring malformed schema in front matter", "error", err)
		return nil, true
	}
	return s, true
}

func (sc *Scanner) fromDirective(text string) *sdl.Schema {
	m := schemaTagPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	payload := m[1]

	if !json.Valid([]byte(payload)) {
		sc.logger().Warn("ignoring schema directive: payload is not valid JSON",
			"payload", truncate(payload, 80))
		return nil
	}
	s, err := sdl.Parse([]byte(payload))
	if err != nil {
		sc.logger().Warn("ignoring malformed schema directive", "error", err)
		return nil
	}
	if err := s.Check(); err != nil {
		sc.logger().Warn("ignoring malformed schema directive", "error", err)
		return nil
	}
	return s
}

func (sc *Scanner) logger() *slog.Logger {
	if sc.Logger != nil {
		return sc.Logger
	}
	return slog.Default()
}

// StripSchemaBlock removes schema declarations from a template so that a
// document created from it does not inherit them. Lines holding only a
// directive are removed entirely; the front matter `schema:` entry is cut by
// line range so the rest of the block keeps its formatting.
func StripSchemaBlock(text string) string {
	text = stripFrontmatterSchema(text)
	if !schemaTagPattern.MatchString(text) {
		return text
	}

	stripped := schemaTagPattern.ReplaceAllString(text, "\x00")
	lines := strings.Split(stripped, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "\x00" {
			continue
		}
		out = append(out, strings.ReplaceAll(line, "\x00", ""))
	}
	return strings.Join(out, "\n")
}

func stripFrontmatterSchema(text string) string {
	raw, _, endLine, ok := splitFrontmatter(text)
	if !ok {
		return text
	}
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return text
	}
	mapping := documentMapping(&root)
	if mapping == nil {
		return text
	}

	// Node lines are 1-based within raw; raw starts on file line index 1.
	start, end := -1, endLine
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		if start >= 0 {
			end = key.Line
			break
		}
		if key.Value == "schema" {
			start = key.Line
		}
	}
	if start < 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	kept := append([]string{}, lines[:start]...)
	kept = append(kept, lines[end:]...)
	return strings.Join(kept, "\n")
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			found = mapping.Content[i+1]
		}
	}
	return found
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
