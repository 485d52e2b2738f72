package parser

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/folio/internal/sdl"
)

func newTestScanner() (*Scanner, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Scanner{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}, &buf
}

func TestExtractSchemaFromFrontmatter(t *testing.T) {
	template := `---
schema:
  fields:
    title:
      type: string
      description: The title of the post
    age:
      type: number
      integer: true
      min: 0
    isPublished:
      type: boolean
      default: false
---

# {{title}}
`
	s := ExtractSchemaFromTemplate(template)
	require.NotNil(t, s)
	assert.Equal(t, []string{"title", "age", "isPublished"}, s.Fields.Keys())

	title, _ := s.Fields.Get("title")
	assert.Equal(t, &sdl.Field{Type: sdl.TypeString, Description: "The title of the post"}, title)

	age, _ := s.Fields.Get("age")
	assert.Equal(t, &sdl.Field{Type: sdl.TypeNumber, Integer: true, Min: 0}, age)

	published, _ := s.Fields.Get("isPublished")
	assert.Equal(t, &sdl.Field{Type: sdl.TypeBoolean, Default: false}, published)
}

func TestExtractSchemaFromDirective(t *testing.T) {
	template := `---
title: "{{title}}"
---
{% set schema = {
  "fields": {
    "status": {"type": "enum", "options": ["draft", "done"]},
    "tags": {"type": "array", "items": {"type": "string"}, "optional": true}
  }
} %}
Body text`

	s := ExtractSchemaFromTemplate(template)
	require.NotNil(t, s)
	assert.Equal(t, []string{"status", "tags"}, s.Fields.Keys())
	tags, _ := s.Fields.Get("tags")
	assert.True(t, tags.Optional)
	assert.Equal(t, sdl.TypeString, tags.Items.Type)
}

func TestExtractSchemaDirectiveSingleLineBareMap(t *testing.T) {
	s := ExtractSchemaFromTemplate(`{% set schema = {"n": {"type": "number"}} %}`)
	require.NotNil(t, s)
	assert.Equal(t, []string{"n"}, s.Fields.Keys())
}

func TestExtractSchemaFrontmatterWinsOverDirective(t *testing.T) {
	template := "---\nschema:\n  fields:\n    a: {type: string}\n---\n{% set schema = {\"b\": {\"type\": \"string\"}} %}\n"
	s := ExtractSchemaFromTemplate(template)
	require.NotNil(t, s)
	assert.Equal(t, []string{"a"}, s.Fields.Keys())
}

func TestExtractSchemaAbsent(t *testing.T) {
	sc, logs := newTestScanner()

	assert.Nil(t, sc.Extract("---\ntitle: Hello\n---\nBody\n"))
	assert.Nil(t, sc.Extract("no front matter at all"))
	assert.Nil(t, sc.Extract(""))
	assert.NotContains(t, logs.String(), "level=WARN")
}

func TestExtractSchemaMalformed(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"scalar field", "---\nschema:\n  fields:\n    title: string\n---\n"},
		{"fields not a mapping", "---\nschema:\n  fields: [a, b]\n---\n"},
		{"array without items", "---\nschema:\n  fields:\n    tags: {type: array}\n---\n"},
		{"directive with YAML payload", "{% set schema = fields: {a: {type: string}} %}"},
		{"directive with trailing comma", `{% set schema = {"a": {"type": "string"},} %}`},
		{"directive with broken record", `{% set schema = {"a": {"type": "record"}} %}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, logs := newTestScanner()
			assert.NotPanics(t, func() {
				assert.Nil(t, sc.Extract(tt.template))
			})
			assert.Contains(t, logs.String(), "level=WARN")
		})
	}
}

func TestExtractSchemaPlaceholderFrontmatterFallsBackToDirective(t *testing.T) {
	template := "---\ntitle: {{title}}\n---\n{% set schema = {\"a\": {\"type\": \"string\"}} %}\n"
	s := ExtractSchemaFromTemplate(template)
	require.NotNil(t, s)
	assert.Equal(t, []string{"a"}, s.Fields.Keys())
}

func TestStripSchemaBlock(t *testing.T) {
	t.Run("front matter key", func(t *testing.T) {
		template := "---\ntype: note\nschema:\n  fields:\n    a: {type: string}\ntags: [x]\n---\nBody\n"
		assert.Equal(t, "---\ntype: note\ntags: [x]\n---\nBody\n", StripSchemaBlock(template))
	})

	t.Run("front matter key last", func(t *testing.T) {
		template := "---\ntype: note\nschema:\n  fields:\n    a: {type: string}\n---\nBody\n"
		assert.Equal(t, "---\ntype: note\n---\nBody\n", StripSchemaBlock(template))
	})

	t.Run("directive line", func(t *testing.T) {
		template := "---\ntitle: x\n---\n{% set schema = {\n  \"a\": {\"type\": \"string\"}\n} %}\n# Heading\n"
		assert.Equal(t, "---\ntitle: x\n---\n# Heading\n", StripSchemaBlock(template))
	})

	t.Run("nothing to strip", func(t *testing.T) {
		template := "---\ntitle: x\n---\nBody {% if x %}\n"
		assert.Equal(t, template, StripSchemaBlock(template))
	})
}
