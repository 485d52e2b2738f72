package compiler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchemaExport(t *testing.T) {
	v := Compile(mustParse(t, `{
		"title": {"type": "string", "minLength": 1, "description": "Title"},
		"count": {"type": "number", "integer": true, "positive": true},
		"status": {"type": "enum", "options": ["a", "b"], "default": "a"},
		"due": {"type": "date", "optional": true, "min": "2024-01-01"},
		"tags": {"type": "array", "items": {"type": "string", "format": "url"}},
		"meta": {"type": "record", "values": {"type": "boolean"}}
	}`))

	s := v.JSONSchema()
	require.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"title", "count", "tags", "meta"}, s.Required)

	title := s.Properties["title"]
	assert.Equal(t, "string", title.Type)
	assert.Equal(t, "Title", title.Description)
	require.NotNil(t, title.MinLength)
	assert.Equal(t, 1, *title.MinLength)

	count := s.Properties["count"]
	assert.Equal(t, "integer", count.Type)
	require.NotNil(t, count.ExclusiveMinimum)
	assert.Equal(t, 0.0, *count.ExclusiveMinimum)

	status := s.Properties["status"]
	assert.Equal(t, []any{"a", "b"}, status.Enum)
	assert.JSONEq(t, `"a"`, string(status.Default))

	due := s.Properties["due"]
	assert.Equal(t, "string", due.Type)
	require.Len(t, due.AnyOf, 2)
	assert.Equal(t, "date", due.AnyOf[0].Format)
	assert.Equal(t, "date-time", due.AnyOf[1].Format)
	assert.Contains(t, due.Description, "on or after 2024-01-01")

	assert.Equal(t, "uri", s.Properties["tags"].Items.Format)
	assert.Equal(t, "boolean", s.Properties["meta"].AdditionalProperties.Type)

	_, err := json.Marshal(s)
	assert.NoError(t, err)
}
