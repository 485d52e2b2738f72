package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/folio/internal/schema"
)

const meetingTemplate = `---
schema:
  fields:
    status:
      type: enum
      description: Review state
      options: [draft, published]
    attendees:
      type: array
      items:
        type: string
      minItems: 1
    priority:
      type: number
      integer: true
      default: 2
    due:
      type: date
      optional: true
      min: 2026-01-01
---
# {{title}}
`

const directiveTemplate = `{% set schema = {"rating": {"type": "number", "min": 1, "max": 5}, "mood": {"type": "mystery"}} %}
# {{title}}
`

var testNow = time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	vault  string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()
	vault := filepath.Join(root, "vault")
	writeFile(t, filepath.Join(vault, "templates", "meeting.md"), meetingTemplate)
	writeFile(t, filepath.Join(vault, "templates", "review.md"), directiveTemplate)
	writeFile(t, filepath.Join(vault, "templates", "plain.md"), "# {{title}}\n")

	cfg := filepath.Join(root, "config.toml")
	writeFile(t, cfg, "")
	return testEnv{vault: vault, config: cfg}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// run executes the CLI against the test vault.
func (e testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	full := append([]string{"--config", e.config, "--vault-path", e.vault}, args...)
	return runCLI(t, full...)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(&app{clock: schema.FixedClock(testNow)})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeResponse(t *testing.T, out string) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

func TestSchemaShow(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "schema", "show", "meeting")
	require.NoError(t, err)
	assert.Contains(t, out, "templates/meeting.md")
	assert.Contains(t, out, "status")
	assert.Contains(t, out, "one of draft, published")
	assert.Contains(t, out, "attendees[]")
	assert.Contains(t, out, "default 2")
	assert.Contains(t, out, "Review state")
}

func TestSchemaShowJSON(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "--json", "schema", "show", "meeting")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	require.True(t, resp.OK)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "templates/meeting.md", data["template"])
	fields := data["fields"].([]any)
	require.Len(t, fields, 4)
	first := fields[0].(map[string]any)
	assert.Equal(t, "enum", first["type"])
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 4, resp.Meta.Count)
}

func TestSchemaJSONExport(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "schema", "json", "meeting")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, "meeting", doc["title"])
	assert.Equal(t, jsonSchemaDialect, doc["$schema"])

	props := doc["properties"].(map[string]any)
	assert.Contains(t, props, "status")
	status := props["status"].(map[string]any)
	assert.ElementsMatch(t, []any{"draft", "published"}, status["enum"])

	required := doc["required"].([]any)
	assert.Contains(t, required, "status")
	assert.Contains(t, required, "attendees")
	assert.NotContains(t, required, "due")
	assert.NotContains(t, required, "priority")
}

func TestSchemaDoc(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "schema", "doc", "meeting", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# meeting")
	assert.Contains(t, out, "| `status` | enum | yes |")
	assert.Contains(t, out, "| `due` | date | no |")

	html, _, err := env.run(t, "schema", "doc", "meeting", "--html")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<code>status</code>")
}

func TestSchemaUnknownTypeLogsAtDebug(t *testing.T) {
	env := newTestEnv(t)

	out, stderr, err := env.run(t, "--log-level", "debug", "schema", "show", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "declared as mystery")
	assert.Contains(t, stderr, "unknown field type")

	_, stderr, err = env.run(t, "schema", "show", "review")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "unknown field type")
}

func TestDefaultsYAML(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "defaults", "meeting")
	require.NoError(t, err)

	assert.Contains(t, out, "status: draft\n")
	assert.Contains(t, out, "attendees: []\n")
	assert.Contains(t, out, "priority: 2\n")
	assert.Contains(t, out, "2026-01-05")
	assert.Less(t, strings.Index(out, "status"), strings.Index(out, "attendees"))
	assert.Less(t, strings.Index(out, "priority"), strings.Index(out, "due"))
}

func TestDefaultsJSONFormat(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "defaults", "review", "--format", "json")
	require.NoError(t, err)

	var values map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Equal(t, float64(0), values["rating"])
	assert.Equal(t, "", values["mood"])
}

func TestDefaultsRequiresSchema(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "--json", "defaults", "plain")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errReported))

	resp := decodeResponse(t, out)
	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrSchemaNotFound, resp.Error.Code)
}

func TestDefaultsRejectsUnknownFormat(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "defaults", "meeting", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestValidateValidDocument(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.vault, "meetings", "sync.md"), `---
status: draft
attendees: [alice]
priority: 3
due: 2026-02-01
room: B
---
# Sync
`)

	out, _, err := env.run(t, "validate", "meeting", "meetings/sync.md", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "matches meeting")
}

func TestValidateReportsFieldMessages(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.vault, "bad.md"), `---
status: archived
attendees: [alice, 3]
priority: 2.5
---
`)

	out, _, err := env.run(t, "validate", "meeting", "bad.md")
	require.Error(t, err)
	assert.Contains(t, out, "Must be one of: draft, published")
	assert.Contains(t, out, "Item 2: Must be a string")
	assert.Contains(t, out, "Must be an integer")
	assert.Contains(t, out, "(3 problems)")
}

func TestValidateStrictJSON(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.vault, "early.md"), `---
status: draft
attendees: [alice]
priority: 2
due: 2025-06-01
---
`)

	// The field check does not enforce date bounds; strict mode does.
	_, _, err := env.run(t, "validate", "meeting", "early.md")
	require.NoError(t, err)

	out, _, err := env.run(t, "--json", "validate", "meeting", "early.md", "--strict")
	require.ErrorIs(t, err, errReported)

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrValidationFailed, resp.Error.Code)
	details := resp.Error.Details.(map[string]any)
	issues := details["issues"].([]any)
	require.Len(t, issues, 1)
	issue := issues[0].(map[string]any)
	assert.Equal(t, "too_small", issue["code"])
	assert.Equal(t, []any{"due"}, issue["path"])
}

func TestValidateMissingDocument(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "--json", "validate", "meeting", "nope.md")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, ErrFileNotFound, decodeResponse(t, out).Error.Code)
}

func TestNewCreatesDocument(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "--json", "new", "meeting", "Team Sync", "--path", "meetings/", "--field", "priority=4")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	require.True(t, resp.OK)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "meetings/team-sync.md", data["path"])
	values := data["values"].(map[string]any)
	assert.Equal(t, float64(4), values["priority"])

	content, err := os.ReadFile(filepath.Join(env.vault, "meetings", "team-sync.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Team Sync")
	assert.NotContains(t, string(content), "schema:")

	// The new document validates against its own template.
	_, _, err = env.run(t, "validate", "meeting", "meetings/team-sync.md")
	require.Error(t, err, "attendees starts empty and minItems is 1")
}

func TestNewDocumentWithEmptyOptionalFieldsPassesStrict(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.vault, "templates", "contact.md"), `---
schema:
  fields:
    email:
      type: string
      format: email
      optional: true
    note:
      type: string
      minLength: 3
      optional: true
---
# {{title}}
`)

	_, _, err := env.run(t, "new", "contact", "Ada")
	require.NoError(t, err)

	out, _, err := env.run(t, "validate", "contact", "ada.md")
	require.NoError(t, err)
	assert.Contains(t, out, "matches contact")

	out, _, err = env.run(t, "validate", "contact", "ada.md", "--strict")
	require.NoError(t, err, out)
	assert.Contains(t, out, "matches contact")
}

func TestNewWarnsWhenTemplateHasNoSchema(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "--json", "new", "plain", "Loose Note")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	require.True(t, resp.OK)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, WarnNoSchema, resp.Warnings[0].Code)
	assert.Contains(t, resp.Warnings[0].Message, "templates/plain.md")
	assert.Equal(t, "loose-note.md", resp.Data.(map[string]any)["path"])
}

func TestNewRefusesOverwrite(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "new", "review", "Dune")
	require.NoError(t, err)

	out, _, err := env.run(t, "--json", "new", "review", "Dune")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, ErrFileExists, decodeResponse(t, out).Error.Code)
}

func TestNewDryRun(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "new", "review", "Dune", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would create dune.md")
	assert.Contains(t, out, "rating: 0")
	_, statErr := os.Stat(filepath.Join(env.vault, "dune.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewRejectsBadFieldFlag(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "new", "review", "Dune", "--field", "rating")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected name=value")
}

func TestTemplateNotFound(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "--json", "schema", "show", "missing")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, ErrTemplateNotFound, decodeResponse(t, out).Error.Code)
}

func TestVaultNotSpecified(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := runCLI(t, "--config", env.config, "--json", "schema", "show", "meeting")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, ErrVaultNotSpecified, decodeResponse(t, out).Error.Code)
}

func TestVaultFromConfig(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, env.config, "vault = \""+filepath.ToSlash(env.vault)+"\"\n")

	out, _, err := runCLI(t, "--config", env.config, "schema", "show", "meeting")
	require.NoError(t, err)
	assert.Contains(t, out, "status")
}

func TestInvalidLogLevel(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestDocs(t *testing.T) {
	out, _, err := runCLI(t, "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "sdl")
	assert.Contains(t, out, "templates")

	out, _, err = runCLI(t, "docs", "SDL", "--raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Schema definition language"))

	out, _, err = runCLI(t, "--json", "docs", "nope")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, ErrTopicNotFound, decodeResponse(t, out).Error.Code)
}

func TestConfigInitAndPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "folio", "config.toml")

	out, _, err := runCLI(t, "--config", p, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, p+"\n", out)

	out, _, err = runCLI(t, "--config", p, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	_, err = os.Stat(p)
	require.NoError(t, err)

	out, _, err = runCLI(t, "--config", p, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, _, err = runCLI(t, "--config", p, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `template_dir = "templates/"`)
}

func TestMissingExplicitConfig(t *testing.T) {
	_, _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "docs")
	require.Error(t, err)
}

func TestWatchRejectsBadDirectory(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "--json", "watch", "meeting", "../elsewhere")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, ErrFileOutsideVault, decodeResponse(t, out).Error.Code)

	out, _, err = env.run(t, "--json", "watch", "meeting", "missing/")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, ErrFileNotFound, decodeResponse(t, out).Error.Code)
}

func TestCheckDocumentWarnsOnUnknownFields(t *testing.T) {
	tmpl := &loadedTemplate{Name: "meeting", Path: "templates/meeting.md"}

	result, warnings, err := checkDocument(newLogger(&bytes.Buffer{}, slog.LevelInfo), tmpl, "a.md", "---\nextra: 1\n---\n", false)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnUnknownField, warnings[0].Code)
	assert.Equal(t, "extra", warnings[0].Field)
}
