// Package testutil provides reusable test utilities for folio integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVault represents a temporary vault for testing.
type TestVault struct {
	Path string
	t    *testing.T

	templateDir string
	config      string
	files       map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:           t,
		templateDir: "templates",
		files:       make(map[string]string),
	}
}

// WithTemplate adds a template under the template directory. The ".md"
// extension is added to name.
func (v *TestVault) WithTemplate(name, content string) *TestVault {
	v.files[filepath.Join(v.templateDir, name+".md")] = content
	return v
}

// WithFile adds a file to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithConfig sets the content of the config file passed to every CLI run.
func (v *TestVault) WithConfig(toml string) *TestVault {
	v.config = toml
	return v
}

// Build creates the vault directory and all configured files.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = v.t.TempDir()
	for path, content := range v.files {
		v.writeFile(path, content)
	}
	return v
}

// ConfigPath returns the config file used for CLI runs, writing it on
// first use outside the vault.
func (v *TestVault) ConfigPath() string {
	v.t.Helper()
	p := filepath.Join(filepath.Dir(v.Path), filepath.Base(v.Path)+"-config.toml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	if err := os.WriteFile(p, []byte(v.config), 0o644); err != nil {
		v.t.Fatalf("failed to write config %s: %v", p, err)
	}
	v.t.Cleanup(func() { os.Remove(p) })
	return p
}

// writeFile writes a file to the vault, creating directories as needed.
func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// WriteFile writes a file into an already built vault.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	v.writeFile(relPath, content)
}

// ReadFile reads a file from the vault.
// Returns the content as a string.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// MeetingTemplate returns a template declaring a schema in its front matter.
func MeetingTemplate() string {
	return `---
schema:
  fields:
    status:
      type: enum
      options: [draft, published]
    attendees:
      type: array
      items:
        type: string
    priority:
      type: number
      integer: true
      default: 2
    due:
      type: date
      optional: true
---
# {{title}}
`
}

// ReviewTemplate returns a template declaring its schema with a directive.
func ReviewTemplate() string {
	return `{% set schema = {"rating": {"type": "number", "min": 1, "max": 5, "default": 3}, "tags": {"type": "array", "items": {"type": "string"}}} %}
# {{title}}

{{date}}
`
}
