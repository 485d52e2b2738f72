// Package pages creates new documents from schema-bearing templates.
package pages

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/folio/internal/atomicfile"
	"github.com/aidanlsb/folio/internal/dates"
	"github.com/aidanlsb/folio/internal/parser"
	"github.com/aidanlsb/folio/internal/paths"
	"github.com/aidanlsb/folio/internal/schema"
	"github.com/aidanlsb/folio/internal/sdl"
	"github.com/aidanlsb/folio/internal/slugs"
	"github.com/aidanlsb/folio/internal/template"
)

// ErrExists is returned when the target document already exists.
var ErrExists = errors.New("document already exists")

// CreateOptions configures document creation.
type CreateOptions struct {
	// VaultPath is the root path of the vault.
	VaultPath string

	// TemplateDir is the directory bare template names resolve under.
	TemplateDir string

	// Template is the template reference (e.g. "meeting" or "templates/meeting.md").
	Template string

	// Title is the document title, used for {{title}} and the file name.
	Title string

	// TargetPath is an optional vault-relative path for the new file.
	// When empty, the slugified title is used at the vault root.
	TargetPath string

	// Fields are --field overrides. Values are decoded as YAML scalars.
	Fields map[string]string

	// Clock supplies the creation time. Defaults to schema.SystemClock.
	Clock schema.Clock

	// DryRun renders the document without writing it.
	DryRun bool

	Logger *slog.Logger
}

// CreateResult contains information about the created document.
type CreateResult struct {
	// FilePath is the absolute path to the created file.
	FilePath string

	// RelativePath is the path relative to the vault.
	RelativePath string

	// TemplatePath is the vault-relative template path that was used.
	TemplatePath string

	// Schema is the normalized schema found in the template (empty when absent).
	Schema schema.Schema

	// Keys lists the front matter keys in written order.
	Keys []string

	// Values holds the front matter values that were written.
	Values map[string]any

	// Content is the full rendered document.
	Content string
}

// Create renders a template into a new document and writes it.
func Create(opts CreateOptions) (*CreateResult, error) {
	if opts.VaultPath == "" {
		return nil, fmt.Errorf("vault path is required")
	}
	if strings.TrimSpace(opts.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = schema.SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	raw, templatePath, err := template.Load(opts.VaultPath, opts.Template, opts.TemplateDir)
	if err != nil {
		return nil, err
	}

	relPath := ResolveTargetPath(opts.TargetPath, opts.Title)
	filePath := filepath.Join(opts.VaultPath, filepath.FromSlash(relPath))
	if err := paths.ValidateWithinVault(opts.VaultPath, filePath); err != nil {
		return nil, fmt.Errorf("cannot create file outside vault")
	}
	if _, err := os.Stat(filePath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, relPath)
	}

	now := clock.Now()
	vars := template.NewVariables(opts.Title, slugs.ComponentSlug(opts.Title), template.Name(templatePath), now, opts.Fields)
	applied := template.Apply(raw, vars)

	scanner := &parser.Scanner{Logger: logger}
	sch := (&schema.Normalizer{Logger: logger}).Schema(scanner.Extract(applied))

	keys, values, body, err := assemble(applied, opts.Title, sch, schema.FixedClock(now), opts.Fields)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", templatePath, err)
	}
	if strings.TrimSpace(body) == "" {
		body = fmt.Sprintf("# %s\n", opts.Title)
	}

	content, err := Render(keys, values, body)
	if err != nil {
		return nil, err
	}

	result := &CreateResult{
		FilePath:     filePath,
		RelativePath: relPath,
		TemplatePath: templatePath,
		Schema:       sch,
		Keys:         keys,
		Values:       values,
		Content:      content,
	}
	if opts.DryRun {
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := atomicfile.WriteNew(filePath, []byte(content), 0o644); err != nil {
		if errors.Is(err, atomicfile.ErrExists) {
			return nil, fmt.Errorf("%w: %s", ErrExists, relPath)
		}
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	logger.Debug("created document", "path", relPath, "template", templatePath, "fields", len(keys))
	return result, nil
}

// ResolveTargetPath returns the vault-relative markdown path for a new
// document. An explicit target is slugified component-wise; otherwise the
// title is slugified into a root-level file name.
func ResolveTargetPath(target, title string) string {
	p := target
	if strings.TrimSpace(p) == "" {
		p = title
	}
	return paths.EnsureMarkdown(slugs.PathSlug(paths.NormalizeRelPath(p)))
}

// assemble builds the front matter for a new document: schema initial
// values in declaration order, overlaid by the template's own front matter
// keys, then by explicit field overrides. A declared string field named
// "title" starts out as the document title. It also returns the body with
// the schema declaration removed.
func assemble(applied, title string, sch schema.Schema, clock schema.Clock, overrides map[string]string) ([]string, map[string]any, string, error) {
	values := schema.InitialValues(sch, clock)
	keys := sch.Names()
	if f, ok := sch.Field("title"); ok && f.Type() == sdl.TypeString && !f.Common().HasDefault() {
		values["title"] = title
	}

	set := func(k string, v any) {
		if _, ok := values[k]; !ok {
			keys = append(keys, k)
		}
		values[k] = v
	}

	stripped := parser.StripSchemaBlock(applied)
	body := stripped
	fm, err := parser.ParseFrontmatter(stripped)
	switch {
	case err != nil && len(sch) > 0:
		// The schema came from a directive; drop the broken block.
		body = bodyAfterFrontmatter(stripped)
	case err != nil:
		return nil, nil, "", err
	case fm != nil:
		for _, k := range fm.Keys {
			set(k, fm.Fields[k])
		}
		body = fm.Body
	}

	for _, k := range sortedKeys(overrides) {
		set(k, fieldValue(overrides[k]))
	}

	return keys, values, strings.TrimLeft(body, "\n"), nil
}

func bodyAfterFrontmatter(text string) string {
	lines := strings.Split(text, "\n")
	_, end, ok := parser.FrontmatterBounds(lines)
	if !ok || end < 0 {
		return text
	}
	return strings.Join(lines[end+1:], "\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fieldValue decodes a --field value as a YAML scalar so numbers and
// booleans keep their type. Anything that does not decode stays a string.
func fieldValue(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	switch v.(type) {
	case map[string]any, []any:
		return raw
	}
	return v
}

// Render serializes ordered front matter and a body into a markdown document.
func Render(keys []string, values map[string]any, body string) (string, error) {
	var b strings.Builder
	if len(keys) > 0 {
		out, err := MarshalFrontmatter(keys, values)
		if err != nil {
			return "", err
		}
		b.WriteString("---\n")
		b.Write(out)
		b.WriteString("---\n\n")
	}
	b.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	return b.String(), nil
}

// MarshalFrontmatter encodes values as a YAML mapping with keys in the
// given order.
func MarshalFrontmatter(keys []string, values map[string]any) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var v yaml.Node
		if err := v.Encode(PlainValue(values[k])); err != nil {
			return nil, fmt.Errorf("encode front matter key %q: %w", k, err)
		}
		mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &v)
	}
	out, err := yaml.Marshal(mapping)
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	return out, nil
}

// PlainValue converts a value into its front matter spelling.
// Dates are written as YYYY-MM-DD.
func PlainValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(dates.DateLayout)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.Format(dates.DateLayout)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = PlainValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = PlainValue(item)
		}
		return out
	}
	return v
}
