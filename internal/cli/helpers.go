package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/aidanlsb/folio/internal/ctxlog"
	"github.com/aidanlsb/folio/internal/dates"
	"github.com/aidanlsb/folio/internal/pages"
	"github.com/aidanlsb/folio/internal/parser"
	"github.com/aidanlsb/folio/internal/schema"
	"github.com/aidanlsb/folio/internal/sdl"
	"github.com/aidanlsb/folio/internal/template"
	"github.com/aidanlsb/folio/internal/ui"
)

// loadedTemplate is a template read from the vault with its schema.
type loadedTemplate struct {
	Name    string
	Path    string // vault-relative
	Content string
	SDL     *sdl.Schema
	Fields  schema.Schema
}

// loadTemplate reads a template and extracts its schema. When requireSchema
// is set, a template without a schema is an error.
func (a *app) loadTemplate(ctx context.Context, out output, ref string, requireSchema bool) (*loadedTemplate, error) {
	vaultPath, err := a.resolveVault(out)
	if err != nil {
		return nil, err
	}

	content, rel, err := template.Load(vaultPath, ref, a.templateDir())
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			return nil, out.failErr(ErrTemplateNotFound, err, fmt.Sprintf("Templates are read from %s in the vault", a.templateDir()))
		}
		return nil, out.failErr(ErrTemplateInvalid, err, "")
	}

	logger := ctxlog.FromContext(ctx)
	declared := (&parser.Scanner{Logger: logger}).Extract(content)
	if declared == nil && requireSchema {
		return nil, out.fail(ErrSchemaNotFound, fmt.Sprintf("template %s declares no schema", rel),
			"Add a schema: key to the front matter or a {% set schema = {...} %} directive", nil)
	}

	return &loadedTemplate{
		Name:    template.Name(rel),
		Path:    rel,
		Content: content,
		SDL:     declared,
		Fields:  (&schema.Normalizer{Logger: logger}).Schema(declared),
	}, nil
}

// fieldRow is one flattened field for display.
type fieldRow struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Constraints string `json:"constraints,omitempty"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// flattenFields lists fields depth first. Array items are shown as
// "name[]", record values as "name.*".
func flattenFields(prefix string, fields []schema.Field) []fieldRow {
	var rows []fieldRow
	for _, f := range fields {
		rows = append(rows, flattenField(joinPath(prefix, f.Common().Name), f)...)
	}
	return rows
}

func flattenField(path string, f schema.Field) []fieldRow {
	b := f.Common()
	row := fieldRow{
		Path:        path,
		Type:        string(f.Type()),
		Required:    !b.IsOptional,
		Constraints: describeConstraints(f),
		Description: b.Description,
	}
	if b.HasDefault() {
		row.Default = formatValue(b.DefaultValue)
	}
	rows := []fieldRow{row}

	switch f := f.(type) {
	case *schema.ArrayField:
		if f.ItemType != nil {
			rows = append(rows, flattenField(path+"[]", f.ItemType)...)
		}
	case *schema.ObjectField:
		rows = append(rows, flattenFields(path, f.Properties)...)
	case *schema.RecordField:
		if f.ValueType != nil {
			rows = append(rows, flattenField(path+".*", f.ValueType)...)
		}
	}
	return rows
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// describeConstraints summarizes a field's constraints in one line.
func describeConstraints(f schema.Field) string {
	var parts []string
	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}

	switch f := f.(type) {
	case *schema.StringField:
		if f.MinLength != nil {
			add("minLength %d", *f.MinLength)
		}
		if f.MaxLength != nil {
			add("maxLength %d", *f.MaxLength)
		}
		if f.Format != "" {
			add("format %s", f.Format)
		}
		if f.FallbackFrom != "" {
			add("declared as %s", f.FallbackFrom)
		}
	case *schema.NumberField:
		if f.IsInteger {
			add("integer")
		}
		if f.IsPositive {
			add("positive")
		}
		if f.Min != nil {
			add("min %s", schemaNumber(*f.Min))
		}
		if f.Max != nil {
			add("max %s", schemaNumber(*f.Max))
		}
	case *schema.DateField:
		if f.Min != nil {
			add("from %s", f.Min.Format(dates.DateLayout))
		}
		if f.Max != nil {
			add("until %s", f.Max.Format(dates.DateLayout))
		}
	case *schema.ArrayField:
		if f.MinItems != nil {
			add("minItems %d", *f.MinItems)
		}
		if f.MaxItems != nil {
			add("maxItems %d", *f.MaxItems)
		}
	case *schema.EnumField:
		add("one of %s", strings.Join(f.Options, ", "))
	}
	return strings.Join(parts, ", ")
}

// formatValue renders a value the way it appears in front matter.
func formatValue(v any) string {
	v = pages.PlainValue(v)
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", t)
	case []any:
		items := make([]string, len(t))
		for i, item := range t {
			items[i] = formatValue(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]string, len(keys))
		for i, k := range keys {
			items[i] = k + ": " + formatValue(t[k])
		}
		return "{" + strings.Join(items, ", ") + "}"
	case float64:
		return schemaNumber(t)
	}
	return fmt.Sprint(v)
}

func schemaNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTerminal(f)
}

// termWidth returns the terminal width for w.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		return ui.NewDisplayContext(f).AvailableWidth(ui.MarkdownRenderMargin)
	}
	return ui.DefaultTermWidth
}

// parseFieldFlags turns repeated name=value flags into a map.
func parseFieldFlags(flags []string) (map[string]string, error) {
	fields := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --field %q: expected name=value", f)
		}
		fields[name] = value
	}
	return fields, nil
}
