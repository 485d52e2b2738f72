// Package template loads document templates from the vault and substitutes
// {{variable}} placeholders.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aidanlsb/folio/internal/dates"
	"github.com/aidanlsb/folio/internal/paths"
)

// ErrNotFound is returned by Load when the template file does not exist.
var ErrNotFound = errors.New("template not found")

// Variables holds the available template variables for substitution.
type Variables struct {
	// Title is the title passed to folio new
	Title string
	// Slug is the slugified title
	Slug string
	// Template is the template name without directory or extension
	Template string
	// Date is the creation date (YYYY-MM-DD)
	Date string
	// Datetime is the creation datetime (YYYY-MM-DDTHH:MM)
	Datetime string
	Year     string
	Month    string
	Day      string
	// Weekday is the day name (Monday, Tuesday, etc.)
	Weekday string
	// Fields are values from --field flags
	Fields map[string]string
}

// NewVariables creates Variables for a document created at now.
func NewVariables(title, slug, templateName string, now time.Time, fields map[string]string) *Variables {
	if fields == nil {
		fields = make(map[string]string)
	}
	return &Variables{
		Title:    title,
		Slug:     slug,
		Template: templateName,
		Date:     now.Format(dates.DateLayout),
		Datetime: now.Format(dates.DatetimeLayout),
		Year:     now.Format("2006"),
		Month:    now.Format("01"),
		Day:      now.Format("02"),
		Weekday:  now.Weekday().String(),
		Fields:   fields,
	}
}

// Name returns the template name for a file reference: the base name
// without the ".md" extension.
func Name(ref string) string {
	return strings.TrimSuffix(filepath.Base(filepath.ToSlash(ref)), ".md")
}

// Load reads a template from the vault. templateDir is the normalized
// template directory (see paths.NormalizeDirRoot); bare names resolve under
// it and may omit the ".md" extension. It returns the vault-relative path
// alongside the content.
func Load(vaultPath, ref, templateDir string) (string, string, error) {
	if strings.Contains(ref, "\n") {
		return "", "", fmt.Errorf("inline template content is not supported; use a template file path")
	}

	rel, err := ResolveFileRef(ref, templateDir)
	if err != nil {
		return "", "", err
	}

	fullPath := filepath.Join(vaultPath, filepath.FromSlash(rel))
	if err := paths.ValidateWithinVault(vaultPath, fullPath); err != nil {
		return "", "", fmt.Errorf("template file must be within vault")
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", rel, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return "", rel, fmt.Errorf("read template %s: %w", rel, err)
	}
	return string(content), rel, nil
}

func normalizeFileRef(filePath string) (string, error) {
	trimmed := strings.TrimSpace(filePath)
	trimmed = strings.ReplaceAll(trimmed, "\\", "/")
	if trimmed == "" {
		return "", fmt.Errorf("template reference must be a non-empty file path")
	}
	normalized := filepath.ToSlash(filepath.Clean(trimmed))
	normalized = paths.NormalizeRelPath(normalized)
	if normalized == "" || normalized == "." {
		return "", fmt.Errorf("template reference must be a non-empty file path")
	}
	if normalized == ".." || strings.HasPrefix(normalized, "../") {
		return "", fmt.Errorf("template file path cannot escape the vault")
	}
	return normalized, nil
}

// ResolveFileRef normalizes a template reference and enforces the template
// directory policy. Bare filenames are resolved under templateDir.
func ResolveFileRef(filePath, templateDir string) (string, error) {
	normalized, err := normalizeFileRef(filePath)
	if err != nil {
		return "", err
	}
	normalized = paths.EnsureMarkdown(normalized)
	if templateDir != "" && !strings.Contains(normalized, "/") {
		normalized = templateDir + normalized
	}
	if templateDir != "" && !strings.HasPrefix(normalized, templateDir) {
		return "", fmt.Errorf("template file must be under %q: got %q", templateDir, normalized)
	}
	return normalized, nil
}

// Apply substitutes template variables in the content.
// Variables use {{name}} syntax. Unknown variables are left as-is.
// Escaped variables \{{name}} are converted to literal {{name}}.
// Inside {% ... %} directives values are JSON string escaped so a schema
// payload stays valid JSON.
func Apply(content string, vars *Variables) string {
	if content == "" || vars == nil {
		return content
	}

	content = strings.ReplaceAll(content, "\\{{", "«FOLIO_ESC_OPEN»")
	content = strings.ReplaceAll(content, "\\}}", "«FOLIO_ESC_CLOSE»")

	plain := vars.replacer(func(s string) string { return s })
	directive := vars.replacer(jsonEscape)

	var b strings.Builder
	for {
		start := strings.Index(content, "{%")
		if start < 0 {
			break
		}
		end := strings.Index(content[start:], "%}")
		if end < 0 {
			break
		}
		end += start + len("%}")
		b.WriteString(plain.Replace(content[:start]))
		b.WriteString(directive.Replace(content[start:end]))
		content = content[end:]
	}
	b.WriteString(plain.Replace(content))

	out := strings.ReplaceAll(b.String(), "«FOLIO_ESC_OPEN»", "{{")
	return strings.ReplaceAll(out, "«FOLIO_ESC_CLOSE»", "}}")
}

func (v *Variables) replacer(escape func(string) string) *strings.Replacer {
	pairs := []string{
		"{{title}}", escape(v.Title),
		"{{slug}}", escape(v.Slug),
		"{{template}}", escape(v.Template),
		"{{date}}", escape(v.Date),
		"{{datetime}}", escape(v.Datetime),
		"{{year}}", escape(v.Year),
		"{{month}}", escape(v.Month),
		"{{day}}", escape(v.Day),
		"{{weekday}}", escape(v.Weekday),
	}
	for name, value := range v.Fields {
		pairs = append(pairs, "{{field."+name+"}}", escape(value))
	}
	return strings.NewReplacer(pairs...)
}

func jsonEscape(s string) string {
	quoted, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(quoted[1 : len(quoted)-1])
}
