package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/folio/internal/compiler"
	"github.com/aidanlsb/folio/internal/ctxlog"
	"github.com/aidanlsb/folio/internal/parser"
	"github.com/aidanlsb/folio/internal/schema"
	"github.com/aidanlsb/folio/internal/ui"
)

type validateResult struct {
	Template string                   `json:"template"`
	Document string                   `json:"document"`
	Valid    bool                     `json:"valid"`
	Errors   []schema.ValidationError `json:"errors,omitempty"`
	Issues   []compiler.Issue         `json:"issues,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <template> <document>",
		Short: "Check a document's front matter against a template schema",
		Long: `Check a document's front matter against the schema declared by a template.

Each failing field gets one message. With --strict the compiled validator
also runs and reports every failing check with its path and code.
The document path is read as given, or relative to the vault.

Examples:
  folio validate meeting meetings/team-sync.md
  folio validate meeting meetings/team-sync.md --strict --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			logger := ctxlog.FromContext(cmd.Context())

			tmpl, err := a.loadTemplate(cmd.Context(), out, args[0], true)
			if err != nil {
				return err
			}
			vaultPath, err := a.resolveVault(out)
			if err != nil {
				return err
			}

			docPath, content, err := readDocument(vaultPath, args[1])
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return out.fail(ErrFileNotFound, fmt.Sprintf("document not found: %s", args[1]), "", nil)
				}
				return out.failErr(ErrFileReadError, err, "")
			}

			result, warnings, err := checkDocument(logger, tmpl, docPath, content, strict)
			if err != nil {
				return out.failErr(ErrInvalidValue, err, "")
			}

			if out.json {
				if !result.Valid {
					return out.fail(ErrValidationFailed,
						fmt.Sprintf("%s does not match %s", docPath, tmpl.Path), "", result)
				}
				out.success(result, warnings, nil)
				return nil
			}

			printValidateResult(out, tmpl, result)
			if result.Valid {
				return nil
			}
			return fmt.Errorf("validation failed")
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Also run the compiled validator")
	return cmd
}

// checkDocument validates a document's front matter against tmpl. With
// strict set the compiled validator runs as well.
func checkDocument(logger *slog.Logger, tmpl *loadedTemplate, docPath, content string, strict bool) (validateResult, []Warning, error) {
	fm, err := parser.ParseFrontmatter(content)
	if err != nil {
		return validateResult{}, nil, fmt.Errorf("%s: %w", docPath, err)
	}
	raw := map[string]any{}
	if fm != nil {
		raw = fm.Fields
	}

	values := schema.Coerce(raw, tmpl.Fields)
	result := validateResult{
		Template: tmpl.Path,
		Document: docPath,
		Errors:   schema.Errors(schema.ValidateValues(values, tmpl.Fields)),
	}
	if strict {
		validator := (&compiler.Compiler{Logger: logger}).Compile(tmpl.SDL)
		if r := validator.SafeParse(values); !r.Success {
			result.Issues = r.Error.Issues
		}
	}
	result.Valid = len(result.Errors) == 0 && len(result.Issues) == 0

	warnings := unknownFieldWarnings(raw, tmpl.Fields)
	for _, w := range warnings {
		logger.Info("field not declared by template", "field", w.Field, "template", tmpl.Path)
	}
	return result, warnings, nil
}

func printValidateResult(out output, tmpl *loadedTemplate, result validateResult) {
	if result.Valid {
		out.println(ui.Successf("%s matches %s", ui.FilePath(result.Document), tmpl.Name))
		return
	}
	out.printf("%s %s\n", ui.FilePath(result.Document), ui.Count(len(result.Errors)+len(result.Issues), "problem", "problems"))
	for _, e := range result.Errors {
		out.println("  " + ui.Error(fmt.Sprintf("%s: %s", ui.FieldName(e.Field), e.Message)))
	}
	if len(result.Issues) > 0 {
		out.println(ui.Header("strict"))
		for _, issue := range result.Issues {
			out.println("  " + ui.Error(issue.String()) + " " + ui.Hint("("+issue.Code+")"))
		}
	}
}

// readDocument reads a document given as a path relative to the working
// directory or to the vault.
func readDocument(vaultPath, arg string) (string, string, error) {
	candidates := []string{arg}
	if !filepath.IsAbs(arg) {
		candidates = append(candidates, filepath.Join(vaultPath, arg))
	}
	var firstErr error
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err == nil {
			return filepath.ToSlash(arg), string(data), nil
		}
		if firstErr == nil || !errors.Is(err, os.ErrNotExist) {
			firstErr = err
		}
	}
	return "", "", firstErr
}

func unknownFieldWarnings(values map[string]any, fields schema.Schema) []Warning {
	var names []string
	for k := range values {
		if _, ok := fields.Field(k); !ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	warnings := make([]Warning, 0, len(names))
	for _, n := range names {
		warnings = append(warnings, Warning{
			Code:    WarnUnknownField,
			Message: fmt.Sprintf("field '%s' is not declared by the template", n),
			Field:   n,
		})
	}
	return warnings
}
