package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/folio/internal/compiler"
	"github.com/aidanlsb/folio/internal/ctxlog"
	"github.com/aidanlsb/folio/internal/ui"
)

const jsonSchemaDialect = "https://json-schema.org/draft/2020-12/schema"

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the schema declared by a template",
		Long: `Inspect the schema declared by a template.

Examples:
  folio schema show meeting
  folio schema json meeting > meeting.schema.json
  folio schema doc meeting --html > meeting.html`,
	}
	cmd.AddCommand(newSchemaShowCmd(a), newSchemaJSONCmd(a), newSchemaDocCmd(a))
	return cmd
}

func newSchemaShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <template>",
		Short: "List the fields declared by a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			tmpl, err := a.loadTemplate(cmd.Context(), out, args[0], true)
			if err != nil {
				return err
			}

			rows := flattenFields("", tmpl.Fields)
			if out.json {
				out.success(map[string]any{
					"template": tmpl.Path,
					"fields":   tmpl.Fields,
					"rows":     rows,
				}, nil, &Meta{Count: len(tmpl.Fields)})
				return nil
			}

			out.printf("%s %s\n\n", ui.Header(tmpl.Name), ui.Hint(tmpl.Path))
			table := ui.NewTable(5)
			table.SetHeader("FIELD", "TYPE", "REQUIRED", "CONSTRAINTS", "DESCRIPTION")
			for _, r := range rows {
				required := "no"
				if r.Required {
					required = "yes"
				}
				constraints := r.Constraints
				if r.Default != "" {
					constraints = strings.TrimPrefix(constraints+", default "+r.Default, ", ")
				}
				table.AddRow(ui.FieldName(r.Path), r.Type, required, constraints, r.Description)
			}
			out.printf("%s", table.String())
			return nil
		},
	}
}

func newSchemaJSONCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "json <template>",
		Short: "Export a template schema as JSON Schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			tmpl, err := a.loadTemplate(cmd.Context(), out, args[0], true)
			if err != nil {
				return err
			}

			validator := (&compiler.Compiler{Logger: ctxlog.FromContext(cmd.Context())}).Compile(tmpl.SDL)
			doc := validator.JSONSchema()
			doc.Schema = jsonSchemaDialect
			doc.Title = tmpl.Name

			if out.json {
				out.success(doc, nil, nil)
				return nil
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return out.failErr(ErrInternal, err, "")
			}
			out.printf("%s\n", data)
			return nil
		},
	}
}

func newSchemaDocCmd(a *app) *cobra.Command {
	var html, raw bool

	cmd := &cobra.Command{
		Use:   "doc <template>",
		Short: "Render a field reference for a template",
		Long: `Render a markdown field reference for a template.

The reference is rendered for the terminal when stdout is a TTY, printed
as markdown with --raw or when piped, and converted to HTML with --html.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			tmpl, err := a.loadTemplate(cmd.Context(), out, args[0], true)
			if err != nil {
				return err
			}

			md := schemaMarkdown(tmpl)
			switch {
			case out.json:
				out.success(map[string]any{"template": tmpl.Path, "markdown": md}, nil, nil)
				return nil
			case html:
				rendered, err := ui.RenderHTML(md)
				if err != nil {
					return out.failErr(ErrInternal, err, "")
				}
				out.printf("%s", rendered)
				return nil
			case raw || !isTerminal(out.w):
				out.printf("%s", md)
				return nil
			}

			rendered, err := ui.RenderMarkdown(md, termWidth(out.w))
			if err != nil {
				return out.failErr(ErrInternal, err, "")
			}
			out.printf("%s", rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Render as HTML")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal rendering")
	return cmd
}

// schemaMarkdown builds the markdown field reference for a template.
func schemaMarkdown(tmpl *loadedTemplate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tmpl.Name)
	fmt.Fprintf(&b, "Template: `%s`\n\n", tmpl.Path)
	b.WriteString("| Field | Type | Required | Constraints | Default | Description |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range flattenFields("", tmpl.Fields) {
		required := "no"
		if r.Required {
			required = "yes"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s | %s |\n",
			r.Path, r.Type, required, escapeCell(r.Constraints), escapeCell(r.Default), escapeCell(r.Description))
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
