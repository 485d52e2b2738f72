package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/folio/internal/pages"
	"github.com/aidanlsb/folio/internal/schema"
)

func newDefaultsCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "defaults <template>",
		Short: "Print the initial front matter for a template",
		Long: `Print the initial value of every field a template declares: the declared
default, or an empty value of the field's type. Dates start as today.

Examples:
  folio defaults meeting
  folio defaults meeting --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			if format != "yaml" && format != "json" {
				return out.fail(ErrInvalidInput, fmt.Sprintf("unknown format %q", format), "Use --format yaml or --format json", nil)
			}

			tmpl, err := a.loadTemplate(cmd.Context(), out, args[0], true)
			if err != nil {
				return err
			}

			values := schema.InitialValues(tmpl.Fields, a.clock)
			keys := tmpl.Fields.Names()

			if out.json {
				out.success(map[string]any{
					"template": tmpl.Path,
					"keys":     keys,
					"values":   pages.PlainValue(values),
				}, nil, &Meta{Count: len(keys)})
				return nil
			}

			if format == "json" {
				data, err := json.MarshalIndent(pages.PlainValue(values), "", "  ")
				if err != nil {
					return out.failErr(ErrInternal, err, "")
				}
				out.printf("%s\n", data)
				return nil
			}

			data, err := pages.MarshalFrontmatter(keys, values)
			if err != nil {
				return out.failErr(ErrInternal, err, "")
			}
			out.printf("%s", data)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	return cmd
}
