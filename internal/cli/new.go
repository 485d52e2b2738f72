package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/folio/internal/ctxlog"
	"github.com/aidanlsb/folio/internal/pages"
	"github.com/aidanlsb/folio/internal/template"
	"github.com/aidanlsb/folio/internal/ui"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		targetPath string
		fieldFlags []string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "new <template> <title>",
		Short: "Create a document from a template",
		Long: `Creates a new document from a template.

The front matter holds the initial value of every field the template's
schema declares, followed by the template's own front matter keys and any
--field values. The schema declaration itself is not copied.

Examples:
  folio new meeting "Team Sync"                   # Creates team-sync.md
  folio new meeting "Team Sync" --path meetings/  # Creates meetings/team-sync.md
  folio new review "Dune" --field rating=5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			title := strings.TrimSpace(args[1])
			if title == "" {
				return out.fail(ErrMissingArgument, "title cannot be empty", "", nil)
			}

			fields, err := parseFieldFlags(fieldFlags)
			if err != nil {
				return out.failErr(ErrInvalidInput, err, "Use --field name=value")
			}

			vaultPath, err := a.resolveVault(out)
			if err != nil {
				return err
			}

			target := targetPath
			if strings.HasSuffix(target, "/") {
				target += title
			}

			result, err := pages.Create(pages.CreateOptions{
				VaultPath:   vaultPath,
				TemplateDir: a.templateDir(),
				Template:    args[0],
				Title:       title,
				TargetPath:  target,
				Fields:      fields,
				Clock:       a.clock,
				DryRun:      dryRun,
				Logger:      ctxlog.FromContext(cmd.Context()),
			})
			if err != nil {
				switch {
				case errors.Is(err, pages.ErrExists):
					return out.failErr(ErrFileExists, err, "Choose another title or --path")
				case errors.Is(err, template.ErrNotFound):
					return out.failErr(ErrTemplateNotFound, err, "")
				case strings.Contains(err.Error(), "outside vault"):
					return out.failErr(ErrFileOutsideVault, err, "")
				}
				return out.failErr(ErrFileWriteError, err, "")
			}

			var warnings []Warning
			if len(result.Schema) == 0 {
				warnings = append(warnings, Warning{
					Code:    WarnNoSchema,
					Message: "template " + result.TemplatePath + " declares no schema",
				})
			}

			if out.json {
				out.success(map[string]any{
					"path":     result.RelativePath,
					"template": result.TemplatePath,
					"keys":     result.Keys,
					"values":   pages.PlainValue(result.Values),
					"dry_run":  dryRun,
				}, warnings, nil)
				return nil
			}

			for _, w := range warnings {
				out.println(ui.Warning(w.Message))
			}
			if dryRun {
				out.printf("%s\n\n%s", ui.Hint("would create "+result.RelativePath), result.Content)
				return nil
			}
			out.println(ui.Successf("Created %s", ui.FilePath(result.RelativePath)))
			return nil
		},
	}
	cmd.Flags().StringVar(&targetPath, "path", "", "Vault-relative path for the document (a trailing / means a directory)")
	cmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "Set a front matter field: name=value (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the document instead of writing it")
	return cmd
}
