package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/folio/internal/ctxlog"
	"github.com/aidanlsb/folio/internal/paths"
	"github.com/aidanlsb/folio/internal/ui"
	"github.com/aidanlsb/folio/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "watch <template> [dir]",
		Short: "Revalidate documents as they change",
		Long: `Watches a vault directory and validates each markdown document against
the template schema whenever it is written. Files in the template
directory are skipped. Removed documents are reported. Stop with Ctrl-C.

With --json every check is written as one response envelope.

Examples:
  folio watch meeting meetings/
  folio watch meeting --strict`,
		Args: cobra.RangeArgs(1, 2),
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
			if abs, err := filepath.Abs(vaultPath); err == nil {
				vaultPath = abs
			}

			dir := vaultPath
			if len(args) == 2 {
				dir = filepath.Join(vaultPath, filepath.FromSlash(args[1]))
				if err := paths.ValidateWithinVault(vaultPath, dir); err != nil {
					return out.failErr(ErrFileOutsideVault, err, "")
				}
				if st, err := os.Stat(dir); err != nil || !st.IsDir() {
					return out.fail(ErrFileNotFound, fmt.Sprintf("directory not found: %s", args[1]), "", nil)
				}
			}

			dw := &documentWatch{
				out:         out,
				logger:      logger,
				tmpl:        tmpl,
				vaultPath:   vaultPath,
				templateDir: a.templateDir(),
				strict:      strict,
			}
			w, err := watcher.New(watcher.Config{
				Root:     dir,
				Logger:   logger,
				OnChange: dw.changed,
				OnRemove: dw.removed,
			})
			if err != nil {
				return out.failErr(ErrInternal, err, "")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if !out.json {
				out.println(ui.Infof("watching %s against %s", ui.FilePath(w.Root()), tmpl.Name))
			}
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return out.failErr(ErrInternal, err, "")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Also run the compiled validator")
	return cmd
}

// documentWatch validates documents reported by the watcher.
type documentWatch struct {
	out         output
	logger      *slog.Logger
	tmpl        *loadedTemplate
	vaultPath   string
	templateDir string
	strict      bool
}

type removedResult struct {
	Document string `json:"document"`
	Removed  bool   `json:"removed"`
}

func (d *documentWatch) changed(path string) {
	rel, ok := d.relPath(path)
	if !ok {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		d.logger.Debug("skipping unreadable document", "path", rel, "error", err)
		return
	}
	result, warnings, err := checkDocument(d.logger, d.tmpl, rel, string(data), d.strict)
	if err != nil {
		if d.out.json {
			_ = d.out.fail(ErrInvalidValue, err.Error(), "", nil)
			return
		}
		d.out.println(ui.Error(err.Error()))
		return
	}
	if d.out.json {
		d.out.success(result, warnings, nil)
		return
	}
	printValidateResult(d.out, d.tmpl, result)
}

func (d *documentWatch) removed(path string) {
	rel, ok := d.relPath(path)
	if !ok {
		return
	}
	if d.out.json {
		d.out.success(removedResult{Document: rel, Removed: true}, nil, nil)
		return
	}
	d.out.println(ui.Infof("%s removed", ui.FilePath(rel)))
}

// relPath returns the vault-relative path of a watched file, or false for
// files inside the template directory.
func (d *documentWatch) relPath(path string) (string, bool) {
	rel, err := filepath.Rel(d.vaultPath, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	return rel, !inTemplateDir(rel, d.templateDir)
}

// inTemplateDir reports whether rel lies under templateDir. An empty
// templateDir is the vault root, which holds documents as well.
func inTemplateDir(rel, templateDir string) bool {
	return templateDir != "" && strings.HasPrefix(rel, templateDir)
}
