package cli

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/aidanlsb/folio/docs"
	"github.com/aidanlsb/folio/internal/slugs"
	"github.com/aidanlsb/folio/internal/ui"
)

const docsRoot = "reference"

type docsTopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

func newDocsCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Read the bundled reference",
		Long: `Lists the bundled reference topics, or prints one.

Examples:
  folio docs
  folio docs sdl
  folio docs templates --raw`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			topics, err := listDocsTopicsFS(builtindocs.FS, docsRoot)
			if err != nil {
				return out.failErr(ErrInternal, err, "")
			}

			if len(args) == 0 {
				if out.json {
					out.success(map[string]any{"topics": topics}, nil, &Meta{Count: len(topics)})
					return nil
				}
				table := ui.NewTable(2)
				for _, t := range topics {
					table.AddRow(ui.FieldName(t.ID), t.Title)
				}
				out.printf("%s\n%s\n%s\n", ui.Header("Topics"), table.String(), ui.Hint("Run 'folio docs <topic>' to read one."))
				return nil
			}

			topic, ok := findDocsTopic(topics, args[0])
			if !ok {
				ids := make([]string, len(topics))
				for i, t := range topics {
					ids[i] = t.ID
				}
				return out.fail(ErrTopicNotFound, fmt.Sprintf("unknown docs topic %q", args[0]),
					"Available topics: "+strings.Join(ids, ", "), nil)
			}

			content, err := fs.ReadFile(builtindocs.FS, topic.Path)
			if err != nil {
				return out.failErr(ErrInternal, err, "")
			}

			switch {
			case out.json:
				out.success(map[string]any{"topic": topic, "content": string(content)}, nil, nil)
				return nil
			case raw || !isTerminal(out.w):
				out.printf("%s", content)
				return nil
			}
			rendered, err := ui.RenderMarkdown(string(content), termWidth(out.w))
			if err != nil {
				return out.failErr(ErrInternal, err, "")
			}
			out.printf("%s", rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal rendering")
	return cmd
}

func listDocsTopicsFS(docsFS fs.FS, root string) ([]docsTopic, error) {
	entries, err := fs.ReadDir(docsFS, root)
	if err != nil {
		return nil, err
	}
	var topics []docsTopic
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		p := path.Join(root, e.Name())
		id := strings.TrimSuffix(e.Name(), ".md")
		topics = append(topics, docsTopic{
			ID:    id,
			Title: extractDocsTitleFS(docsFS, p, id),
			Path:  p,
		})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

func extractDocsTitleFS(docsFS fs.FS, p, fallback string) string {
	data, err := fs.ReadFile(docsFS, p)
	if err != nil {
		return fallback
	}
	for _, line := range strings.Split(string(data), "\n") {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return fallback
}

func findDocsTopic(topics []docsTopic, raw string) (docsTopic, bool) {
	want := slugs.ComponentSlug(strings.TrimSpace(raw))
	for _, t := range topics {
		if t.ID == want {
			return t, true
		}
	}
	return docsTopic{}, false
}
