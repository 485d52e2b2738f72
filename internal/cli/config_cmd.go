package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/folio/internal/config"
	"github.com/aidanlsb/folio/internal/ui"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the folio config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Print the config file path",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfig: "optional"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			p := a.resolvedConfigPath()
			if out.json {
				out.success(map[string]any{"path": p}, nil, nil)
				return nil
			}
			out.println(p)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "init",
		Short:       "Write a commented default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfig: "optional"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			p := a.resolvedConfigPath()
			created, err := config.CreateDefault(p)
			if err != nil {
				return out.failErr(ErrFileWriteError, err, "")
			}
			if out.json {
				out.success(map[string]any{"path": p, "created": created}, nil, nil)
				return nil
			}
			if created {
				out.println(ui.Successf("Created %s", ui.FilePath(p)))
			} else {
				out.println(ui.Infof("%s already exists", ui.FilePath(p)))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.out(cmd)
			cfg := *a.cfg
			cfg.TemplateDir = cfg.TemplateDirectory()
			if out.json {
				out.success(cfg, nil, nil)
				return nil
			}
			if err := toml.NewEncoder(out.w).Encode(cfg); err != nil {
				return out.failErr(ErrInternal, err, "")
			}
			return nil
		},
	})

	return cmd
}

func (a *app) resolvedConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.DefaultPath()
}
