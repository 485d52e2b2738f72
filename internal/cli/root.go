package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/folio/internal/config"
	"github.com/aidanlsb/folio/internal/ctxlog"
	"github.com/aidanlsb/folio/internal/schema"
	"github.com/aidanlsb/folio/internal/ui"
)

// app holds global flags and the state resolved from them.
type app struct {
	// Global flags
	vaultName     string // Named vault from config
	vaultPathFlag string // Explicit path
	configPath    string
	logLevel      string
	jsonOutput    bool

	cfg   *config.Config
	clock schema.Clock
}

// NewRootCmd builds the folio command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{clock: schema.SystemClock{}})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "folio - schema-driven markdown documents",
		Long: `folio reads schemas declared in markdown templates and uses them to
create documents with sensible initial values and to validate the front
matter of existing documents.

Templates live in the vault's template directory (templates/ by default).
Run 'folio docs' for the schema reference.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVarP(&a.vaultName, "vault", "v", "", "Named vault from config")
	rootCmd.PersistentFlags().StringVar(&a.vaultPathFlag, "vault-path", "", "Explicit path to vault directory")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format (for script use)")

	rootCmd.AddCommand(
		newSchemaCmd(a),
		newDefaultsCmd(a),
		newValidateCmd(a),
		newWatchCmd(a),
		newNewCmd(a),
		newDocsCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), ui.Error(err.Error()))
	}
	return err
}

// setup loads config, applies theming and installs the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	out := a.out(cmd)

	cfg, err := a.loadConfig(cmd.Annotations[annotationConfig] == "optional")
	if err != nil {
		return out.failErr(ErrConfigInvalid, err, "")
	}
	a.cfg = cfg
	ui.ConfigureTheme(cfg.UI.Accent)
	ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

	levelName := cfg.LogLevel
	if a.logLevel != "" {
		levelName = a.logLevel
	}
	level, err := config.ParseLevel(levelName)
	if err != nil {
		return out.failErr(ErrInvalidInput, err, "")
	}
	logger := newLogger(cmd.ErrOrStderr(), level)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	return nil
}

// annotationConfig marks commands that run without an existing config file.
const annotationConfig = "folio/config"

func (a *app) loadConfig(optional bool) (*config.Config, error) {
	if a.configPath == "" {
		return config.Load()
	}
	if _, err := os.Stat(a.configPath); err != nil {
		if optional && os.IsNotExist(err) {
			return &config.Config{}, nil
		}
		return nil, fmt.Errorf("config file %s: %w", a.configPath, err)
	}
	return config.LoadFrom(a.configPath)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (a *app) out(cmd *cobra.Command) output {
	return output{w: cmd.OutOrStdout(), json: a.jsonOutput}
}

// resolveVault returns the vault path: explicit path > named vault > config default.
func (a *app) resolveVault(out output) (string, error) {
	cfg := a.cfg
	if cfg == nil {
		cfg = &config.Config{}
	}

	var vaultPath string
	switch {
	case a.vaultPathFlag != "":
		vaultPath = a.vaultPathFlag
	case a.vaultName != "":
		p, err := cfg.GetVaultPath(a.vaultName)
		if err != nil {
			return "", out.fail(ErrVaultNotFound, fmt.Sprintf("vault '%s' not found", a.vaultName), "Check the [vaults] table in your config", nil)
		}
		vaultPath = p
	default:
		p, err := cfg.GetVaultPath("")
		if err != nil {
			return "", out.fail(ErrVaultNotSpecified, "no vault specified", strings.TrimSpace(`
Either:
  1. Use --vault-path /path/to/vault
  2. Use --vault <name> (from config)
  3. Set vault in ~/.config/folio/config.toml`), nil)
		}
		vaultPath = p
	}

	if st, err := os.Stat(vaultPath); err != nil || !st.IsDir() {
		return "", out.fail(ErrVaultNotFound, fmt.Sprintf("vault not found: %s", vaultPath), "", nil)
	}
	return vaultPath, nil
}

func (a *app) templateDir() string {
	if a.cfg == nil {
		return config.DefaultTemplateDir
	}
	return a.cfg.TemplateDirectory()
}
