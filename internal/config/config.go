// Package config handles global folio configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/folio/internal/atomicfile"
	"github.com/aidanlsb/folio/internal/paths"
)

// DefaultTemplateDir is used when template_dir is not configured.
const DefaultTemplateDir = "templates/"

// Config represents the global folio configuration.
type Config struct {
	// DefaultVault is the name of the default vault (from Vaults map).
	DefaultVault string `toml:"default_vault" json:"default_vault,omitempty"`

	// Vault is a single vault path, used when no named vaults are configured.
	Vault string `toml:"vault" json:"vault,omitempty"`

	// Vaults is a map of vault names to paths.
	Vaults map[string]string `toml:"vaults" json:"vaults,omitempty"`

	// TemplateDir is the vault-relative directory holding templates.
	TemplateDir string `toml:"template_dir" json:"template_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" json:"log_level,omitempty"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui" json:"ui,omitempty"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent" json:"accent,omitempty"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	// Example values: "monokai", "dracula", "github", "nord".
	CodeTheme string `toml:"code_theme" json:"code_theme,omitempty"`
}

// GetVaultPath returns the path for a named vault.
// If name is empty, returns the default vault path.
func (c *Config) GetVaultPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultVault
	}

	if (name == "" || name == "default") && c.Vault != "" {
		if _, named := c.Vaults[name]; !named {
			return c.Vault, nil
		}
	}

	if path, ok := c.Vaults[name]; ok {
		return path, nil
	}

	if name == "" {
		return "", fmt.Errorf("no default vault configured")
	}
	return "", fmt.Errorf("vault '%s' not found in config", name)
}

// TemplateDirectory returns the normalized template directory.
func (c *Config) TemplateDirectory() string {
	if strings.TrimSpace(c.TemplateDir) == "" {
		return DefaultTemplateDir
	}
	return paths.NormalizeDirRoot(c.TemplateDir)
}

// Level returns the configured log level, defaulting to warn.
func (c *Config) Level() (slog.Level, error) {
	return ParseLevel(c.LogLevel)
}

// ParseLevel parses a log level name. The empty string means warn.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q: use debug, info, warn, or error", s)
	}
	return level, nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("unknown config keys", "path", path, "keys", strings.Join(keys, ", "))
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/folio/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "folio", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "folio", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

const defaultConfig = `# folio configuration

# Vault used when --vault-path is not given.
# vault = "/path/to/your/notes"

# Or named vaults, selected with default_vault.
# default_vault = "personal"
# [vaults]
# personal = "/path/to/your/notes"

# Vault-relative directory holding templates.
# template_dir = "templates/"

# debug, info, warn, or error.
# log_level = "warn"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault writes a commented default config to path unless a file
// already exists there. It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicfile.WriteNew(path, []byte(defaultConfig), 0o644); err != nil {
		if errors.Is(err, atomicfile.ErrExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
