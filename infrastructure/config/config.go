// Package config loads and validates the canvas configuration from a YAML
// file, with environment variable overrides for deployment-specific values.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	pkgerrors "notecanvas/pkg/errors"
)

// Config is the root configuration for the canvas application.
type Config struct {
	Vault   VaultConfig   `yaml:"vault"`
	Canvas  CanvasConfig  `yaml:"canvas"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// VaultConfig locates the note collection on disk.
type VaultConfig struct {
	// Root is the vault directory containing the markdown notes.
	Root string `yaml:"root" validate:"required"`

	// DirectoryFilter restricts the graph to notes under this vault-relative
	// directory. Empty includes the whole vault.
	DirectoryFilter string `yaml:"directory_filter"`
}

// CanvasConfig holds the window and view defaults.
type CanvasConfig struct {
	WindowWidth  int     `yaml:"window_width" validate:"min=320"`
	WindowHeight int     `yaml:"window_height" validate:"min=240"`
	InitialZoom  float64 `yaml:"initial_zoom" validate:"gte=0.1,lte=5"`
}

// DebugConfig controls the loopback HTTP surface (health, metrics, graph
// snapshot).
type DebugConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr" validate:"omitempty,hostname_port"`
}

// LoggingConfig selects the diagnostic log level.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// ZapLevel maps the configured level name onto a zap level.
func (l LoggingConfig) ZapLevel() zapcore.Level {
	switch l.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Default returns the built-in configuration. The vault root has no default
// and must come from the file or the environment.
func Default() Config {
	return Config{
		Canvas: CanvasConfig{
			WindowWidth:  1280,
			WindowHeight: 800,
			InitialZoom:  1.0,
		},
		Debug: DebugConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:6060",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path, applies environment overrides,
// and validates the result. An empty path skips the file and uses defaults
// plus the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, pkgerrors.NewIOError("read config", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, pkgerrors.NewValidationError("malformed config file").WithCause(err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct-level constraints.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return pkgerrors.NewValidationError("invalid configuration").WithCause(err)
	}
	return nil
}

// applyEnvOverrides lets the environment win over the file for the values
// that vary per machine.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NOTECANVAS_VAULT_ROOT"); v != "" {
		cfg.Vault.Root = v
	}
	if v := os.Getenv("NOTECANVAS_DIRECTORY_FILTER"); v != "" {
		cfg.Vault.DirectoryFilter = strings.Trim(v, "/")
	}
	if v := os.Getenv("NOTECANVAS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NOTECANVAS_DEBUG_ADDR"); v != "" {
		cfg.Debug.Enabled = true
		cfg.Debug.ListenAddr = v
	}
	if v := os.Getenv("NOTECANVAS_DEBUG"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Debug.Enabled = enabled
		}
	}
}
