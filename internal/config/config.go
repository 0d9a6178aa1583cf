package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable hearth reads.
const EnvPrefix = "HEARTH"

// Config holds the resolved hearth settings.
type Config struct {
	// ConfigDir is hearth's own config directory ($XDG_CONFIG_HOME/hearth).
	ConfigDir string `mapstructure:"config_dir"`
	// OutputDir receives <component>.sh fragments, shell.sh and manifest.json.
	OutputDir string `mapstructure:"output_dir"`
	// GeneratedDir receives rendered config files, one subdirectory per component.
	GeneratedDir string `mapstructure:"generated_dir"`
	// OverrideDir holds user overrides named <component>.yaml or <component>.lua.
	OverrideDir string `mapstructure:"override_dir"`
	// SpecDir optionally holds extra base specs registered over the built-in ones.
	SpecDir string `mapstructure:"spec_dir"`
	// RCFile pins the startup file to inject into. Empty derives it from Shell.
	RCFile string `mapstructure:"rc_file"`
	// Shell pins the shell ("bash" or "zsh"). Empty detects it from $SHELL.
	Shell string `mapstructure:"shell"`
	// Platform pins the OS used for path conditions and file filters.
	Platform string `mapstructure:"platform"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// DryRun reports what would change without touching the filesystem.
	DryRun bool `mapstructure:"dry_run"`
	// Backup copies the startup file before inject or eject modifies it.
	Backup bool `mapstructure:"backup"`
}

// LoadOptions controls where Load looks for a config file.
type LoadOptions struct {
	// ConfigFile, when set, is read instead of <ConfigDir>/config.yaml and
	// must exist.
	ConfigFile string
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() *Config {
	configDir := filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "hearth")
	return &Config{
		ConfigDir:    configDir,
		OutputDir:    configDir,
		GeneratedDir: filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "hearth", "generated"),
		OverrideDir:  filepath.Join(configDir, "components"),
		LogLevel:     "info",
	}
}

// Load resolves the configuration from defaults, the config file and the
// environment.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("config_dir", defaults.ConfigDir)
	v.SetDefault("output_dir", "")
	v.SetDefault("generated_dir", defaults.GeneratedDir)
	v.SetDefault("override_dir", "")
	v.SetDefault("spec_dir", "")
	v.SetDefault("rc_file", "")
	v.SetDefault("shell", "")
	v.SetDefault("platform", "")
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("dry_run", false)
	v.SetDefault("backup", false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(expandHome(v.GetString("config_dir")))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Directories that were not set explicitly follow config_dir.
	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.ConfigDir
	}
	if cfg.OverrideDir == "" {
		cfg.OverrideDir = filepath.Join(cfg.ConfigDir, "components")
	}

	cfg.ConfigDir = expandHome(cfg.ConfigDir)
	cfg.OutputDir = expandHome(cfg.OutputDir)
	cfg.GeneratedDir = expandHome(cfg.GeneratedDir)
	cfg.OverrideDir = expandHome(cfg.OverrideDir)
	cfg.SpecDir = expandHome(cfg.SpecDir)
	cfg.RCFile = expandHome(cfg.RCFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	switch c.Shell {
	case "", "bash", "zsh":
	default:
		return &ValidationError{Field: "shell", Message: fmt.Sprintf("unsupported shell %q (supported: bash, zsh)", c.Shell)}
	}
	if c.OutputDir == "" {
		return &ValidationError{Field: "output_dir", Message: "must not be empty"}
	}
	if c.GeneratedDir == "" {
		return &ValidationError{Field: "generated_dir", Message: "must not be empty"}
	}
	return nil
}

// ValidationError reports an invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

// xdgDir returns $env, or ~/fallback when it is unset.
func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fallback
	}
	return filepath.Join(home, fallback)
}

// expandHome expands a leading ~ and environment variables in path.
func expandHome(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
