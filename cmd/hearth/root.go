package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/hearth/internal/component"
	"github.com/ZebulonRouseFrantzich/hearth/internal/config"
	"github.com/ZebulonRouseFrantzich/hearth/internal/platform"
	"github.com/ZebulonRouseFrantzich/hearth/internal/service"
	"github.com/ZebulonRouseFrantzich/hearth/internal/shell"
)

// globalFlags override the matching config file and HEARTH_* settings.
type globalFlags struct {
	configFile string
	dryRun     bool
	backup     bool
	shell      string
	platform   string
	logLevel   string
}

// app builds the manager for a command from configuration and flags.
type app struct {
	flags globalFlags

	cfg     *config.Config
	logger  *log.Logger
	info    *platform.Info
	shell   *shell.DetectionResult
	manager *service.Manager
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "hearth",
		Short: "Generate and wire shell integration for your dev environment",
		Long: titleStyle.Render("hearth") + subtitleStyle.Render(" - shell integration from declarative component specs") + `

hearth turns component specs (environment variables, PATH entries, aliases,
wrapper functions and config files) into POSIX shell fragments, sources them
from a single entrypoint and keeps one marked block in your shell startup
file pointing at it.

` + subtitleStyle.Render("Quick Start:") + `
  hearth generate --all    Write every fragment and the entrypoint
  hearth inject            Source the entrypoint from your rc file
  hearth status            Show integration state and drift`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/hearth/config.yaml)")
	pf.BoolVarP(&a.flags.dryRun, "dry-run", "n", false, "show what would change without writing anything")
	pf.BoolVar(&a.flags.backup, "backup", false, "back up the rc file before modifying it")
	pf.StringVar(&a.flags.shell, "shell", "", "shell to target (bash, zsh); detected when empty")
	pf.StringVar(&a.flags.platform, "platform", "", "platform to generate for (linux, darwin); detected when empty")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newGenerateCmd(a),
		newPreviewCmd(a),
		newStatusCmd(a),
		newInjectCmd(a),
		newEjectCmd(a),
		newOverrideCmd(a),
		newListCmd(a),
	)
	return root
}

// load resolves config, platform and shell and builds the manager. It runs
// inside each command rather than as a persistent hook so that the
// completion command stays cheap at shell startup.
func (a *app) load(cmd *cobra.Command) (*service.Manager, error) {
	if a.manager != nil {
		return a.manager, nil
	}
	ctx := cmd.Context()

	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.flags.configFile})
	if err != nil {
		return nil, err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a.cfg = cfg

	logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a.logger = logger

	registry, err := component.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.SpecDir != "" {
		if err := registry.RegisterFS(os.DirFS(cfg.SpecDir), "."); err != nil {
			return nil, err
		}
		logger.Debug("registered spec directory", "dir", cfg.SpecDir)
	}

	info, err := platform.Override(cfg.Platform).Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	a.info = info

	detected, err := a.detectShell(cmd)
	if err != nil {
		return nil, err
	}
	a.shell = detected

	loader := component.NewLoader(registry,
		component.WithOverrides(component.DirOverrides{
			Dir:      cfg.OverrideDir,
			Detector: platform.StaticDetector{Info: *info},
		}),
		component.WithLogger(logger),
	)

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	m, err := service.NewManager(service.Dependencies{
		Config:   cfg,
		Loader:   loader,
		Platform: info,
		Shell:    detected.Shell,
		Home:     home,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	a.manager = m
	return m, nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.DryRun = a.flags.dryRun
	}
	if flags.Changed("backup") {
		cfg.Backup = a.flags.backup
	}
	if flags.Changed("shell") {
		cfg.Shell = a.flags.shell
	}
	if flags.Changed("platform") {
		cfg.Platform = a.flags.platform
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
}

// detectShell honours a configured shell and otherwise inspects the
// environment. An unsupported shell is kept so that inject and eject can
// refuse it; generation falls back to bash completion.
func (a *app) detectShell(cmd *cobra.Command) (*shell.DetectionResult, error) {
	if a.cfg.Shell != "" {
		st := shell.ParseShell(a.cfg.Shell)
		if err := shell.ValidateShell(st); err != nil {
			return nil, err
		}
		return &shell.DetectionResult{Shell: st, Method: "configuration", Confidence: "high"}, nil
	}

	detected, err := shell.DetectShell(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("detect shell: %w", err)
	}
	if !detected.Shell.IsSupported() {
		a.logger.Warn("shell is not supported", "shell", detected.Shell, "method", detected.Method)
	} else {
		a.logger.Debug("detected shell", "shell", detected.Shell, "method", detected.Method, "confidence", detected.Confidence)
	}
	return detected, nil
}
