package cli

import (
	"fmt"
	"path/filepath"

	"github.com/glorpus-work/cellar/internal/logger"
	"github.com/glorpus-work/cellar/pkg/config"
	"github.com/glorpus-work/cellar/pkg/download"
	"github.com/glorpus-work/cellar/pkg/emulator/winexec"
	"github.com/glorpus-work/cellar/pkg/extract"
	"github.com/glorpus-work/cellar/pkg/hooks"
	"github.com/glorpus-work/cellar/pkg/install"
	"github.com/glorpus-work/cellar/pkg/orchestrator"
	"github.com/glorpus-work/cellar/pkg/sandbox"
)

// These variables are set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
	NoColor    *bool
)

var userAgent = "cellar/" + Version

// loadConfig loads the configuration from the --config path or the default
// location and applies CLI flag overrides.
func loadConfig() (*config.Config, error) {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel, NoColor == nil || !*NoColor)
	return cfg, nil
}

// buildOrchestrator wires the concrete managers behind the orchestrator.
func buildOrchestrator(cfg *config.Config, h orchestrator.Hooks) (*orchestrator.Orchestrator, error) {
	backend := winexec.New(cfg.Settings.ContainersDir)

	sandboxes, err := sandbox.NewManager(backend, filepath.Join(cfg.Settings.StateDir, "containers.json"))
	if err != nil {
		return nil, err
	}

	records, err := install.NewStore(filepath.Join(cfg.Settings.StateDir, "installed.json"))
	if err != nil {
		return nil, err
	}

	var hookMgr hooks.HookManager
	if cfg.Settings.HooksDir != "" {
		executor := hooks.NewTengoExecutor()
		if err := hooks.LoadHooksFromDir(executor, cfg.Settings.HooksDir); err != nil {
			return nil, err
		}
		hookMgr = executor
	}

	dl := download.NewManager(cfg.Settings.HTTPTimeout, userAgent)
	return orchestrator.New(backend, dl, extract.NewManager(), sandboxes, records, hookMgr, h), nil
}

// installOptions maps the configuration onto one run's options.
func installOptions(cfg *config.Config, logicalID string) orchestrator.InstallOptions {
	return orchestrator.InstallOptions{
		LogicalID:         logicalID,
		AppName:           cfg.App.Name,
		InstallerURL:      cfg.App.InstallerURL,
		InstallerArgs:     cfg.App.InstallerArgs,
		ManifestURL:       cfg.App.ManifestURL,
		PackageBaseURL:    cfg.App.PackageBaseURL,
		Packages:          cfg.App.Packages,
		TargetExecutable:  cfg.App.TargetExecutable,
		TempDir:           cfg.Settings.TempDir,
		Preset:            cfg.Settings.Preset,
		MinBackendVersion: cfg.Settings.MinBackendVersion,
	}
}
