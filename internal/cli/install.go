// Package cli implements the cellar command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/cellar/pkg/orchestrator"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var containerID string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the configured application into a container",
		Long: `Download the application's packages (or its installer), verify them and
extract them into a container. If direct extraction fails, the original
installer is run through the emulation backend instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd, containerID)
		},
	}

	cmd.Flags().StringVar(&containerID, "container", "default", "logical id of the target container")

	return cmd
}

func runInstall(cmd *cobra.Command, containerID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.App.Name == "" {
		return fmt.Errorf("no application configured; run 'cellar config init' and edit the config file")
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("installing "+cfg.App.Name),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	hooks := orchestrator.Hooks{OnProgress: func(p orchestrator.Progress) {
		if p.Phase == orchestrator.PhaseError {
			return // the terminal error is printed below
		}
		_ = bar.Set(int(p.Fraction * 100))
		if p.Message != "" {
			bar.Describe(p.Message)
		}
	}}

	orch, err := buildOrchestrator(cfg, hooks)
	if err != nil {
		return err
	}

	result := orch.Install(cmd.Context(), installOptions(cfg, containerID))
	_ = bar.Finish()

	if result.Status != orchestrator.StatusSuccess {
		return fmt.Errorf("installation failed: %w", result.Err)
	}

	fmt.Printf("Installed %s\n", cfg.App.Name)
	fmt.Printf("  container: %s\n", result.ContainerID)
	fmt.Printf("  path:      %s\n", result.InstallPath)
	return nil
}
