package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/cellar/pkg/install"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show installation records",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := install.NewStore(filepath.Join(cfg.Settings.StateDir, "installed.json"))
	if err != nil {
		return err
	}

	records := store.All()
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No installations recorded.")
		return nil
	}

	for _, record := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
			record.ContainerID, record.Status, record.InstallPath,
			record.InstalledAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
