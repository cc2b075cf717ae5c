package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/cellar/pkg/emulator/winexec"
	"github.com/glorpus-work/cellar/pkg/sandbox"
)

// NewContainersCmd creates the containers command.
func NewContainersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "containers",
		Short: "List known containers",
		Long:  "List container metadata together with the live state reported by the emulation backend.",
		RunE:  runContainers,
	}
}

func runContainers(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	backend := winexec.New(cfg.Settings.ContainersDir)
	manager, err := sandbox.NewManager(backend, filepath.Join(cfg.Settings.StateDir, "containers.json"))
	if err != nil {
		return err
	}

	live, err := backend.Containers(cmd.Context())
	if err != nil {
		return err
	}
	liveByName := make(map[string]bool, len(live))
	for _, c := range live {
		liveByName[c.Name] = c.Initialized
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "LOGICAL ID\tNAME\tPRESET\tSTATE")
	for _, meta := range manager.Metadata() {
		state := "missing"
		if initialized, ok := liveByName[meta.Name]; ok {
			state = "created"
			if initialized {
				state = "initialized"
			}
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", meta.LogicalID, meta.Name, meta.Preset, state)
	}
	return writer.Flush()
}
