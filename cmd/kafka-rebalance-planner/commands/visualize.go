package commands

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/datto/kafka-rebalance/tui"
)

// snapshotFile is the small JSON input the visualize command reads,
// carrying the before/after disk utilization needed to render a plan
// without requiring a live cluster connection. The plan command does
// not write this file.
type snapshotFile struct {
	Disks []tui.DiskView  `json:"disks"`
	Moves []tui.MoveView  `json:"moves"`
}

// NewVisualizeCommand builds the "visualize" subcommand: render a
// snapshot file (see snapshotFile) as a TUI.
func NewVisualizeCommand() *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Render a computed plan's before/after disk utilization",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(snapshotPath)
			if err != nil {
				return fmt.Errorf("visualize: read %s: %w", snapshotPath, err)
			}
			var snap snapshotFile
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("visualize: parse %s: %w", snapshotPath, err)
			}

			model := tui.NewModel(snap.Disks, snap.Moves)
			program := tea.NewProgram(model)
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "snapshot.json", "path to a disk-utilization snapshot JSON file")
	return cmd
}
