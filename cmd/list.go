package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arsenal-toolkit/internal/report"
	"github.com/arsenal-toolkit/internal/tools"
	"github.com/arsenal-toolkit/pkg/models"
)

// listCmd shows the catalog with install state
var listCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List catalog tools and their install state",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("installed", false, "only show installed tools")
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := tools.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tool manager: %w", err)
	}

	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	installedOnly, _ := cmd.Flags().GetBool("installed")

	var states []models.ToolState
	for _, state := range manager.States() {
		if category != "" && state.Tool.Category != category {
			continue
		}
		if installedOnly && !state.Installed {
			continue
		}
		states = append(states, state)
	}

	if len(states) == 0 {
		fmt.Printf("No tools match the given filters\n")
		return nil
	}

	report.NewRenderer().ToolTable(states, manager.Profile())
	return nil
}
