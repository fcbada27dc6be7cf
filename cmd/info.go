package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arsenal-toolkit/internal/report"
	"github.com/arsenal-toolkit/internal/tools"
	"github.com/arsenal-toolkit/pkg/models"
)

// infoCmd shows one tool's catalog entry
var infoCmd = &cobra.Command{
	Use:   "info <tool>",
	Short: "Show a tool's catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	manager, err := tools.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tool manager: %w", err)
	}

	tool, ok := manager.Catalog().Find(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", tools.ErrUnknownTool, args[0])
	}

	state := models.ToolState{
		Tool:      tool,
		Supported: tool.SupportsPlatform(manager.Profile()),
	}
	if !tool.IsExternal() {
		state.Installed = manager.Installed(tool)
		state.Path = manager.InstallDir(tool)
	}

	report.NewRenderer().ToolInfo(state, manager.Profile())
	return nil
}
