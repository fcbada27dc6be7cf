package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arsenal-toolkit/internal/inventory"
	"github.com/arsenal-toolkit/internal/report"
	"github.com/arsenal-toolkit/internal/tools"
)

// runCmd launches a catalog tool
var runCmd = &cobra.Command{
	Use:   "run <tool> [-- args...]",
	Short: "Run an installed tool",
	Long: `Runs a tool's catalog command inside its install directory.
Arguments after -- are passed to the tool untouched, and the tool's
exit code becomes the launcher's exit code.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	manager, err := tools.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tool manager: %w", err)
	}
	if runLog != nil {
		manager.Mirror(runLog)
	}

	name := args[0]
	result, err := manager.Run(cmd.Context(), name, args[1:])
	if err != nil {
		// External tools have nothing to execute locally; show where to
		// find them instead of failing.
		if errors.Is(err, tools.ErrExternalTool) {
			if tool, ok := manager.Catalog().Find(name); ok {
				report.NewRenderer().ExternalToolNotice(tool)
				return nil
			}
		}
		if errors.Is(err, inventory.ErrNotInstalled) {
			fmt.Printf("💡 Install it first: arsenal install %s\n", name)
		}
		return err
	}

	if result.ExitCode != 0 {
		log.Warn("Tool exited with non-zero status",
			"tool", result.Tool,
			"exit_code", result.ExitCode)
		os.Exit(result.ExitCode)
	}
	return nil
}
