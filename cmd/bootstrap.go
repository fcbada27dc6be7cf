package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arsenal-toolkit/internal/bootstrap"
	"github.com/arsenal-toolkit/internal/report"
)

// bootstrapCmd provisions the base environment
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Provision the base environment for the tool catalog",
	Long: `Detects the host platform, selects its native package manager,
installs the core packages (git, python, pip), and prepares the Python
virtual environment with the launcher requirements.

The run is idempotent: everything already present is left untouched.`,
	RunE: runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	orch := bootstrap.New(cfg, log)
	if runLog != nil {
		orch.Mirror(runLog)
	}

	log.Info("Starting bootstrap")

	result, err := orch.Run(cmd.Context())

	// The summary renders even on failure so the user sees how far the
	// run got.
	report.NewRenderer().BootstrapSummary(result)

	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	return nil
}
