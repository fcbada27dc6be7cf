package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arsenal-toolkit/internal/selfupdate"
)

// selfUpdateCmd updates the launcher itself
var selfUpdateCmd = &cobra.Command{
	Use:   "self-update",
	Short: "Update the launcher itself",
	Long: `Updates the launcher in place when it runs from a git checkout.
Installations managed by Homebrew or go install get the matching
upgrade command instead.`,
	RunE: runSelfUpdate,
}

func init() {
	rootCmd.AddCommand(selfUpdateCmd)
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	updater := selfupdate.New(cfg, log)

	if err := updater.Run(cmd.Context()); err != nil {
		return fmt.Errorf("self-update failed: %w", err)
	}

	fmt.Printf("✅ Launcher is up to date\n")
	return nil
}
