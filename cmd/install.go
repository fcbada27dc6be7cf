package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arsenal-toolkit/internal/tools"
)

// installCmd installs or updates catalog tools
var installCmd = &cobra.Command{
	Use:   "install [tool]",
	Short: "Install or update catalog tools",
	Long: `Installs one catalog tool, or every tool the platform supports with
--all. Installing an already installed tool updates it in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().Bool("all", false, "install every tool the platform supports")
}

func runInstall(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		return fmt.Errorf("name a tool to install, or pass --all")
	}

	manager, err := tools.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tool manager: %w", err)
	}
	if runLog != nil {
		manager.Mirror(runLog)
	}

	if all {
		stop := spin(cmd, " Installing all supported tools...")
		err = manager.InstallAll(cmd.Context())
		stop()

		if err != nil {
			return err
		}
		fmt.Printf("✅ All supported tools installed\n")
		return nil
	}

	name := args[0]
	stop := spin(cmd, fmt.Sprintf(" Installing %s...", name))
	err = manager.Install(cmd.Context(), name)
	stop()

	if err != nil {
		return fmt.Errorf("failed to install %s: %w", name, err)
	}

	fmt.Printf("✅ Tool '%s' installed successfully\n", name)
	return nil
}

// spin starts a progress spinner and returns its stop function. The
// spinner stays off under --quiet and --verbose, and when stdout is not
// a terminal.
func spin(cmd *cobra.Command, suffix string) func() {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	if verbose || quiet || color.NoColor {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = suffix
	s.Start()
	return s.Stop
}
