package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/pkg/utils"
)

var (
	cfgFile string
	cfg     *config.Config
	log     logger.Logger
	runLog  io.Writer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arsenal",
	Short: "Launcher for a curated catalog of security tools",
	Long: `Arsenal installs, updates and runs a curated catalog of third party
security tools on Termux, Debian/Ubuntu, Arch Linux, macOS and Windows.

It detects the host platform, drives the native package manager to
provision the base environment (git, python, pip and a virtualenv),
and keeps every catalog tool cloned and ready under a single tools
directory.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyGlobalFlags()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. When sink is not nil it receives an uncolored copy of
// log output; commands also mirror child process output into it.
func Execute(config *config.Config, logger logger.Logger, sink io.Writer) error {
	cfg = config
	log = logger
	runLog = sink
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.arsenal.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().String("proxy", "", "HTTP or SOCKS proxy URL (e.g., http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().Bool("tor", false, "route downloads through Tor")
	rootCmd.PersistentFlags().String("tools-dir", "", "directory tools are installed into")
	rootCmd.PersistentFlags().String("catalog", "", "path to the tool catalog file")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("proxy", rootCmd.PersistentFlags().Lookup("proxy"))
	viper.BindPFlag("tor", rootCmd.PersistentFlags().Lookup("tor"))
	viper.BindPFlag("tools-dir", rootCmd.PersistentFlags().Lookup("tools-dir"))
	viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))

	// Add completion command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "completion",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:
$ source <(arsenal completion bash)

Zsh:
$ source <(arsenal completion zsh)

Fish:
$ arsenal completion fish | source

PowerShell:
PS> arsenal completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactValidArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				cmd.Root().GenPowerShellCompletion(os.Stdout)
			}
		},
	})
}

// applyGlobalFlags folds the global flag values into the loaded
// configuration before any command runs
func applyGlobalFlags() {
	if proxy := viper.GetString("proxy"); proxy != "" {
		cfg.Network.Proxy = proxy
	}
	if viper.GetBool("tor") {
		cfg.Network.UseTor = true
	}
	if dir := viper.GetString("tools-dir"); dir != "" {
		cfg.ToolsDir = utils.ExpandPath(dir)
	}
	if path := viper.GetString("catalog"); path != "" {
		cfg.CatalogPath = utils.ExpandPath(path)
	}

	// Verbosity flags rebuild the logger at the new level, keeping the
	// run log sink attached.
	level := ""
	if viper.GetBool("verbose") {
		level = "debug"
	}
	if viper.GetBool("quiet") {
		level = "error"
	}
	if level != "" && level != cfg.LogLevel {
		cfg.LogLevel = level
		if runLog != nil {
			log = logger.NewWithSink(level, cfg.LogFormat, runLog)
		} else {
			log = logger.New(level, cfg.LogFormat)
		}
	}
}
