package pkgmgr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/internal/netfetch"
	"github.com/arsenal-toolkit/internal/shell"
	"github.com/arsenal-toolkit/pkg/utils"
)

const homebrewInstallURL = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"

// HomebrewBootstrap installs Homebrew itself by downloading the official
// installer script and running it non-interactively through bash
type HomebrewBootstrap struct {
	log      logger.Logger
	fetcher  *netfetch.Fetcher
	exec     *shell.Executor
	lookPath utils.LookPathFunc
}

// NewHomebrewBootstrap creates the bootstrap flow for the brew strategy
func NewHomebrewBootstrap(cfg *config.Config, log logger.Logger) *HomebrewBootstrap {
	return &HomebrewBootstrap{
		log:      log,
		fetcher:  netfetch.New(cfg, log),
		exec:     shell.NewExecutor(log),
		lookPath: exec.LookPath,
	}
}

// Run downloads and executes the Homebrew installer. The installer's own
// prompts are suppressed with NONINTERACTIVE=1.
func (h *HomebrewBootstrap) Run(ctx context.Context) error {
	if _, err := h.lookPath("bash"); err != nil {
		return fmt.Errorf("%w: bash is required to install Homebrew", ErrBootstrapTool)
	}

	h.log.Info("Homebrew not found, downloading installer", "url", homebrewInstallURL)

	script := filepath.Join(os.TempDir(), "homebrew-install.sh")
	if err := h.fetcher.FetchToFile(homebrewInstallURL, script, 0755); err != nil {
		return fmt.Errorf("failed to download Homebrew installer: %w", err)
	}
	defer os.Remove(script)

	h.log.Info("Running Homebrew installer", "script", script)

	result, err := h.exec.RunWithEnv(ctx, "", []string{"NONINTERACTIVE=1"}, "/bin/bash", script)
	if err != nil {
		return fmt.Errorf("failed to run Homebrew installer: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("%w: Homebrew installer exited with code %d", ErrNoManager, result.ExitCode)
	}

	h.log.Info("Homebrew installed successfully")
	return nil
}
