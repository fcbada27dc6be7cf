package selfupdate

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/arsenal-toolkit/internal/bootstrap"
	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/internal/pkgmgr"
	"github.com/arsenal-toolkit/internal/platform"
	"github.com/arsenal-toolkit/internal/shell"
	"github.com/arsenal-toolkit/pkg/models"
	"github.com/arsenal-toolkit/pkg/utils"
)

type commandRunner interface {
	Run(ctx context.Context, dir string, argv ...string) (*shell.CommandResult, error)
}

// Updater refreshes the launcher itself
type Updater struct {
	config *config.Config
	log    logger.Logger

	exec       commandRunner
	lookPath   utils.LookPathFunc
	executable func() (string, error)
	getenv     func(string) string
}

// New creates a self updater
func New(cfg *config.Config, log logger.Logger) *Updater {
	return &Updater{
		config:     cfg,
		log:        log,
		exec:       shell.NewExecutor(log),
		lookPath:   exec.LookPath,
		executable: os.Executable,
		getenv:     os.Getenv,
	}
}

// Run updates the launcher in place when it came from a git checkout.
// Other install methods get the matching upgrade hint instead, since
// their package manager owns the binary.
func (u *Updater) Run(ctx context.Context) error {
	if err := u.ensureGit(ctx); err != nil {
		return err
	}

	exe, err := u.executable()
	if err != nil {
		return fmt.Errorf("failed to locate launcher binary: %w", err)
	}

	method, root := Detect(exe, u.getenv)
	u.log.Info("Detected installation method", "method", method.String(), "binary", exe)

	switch method {
	case MethodGit:
		return u.pullCheckout(ctx, root)
	case MethodHomebrew:
		u.log.Info("Launcher is managed by Homebrew, update with: brew upgrade arsenal")
	case MethodGoInstall:
		u.log.Info("Launcher was installed with go install, update with: go install github.com/arsenal-toolkit/cmd/arsenal@latest")
	default:
		u.log.Warn("Cannot determine how the launcher was installed, update it manually")
	}

	return nil
}

func (u *Updater) pullCheckout(ctx context.Context, root string) error {
	u.log.Info("Updating launcher checkout", "path", root)

	result, err := u.exec.Run(ctx, "", "git", "-C", root, "pull")
	if err != nil {
		return fmt.Errorf("failed to update launcher: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("git pull in %s exited with code %d", root, result.ExitCode)
	}

	u.log.Info("Launcher updated", "path", root)
	return nil
}

// ensureGit installs git through the platform package manager when it
// is missing
func (u *Updater) ensureGit(ctx context.Context) error {
	if _, err := u.lookPath("git"); err == nil {
		return nil
	}

	u.log.Warn("git is missing, installing it first")

	profile, err := platform.NewDetector(u.log).Require()
	if err != nil {
		return err
	}

	strategy, err := pkgmgr.NewSelector(u.config, u.log).Select(profile)
	if err != nil {
		return err
	}

	installer := bootstrap.NewInstaller(strategy, shell.NewExecutor(u.log), u.log)
	return installer.InstallAll(ctx, []models.PackageRequest{{Name: "git"}}, &models.BootstrapReport{})
}
