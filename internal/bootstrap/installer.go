package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/internal/pkgmgr"
	"github.com/arsenal-toolkit/internal/shell"
	"github.com/arsenal-toolkit/pkg/models"
	"github.com/arsenal-toolkit/pkg/utils"
)

// Error definitions
var (
	ErrInstallFailed = errors.New("package installation failed")
	ErrEnvironment   = errors.New("environment creation failed")
)

// commandRunner is the slice of shell.Executor the installer needs;
// tests substitute a scripted fake
type commandRunner interface {
	Run(ctx context.Context, dir string, argv ...string) (*shell.CommandResult, error)
}

// Installer feeds package requests to the platform strategy one at a
// time. Package managers serialize behind global locks, so requests are
// never processed concurrently and never retried beyond their fallback
// chain.
type Installer struct {
	log      logger.Logger
	exec     commandRunner
	lookPath utils.LookPathFunc
	strategy pkgmgr.Strategy

	managerReady bool
	refreshed    bool
}

// NewInstaller creates an installer bound to one strategy
func NewInstaller(strategy pkgmgr.Strategy, executor *shell.Executor, log logger.Logger) *Installer {
	return &Installer{
		log:      log,
		exec:     executor,
		lookPath: exec.LookPath,
		strategy: strategy,
	}
}

// EnsureManager verifies the package manager is usable, bootstrapping it
// first when the strategy knows how
func (i *Installer) EnsureManager(ctx context.Context) error {
	if i.managerReady {
		return nil
	}

	if _, err := i.lookPath(i.strategy.Precheck()); err == nil {
		i.managerReady = true
		return nil
	}

	if b, ok := i.strategy.(pkgmgr.Bootstrapper); ok {
		i.log.Warn("Package manager missing, attempting bootstrap", "manager", i.strategy.Name())
		if err := b.Bootstrap(ctx); err != nil {
			return err
		}
		if _, err := i.lookPath(i.strategy.Precheck()); err == nil {
			i.managerReady = true
			return nil
		}
	}

	return fmt.Errorf("%w: %s (%s not found on PATH)",
		pkgmgr.ErrNoManager, i.strategy.Name(), i.strategy.Precheck())
}

// Install processes one package request: presence probe first, then the
// install command, then the fallback chain on non-zero exits.
//
// The returned error is non-nil only when the package manager itself is
// unusable; a package that simply failed to install is reported through
// the outcome so the caller can apply its required/optional policy.
func (i *Installer) Install(ctx context.Context, req models.PackageRequest) (models.InstallOutcome, error) {
	start := time.Now()
	outcome := models.InstallOutcome{Request: req}

	// An already resolvable binary means no work and no package-manager
	// invocation at all.
	if _, err := i.lookPath(req.Probe()); err == nil {
		i.log.Info("Package already present", "package", req.Name, "binary", req.Probe())
		outcome.Status = models.StatusAlreadyPresent
		outcome.Duration = time.Since(start)
		return outcome, nil
	}

	if err := i.EnsureManager(ctx); err != nil {
		outcome.Status = models.StatusFailed
		outcome.Reason = err.Error()
		outcome.Duration = time.Since(start)
		return outcome, err
	}

	i.refresh(ctx)

	for _, candidate := range req.Candidates() {
		outcome.Attempts++
		i.log.Info("Installing package",
			"package", candidate,
			"manager", i.strategy.Name(),
			"attempt", outcome.Attempts)

		result, err := i.exec.Run(ctx, "", i.strategy.InstallArgs(candidate)...)
		if err != nil {
			outcome.Reason = err.Error()
			continue
		}

		if result.Success {
			outcome.Status = models.StatusInstalled
			outcome.Package = candidate
			outcome.Output = result.Output
			outcome.Duration = time.Since(start)
			i.log.Info("Package installed", "package", candidate, "duration", outcome.Duration)
			return outcome, nil
		}

		outcome.Reason = fmt.Sprintf("%s exited with code %d", i.strategy.Name(), result.ExitCode)
		outcome.Output = result.Output
		i.log.Warn("Install attempt failed",
			"package", candidate,
			"exit_code", result.ExitCode)
	}

	outcome.Status = models.StatusFailed
	outcome.Duration = time.Since(start)
	return outcome, nil
}

// InstallAll processes requests strictly in order, recording every
// outcome in the report. A failed required request stops the run; failed
// optional requests are logged and skipped.
func (i *Installer) InstallAll(ctx context.Context, reqs []models.PackageRequest, report *models.BootstrapReport) error {
	for _, req := range reqs {
		outcome, err := i.Install(ctx, req)
		report.AddOutcome(outcome)

		if err != nil {
			return err
		}

		if outcome.Failed() {
			if req.Optional {
				i.log.Warn("Optional package failed, skipping",
					"package", req.Name,
					"reason", outcome.Reason)
				continue
			}
			return fmt.Errorf("%w: %s: %s", ErrInstallFailed, req.Name, outcome.Reason)
		}
	}

	return nil
}

// refresh updates the package index once per run, lazily before the
// first real install. Refresh failures are warnings, never fatal.
func (i *Installer) refresh(ctx context.Context) {
	if i.refreshed {
		return
	}
	i.refreshed = true

	args := i.strategy.RefreshArgs()
	if len(args) == 0 {
		return
	}

	i.log.Info("Refreshing package index", "manager", i.strategy.Name())

	result, err := i.exec.Run(ctx, "", args...)
	if err != nil {
		i.log.Warn("Package index refresh failed", "manager", i.strategy.Name(), "error", err)
		return
	}
	if !result.Success {
		i.log.Warn("Package index refresh failed",
			"manager", i.strategy.Name(),
			"exit_code", result.ExitCode)
	}
}
