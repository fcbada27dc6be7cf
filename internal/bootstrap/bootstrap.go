package bootstrap

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/internal/pkgmgr"
	"github.com/arsenal-toolkit/internal/platform"
	"github.com/arsenal-toolkit/internal/shell"
	"github.com/arsenal-toolkit/pkg/models"
)

// Orchestrator drives the entire bootstrap process
type Orchestrator struct {
	config *config.Config
	log    logger.Logger
	exec   *shell.Executor

	detector *platform.Detector
	selector *pkgmgr.Selector
}

// New creates a new bootstrap orchestrator
func New(cfg *config.Config, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		config:   cfg,
		log:      log,
		exec:     shell.NewExecutor(log),
		detector: platform.NewDetector(log),
		selector: pkgmgr.NewSelector(cfg, log),
	}
}

// Mirror routes child process output into w in addition to the console,
// so the run log captures installer output
func (o *Orchestrator) Mirror(w io.Writer) {
	o.exec.Mirror(w)
}

// Run executes the bootstrap phases in order: platform detection,
// strategy selection, core packages, then the Python environment. It
// always returns a report, even on failure, so callers can render what
// happened before the error.
func (o *Orchestrator) Run(ctx context.Context) (*models.BootstrapReport, error) {
	report := &models.BootstrapReport{
		StartTime: time.Now(),
		LogPath:   o.config.LogFile,
	}

	// Phase 1: Platform detection
	profile, err := o.detector.Require()
	report.Platform = profile
	if err != nil {
		report.Finalize()
		return report, err
	}

	// Phase 2: Strategy selection
	strategy, err := o.selector.Select(profile)
	if err != nil {
		o.log.Error("No package manager strategy", "platform", profile.String(), "error", err)
		report.Finalize()
		return report, err
	}
	report.Manager = strategy.Name()

	o.log.Info("Starting package installation phase",
		"platform", profile.String(),
		"manager", strategy.Name())

	// Phase 3: Core packages
	installer := NewInstaller(strategy, o.exec, o.log)
	if err := installer.InstallAll(ctx, o.corePackages(profile), report); err != nil {
		report.Finalize()
		return report, err
	}

	o.log.Info("Package installation completed",
		"installed", report.InstalledCount(),
		"present", report.PresentCount())

	// Phase 4: Python environment
	venv := NewVenv(o.config.VenvDir, profile, o.exec, o.log)
	report.VenvPath = o.config.VenvDir

	created, err := venv.Ensure(ctx)
	report.VenvCreated = created
	if err != nil {
		report.Finalize()
		return report, err
	}

	// Phase 5: Python requirements
	report.Requirements = readRequirements(o.config.RequirementsFile)
	if err := venv.InstallRequirements(ctx, o.config.RequirementsFile); err != nil {
		report.Finalize()
		return report, err
	}

	report.Finalize()

	o.log.Info("Bootstrap completed successfully",
		"platform", profile.String(),
		"manager", strategy.Name(),
		"duration", report.Duration)

	return report, nil
}

// corePackages returns the ordered package list for the profile: git
// first, then the platform's python and pip packages, then any extras
// from the configuration
func (o *Orchestrator) corePackages(profile models.PlatformProfile) []models.PackageRequest {
	reqs := []models.PackageRequest{
		{Name: "git"},
	}

	switch profile {
	case models.PlatformTermux:
		// The Termux python package bundles pip.
		reqs = append(reqs,
			models.PackageRequest{Name: "python", Binary: "python"})
	case models.PlatformDebianLinux:
		reqs = append(reqs,
			models.PackageRequest{Name: "python3", Binary: "python3"},
			models.PackageRequest{Name: "python3-pip", Fallbacks: []string{"python-pip"}, Binary: "pip3"})
	case models.PlatformArchLinux:
		reqs = append(reqs,
			models.PackageRequest{Name: "python", Binary: "python3"},
			models.PackageRequest{Name: "python-pip", Binary: "pip"})
	case models.PlatformMacOS:
		// Homebrew python ships pip alongside the interpreter.
		reqs = append(reqs,
			models.PackageRequest{Name: "python3", Binary: "python3"})
	case models.PlatformWindows:
		reqs = append(reqs,
			models.PackageRequest{Name: "python", Binary: "python"})
	}

	for _, extra := range o.config.Bootstrap.ExtraPackages {
		reqs = append(reqs, models.PackageRequest{Name: extra, Optional: true})
	}

	return reqs
}

// readRequirements lists the package lines of a pip requirements file
// for reporting. Parsing failures just produce an empty list; pip is
// the authority on the file format.
func readRequirements(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}

	return names
}
