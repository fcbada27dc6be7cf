package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/pkg/models"
	"github.com/arsenal-toolkit/pkg/utils"
)

// Error definitions
var (
	ErrNoManager     = errors.New("no package manager available for platform")
	ErrBootstrapTool = errors.New("required bootstrap tool missing")
)

// Strategy describes how one platform installs system packages
type Strategy interface {
	// Name is the package manager name shown in logs and summaries
	Name() string
	// Precheck is the executable that must resolve on PATH before the
	// strategy can be used
	Precheck() string
	// InstallArgs returns the argv that installs a single package
	InstallArgs(pkg string) []string
	// RefreshArgs returns the argv that updates the package index, or
	// nil when the manager maintains no local index
	RefreshArgs() []string
}

// Bootstrapper is implemented by strategies that can install their own
// package manager when the precheck executable is missing
type Bootstrapper interface {
	Bootstrap(ctx context.Context) error
}

// Selector maps a detected platform profile to its install strategy
type Selector struct {
	config   *config.Config
	log      logger.Logger
	lookPath utils.LookPathFunc
}

// NewSelector creates a selector backed by the real PATH
func NewSelector(cfg *config.Config, log logger.Logger) *Selector {
	return newSelector(cfg, log, exec.LookPath)
}

func newSelector(cfg *config.Config, log logger.Logger, lookPath utils.LookPathFunc) *Selector {
	return &Selector{
		config:   cfg,
		log:      log,
		lookPath: lookPath,
	}
}

// Select returns the install strategy for the given profile. OtherLinux
// and GenericLinux have no known manager and yield ErrNoManager rather
// than assuming apt.
func (s *Selector) Select(profile models.PlatformProfile) (Strategy, error) {
	switch profile {
	case models.PlatformTermux:
		return &termuxStrategy{}, nil
	case models.PlatformDebianLinux:
		return &aptStrategy{}, nil
	case models.PlatformArchLinux:
		return &pacmanStrategy{}, nil
	case models.PlatformMacOS:
		return &brewStrategy{
			bootstrap: NewHomebrewBootstrap(s.config, s.log),
		}, nil
	case models.PlatformWindows:
		return s.selectWindows(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoManager, profile)
	}
}

// selectWindows prefers Chocolatey and falls back to winget when choco is
// not installed
func (s *Selector) selectWindows() Strategy {
	if _, err := s.lookPath("choco"); err == nil {
		return &chocoStrategy{}
	}
	if _, err := s.lookPath("winget"); err == nil {
		s.log.Info("Chocolatey not found, falling back to winget")
		return &wingetStrategy{}
	}

	// Neither resolved; the installer's precheck will fail on choco.
	return &chocoStrategy{}
}

// ProbeManager reports whether the strategy's precheck executable
// resolves on PATH
func (s *Selector) ProbeManager(strategy Strategy) bool {
	_, err := s.lookPath(strategy.Precheck())
	return err == nil
}
