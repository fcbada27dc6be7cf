package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/arsenal-toolkit/internal/bootstrap"
	"github.com/arsenal-toolkit/internal/catalog"
	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/inventory"
	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/internal/pkgmgr"
	"github.com/arsenal-toolkit/internal/platform"
	"github.com/arsenal-toolkit/internal/shell"
	"github.com/arsenal-toolkit/pkg/models"
	"github.com/arsenal-toolkit/pkg/utils"
)

// Error definitions
var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrUnsupportedOS = errors.New("tool does not support this platform")
	ErrExternalTool  = errors.New("external tool has no local installation")
)

// installPathToken is replaced with the tool's install directory in
// post-install and run commands
const installPathToken = "{{install_path}}"

// Manager installs catalog tools and keeps them up to date
type Manager struct {
	config    *config.Config
	log       logger.Logger
	catalog   *catalog.Catalog
	inventory *inventory.Manager
	exec      *shell.Executor
	shell     *shell.Runner
	selector  *pkgmgr.Selector
	profile   models.PlatformProfile
	lookPath  utils.LookPathFunc
}

// New creates a tool manager. The platform profile is detected once at
// construction; an unknown platform still allows listing, only install
// and run refuse to proceed.
func New(cfg *config.Config, log logger.Logger) (*Manager, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load tool catalog: %w", err)
	}

	return &Manager{
		config:    cfg,
		log:       log,
		catalog:   cat,
		inventory: inventory.NewManager(cfg, log),
		exec:      shell.NewExecutor(log),
		shell:     shell.NewRunner(log),
		selector:  pkgmgr.NewSelector(cfg, log),
		profile:   platform.NewDetector(log).Detect(),
		lookPath:  exec.LookPath,
	}, nil
}

// Catalog exposes the loaded tool catalog
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Profile returns the detected platform profile
func (m *Manager) Profile() models.PlatformProfile {
	return m.profile
}

// Mirror routes child process output into w in addition to the console
func (m *Manager) Mirror(w io.Writer) {
	m.exec.Mirror(w)
	m.shell = m.shell.WithOutput(io.MultiWriter(os.Stdout, w), io.MultiWriter(os.Stderr, w))
}

// Install installs or updates one tool by name
func (m *Manager) Install(ctx context.Context, name string) error {
	tool, ok := m.catalog.Find(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return m.InstallTool(ctx, tool)
}

// InstallAll installs every catalog tool the platform supports.
// Individual failures do not stop the pass; they are collected and
// reported together.
func (m *Manager) InstallAll(ctx context.Context) error {
	var failed []string
	for _, tool := range m.catalog.ForPlatform(m.profile) {
		if err := m.InstallTool(ctx, tool); err != nil {
			m.log.Error("Tool installation failed", "tool", tool.Name, "error", err)
			failed = append(failed, tool.Name)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d tool(s) failed to install: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

// InstallTool runs the full installation pipeline for one tool:
// system dependencies, clone or pull, post-install commands, then
// Python requirements. Reinstalling an installed tool updates it.
func (m *Manager) InstallTool(ctx context.Context, tool *models.Tool) error {
	if !tool.SupportsPlatform(m.profile) {
		if tool.SkipIfUnsupported {
			m.log.Warn("Tool does not support this platform, skipping",
				"tool", tool.Name,
				"platform", m.profile.String())
			return nil
		}
		return fmt.Errorf("%w: %s on %s", ErrUnsupportedOS, tool.Name, m.profile.String())
	}

	if tool.IsExternal() {
		m.log.Info("External tool, nothing to install", "tool", tool.Name)
		return nil
	}

	m.log.Info("Installing tool", "tool", tool.Name, "category", tool.Category)

	// Phase 1: system dependencies
	if deps := tool.DependenciesFor(m.profile); len(deps) > 0 {
		if err := m.installDependencies(ctx, deps); err != nil {
			return fmt.Errorf("failed to install dependencies for %s: %w", tool.Name, err)
		}
	}

	// Phase 2: clone or update the repository
	dest := m.InstallDir(tool)
	if tool.GithubURL != "" {
		if err := m.cloneOrPull(ctx, tool.GithubURL, dest); err != nil {
			return err
		}
	} else if err := utils.EnsureDir(dest); err != nil {
		return err
	}

	// Phase 3: post-install commands
	for _, raw := range tool.PostInstallCommands {
		command := strings.ReplaceAll(raw, installPathToken, dest)
		m.log.Info("Running post-install command", "tool", tool.Name, "command", command)

		result, err := m.shell.Run(ctx, dest, command)
		if err != nil {
			return fmt.Errorf("post-install command failed for %s: %w", tool.Name, err)
		}
		if !result.Success {
			return fmt.Errorf("post-install command for %s exited with code %d", tool.Name, result.ExitCode)
		}
	}

	// Phase 4: the tool's own Python requirements
	if err := m.installPythonDeps(ctx, dest); err != nil {
		return err
	}

	m.log.Info("Tool installed", "tool", tool.Name, "path", dest)
	return nil
}

// Installed reports whether the tool's install directory exists
func (m *Manager) Installed(tool *models.Tool) bool {
	if tool.IsExternal() {
		return false
	}
	if tool.InstallPath != "" {
		return utils.DirExists(utils.ExpandPath(tool.InstallPath))
	}
	return m.inventory.IsInstalled(repoName(tool))
}

// InstallDir returns the directory a tool installs into: the explicit
// catalog path when set, otherwise a directory named after the
// repository under the tools root
func (m *Manager) InstallDir(tool *models.Tool) string {
	if tool.InstallPath != "" {
		return utils.ExpandPath(tool.InstallPath)
	}
	return filepath.Join(m.config.ToolsDir, repoName(tool))
}

// States resolves the whole catalog against the local inventory
func (m *Manager) States() []models.ToolState {
	all := m.catalog.All()
	states := make([]models.ToolState, 0, len(all))
	for _, tool := range all {
		state := models.ToolState{
			Tool:      tool,
			Supported: tool.SupportsPlatform(m.profile),
		}
		if !tool.IsExternal() {
			state.Installed = m.Installed(tool)
			state.Path = m.InstallDir(tool)
		}
		states = append(states, state)
	}
	return states
}

func (m *Manager) installDependencies(ctx context.Context, deps []string) error {
	strategy, err := m.selector.Select(m.profile)
	if err != nil {
		return err
	}

	reqs := make([]models.PackageRequest, 0, len(deps))
	for _, dep := range deps {
		reqs = append(reqs, models.PackageRequest{Name: dep})
	}

	installer := bootstrap.NewInstaller(strategy, m.exec, m.log)
	return installer.InstallAll(ctx, reqs, &models.BootstrapReport{})
}

func (m *Manager) cloneOrPull(ctx context.Context, url, dest string) error {
	if _, err := m.lookPath("git"); err != nil {
		return fmt.Errorf("git is required to install tools: %w", err)
	}

	if utils.DirExists(filepath.Join(dest, ".git")) {
		m.log.Info("Updating repository", "path", dest)

		result, err := m.exec.Run(ctx, "", "git", "-C", dest, "pull")
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", dest, err)
		}
		if !result.Success {
			return fmt.Errorf("git pull in %s exited with code %d", dest, result.ExitCode)
		}
		return nil
	}

	m.log.Info("Cloning repository", "url", url, "path", dest)

	result, err := m.exec.Run(ctx, "", "git", "clone", url, dest)
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", url, err)
	}
	if !result.Success {
		return fmt.Errorf("git clone of %s exited with code %d", url, result.ExitCode)
	}
	return nil
}

func (m *Manager) installPythonDeps(ctx context.Context, dir string) error {
	if !utils.FileExists(filepath.Join(dir, "requirements.txt")) {
		return nil
	}

	pip := utils.FirstAvailable(m.lookPath, "pip3", "pip")
	if pip == "" {
		return fmt.Errorf("no pip available to install requirements in %s", dir)
	}

	m.log.Info("Installing Python requirements", "dir", dir, "pip", pip)

	result, err := m.exec.Run(ctx, dir, pip, "install", "-r", "requirements.txt")
	if err != nil {
		return fmt.Errorf("failed to install python requirements: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("pip install in %s exited with code %d", dir, result.ExitCode)
	}
	return nil
}

// repoName returns the directory name a tool's repository clones into
func repoName(tool *models.Tool) string {
	if tool.GithubURL == "" {
		return strings.ReplaceAll(strings.ToLower(tool.Name), " ", "-")
	}
	trimmed := strings.TrimSuffix(strings.TrimRight(tool.GithubURL, "/"), ".git")
	return path.Base(trimmed)
}
