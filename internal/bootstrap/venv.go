package bootstrap

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/internal/shell"
	"github.com/arsenal-toolkit/pkg/models"
	"github.com/arsenal-toolkit/pkg/utils"
)

// Venv manages the launcher's Python virtual environment
type Venv struct {
	log      logger.Logger
	exec     commandRunner
	lookPath utils.LookPathFunc
	dir      string
	profile  models.PlatformProfile
}

// NewVenv creates a virtual environment manager rooted at dir
func NewVenv(dir string, profile models.PlatformProfile, executor *shell.Executor, log logger.Logger) *Venv {
	return &Venv{
		log:      log,
		exec:     executor,
		lookPath: exec.LookPath,
		dir:      dir,
		profile:  profile,
	}
}

// Ensure creates the virtual environment unless it already exists. The
// pyvenv.cfg marker identifies an existing environment on every
// platform.
func (v *Venv) Ensure(ctx context.Context) (bool, error) {
	if utils.FileExists(filepath.Join(v.dir, "pyvenv.cfg")) {
		v.log.Info("Virtual environment already exists", "path", v.dir)
		return false, nil
	}

	python := utils.FirstAvailable(v.lookPath, "python3", "python")
	if python == "" {
		return false, fmt.Errorf("%w: no python interpreter on PATH", ErrEnvironment)
	}

	v.log.Info("Creating virtual environment", "path", v.dir, "python", python)

	result, err := v.exec.Run(ctx, "", python, "-m", "venv", v.dir)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrEnvironment, err)
	}
	if !result.Success {
		return false, fmt.Errorf("%w: %s -m venv exited with code %d",
			ErrEnvironment, python, result.ExitCode)
	}

	return true, nil
}

// InstallRequirements installs the requirements file into the
// environment. A missing file is skipped with a warning; a failed
// install is fatal.
func (v *Venv) InstallRequirements(ctx context.Context, path string) error {
	if !utils.FileExists(path) {
		v.log.Warn("Requirements file not found, skipping", "path", path)
		return nil
	}

	pip := v.pipPath()
	if !utils.FileExists(pip) {
		// Environments created without pip fall back to the system
		// installer.
		pip = utils.FirstAvailable(v.lookPath, "pip3", "pip")
		if pip == "" {
			return fmt.Errorf("%w: no pip available for requirements install", ErrEnvironment)
		}
	}

	v.log.Info("Installing Python requirements", "file", path, "pip", pip)

	result, err := v.exec.Run(ctx, "", pip, "install", "-r", path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEnvironment, err)
	}
	if !result.Success {
		return fmt.Errorf("%w: pip install exited with code %d", ErrEnvironment, result.ExitCode)
	}

	return nil
}

// pipPath returns the environment's own pip executable
func (v *Venv) pipPath() string {
	if v.profile == models.PlatformWindows {
		return filepath.Join(v.dir, "Scripts", "pip.exe")
	}
	return filepath.Join(v.dir, "bin", "pip")
}
