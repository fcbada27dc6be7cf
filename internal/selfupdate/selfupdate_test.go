package selfupdate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/internal/shell"
)

type fakeRunner struct {
	calls [][]string
	code  int
}

func (f *fakeRunner) Run(ctx context.Context, dir string, argv ...string) (*shell.CommandResult, error) {
	f.calls = append(f.calls, argv)
	return &shell.CommandResult{Args: argv, ExitCode: f.code, Success: f.code == 0}, nil
}

func noEnv(string) string { return "" }

func TestDetectGitCheckout(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "build"), 0755))

	method, root := Detect(filepath.Join(repo, "arsenal"), noEnv)
	assert.Equal(t, MethodGit, method)
	assert.Equal(t, repo, root)

	// Nested binaries resolve to the same repository root.
	method, root = Detect(filepath.Join(repo, "build", "arsenal"), noEnv)
	assert.Equal(t, MethodGit, method)
	assert.Equal(t, repo, root)
}

func TestDetectHomebrew(t *testing.T) {
	method, _ := Detect("/opt/homebrew/bin/arsenal", noEnv)
	assert.Equal(t, MethodHomebrew, method)

	method, _ = Detect("/usr/local/Cellar/arsenal/1.0/bin/arsenal", noEnv)
	assert.Equal(t, MethodHomebrew, method)
}

func TestDetectGoInstall(t *testing.T) {
	gopath := t.TempDir()
	env := func(key string) string {
		if key == "GOPATH" {
			return gopath
		}
		return ""
	}

	method, _ := Detect(filepath.Join(gopath, "bin", "arsenal"), env)
	assert.Equal(t, MethodGoInstall, method)

	// GOBIN wins over GOPATH when both are set.
	gobin := t.TempDir()
	env = func(key string) string {
		switch key {
		case "GOBIN":
			return gobin
		case "GOPATH":
			return gopath
		}
		return ""
	}
	method, _ = Detect(filepath.Join(gobin, "arsenal"), env)
	assert.Equal(t, MethodGoInstall, method)
}

func TestDetectUnknown(t *testing.T) {
	method, root := Detect(filepath.Join(t.TempDir(), "arsenal"), noEnv)
	assert.Equal(t, MethodUnknown, method)
	assert.Empty(t, root)
}

func TestInstallMethodString(t *testing.T) {
	assert.Equal(t, "git checkout", MethodGit.String())
	assert.Equal(t, "Homebrew", MethodHomebrew.String())
	assert.Equal(t, "go install", MethodGoInstall.String())
	assert.Equal(t, "unknown", MethodUnknown.String())
}

func testUpdater(exe string, runner *fakeRunner) *Updater {
	return &Updater{
		log:  logger.New("error", "text"),
		exec: runner,
		lookPath: func(name string) (string, error) {
			return "/usr/bin/" + name, nil
		},
		executable: func() (string, error) { return exe, nil },
		getenv:     noEnv,
	}
}

func TestUpdaterPullsCheckout(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))

	runner := &fakeRunner{}
	u := testUpdater(filepath.Join(repo, "arsenal"), runner)

	require.NoError(t, u.Run(context.Background()))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"git", "-C", repo, "pull"}, runner.calls[0])
}

func TestUpdaterPullFailure(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))

	runner := &fakeRunner{code: 128}
	u := testUpdater(filepath.Join(repo, "arsenal"), runner)

	err := u.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 128")
}

func TestUpdaterManagedInstallIsHintOnly(t *testing.T) {
	runner := &fakeRunner{}
	u := testUpdater("/opt/homebrew/bin/arsenal", runner)

	require.NoError(t, u.Run(context.Background()))
	assert.Empty(t, runner.calls, "managed installs must not be touched")
}

func TestUpdaterExecutableError(t *testing.T) {
	u := testUpdater("", &fakeRunner{})
	u.executable = func() (string, error) { return "", fmt.Errorf("no proc info") }

	err := u.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to locate launcher binary")
}
