package tools

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsenal-toolkit/internal/catalog"
	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/inventory"
	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/internal/pkgmgr"
	"github.com/arsenal-toolkit/internal/shell"
	"github.com/arsenal-toolkit/pkg/models"
)

const testCatalog = `{
  "recon": [
    {
      "name": "EchoTool",
      "description": "Echoes for testing",
      "github_url": "https://github.com/example/EchoTool",
      "run_command": "echo tool-ran"
    },
    {
      "name": "CrackStation",
      "description": "Online hash lookup",
      "github_url": null,
      "install_path": null,
      "run_command": null
    }
  ],
  "exploitation": [
    {
      "name": "WinOnly",
      "description": "Windows payload helper",
      "github_url": "https://github.com/example/WinOnly",
      "run_command": {"windows": "run.bat"},
      "os_compat": ["windows"]
    }
  ]
}`

func testManager(t *testing.T, catalogJSON string, profile models.PlatformProfile) *Manager {
	t.Helper()

	cat, err := catalog.Parse([]byte(catalogJSON))
	require.NoError(t, err)

	cfg := &config.Config{ToolsDir: t.TempDir()}
	log := logger.New("error", "text")

	return &Manager{
		config:    cfg,
		log:       log,
		catalog:   cat,
		inventory: inventory.NewManager(cfg, log),
		exec:      shell.NewExecutor(log),
		shell:     shell.NewRunner(log).WithOutput(io.Discard, io.Discard),
		selector:  pkgmgr.NewSelector(cfg, log),
		profile:   profile,
		lookPath: func(name string) (string, error) {
			return "/usr/bin/" + name, nil
		},
	}
}

func installDir(t *testing.T, m *Manager, name string) string {
	t.Helper()
	tool, ok := m.catalog.Find(name)
	require.True(t, ok)
	dir := m.InstallDir(tool)
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func TestRunHappyPath(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)
	installDir(t, m, "EchoTool")

	result, err := m.Run(context.Background(), "echotool", nil)

	require.NoError(t, err)
	assert.Equal(t, "EchoTool", result.Tool)
	assert.Zero(t, result.ExitCode)
}

func TestRunAppendsQuotedArgs(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)
	dir := installDir(t, m, "EchoTool")

	tool, _ := m.catalog.Find("EchoTool")
	tool.RunCommand = models.RunCommand{Command: "printf '%s|' start > result.txt"}

	result, err := m.Run(context.Background(), "EchoTool", []string{"two words", "plain"})

	require.NoError(t, err)
	assert.Contains(t, result.Command, "'two words'")

	data, err := os.ReadFile(filepath.Join(dir, "result.txt"))
	require.NoError(t, err)
	assert.Equal(t, "start|two words|plain|", string(data))
}

func TestRunExitCode(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)
	installDir(t, m, "EchoTool")

	tool, _ := m.catalog.Find("EchoTool")
	tool.RunCommand = models.RunCommand{Command: "exit 4"}

	result, err := m.Run(context.Background(), "EchoTool", nil)

	require.NoError(t, err, "a tool's own exit code is data, not a launcher error")
	assert.Equal(t, 4, result.ExitCode)
}

func TestRunUnknownTool(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)

	_, err := m.Run(context.Background(), "nope", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRunExternalTool(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)

	_, err := m.Run(context.Background(), "crackstation", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExternalTool)
}

func TestRunNotInstalled(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)

	_, err := m.Run(context.Background(), "EchoTool", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrNotInstalled)
}

func TestRunNoCommandForPlatform(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformWindows)
	installDir(t, m, "WinOnly")

	tool, _ := m.catalog.Find("WinOnly")
	tool.RunCommand = models.RunCommand{PerOS: map[string]string{"termux": "sh run.sh"}}

	_, err := m.Run(context.Background(), "WinOnly", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run command")
}

func TestInstallExternalIsNoop(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)

	require.NoError(t, m.Install(context.Background(), "CrackStation"))
}

func TestInstallUnsupportedPlatform(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)

	err := m.Install(context.Background(), "WinOnly")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedOS)
}

func TestInstallUnsupportedSkipFlag(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)

	tool, _ := m.catalog.Find("WinOnly")
	tool.SkipIfUnsupported = true

	require.NoError(t, m.InstallTool(context.Background(), tool))
}

func TestInstallPostInstallCommands(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)
	dest := filepath.Join(t.TempDir(), "localtool")

	tool := &models.Tool{
		Name:                "LocalTool",
		InstallPath:         dest,
		PostInstallCommands: []string{"printf ok > {{install_path}}/marker.txt"},
	}

	require.NoError(t, m.InstallTool(context.Background(), tool))

	data, err := os.ReadFile(filepath.Join(dest, "marker.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestInstallPostInstallFailure(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)

	tool := &models.Tool{
		Name:                "Broken",
		InstallPath:         filepath.Join(t.TempDir(), "broken"),
		PostInstallCommands: []string{"false"},
	}

	err := m.InstallTool(context.Background(), tool)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 1")
}

func TestInstallDependenciesNeedManager(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformOtherLinux)

	tool := &models.Tool{
		Name:         "NeedsDeps",
		InstallPath:  filepath.Join(t.TempDir(), "needsdeps"),
		Dependencies: map[string][]string{"default": {"cowsay"}},
	}

	err := m.InstallTool(context.Background(), tool)

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgmgr.ErrNoManager)
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		url  string
		name string
		want string
	}{
		{"https://github.com/aboul3la/Sublist3r", "Sublist3r", "Sublist3r"},
		{"https://github.com/example/tool.git", "Tool", "tool"},
		{"https://github.com/example/tool/", "Tool", "tool"},
		{"", "Hash Cracker", "hash-cracker"},
	}

	for _, tt := range tests {
		tool := &models.Tool{Name: tt.name, GithubURL: tt.url}
		assert.Equal(t, tt.want, repoName(tool), "url=%q name=%q", tt.url, tt.name)
	}
}

func TestInstallDir(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)

	tool, _ := m.catalog.Find("EchoTool")
	assert.Equal(t, filepath.Join(m.config.ToolsDir, "EchoTool"), m.InstallDir(tool))

	override := &models.Tool{Name: "X", InstallPath: "/opt/custom"}
	assert.Equal(t, "/opt/custom", m.InstallDir(override))
}

func TestStates(t *testing.T) {
	m := testManager(t, testCatalog, models.PlatformTermux)
	installDir(t, m, "EchoTool")

	states := m.States()
	byName := make(map[string]models.ToolState, len(states))
	for _, s := range states {
		byName[s.Tool.Name] = s
	}

	require.Len(t, states, 3)
	assert.True(t, byName["EchoTool"].Installed)
	assert.True(t, byName["EchoTool"].Supported)
	assert.False(t, byName["CrackStation"].Installed, "external tools have no local install")
	assert.False(t, byName["WinOnly"].Supported)
	assert.False(t, byName["WinOnly"].Installed)
}
