package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsenal-toolkit/pkg/models"
)

const sampleCatalog = `{
  "recon": [
    {
      "name": "Sublist3r",
      "description": "Subdomain enumeration tool",
      "github_url": "https://github.com/aboul3la/Sublist3r.git",
      "install_path": "sublist3r",
      "run_command": "python3 sublist3r.py",
      "dependencies": {
        "default": ["git", "python3"],
        "termux": ["git", "python"]
      },
      "os_compat": ["any"]
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
      "name": "PayloadRunner",
      "github_url": "https://github.com/example/payload-runner.git",
      "install_path": "payload-runner",
      "run_command": {
        "windows": "python payload.py",
        "default": "python3 payload.py"
      },
      "os_compat": ["debian", "arch", "windows"],
      "skip_if_os_not_supported": true
    }
  ]
}`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"exploitation", "recon"}, c.Categories())
	assert.Len(t, c.ToolsIn("recon"), 2)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"recon": [{]}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"recon": [{"run_command": 42}]}`))
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	tool, ok := c.Find("sublist3r")
	require.True(t, ok)
	assert.Equal(t, "Sublist3r", tool.Name)
	assert.Equal(t, "recon", tool.Category)

	tool, ok = c.Find("PAYLOADRUNNER")
	require.True(t, ok)
	assert.Equal(t, "exploitation", tool.Category)

	_, ok = c.Find("nope")
	assert.False(t, ok)
}

func TestExternalTool(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	tool, ok := c.Find("crackstation")
	require.True(t, ok)
	assert.True(t, tool.IsExternal())

	_, ok = tool.RunCommandFor(models.PlatformDebianLinux)
	assert.False(t, ok)
}

func TestRunCommandResolution(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	tool, _ := c.Find("payloadrunner")

	cmd, ok := tool.RunCommandFor(models.PlatformWindows)
	require.True(t, ok)
	assert.Equal(t, "python payload.py", cmd)

	cmd, ok = tool.RunCommandFor(models.PlatformArchLinux)
	require.True(t, ok)
	assert.Equal(t, "python3 payload.py", cmd)

	simple, _ := c.Find("sublist3r")
	cmd, ok = simple.RunCommandFor(models.PlatformTermux)
	require.True(t, ok)
	assert.Equal(t, "python3 sublist3r.py", cmd)
}

func TestDependencyResolution(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	tool, _ := c.Find("sublist3r")
	assert.Equal(t, []string{"git", "python"}, tool.DependenciesFor(models.PlatformTermux))
	assert.Equal(t, []string{"git", "python3"}, tool.DependenciesFor(models.PlatformDebianLinux))
}

func TestForPlatform(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	names := func(tools []*models.Tool) []string {
		var out []string
		for _, tool := range tools {
			out = append(out, tool.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Sublist3r", "CrackStation", "PayloadRunner"},
		names(c.ForPlatform(models.PlatformDebianLinux)))
	assert.ElementsMatch(t, []string{"Sublist3r", "CrackStation"},
		names(c.ForPlatform(models.PlatformTermux)))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
