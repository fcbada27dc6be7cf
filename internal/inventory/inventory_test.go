package inventory

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsenal-toolkit/internal/logger"
)

func TestFSInventory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/tools/Sublist3r", 0755))
	require.NoError(t, fs.MkdirAll("/tools/nuclei", 0755))
	require.NoError(t, fs.MkdirAll("/tools/.git-cache", 0755))
	require.NoError(t, afero.WriteFile(fs, "/tools/rockyou.txt", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/tools/notes.md", []byte("x"), 0644))

	inv := NewFSInventory(fs, "/tools")

	assert.True(t, inv.IsInstalled("Sublist3r"))
	assert.True(t, inv.IsInstalled("rockyou.txt"), "wordlist files count as installed")
	assert.False(t, inv.IsInstalled("notes.md"), "other plain files are not installed tools")
	assert.False(t, inv.IsInstalled("missing"))
	assert.Equal(t, "/tools/nuclei", inv.Path("nuclei"))

	names, err := inv.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Sublist3r", "nuclei", "rockyou.txt"}, names, "hidden entries and non-wordlist files are skipped")
}

func TestFSInventoryMissingRoot(t *testing.T) {
	inv := NewFSInventory(afero.NewMemMapFs(), "/nonexistent")

	names, err := inv.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFSInventoryRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/tools/old-tool/sub", 0755))

	inv := NewFSInventory(fs, "/tools")
	require.True(t, inv.IsInstalled("old-tool"))

	require.NoError(t, inv.Remove("old-tool"))
	assert.False(t, inv.IsInstalled("old-tool"))
}

func TestMemoryInventory(t *testing.T) {
	inv := NewMemoryInventory()
	assert.False(t, inv.IsInstalled("nuclei"))

	inv.Add("nuclei", "/tools/nuclei")
	inv.Add("amass", "/tools/amass")

	assert.True(t, inv.IsInstalled("nuclei"))
	assert.Equal(t, "/tools/nuclei", inv.Path("nuclei"))

	names, err := inv.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"amass", "nuclei"}, names)

	require.NoError(t, inv.Remove("amass"))
	assert.False(t, inv.IsInstalled("amass"))
}

func TestManagerRemoveNotInstalled(t *testing.T) {
	m := &Manager{backend: NewMemoryInventory(), log: logger.New("error", "text")}

	err := m.Remove("ghost")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInstalled)
}
