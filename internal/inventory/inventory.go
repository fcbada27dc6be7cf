package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/logger"
)

// Inventory tracks which tools are installed locally
type Inventory interface {
	IsInstalled(name string) bool
	Path(name string) string
	List() ([]string, error)
	Remove(name string) error
}

// Manager resolves installation state for catalog tools
type Manager struct {
	config  *config.Config
	log     logger.Logger
	backend Inventory
}

// NewManager creates an inventory manager over the configured tools
// directory
func NewManager(cfg *config.Config, log logger.Logger) *Manager {
	return &Manager{
		config:  cfg,
		log:     log,
		backend: NewFSInventory(afero.NewOsFs(), cfg.ToolsDir),
	}
}

// IsInstalled reports whether the named tool has an install directory
func (m *Manager) IsInstalled(name string) bool {
	return m.backend.IsInstalled(name)
}

// Path returns the install directory for the named tool
func (m *Manager) Path(name string) string {
	return m.backend.Path(name)
}

// List returns the installed tool directory names, sorted
func (m *Manager) List() ([]string, error) {
	return m.backend.List()
}

// Remove deletes the named tool's install directory
func (m *Manager) Remove(name string) error {
	if !m.backend.IsInstalled(name) {
		return fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	m.log.Info("Removing tool directory", "tool", name, "path", m.backend.Path(name))
	return m.backend.Remove(name)
}

// FSInventory reads installation state from the tools directory. The
// filesystem is the source of truth: a tool is installed exactly when
// its directory exists, so installs interrupted before the clone never
// count. Bare .txt files count too, for wordlists stored as single
// files.
type FSInventory struct {
	fs   afero.Fs
	root string
}

// NewFSInventory creates a filesystem-backed inventory rooted at root
func NewFSInventory(fs afero.Fs, root string) *FSInventory {
	return &FSInventory{fs: fs, root: root}
}

func (f *FSInventory) IsInstalled(name string) bool {
	info, err := f.fs.Stat(f.Path(name))
	if err != nil {
		return false
	}
	return info.IsDir() || strings.HasSuffix(name, ".txt")
}

func (f *FSInventory) Path(name string) string {
	return filepath.Join(f.root, name)
}

func (f *FSInventory) List() ([]string, error) {
	entries, err := afero.ReadDir(f.fs, f.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tools directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.IsDir() && !strings.HasSuffix(name, ".txt") {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

func (f *FSInventory) Remove(name string) error {
	return f.fs.RemoveAll(f.Path(name))
}

// MemoryInventory implements Inventory using in-memory state
type MemoryInventory struct {
	paths map[string]string
	mutex sync.RWMutex
}

// NewMemoryInventory creates an empty in-memory inventory
func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{
		paths: make(map[string]string),
	}
}

// Add records a tool as installed at path
func (m *MemoryInventory) Add(name, path string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.paths[name] = path
}

func (m *MemoryInventory) IsInstalled(name string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, exists := m.paths[name]
	return exists
}

func (m *MemoryInventory) Path(name string) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.paths[name]
}

func (m *MemoryInventory) List() ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	names := make([]string, 0, len(m.paths))
	for name := range m.paths {
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

func (m *MemoryInventory) Remove(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.paths, name)
	return nil
}

// Error definitions
var (
	ErrNotInstalled = errors.New("tool is not installed")
)
