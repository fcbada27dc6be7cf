package selfupdate

import (
	"path/filepath"
	"strings"

	"github.com/arsenal-toolkit/pkg/utils"
)

// InstallMethod identifies how the launcher binary got onto the host
type InstallMethod int

const (
	MethodUnknown InstallMethod = iota
	MethodGit
	MethodHomebrew
	MethodGoInstall
)

// String returns a human readable install method name
func (m InstallMethod) String() string {
	switch m {
	case MethodGit:
		return "git checkout"
	case MethodHomebrew:
		return "Homebrew"
	case MethodGoInstall:
		return "go install"
	default:
		return "unknown"
	}
}

// homebrewPrefixes are the cellar locations brew links binaries from
var homebrewPrefixes = []string{
	"/opt/homebrew/",
	"/usr/local/Cellar/",
	"/home/linuxbrew/.linuxbrew/",
}

// Detect classifies the running binary's installation. For a git
// checkout it also returns the repository root so the caller can pull
// in place.
func Detect(executable string, getenv func(string) string) (InstallMethod, string) {
	for _, prefix := range homebrewPrefixes {
		if strings.HasPrefix(executable, prefix) {
			return MethodHomebrew, ""
		}
	}

	if bin := goBinDir(getenv); bin != "" && filepath.Dir(executable) == bin {
		return MethodGoInstall, ""
	}

	if root := findRepoRoot(filepath.Dir(executable)); root != "" {
		return MethodGit, root
	}

	return MethodUnknown, ""
}

// goBinDir resolves the directory go install places binaries in
func goBinDir(getenv func(string) string) string {
	if gobin := getenv("GOBIN"); gobin != "" {
		return filepath.Clean(gobin)
	}
	if gopath := getenv("GOPATH"); gopath != "" {
		return filepath.Join(gopath, "bin")
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, "go", "bin")
	}
	return ""
}

// findRepoRoot walks up from dir looking for a .git directory
func findRepoRoot(dir string) string {
	for {
		if utils.DirExists(filepath.Join(dir, ".git")) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
