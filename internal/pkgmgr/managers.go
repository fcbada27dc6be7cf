package pkgmgr

import (
	"context"
)

// termuxStrategy installs through Termux's pkg wrapper. Termux runs
// unprivileged, so no sudo prefix.
type termuxStrategy struct{}

func (termuxStrategy) Name() string     { return "pkg" }
func (termuxStrategy) Precheck() string { return "pkg" }

func (termuxStrategy) InstallArgs(pkg string) []string {
	return []string{"pkg", "install", "-y", pkg}
}

func (termuxStrategy) RefreshArgs() []string {
	return []string{"pkg", "update", "-y"}
}

// aptStrategy installs through apt on Debian and Ubuntu family systems
type aptStrategy struct{}

func (aptStrategy) Name() string     { return "apt" }
func (aptStrategy) Precheck() string { return "apt" }

func (aptStrategy) InstallArgs(pkg string) []string {
	return []string{"sudo", "apt", "install", "-y", pkg}
}

func (aptStrategy) RefreshArgs() []string {
	return []string{"sudo", "apt", "update"}
}

// pacmanStrategy installs through pacman on Arch family systems
type pacmanStrategy struct{}

func (pacmanStrategy) Name() string     { return "pacman" }
func (pacmanStrategy) Precheck() string { return "pacman" }

func (pacmanStrategy) InstallArgs(pkg string) []string {
	return []string{"sudo", "pacman", "-S", "--noconfirm", pkg}
}

func (pacmanStrategy) RefreshArgs() []string {
	return []string{"sudo", "pacman", "-Sy"}
}

// brewStrategy installs through Homebrew on macOS and can install
// Homebrew itself when the brew executable is missing
type brewStrategy struct {
	bootstrap *HomebrewBootstrap
}

func (*brewStrategy) Name() string     { return "brew" }
func (*brewStrategy) Precheck() string { return "brew" }

func (*brewStrategy) InstallArgs(pkg string) []string {
	return []string{"brew", "install", pkg}
}

func (*brewStrategy) RefreshArgs() []string {
	return []string{"brew", "update"}
}

func (b *brewStrategy) Bootstrap(ctx context.Context) error {
	return b.bootstrap.Run(ctx)
}

// chocoStrategy installs through Chocolatey on Windows
type chocoStrategy struct{}

func (chocoStrategy) Name() string     { return "choco" }
func (chocoStrategy) Precheck() string { return "choco" }

func (chocoStrategy) InstallArgs(pkg string) []string {
	return []string{"choco", "install", "-y", pkg}
}

func (chocoStrategy) RefreshArgs() []string { return nil }

// wingetStrategy installs through winget when Chocolatey is absent
type wingetStrategy struct{}

func (wingetStrategy) Name() string     { return "winget" }
func (wingetStrategy) Precheck() string { return "winget" }

func (wingetStrategy) InstallArgs(pkg string) []string {
	return []string{"winget", "install", "-e", "--id", pkg}
}

func (wingetStrategy) RefreshArgs() []string { return nil }
