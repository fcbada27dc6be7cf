package models

// PlatformProfile identifies the host environment the launcher is running on.
// It is detected once at startup and passed explicitly to every component
// that needs it; nothing re-probes the environment after detection.
type PlatformProfile int

const (
	PlatformUnknown PlatformProfile = iota
	PlatformTermux
	PlatformDebianLinux
	PlatformArchLinux
	PlatformOtherLinux
	PlatformGenericLinux
	PlatformMacOS
	PlatformWindows
)

// String returns the human-readable profile name used in logs and summaries
func (p PlatformProfile) String() string {
	switch p {
	case PlatformTermux:
		return "Termux"
	case PlatformDebianLinux:
		return "Debian/Ubuntu Linux"
	case PlatformArchLinux:
		return "Arch Linux"
	case PlatformOtherLinux:
		return "Other Linux"
	case PlatformGenericLinux:
		return "Generic Linux"
	case PlatformMacOS:
		return "macOS"
	case PlatformWindows:
		return "Windows"
	default:
		return "Unknown"
	}
}

// CatalogKey returns the key this profile matches in catalog os_compat
// lists, dependency maps, and run_command maps.
func (p PlatformProfile) CatalogKey() string {
	switch p {
	case PlatformTermux:
		return "termux"
	case PlatformDebianLinux:
		return "debian"
	case PlatformArchLinux:
		return "arch"
	case PlatformOtherLinux, PlatformGenericLinux:
		return "linux"
	case PlatformMacOS:
		return "macos"
	case PlatformWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// IsLinux reports whether the profile is any Linux flavor, Termux included
func (p PlatformProfile) IsLinux() bool {
	switch p {
	case PlatformTermux, PlatformDebianLinux, PlatformArchLinux, PlatformOtherLinux, PlatformGenericLinux:
		return true
	}
	return false
}

// IsKnown reports whether detection produced a usable profile
func (p PlatformProfile) IsKnown() bool {
	return p != PlatformUnknown
}
