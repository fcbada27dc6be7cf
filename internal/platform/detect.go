package platform

import (
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/arsenal-toolkit/internal/logger"
	"github.com/arsenal-toolkit/pkg/models"
)

// Error definitions
var (
	ErrUnsupported = errors.New("unsupported platform")
)

const (
	osReleasePath  = "/etc/os-release"
	termuxFilesDir = "/data/data/com.termux/files"
)

// Detector resolves the host to a PlatformProfile using a fixed list of
// detection rules. Rules are evaluated strictly in order and the first
// matching probe wins; when none match the result is PlatformUnknown.
type Detector struct {
	log    logger.Logger
	fs     afero.Fs
	getenv func(string) string
	goos   string

	rules []detectionRule

	osRelease map[string]string
	osLoaded  bool
}

type detectionRule struct {
	name    string
	probe   func() bool
	profile models.PlatformProfile
}

// NewDetector creates a detector backed by the real host environment
func NewDetector(log logger.Logger) *Detector {
	return newDetector(log, afero.NewOsFs(), os.Getenv, runtime.GOOS)
}

func newDetector(log logger.Logger, fs afero.Fs, getenv func(string) string, goos string) *Detector {
	d := &Detector{
		log:    log,
		fs:     fs,
		getenv: getenv,
		goos:   goos,
	}

	// Priority order: Termux beats os-release because Termux hosts carry
	// an Android os-release that would otherwise misclassify them.
	d.rules = []detectionRule{
		{name: "termux", probe: d.probeTermux, profile: models.PlatformTermux},
		{name: "debian", probe: d.probeDebian, profile: models.PlatformDebianLinux},
		{name: "arch", probe: d.probeArch, profile: models.PlatformArchLinux},
		{name: "other-linux", probe: d.probeOtherLinux, profile: models.PlatformOtherLinux},
		{name: "macos", probe: d.probeDarwin, profile: models.PlatformMacOS},
		{name: "generic-linux", probe: d.probeGenericLinux, profile: models.PlatformGenericLinux},
		{name: "windows", probe: d.probeWindows, profile: models.PlatformWindows},
	}

	return d
}

// Detect evaluates the detection rules and returns the matching profile.
// The profile is immutable for the process lifetime; callers pass it down
// explicitly instead of re-detecting.
func (d *Detector) Detect() models.PlatformProfile {
	for _, rule := range d.rules {
		d.log.Debug("Probing platform", "rule", rule.name)
		if rule.probe() {
			d.log.Info("Platform detected", "rule", rule.name, "platform", rule.profile.String())
			return rule.profile
		}
	}

	d.log.Error("No platform rule matched", "os", d.goos)
	return models.PlatformUnknown
}

// Require is Detect with the unknown case turned into an error, for
// callers that cannot proceed without a usable profile
func (d *Detector) Require() (models.PlatformProfile, error) {
	profile := d.Detect()
	if !profile.IsKnown() {
		return profile, ErrUnsupported
	}
	return profile, nil
}

func (d *Detector) probeTermux() bool {
	if d.getenv("ANDROID_ROOT") != "" {
		return true
	}
	info, err := d.fs.Stat(termuxFilesDir)
	return err == nil && info.IsDir()
}

func (d *Detector) probeDebian() bool {
	release := d.loadOSRelease()
	if release == nil {
		return false
	}

	id := release["ID"]
	if id == "debian" || id == "ubuntu" {
		return true
	}
	return idLikeContains(release["ID_LIKE"], "debian")
}

func (d *Detector) probeArch() bool {
	release := d.loadOSRelease()
	if release == nil {
		return false
	}

	if release["ID"] == "arch" {
		return true
	}
	return idLikeContains(release["ID_LIKE"], "arch")
}

func (d *Detector) probeOtherLinux() bool {
	// Reached only after the debian and arch rules declined, so any
	// parseable os-release here is an unrecognized distribution.
	return d.goos == "linux" && d.loadOSRelease() != nil
}

func (d *Detector) probeDarwin() bool {
	return d.goos == "darwin"
}

func (d *Detector) probeGenericLinux() bool {
	return d.goos == "linux" && d.loadOSRelease() == nil
}

func (d *Detector) probeWindows() bool {
	return d.goos == "windows" || d.getenv("COMSPEC") != ""
}

// loadOSRelease parses /etc/os-release once and caches the result.
// A missing or unreadable file yields nil.
func (d *Detector) loadOSRelease() map[string]string {
	if d.osLoaded {
		return d.osRelease
	}
	d.osLoaded = true

	data, err := afero.ReadFile(d.fs, osReleasePath)
	if err != nil {
		return nil
	}

	release := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		release[key] = value
	}

	d.osRelease = release
	return d.osRelease
}

func idLikeContains(idLike, want string) bool {
	for _, id := range strings.Fields(idLike) {
		if id == want {
			return true
		}
	}
	return false
}
