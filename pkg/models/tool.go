package models

import (
	"encoding/json"
	"fmt"
)

// Tool represents one entry of the tool catalog
type Tool struct {
	Name                string              `json:"name"`
	Category            string              `json:"-"`
	Description         string              `json:"description,omitempty"`
	GithubURL           string              `json:"github_url,omitempty"`
	InstallPath         string              `json:"install_path,omitempty"`
	RunCommand          RunCommand          `json:"run_command,omitempty"`
	Dependencies        map[string][]string `json:"dependencies,omitempty"`
	PostInstallCommands []string            `json:"post_install_commands,omitempty"`
	OSCompat            []string            `json:"os_compat,omitempty"`
	SkipIfUnsupported   bool                `json:"skip_if_os_not_supported,omitempty"`
}

// IsExternal reports whether the tool is a web resource with nothing to
// install locally. External tools are listed and described but never
// cloned or executed.
func (t *Tool) IsExternal() bool {
	return t.GithubURL == "" && t.InstallPath == ""
}

// SupportsPlatform reports whether the tool is usable on the given
// profile. An empty os_compat list or an "any" entry means universal.
func (t *Tool) SupportsPlatform(p PlatformProfile) bool {
	if len(t.OSCompat) == 0 {
		return true
	}

	key := p.CatalogKey()
	for _, compat := range t.OSCompat {
		if compat == "any" || compat == key {
			return true
		}
	}
	return false
}

// DependenciesFor resolves the system package list for the given profile,
// falling back to the "default" key when no profile-specific list exists.
func (t *Tool) DependenciesFor(p PlatformProfile) []string {
	if len(t.Dependencies) == 0 {
		return nil
	}

	if deps, ok := t.Dependencies[p.CatalogKey()]; ok {
		return deps
	}
	if deps, ok := t.Dependencies["default"]; ok {
		return deps
	}
	return nil
}

// RunCommandFor resolves the command line used to launch the tool on the
// given profile
func (t *Tool) RunCommandFor(p PlatformProfile) (string, bool) {
	return t.RunCommand.Resolve(p)
}

// RunCommand is a launch command that is either a single line for every
// platform or a map of catalog keys to lines with an optional "default"
type RunCommand struct {
	Command string
	PerOS   map[string]string
}

// UnmarshalJSON accepts a plain string, a platform map, or null
func (rc *RunCommand) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		rc.Command = single
		return nil
	}

	var perOS map[string]string
	if err := json.Unmarshal(data, &perOS); err != nil {
		return fmt.Errorf("run_command must be a string or a platform map: %w", err)
	}
	rc.PerOS = perOS
	return nil
}

// MarshalJSON writes back the same shape that was read
func (rc RunCommand) MarshalJSON() ([]byte, error) {
	if rc.PerOS != nil {
		return json.Marshal(rc.PerOS)
	}
	if rc.Command == "" {
		return []byte("null"), nil
	}
	return json.Marshal(rc.Command)
}

// Resolve returns the command line for the given profile. Platform maps
// are consulted by catalog key first, then by their "default" entry.
func (rc RunCommand) Resolve(p PlatformProfile) (string, bool) {
	if rc.PerOS != nil {
		if cmd, ok := rc.PerOS[p.CatalogKey()]; ok && cmd != "" {
			return cmd, true
		}
		if cmd, ok := rc.PerOS["default"]; ok && cmd != "" {
			return cmd, true
		}
		return "", false
	}

	if rc.Command != "" {
		return rc.Command, true
	}
	return "", false
}

// IsZero reports whether no run command was declared at all
func (rc RunCommand) IsZero() bool {
	return rc.Command == "" && rc.PerOS == nil
}

// ToolState describes a catalog tool combined with its install state,
// as shown by the list command
type ToolState struct {
	Tool      *Tool  `json:"tool"`
	Installed bool   `json:"installed"`
	Supported bool   `json:"supported"`
	Path      string `json:"path,omitempty"`
}

// RunResult captures the execution of a tool's run command
type RunResult struct {
	Tool     string `json:"tool"`
	Command  string `json:"command"`
	ExitCode int    `json:"exit_code"`
}
