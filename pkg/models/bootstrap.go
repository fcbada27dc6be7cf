package models

import (
	"time"
)

// PackageRequest describes one system package the bootstrap must ensure.
// Fallbacks are alternative package names tried in order when the primary
// name fails to install; Binary is the executable probed to decide whether
// the package is already present (defaults to Name).
type PackageRequest struct {
	Name      string   `json:"name" yaml:"name"`
	Fallbacks []string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
	Binary    string   `json:"binary,omitempty" yaml:"binary,omitempty"`
	Optional  bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Probe returns the executable whose presence marks the package as installed
func (pr PackageRequest) Probe() string {
	if pr.Binary != "" {
		return pr.Binary
	}
	return pr.Name
}

// Candidates returns the package names to try, primary name first
func (pr PackageRequest) Candidates() []string {
	candidates := make([]string, 0, len(pr.Fallbacks)+1)
	candidates = append(candidates, pr.Name)
	candidates = append(candidates, pr.Fallbacks...)
	return candidates
}

// InstallStatus classifies the outcome of a single package request
type InstallStatus int

const (
	StatusAlreadyPresent InstallStatus = iota
	StatusInstalled
	StatusFailed
	StatusSkipped
)

// String returns the status name used in logs and the bootstrap summary
func (s InstallStatus) String() string {
	switch s {
	case StatusAlreadyPresent:
		return "already present"
	case StatusInstalled:
		return "installed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// InstallOutcome records what happened to one package request
type InstallOutcome struct {
	Request  PackageRequest `json:"request"`
	Status   InstallStatus  `json:"status"`
	Package  string         `json:"package,omitempty"`
	Attempts int            `json:"attempts"`
	Reason   string         `json:"reason,omitempty"`
	Output   string         `json:"output,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// Failed reports whether the request ended without the package available
func (o InstallOutcome) Failed() bool {
	return o.Status == StatusFailed
}

// BootstrapReport aggregates the results of a full bootstrap run
type BootstrapReport struct {
	Platform    PlatformProfile  `json:"platform"`
	Manager     string           `json:"manager"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Duration    time.Duration    `json:"duration"`
	Outcomes    []InstallOutcome `json:"outcomes"`
	VenvPath    string           `json:"venv_path,omitempty"`
	VenvCreated bool             `json:"venv_created"`
	Requirements []string        `json:"requirements,omitempty"`
	LogPath     string           `json:"log_path,omitempty"`
}

// AddOutcome appends a package outcome to the report
func (br *BootstrapReport) AddOutcome(outcome InstallOutcome) {
	br.Outcomes = append(br.Outcomes, outcome)
}

// InstalledCount returns the number of packages installed during this run
func (br *BootstrapReport) InstalledCount() int {
	count := 0
	for _, o := range br.Outcomes {
		if o.Status == StatusInstalled {
			count++
		}
	}
	return count
}

// PresentCount returns the number of packages that were already available
func (br *BootstrapReport) PresentCount() int {
	count := 0
	for _, o := range br.Outcomes {
		if o.Status == StatusAlreadyPresent {
			count++
		}
	}
	return count
}

// FailedOutcomes returns the outcomes that ended in failure
func (br *BootstrapReport) FailedOutcomes() []InstallOutcome {
	var failed []InstallOutcome
	for _, o := range br.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Finalize stamps the end time and duration
func (br *BootstrapReport) Finalize() {
	br.EndTime = time.Now()
	br.Duration = br.EndTime.Sub(br.StartTime)
}
