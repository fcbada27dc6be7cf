package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportsPlatform(t *testing.T) {
	universal := &Tool{Name: "universal"}
	assert.True(t, universal.SupportsPlatform(PlatformTermux))
	assert.True(t, universal.SupportsPlatform(PlatformWindows))

	anyTool := &Tool{Name: "any", OSCompat: []string{"any"}}
	assert.True(t, anyTool.SupportsPlatform(PlatformMacOS))

	debianOnly := &Tool{Name: "debian-only", OSCompat: []string{"debian"}}
	assert.True(t, debianOnly.SupportsPlatform(PlatformDebianLinux))
	assert.False(t, debianOnly.SupportsPlatform(PlatformArchLinux))

	// OtherLinux and GenericLinux share the generic linux catalog key.
	linuxTool := &Tool{Name: "linux", OSCompat: []string{"linux"}}
	assert.True(t, linuxTool.SupportsPlatform(PlatformOtherLinux))
	assert.True(t, linuxTool.SupportsPlatform(PlatformGenericLinux))
	assert.False(t, linuxTool.SupportsPlatform(PlatformDebianLinux))
}

func TestRunCommandRoundTrip(t *testing.T) {
	var rc RunCommand
	require.NoError(t, json.Unmarshal([]byte(`"./run.sh"`), &rc))
	assert.Equal(t, "./run.sh", rc.Command)

	out, err := json.Marshal(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `"./run.sh"`, string(out))

	var perOS RunCommand
	require.NoError(t, json.Unmarshal([]byte(`{"termux": "python run.py", "default": "python3 run.py"}`), &perOS))

	cmd, ok := perOS.Resolve(PlatformTermux)
	require.True(t, ok)
	assert.Equal(t, "python run.py", cmd)

	cmd, ok = perOS.Resolve(PlatformMacOS)
	require.True(t, ok)
	assert.Equal(t, "python3 run.py", cmd)
}

func TestRunCommandNoDefault(t *testing.T) {
	var rc RunCommand
	require.NoError(t, json.Unmarshal([]byte(`{"windows": "run.bat"}`), &rc))

	_, ok := rc.Resolve(PlatformDebianLinux)
	assert.False(t, ok)

	cmd, ok := rc.Resolve(PlatformWindows)
	require.True(t, ok)
	assert.Equal(t, "run.bat", cmd)
}

func TestPackageRequest(t *testing.T) {
	req := PackageRequest{Name: "python3-pip", Fallbacks: []string{"python-pip"}, Binary: "pip3"}
	assert.Equal(t, []string{"python3-pip", "python-pip"}, req.Candidates())
	assert.Equal(t, "pip3", req.Probe())

	bare := PackageRequest{Name: "git"}
	assert.Equal(t, []string{"git"}, bare.Candidates())
	assert.Equal(t, "git", bare.Probe())
}

func TestBootstrapReportCounts(t *testing.T) {
	report := &BootstrapReport{}
	report.AddOutcome(InstallOutcome{Status: StatusAlreadyPresent})
	report.AddOutcome(InstallOutcome{Status: StatusInstalled})
	report.AddOutcome(InstallOutcome{Status: StatusInstalled})
	report.AddOutcome(InstallOutcome{Status: StatusFailed, Reason: "exit 100"})

	assert.Equal(t, 1, report.PresentCount())
	assert.Equal(t, 2, report.InstalledCount())
	require.Len(t, report.FailedOutcomes(), 1)
	assert.Equal(t, "exit 100", report.FailedOutcomes()[0].Reason)
}
