package shell

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsenal-toolkit/internal/logger"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecutorRun(t *testing.T) {
	requireShell(t)
	e := NewExecutor(logger.New("error", "text"))

	result, err := e.Run(context.Background(), "", "sh", "-c", "echo out; echo err 1>&2")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, "out")
	assert.Contains(t, result.Output, "err")
}

func TestExecutorExitCode(t *testing.T) {
	requireShell(t)
	e := NewExecutor(logger.New("error", "text"))

	result, err := e.Run(context.Background(), "", "sh", "-c", "exit 3")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.ExitCode)
}

func TestExecutorMissingBinary(t *testing.T) {
	e := NewExecutor(logger.New("error", "text"))

	_, err := e.Run(context.Background(), "", "definitely-not-a-real-binary-name")
	assert.Error(t, err)
}

func TestExecutorEmptyCommand(t *testing.T) {
	e := NewExecutor(logger.New("error", "text"))

	_, err := e.Run(context.Background(), "")
	assert.Error(t, err)
}

func TestExecutorMirror(t *testing.T) {
	requireShell(t)

	var mirror bytes.Buffer
	e := NewExecutor(logger.New("error", "text")).Mirror(&mirror)

	result, err := e.Run(context.Background(), "", "sh", "-c", "echo mirrored")
	require.NoError(t, err)
	assert.Contains(t, result.Output, "mirrored")
	assert.Contains(t, mirror.String(), "mirrored")
}

func TestExecutorEnv(t *testing.T) {
	requireShell(t)
	e := NewExecutor(logger.New("error", "text"))

	result, err := e.RunWithEnv(context.Background(), "", []string{"ARSENAL_EXEC_TEST=present"},
		"sh", "-c", "echo $ARSENAL_EXEC_TEST")
	require.NoError(t, err)
	assert.Contains(t, result.Output, "present")
}
