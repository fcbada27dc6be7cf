package tools

import (
	"context"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/arsenal-toolkit/internal/inventory"
	"github.com/arsenal-toolkit/pkg/models"
)

// Run executes a tool's catalog run command with extra arguments
// appended. The command runs in the tool's install directory and the
// child's exit code comes back in the result, not as an error.
func (m *Manager) Run(ctx context.Context, name string, args []string) (*models.RunResult, error) {
	tool, ok := m.catalog.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if tool.IsExternal() {
		return nil, fmt.Errorf("%w: %s", ErrExternalTool, tool.Name)
	}

	command, ok := tool.RunCommandFor(m.profile)
	if !ok {
		return nil, fmt.Errorf("%s has no run command for %s", tool.Name, m.profile.String())
	}

	if !m.Installed(tool) {
		return nil, fmt.Errorf("%w: %s", inventory.ErrNotInstalled, tool.Name)
	}

	dir := m.InstallDir(tool)
	command = strings.ReplaceAll(command, installPathToken, dir)

	// Extra arguments join the command line shell-quoted, so values with
	// spaces survive the round trip through the parser.
	for _, arg := range args {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %q: %w", arg, err)
		}
		command += " " + quoted
	}

	m.log.Info("Running tool", "tool", tool.Name, "command", command, "dir", dir)

	result, err := m.shell.Run(ctx, dir, command)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", tool.Name, err)
	}

	return &models.RunResult{
		Tool:     tool.Name,
		Command:  command,
		ExitCode: result.ExitCode,
	}, nil
}
