package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/arsenal-toolkit/pkg/models"
	"github.com/arsenal-toolkit/pkg/utils"
)

// Renderer writes human readable summaries to the console
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a renderer writing to stdout
func NewRenderer() *Renderer {
	return &Renderer{w: os.Stdout}
}

// NewRendererTo creates a renderer writing to w
func NewRendererTo(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// BootstrapSummary prints the outcome of a bootstrap run
func (r *Renderer) BootstrapSummary(report *models.BootstrapReport) {
	fmt.Fprintf(r.w, "\n🚀 Bootstrap Summary\n")
	fmt.Fprintf(r.w, "═══════════════════════════════════════\n")
	fmt.Fprintf(r.w, "🖥️  Platform: %s\n", report.Platform.String())
	if report.Manager != "" {
		fmt.Fprintf(r.w, "📦 Package Manager: %s\n", report.Manager)
	}
	fmt.Fprintf(r.w, "⏱️  Duration: %v\n", report.Duration)

	if len(report.Outcomes) > 0 {
		fmt.Fprintf(r.w, "\n📊 Packages:\n")
		for _, outcome := range report.Outcomes {
			fmt.Fprintf(r.w, "  %s\n", formatOutcome(outcome))
		}
	}

	if report.VenvPath != "" {
		state := "already present"
		if report.VenvCreated {
			state = "created"
		}
		fmt.Fprintf(r.w, "\n🐍 Virtual Environment: %s (%s)\n", report.VenvPath, state)
	}
	if len(report.Requirements) > 0 {
		fmt.Fprintf(r.w, "📚 Python Requirements: %d installed\n", len(report.Requirements))
	}
	if report.LogPath != "" {
		fmt.Fprintf(r.w, "📁 Run log: %s\n", report.LogPath)
	}

	if failed := report.FailedOutcomes(); len(failed) > 0 {
		fmt.Fprintf(r.w, "\n%s %d package(s) failed\n", color.RedString("❌"), len(failed))
	} else {
		fmt.Fprintf(r.w, "\n%s Environment ready\n", color.GreenString("✅"))
	}
}

func formatOutcome(outcome models.InstallOutcome) string {
	name := outcome.Request.Name
	switch outcome.Status {
	case models.StatusAlreadyPresent:
		return fmt.Sprintf("➖ %s (already present)", name)
	case models.StatusInstalled:
		if outcome.Package != "" && outcome.Package != name {
			return fmt.Sprintf("✅ %s (installed as %s)", name, outcome.Package)
		}
		return fmt.Sprintf("✅ %s (installed)", name)
	case models.StatusSkipped:
		return fmt.Sprintf("⚠️  %s (skipped)", name)
	default:
		reason := outcome.Reason
		if reason == "" {
			reason = "unknown error"
		}
		return fmt.Sprintf("❌ %s (%s)", name, reason)
	}
}

// ToolTable prints the catalog as a table with install state
func (r *Renderer) ToolTable(states []models.ToolState, profile models.PlatformProfile) {
	fmt.Fprintf(r.w, "\n🧰 Tool Catalog (%d tools, %s)\n", len(states), profile.String())
	fmt.Fprintf(r.w, "═══════════════════════════════════════\n")

	table := tablewriter.NewWriter(r.w)
	table.SetHeader([]string{"Name", "Category", "Status", "Description"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	sorted := make([]models.ToolState, len(states))
	copy(sorted, states)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Tool.Category != sorted[j].Tool.Category {
			return sorted[i].Tool.Category < sorted[j].Tool.Category
		}
		return sorted[i].Tool.Name < sorted[j].Tool.Name
	})

	for _, state := range sorted {
		table.Append([]string{
			state.Tool.Name,
			state.Tool.Category,
			statusCell(state),
			utils.TruncateString(state.Tool.Description, 48),
		})
	}

	table.Render()
	fmt.Fprintf(r.w, "\n💡 Use 'arsenal install <name>' to install a tool\n")
}

func statusCell(state models.ToolState) string {
	switch {
	case state.Tool.IsExternal():
		return color.CyanString("external")
	case !state.Supported:
		return color.YellowString("unsupported")
	case state.Installed:
		return color.GreenString("installed")
	default:
		return "available"
	}
}

// ToolInfo prints the full catalog entry for one tool
func (r *Renderer) ToolInfo(state models.ToolState, profile models.PlatformProfile) {
	tool := state.Tool

	fmt.Fprintf(r.w, "\n📦 %s\n", tool.Name)
	fmt.Fprintf(r.w, "═══════════════════════════════════\n")
	fmt.Fprintf(r.w, "Category:     %s\n", tool.Category)
	if tool.Description != "" {
		fmt.Fprintf(r.w, "Description:  %s\n", tool.Description)
	}

	if tool.IsExternal() {
		fmt.Fprintf(r.w, "Type:         %s\n", color.CyanString("external service"))
		return
	}

	if tool.GithubURL != "" {
		fmt.Fprintf(r.w, "Repository:   %s\n", tool.GithubURL)
	}

	status := "not installed"
	if state.Installed {
		status = color.GreenString("installed")
	}
	fmt.Fprintf(r.w, "Install dir:  %s (%s)\n", state.Path, status)

	if command, ok := tool.RunCommandFor(profile); ok {
		fmt.Fprintf(r.w, "Run command:  %s\n", command)
	}

	if deps := tool.DependenciesFor(profile); len(deps) > 0 {
		fmt.Fprintf(r.w, "Dependencies: %s\n", strings.Join(deps, ", "))
	}

	if len(tool.OSCompat) > 0 {
		fmt.Fprintf(r.w, "Platforms:    %s\n", strings.Join(tool.OSCompat, ", "))
	}
}

// ExternalToolNotice explains how to reach a tool that has no local
// installation
func (r *Renderer) ExternalToolNotice(tool *models.Tool) {
	fmt.Fprintf(r.w, "\n🌐 %s is an external service\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(r.w, "   %s\n", tool.Description)
	}
}
