package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/nethalo/oscmig/internal/osc"
)

// PlainRenderer produces unformatted text output safe for piping.
type PlainRenderer struct {
	w io.Writer
}

func (r *PlainRenderer) RenderPlan(report *PlanReport) {
	fmt.Fprintf(r.w, "=== oscmig plan ===\n\n")
	fmt.Fprintf(r.w, "Changelog:     %s\n", report.ChangeLog)
	fmt.Fprintf(r.w, "Changes:       %d\n", len(report.Entries))
	fmt.Fprintf(r.w, "Delegated:     %d\n", report.Delegated())
	fmt.Fprintf(r.w, "Mode:          %s\n", modeLabel(report.Config))
	if len(report.Config.SkipChanges) > 0 {
		fmt.Fprintf(r.w, "Skipped types: %s\n", strings.Join(report.Config.SkipChanges, ", "))
	}
	if report.Topology != nil {
		fmt.Fprintf(r.w, "Topology:      %s\n", topologyLabel(report.Topology))
	}
	for _, w := range topologyWarnings(report.Topology) {
		fmt.Fprintf(r.w, "WARNING: %s\n", w)
	}

	for _, e := range report.Entries {
		fmt.Fprintf(r.w, "\n--- %s #%d %s ---\n", e.ChangeSet, e.Index, e.ChangeName)
		fmt.Fprintf(r.w, "Table:         %s\n", tableName(e))
		fmt.Fprintf(r.w, "Operations:    %s\n", operations(e))
		fmt.Fprintf(r.w, "Method:        %s\n", method(e))
		fmt.Fprintf(r.w, "Reason:        %s\n", e.Decision.Reason)
		if e.Stats != nil {
			fmt.Fprintf(r.w, "Table size:    %s\n", e.Stats.TotalSizeHuman())
			fmt.Fprintf(r.w, "Row count:     ~%s\n", formatNumber(e.Stats.RowCount))
		}
		if e.Decision.Command != nil {
			fmt.Fprintf(r.w, "Command:       %s\n", e.Decision.Command)
		}
		for _, err := range e.Validation.Errors {
			fmt.Fprintf(r.w, "ERROR: %s\n", err)
		}
		for _, w := range e.Validation.Warnings {
			fmt.Fprintf(r.w, "WARNING: %s\n", w)
		}
	}
}

func (r *PlainRenderer) RenderConnection(info *ConnectionInfo) {
	fmt.Fprintf(r.w, "=== oscmig connection ===\n\n")
	fmt.Fprintf(r.w, "Connected to:  %s\n", info.Conn.Address())
	fmt.Fprintf(r.w, "Version:       %s\n", info.Version.String())
	fmt.Fprintf(r.w, "Database:      %s\n", valueOr(info.Conn.Database, "-"))
	fmt.Fprintf(r.w, "pt-osc path:   %s\n", valueOr(info.ToolPath, osc.ToolName))
	fmt.Fprintf(r.w, "pt-osc:        %s\n", toolStatus(info))
	fmt.Fprintf(r.w, "Topology:      %s\n", topologyLabel(info.Topology))
	for _, w := range topologyWarnings(info.Topology) {
		fmt.Fprintf(r.w, "WARNING: %s\n", w)
	}
}
