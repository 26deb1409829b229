package output

import (
	"fmt"
	"io"

	"github.com/nethalo/oscmig/internal/osc"
)

// MarkdownRenderer produces markdown output for documentation/tickets.
type MarkdownRenderer struct {
	w io.Writer
}

func (r *MarkdownRenderer) RenderPlan(report *PlanReport) {
	fmt.Fprintf(r.w, "# oscmig plan\n\n")
	fmt.Fprintf(r.w, "**Changelog:** `%s`\n\n", report.ChangeLog)
	fmt.Fprintf(r.w, "%d of %d changes run through %s (%s).\n\n",
		report.Delegated(), len(report.Entries), osc.ToolName, modeLabel(report.Config))
	if report.Topology != nil {
		fmt.Fprintf(r.w, "**Topology:** %s\n\n", topologyLabel(report.Topology))
	}
	for _, w := range topologyWarnings(report.Topology) {
		fmt.Fprintf(r.w, "> ⚠ %s\n\n", w)
	}

	fmt.Fprintf(r.w, "| Changeset | # | Change | Table | Operations | Method |\n|---|---|---|---|---|---|\n")
	for _, e := range report.Entries {
		fmt.Fprintf(r.w, "| %s | %d | %s | `%s` | %s | %s |\n",
			e.ChangeSet, e.Index, e.ChangeName, tableName(e), operations(e), method(e))
	}
	fmt.Fprintln(r.w)

	for _, e := range report.Entries {
		if e.Decision.Command == nil && len(e.Validation.Errors) == 0 && len(e.Validation.Warnings) == 0 {
			continue
		}
		fmt.Fprintf(r.w, "## %s #%d\n\n", e.ChangeSet, e.Index)
		fmt.Fprintf(r.w, "**Reason:** %s\n\n", e.Decision.Reason)
		if e.Stats != nil {
			fmt.Fprintf(r.w, "**Table size:** %s, ~%s rows\n\n", e.Stats.TotalSizeHuman(), formatNumber(e.Stats.RowCount))
		}
		if e.Decision.Command != nil {
			fmt.Fprintf(r.w, "```bash\n%s\n```\n\n", e.Decision.Command)
		}
		for _, err := range e.Validation.Errors {
			fmt.Fprintf(r.w, "- ❌ **Error:** %s\n", err)
		}
		for _, w := range e.Validation.Warnings {
			fmt.Fprintf(r.w, "- ⚠ **Warning:** %s\n", w)
		}
		if len(e.Validation.Errors) > 0 || len(e.Validation.Warnings) > 0 {
			fmt.Fprintln(r.w)
		}
	}
}

func (r *MarkdownRenderer) RenderConnection(info *ConnectionInfo) {
	fmt.Fprintf(r.w, "# oscmig connection\n\n")
	fmt.Fprintf(r.w, "| Property | Value |\n|---|---|\n")
	fmt.Fprintf(r.w, "| Host | `%s` |\n", info.Conn.Address())
	fmt.Fprintf(r.w, "| Version | %s |\n", info.Version.String())
	fmt.Fprintf(r.w, "| Database | %s |\n", valueOr(info.Conn.Database, "-"))
	fmt.Fprintf(r.w, "| %s | %s |\n", osc.ToolName, toolStatus(info))
	fmt.Fprintf(r.w, "| Topology | %s |\n", topologyLabel(info.Topology))
	for _, w := range topologyWarnings(info.Topology) {
		fmt.Fprintf(r.w, "\n> ⚠ %s\n", w)
	}
}
