package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nethalo/oscmig/internal/migrate"
	"github.com/nethalo/oscmig/internal/osc"
)

// TextRenderer produces Lip Gloss styled terminal output.
type TextRenderer struct {
	w io.Writer
}

func (r *TextRenderer) RenderPlan(report *PlanReport) {
	width := 72

	header := TitleStyle.Render("oscmig plan")
	fmt.Fprintln(r.w)

	lines := []string{
		r.labelValue("Changelog:", report.ChangeLog),
		r.labelValue("Changes:", fmt.Sprintf("%d", len(report.Entries))),
		r.labelValue("Delegated:", fmt.Sprintf("%d", report.Delegated())),
		r.labelValue("Mode:", modeLabel(report.Config)),
	}
	if len(report.Config.SkipChanges) > 0 {
		lines = append(lines, r.labelValue("Skipped types:", strings.Join(report.Config.SkipChanges, ", ")))
	}
	if report.Topology != nil {
		lines = append(lines, r.labelValue("Topology:", topologyLabel(report.Topology)))
	}
	for _, w := range topologyWarnings(report.Topology) {
		lines = append(lines, WarningText.Render(IconWarning+" ")+w)
	}
	fmt.Fprintln(r.w, BoxStyle.Width(width).Render(header+"\n"+strings.Join(lines, "\n")))

	for _, e := range report.Entries {
		r.renderEntry(e, width)
	}
	fmt.Fprintln(r.w)
}

func (r *TextRenderer) renderEntry(e migrate.PlanEntry, width int) {
	var style lipgloss.Style
	var verdict string
	switch {
	case e.Validation.HasErrors():
		style = InvalidBoxStyle
		verdict = InvalidText.Render(IconInvalid + " Invalid")
	case e.Decision.Delegate:
		style = DelegatedBoxStyle
		verdict = DelegatedText.Render(IconDelegated + " " + osc.ToolName)
	case e.Decision.Reason == osc.ReasonUnavailable:
		style = FallbackBoxStyle
		verdict = WarningText.Render(IconWarning + " Direct ALTER (tool unavailable)")
	default:
		style = BoxStyle
		verdict = MutedText.Render(IconDirect + " Direct")
	}

	title := TitleStyle.Render(fmt.Sprintf("%s #%d  %s", e.ChangeSet, e.Index, e.ChangeName))
	lines := []string{
		verdict,
		r.labelValue("Table:", tableName(e)),
		r.labelValue("Operations:", operations(e)),
		r.labelValue("Reason:", string(e.Decision.Reason)),
	}
	if e.Stats != nil {
		lines = append(lines,
			r.labelValue("Table size:", e.Stats.TotalSizeHuman()),
			r.labelValue("Row count:", "~"+formatNumber(e.Stats.RowCount)),
			r.labelValue("Engine:", e.Stats.Engine),
		)
	}
	if e.Decision.Command != nil {
		lines = append(lines, "", CommandStyle.Render(e.Decision.Command.String()))
	}
	for _, err := range e.Validation.Errors {
		lines = append(lines, InvalidText.Render("error: ")+err.Error())
	}
	for _, w := range e.Validation.Warnings {
		lines = append(lines, WarningText.Render("warning: ")+w)
	}

	fmt.Fprintln(r.w, style.Width(width).Render(title+"\n"+strings.Join(lines, "\n")))
}

func (r *TextRenderer) RenderConnection(info *ConnectionInfo) {
	width := 60
	fmt.Fprintln(r.w)

	lines := []string{
		r.labelValue("Connected to:", info.Conn.Address()),
		r.labelValue("Server version:", info.Version.String()),
		r.labelValue("Database:", valueOr(info.Conn.Database, "-")),
		r.labelValue("pt-osc path:", valueOr(info.ToolPath, osc.ToolName)),
		r.labelValue("pt-osc version:", toolStatus(info)),
		r.labelValue("Topology:", topologyLabel(info.Topology)),
	}
	warnings := topologyWarnings(info.Topology)
	for _, w := range warnings {
		lines = append(lines, WarningText.Render(IconWarning+" ")+w)
	}

	style := DelegatedBoxStyle
	if info.ToolVersion == "" || len(warnings) > 0 {
		style = FallbackBoxStyle
	}
	title := TitleStyle.Render("oscmig connection")
	fmt.Fprintln(r.w, style.Width(width).Render(title+"\n"+strings.Join(lines, "\n")))
	fmt.Fprintln(r.w)
}

// helpers

func (r *TextRenderer) labelValue(label, value string) string {
	return LabelStyle.Render(label) + " " + ValueStyle.Render(value)
}

func modeLabel(cfg osc.Config) string {
	var parts []string
	if cfg.DefaultOn {
		parts = append(parts, "on by default")
	} else {
		parts = append(parts, "opt-in")
	}
	if cfg.FailIfUnavailable {
		parts = append(parts, "fail if unavailable")
	}
	return strings.Join(parts, ", ")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
