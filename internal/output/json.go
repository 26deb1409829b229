package output

import (
	"encoding/json"
	"io"

	"github.com/nethalo/oscmig/internal/topology"
)

// JSONRenderer produces machine-readable JSON output.
type JSONRenderer struct {
	w io.Writer
}

type jsonPlanOutput struct {
	ChangeLog string        `json:"changelog"`
	Changes   int           `json:"changes"`
	Delegated int           `json:"delegated"`
	DefaultOn bool          `json:"default_on"`
	Skip      []string      `json:"skip_changes,omitempty"`
	Topology  *jsonTopology `json:"topology,omitempty"`
	Entries   []jsonChange  `json:"entries"`
}

type jsonTopology struct {
	Type     string   `json:"type"`
	ReadOnly bool     `json:"read_only"`
	Warnings []string `json:"warnings,omitempty"`
}

type jsonChange struct {
	ChangeSet  string          `json:"changeset"`
	Index      int             `json:"index"`
	ChangeName string          `json:"change"`
	Database   string          `json:"database,omitempty"`
	Table      string          `json:"table,omitempty"`
	Alter      string          `json:"alter,omitempty"`
	Operations []string        `json:"operations,omitempty"`
	Delegate   bool            `json:"delegate"`
	Reason     string          `json:"reason"`
	Command    string          `json:"command,omitempty"`
	Errors     []string        `json:"errors,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
	Stats      *jsonTableStats `json:"table_stats,omitempty"`
}

type jsonTableStats struct {
	SizeBytes int64  `json:"size_bytes"`
	SizeHuman string `json:"size_human"`
	RowCount  int64  `json:"row_count"`
	Engine    string `json:"engine"`
}

func (r *JSONRenderer) RenderPlan(report *PlanReport) {
	out := jsonPlanOutput{
		ChangeLog: report.ChangeLog,
		Changes:   len(report.Entries),
		Delegated: report.Delegated(),
		DefaultOn: report.Config.DefaultOn,
		Skip:      report.Config.SkipChanges,
		Topology:  newJSONTopology(report.Topology),
		Entries:   []jsonChange{},
	}

	for _, e := range report.Entries {
		c := jsonChange{
			ChangeSet:  e.ChangeSet,
			Index:      e.Index,
			ChangeName: e.ChangeName,
			Database:   e.Database,
			Table:      e.Table,
			Alter:      e.Alter,
			Delegate:   e.Decision.Delegate,
			Reason:     string(e.Decision.Reason),
			Warnings:   e.Validation.Warnings,
		}
		for _, op := range e.Operations {
			c.Operations = append(c.Operations, string(op))
		}
		if e.Decision.Command != nil {
			c.Command = e.Decision.Command.String()
		}
		for _, err := range e.Validation.Errors {
			c.Errors = append(c.Errors, err.Error())
		}
		if e.Stats != nil {
			c.Stats = &jsonTableStats{
				SizeBytes: e.Stats.TotalSize(),
				SizeHuman: e.Stats.TotalSizeHuman(),
				RowCount:  e.Stats.RowCount,
				Engine:    e.Stats.Engine,
			}
		}
		out.Entries = append(out.Entries, c)
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func (r *JSONRenderer) RenderConnection(info *ConnectionInfo) {
	out := map[string]interface{}{
		"host":           info.Conn.Host,
		"port":           info.Conn.Port,
		"database":       info.Conn.Database,
		"version":        info.Version.String(),
		"flavor":         info.Version.Flavor,
		"tool_available": info.ToolVersion != "",
	}
	if info.Conn.Socket != "" {
		out["socket"] = info.Conn.Socket
	}
	if info.ToolVersion != "" {
		out["tool_version"] = info.ToolVersion
	}
	if info.ToolError != "" {
		out["tool_error"] = info.ToolError
	}
	if t := newJSONTopology(info.Topology); t != nil {
		out["topology"] = t
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func newJSONTopology(t *topology.Info) *jsonTopology {
	if t == nil {
		return nil
	}
	return &jsonTopology{
		Type:     string(t.Type),
		ReadOnly: t.ReadOnly || t.SuperReadOnly,
		Warnings: t.Warnings(),
	}
}
