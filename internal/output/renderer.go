package output

import (
	"fmt"
	"io"

	"github.com/nethalo/oscmig/internal/migrate"
	"github.com/nethalo/oscmig/internal/mysql"
	"github.com/nethalo/oscmig/internal/osc"
	"github.com/nethalo/oscmig/internal/parser"
	"github.com/nethalo/oscmig/internal/topology"
)

// Renderer defines the output interface.
type Renderer interface {
	RenderPlan(report *PlanReport)
	RenderConnection(info *ConnectionInfo)
}

// PlanReport is everything the plan command shows.
type PlanReport struct {
	ChangeLog string
	Config    osc.Config
	Entries   []migrate.PlanEntry
	Topology  *topology.Info // nil unless the plan connected
}

// Delegated counts entries that would run through pt-online-schema-change.
func (p *PlanReport) Delegated() int {
	return migrate.Delegated(p.Entries)
}

// ConnectionInfo is what the connect command shows.
type ConnectionInfo struct {
	Conn        mysql.ConnectionConfig
	Version     mysql.ServerVersion
	ToolPath    string
	ToolVersion string // empty when the tool is not available
	ToolError   string
	Topology    *topology.Info
}

// NewRenderer creates a renderer for the given format.
func NewRenderer(format string, w io.Writer) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{w: w}
	case "markdown":
		return &MarkdownRenderer{w: w}
	case "plain":
		return &PlainRenderer{w: w}
	default:
		return &TextRenderer{w: w}
	}
}

// helpers shared by renderers

func tableName(e migrate.PlanEntry) string {
	switch {
	case e.Table == "":
		return "-"
	case e.Database == "":
		return e.Table
	default:
		return e.Database + "." + e.Table
	}
}

func method(e migrate.PlanEntry) string {
	if e.Decision.Delegate {
		return osc.ToolName
	}
	return "direct"
}

func operations(e migrate.PlanEntry) string {
	if len(e.Operations) == 0 {
		return "-"
	}
	return parser.Summary(e.Operations)
}

func topologyWarnings(t *topology.Info) []string {
	if t == nil {
		return nil
	}
	return t.Warnings()
}

func topologyLabel(t *topology.Info) string {
	switch {
	case t == nil:
		return "-"
	case t.Type == topology.Galera:
		return fmt.Sprintf("%s (%d nodes, %s)", t.Type, t.GaleraClusterSize, valueOr(t.GaleraOSUMethod, "?"))
	case t.Type == topology.GroupRepl:
		return fmt.Sprintf("%s (%s)", t.Type, t.GRMode)
	default:
		return string(t.Type)
	}
}

func toolStatus(info *ConnectionInfo) string {
	if info.ToolVersion != "" {
		return info.ToolVersion
	}
	if info.ToolError != "" {
		return "not available (" + info.ToolError + ")"
	}
	return "not available"
}
