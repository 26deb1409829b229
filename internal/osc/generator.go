package osc

import (
	"context"
	"errors"
	"fmt"

	"github.com/nethalo/oscmig/internal/change"
	"github.com/nethalo/oscmig/internal/mysql"
	"github.com/nethalo/oscmig/pkg/logger"
)

var (
	// ErrToolUnavailable is returned when delegation was decided but the
	// tool is missing and FailIfUnavailable is set.
	ErrToolUnavailable = errors.New(ToolName + " is not available")
	// ErrInvocation wraps a failed tool run.
	ErrInvocation = errors.New(ToolName + " failed")
)

// Notice comments placed after the command comment.
const (
	DryRunNotice    = "Instead of the following statements, " + ToolName + " will be used"
	ExecutingNotice = "Executing " + ToolName
)

// Tool checks for and runs the external tool.
type Tool interface {
	Available() bool
	Invoke(ctx context.Context, cmd *Command) error
}

// Reason explains a delegation decision.
type Reason string

const (
	ReasonDelegated   Reason = "delegated"
	ReasonNoTarget    Reason = "target table could not be determined"
	ReasonSkipped     Reason = "change type is in the skip list"
	ReasonOptedOut    Reason = "usePercona is false"
	ReasonNotEnabled  Reason = "usePercona is unset and percona is not on by default"
	ReasonUnavailable Reason = ToolName + " is not available"
)

// Decision is the outcome for one change, without side effects.
type Decision struct {
	Delegate bool
	Reason   Reason
	Command  *Command // set once the checks before availability pass
}

// Generator produces the ordered statements for a change under one Config.
// It keeps no state between changes.
type Generator struct {
	cfg  Config
	tool Tool
}

func NewGenerator(cfg Config, tool Tool) *Generator {
	return &Generator{cfg: cfg, tool: tool}
}

// Config returns the generator's policy.
func (g *Generator) Config() Config {
	return g.cfg
}

// Decide evaluates the delegation checks in order. It never invokes the
// tool and never fails; a missing tool is reported as ReasonUnavailable.
func (g *Generator) Decide(c change.Change, conn mysql.ConnectionConfig) Decision {
	if c.TargetTableName() == "" {
		return Decision{Reason: ReasonNoTarget}
	}
	if g.cfg.Skips(c.ChangeName()) {
		return Decision{Reason: ReasonSkipped}
	}
	if use := c.UsePercona(); use != nil && !*use {
		return Decision{Reason: ReasonOptedOut}
	} else if use == nil && !g.cfg.DefaultOn {
		return Decision{Reason: ReasonNotEnabled}
	}

	cmd := NewCommand(c, conn, g.cfg)
	if g.tool == nil || !g.tool.Available() {
		return Decision{Reason: ReasonUnavailable, Command: cmd}
	}
	return Decision{Delegate: true, Reason: ReasonDelegated, Command: cmd}
}

// Generate returns the statements to run or print for c. In real mode a
// delegated change invokes the tool before returning and the returned
// statements are comments only.
func (g *Generator) Generate(ctx context.Context, c change.Change, conn mysql.ConnectionConfig) ([]change.Statement, error) {
	statements, _, err := g.GenerateWithDecision(ctx, c, conn)
	return statements, err
}

// GenerateWithDecision is Generate that also reports the decision taken.
func (g *Generator) GenerateWithDecision(ctx context.Context, c change.Change, conn mysql.ConnectionConfig) ([]change.Statement, Decision, error) {
	d := g.Decide(c, conn)
	fallback := c.Statements()

	switch d.Reason {
	case ReasonDelegated:
	case ReasonUnavailable:
		if g.cfg.FailIfUnavailable {
			return nil, d, fmt.Errorf("%w: change %s on table %s", ErrToolUnavailable, c.ChangeName(), c.TargetTableName())
		}
		logger.Warn("Not using percona toolkit", "reason", d.Reason, "table", c.TargetTableName(), "alter", d.Command.Alter)
		return fallback, d, nil
	case ReasonNoTarget:
		return fallback, d, nil
	default:
		logger.Debug("Not using percona toolkit", "reason", d.Reason, "change", c.ChangeName())
		return fallback, d, nil
	}

	commandComment := change.Comment(d.Command.String())

	if g.cfg.DryRun {
		if g.cfg.NoAlterSQLDryMode {
			return []change.Statement{commandComment}, d, nil
		}
		statements := make([]change.Statement, 0, len(fallback)+2)
		statements = append(statements, commandComment, change.Comment(DryRunNotice))
		return append(statements, fallback...), d, nil
	}

	logger.Info("Executing", "command", d.Command.String())
	if err := g.tool.Invoke(ctx, d.Command); err != nil {
		return nil, d, fmt.Errorf("%w: %w", ErrInvocation, err)
	}
	return []change.Statement{commandComment, change.Comment(ExecutingNotice)}, d, nil
}
