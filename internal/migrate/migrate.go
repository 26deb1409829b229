// Package migrate applies a changelog, routing eligible changes through
// pt-online-schema-change.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nethalo/oscmig/internal/change"
	"github.com/nethalo/oscmig/internal/changelog"
	"github.com/nethalo/oscmig/internal/mysql"
	"github.com/nethalo/oscmig/internal/osc"
	"github.com/nethalo/oscmig/internal/parser"
	"github.com/nethalo/oscmig/pkg/logger"
)

// ErrValidation is returned when a change fails validation. Nothing in the
// changelog runs in that case.
var ErrValidation = errors.New("changelog validation failed")

// Executor runs SQL statements; *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Migrator walks a changelog in order.
type Migrator struct {
	changelog *changelog.ChangeLog
	cfg       osc.Config
	tool      osc.Tool
	conn      mysql.ConnectionConfig
}

func New(cl *changelog.ChangeLog, cfg osc.Config, tool osc.Tool, conn mysql.ConnectionConfig) *Migrator {
	return &Migrator{changelog: cl, cfg: cfg, tool: tool, conn: conn}
}

// Result counts what Update did.
type Result struct {
	ChangeSets int
	Changes    int
	Delegated  int
	Statements int // statements executed directly against the server
	Warnings   []string
}

// Validate checks every change before anything runs.
func (m *Migrator) Validate() ([]string, error) {
	var (
		warnings []string
		errs     []error
	)
	for _, cs := range m.changelog.ChangeSets {
		for i, c := range cs.Changes {
			res := osc.Validate(c, m.conn, m.cfg)
			for _, w := range res.Warnings {
				warnings = append(warnings, fmt.Sprintf("%s #%d: %s", cs.Key(), i+1, w))
			}
			for _, err := range res.Errors {
				errs = append(errs, fmt.Errorf("%s #%d (%s): %w", cs.Key(), i+1, c.ChangeName(), err))
			}
		}
	}
	if len(errs) > 0 {
		return warnings, fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}
	return warnings, nil
}

// Update applies the changelog. Delegated changes run through the tool;
// every other change executes its statements on exec. The first failure
// stops the run.
func (m *Migrator) Update(ctx context.Context, exec Executor) (Result, error) {
	var res Result
	warnings, err := m.Validate()
	res.Warnings = warnings
	if err != nil {
		return res, err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	cfg := m.cfg
	cfg.DryRun = false
	gen := osc.NewGenerator(cfg, m.tool)

	for _, cs := range m.changelog.ChangeSets {
		log := logger.With("changeset", cs.Key())
		log.Info("Running changeset")

		for _, c := range cs.Changes {
			statements, d, err := gen.GenerateWithDecision(ctx, c, m.conn)
			if err != nil {
				return res, fmt.Errorf("changeset %s: %w", cs.Key(), err)
			}
			if d.Delegate {
				res.Delegated++
			}
			for _, s := range statements {
				if s.IsComment() {
					log.Info(s.Text)
					continue
				}
				log.Debug("Executing statement", "sql", s.Text)
				if _, err := exec.ExecContext(ctx, s.Text); err != nil {
					return res, fmt.Errorf("changeset %s: executing %q: %w", cs.Key(), s.Text, err)
				}
				res.Statements++
			}
			res.Changes++
		}
		res.ChangeSets++
	}
	return res, nil
}

// UpdateSQL writes the script Update would run, without touching the
// server or the tool. Delegated changes appear as their command comment.
func (m *Migrator) UpdateSQL(ctx context.Context, w io.Writer) error {
	if _, err := m.Validate(); err != nil {
		return err
	}

	cfg := m.cfg
	cfg.DryRun = true
	gen := osc.NewGenerator(cfg, m.tool)

	if m.changelog.Path != "" {
		if _, err := fmt.Fprintf(w, "-- Changelog %s\n", m.changelog.Path); err != nil {
			return err
		}
	}
	for _, cs := range m.changelog.ChangeSets {
		var b strings.Builder
		fmt.Fprintf(&b, "\n-- Changeset %s\n", cs.Key())
		for _, c := range cs.Changes {
			statements, err := gen.Generate(ctx, c, m.conn)
			if err != nil {
				return fmt.Errorf("changeset %s: %w", cs.Key(), err)
			}
			for _, s := range statements {
				b.WriteString(s.Format(delimiterFor(c)))
				b.WriteByte('\n')
			}
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func delimiterFor(c change.Change) string {
	if r, ok := c.(*change.RawSQL); ok && r.EndDelimiter != "" {
		return "\n" + r.EndDelimiter
	}
	return parser.DefaultDelimiter
}
