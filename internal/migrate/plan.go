package migrate

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nethalo/oscmig/internal/change"
	"github.com/nethalo/oscmig/internal/mysql"
	"github.com/nethalo/oscmig/internal/osc"
	"github.com/nethalo/oscmig/internal/parser"
	"github.com/nethalo/oscmig/pkg/logger"
)

// PlanEntry describes what would happen to one change.
type PlanEntry struct {
	ChangeSet  string
	Index      int // 1-based position within the change set
	ChangeName string
	Database   string
	Table      string
	Alter      string
	Decision   osc.Decision
	Operations []parser.DDLOperation
	Validation osc.ValidationResult
	Stats      *mysql.TableStats // nil without a live connection
}

// Plan reports the delegation decision for every change without running
// anything. When db is non-nil each target table's size is looked up.
func (m *Migrator) Plan(ctx context.Context, db *sql.DB) ([]PlanEntry, error) {
	gen := osc.NewGenerator(m.cfg, m.tool)

	var entries []PlanEntry
	for _, cs := range m.changelog.ChangeSets {
		for i, c := range cs.Changes {
			e := PlanEntry{
				ChangeSet:  cs.Key(),
				Index:      i + 1,
				ChangeName: c.ChangeName(),
				Database:   c.TargetDatabaseName(),
				Table:      c.TargetTableName(),
				Alter:      c.GenerateAlterStatement(),
				Decision:   gen.Decide(c, m.conn),
				Validation: osc.Validate(c, m.conn, m.cfg),
			}
			e.Operations = classify(c, e.Table, e.Alter)

			if db != nil && e.Table != "" {
				stats, err := m.tableStats(ctx, db, e.Database, e.Table)
				if err != nil {
					return nil, err
				}
				e.Stats = stats
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *Migrator) tableStats(ctx context.Context, db *sql.DB, database, table string) (*mysql.TableStats, error) {
	if database == "" {
		database = m.conn.Database
	}
	stats, err := mysql.GetTableStats(ctx, db, database, table)
	if errors.Is(err, mysql.ErrTableNotFound) {
		logger.Warn("Table not found", "database", database, "table", table)
		return nil, nil
	}
	return stats, err
}

func classify(c change.Change, table, alter string) []parser.DDLOperation {
	if table == "" || alter == "" {
		return nil
	}
	ops, err := parser.Classify("ALTER TABLE `" + table + "` " + alter)
	if err != nil {
		logger.Debug("Could not classify alter", "change", c.ChangeName(), "reason", err)
		return []parser.DDLOperation{parser.OtherDDL}
	}
	return ops
}

// Delegated counts entries that would run through the tool.
func Delegated(entries []PlanEntry) int {
	n := 0
	for _, e := range entries {
		if e.Decision.Delegate {
			n++
		}
	}
	return n
}
