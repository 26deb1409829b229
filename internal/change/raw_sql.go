package change

import (
	"strings"

	"github.com/nethalo/oscmig/internal/parser"
	"github.com/nethalo/oscmig/pkg/logger"
)

// RawSQLName is the change name of RawSQL.
const RawSQLName = "sql"

// RawSQL runs free-form SQL. It is delegated only when the SQL is a single
// ALTER TABLE statement.
type RawSQL struct {
	Percona

	// EndDelimiter separates statements; empty means ";".
	EndDelimiter string
	// StripComments and SplitStatements shape the statements run when the
	// change is not delegated.
	StripComments   bool
	SplitStatements bool

	sql    string
	target targetCache
}

// targetCache memoizes the resolved target for the current SQL text.
type targetCache struct {
	valid  bool
	target parser.AlterTarget
}

func (c *targetCache) invalidate() {
	c.valid = false
	c.target = parser.AlterTarget{}
}

// NewRawSQL returns a change for sql that splits statements on ";".
func NewRawSQL(sql string) *RawSQL {
	return &RawSQL{sql: sql, SplitStatements: true}
}

func (r *RawSQL) ChangeName() string {
	return RawSQLName
}

func (r *RawSQL) SQL() string {
	return r.sql
}

// SetSQL replaces the SQL text and discards the resolved target.
func (r *RawSQL) SetSQL(sql string) {
	r.sql = sql
	r.target.invalidate()
}

// SetUsePercona also discards the resolved target, since opting out skips
// resolution entirely.
func (r *RawSQL) SetUsePercona(v *bool) {
	r.Percona.SetUsePercona(v)
	r.target.invalidate()
}

func (r *RawSQL) TargetTableName() string {
	return r.resolve().Table
}

func (r *RawSQL) TargetDatabaseName() string {
	return r.resolve().Database
}

func (r *RawSQL) GenerateAlterStatement() string {
	return r.resolve().AlterOptions
}

func (r *RawSQL) resolve() parser.AlterTarget {
	if r.target.valid {
		return r.target.target
	}
	r.target.valid = true
	r.target.target = parser.AlterTarget{}

	if strings.TrimSpace(r.sql) == "" || OptedOut(r) {
		return r.target.target
	}

	target, err := parser.ResolveAlterTarget(r.sql, parser.SplitOptions{
		StripComments: true,
		Delimiter:     r.EndDelimiter,
	})
	if err != nil {
		logger.Warn("Not using percona toolkit", "reason", err, "sql", r.sql)
		return r.target.target
	}

	logger.Debug("Determined target", "database", target.Database, "table", target.Table)
	r.target.target = target
	return target
}

func (r *RawSQL) Statements() []Statement {
	sql := strings.TrimSpace(r.sql)
	if sql == "" {
		return nil
	}
	if !r.SplitStatements {
		return []Statement{SQLStatement(sql)}
	}

	pieces, err := parser.Split(sql, parser.SplitOptions{
		StripComments: r.StripComments,
		Delimiter:     r.EndDelimiter,
	})
	if err != nil {
		logger.Warn("Could not split statements, running sql as one statement", "reason", err, "sql", sql)
		return []Statement{SQLStatement(sql)}
	}

	statements := make([]Statement, len(pieces))
	for i, p := range pieces {
		statements[i] = SQLStatement(p)
	}
	return statements
}

func (r *RawSQL) Validate() []error {
	if strings.TrimSpace(r.sql) == "" {
		return []error{ErrSQLRequired}
	}
	return nil
}
