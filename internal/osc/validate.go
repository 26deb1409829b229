package osc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nethalo/oscmig/internal/change"
	"github.com/nethalo/oscmig/internal/mysql"
)

var (
	ErrOptionsWithoutPercona = errors.New("perconaOptions is set but usePercona is false")
	ErrCrossDatabase         = errors.New(ToolName + " can't alter a table in another database")
)

// ValidationResult holds findings for one change. Errors block the run;
// warnings are reported and the change falls back to plain statements.
type ValidationResult struct {
	Errors   []error
	Warnings []string
}

func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err joins the errors, or returns nil.
func (r ValidationResult) Err() error {
	return errors.Join(r.Errors...)
}

// Validate checks c on its own and against the delegation settings.
func Validate(c change.Change, conn mysql.ConnectionConfig, cfg Config) ValidationResult {
	var res ValidationResult
	res.Errors = append(res.Errors, c.Validate()...)

	if change.OptedOut(c) {
		if strings.TrimSpace(c.PerconaOptions()) != "" {
			res.Errors = append(res.Errors, ErrOptionsWithoutPercona)
		}
		return res
	}
	if cfg.Skips(c.ChangeName()) || (c.UsePercona() == nil && !cfg.DefaultOn) {
		return res
	}
	if res.HasErrors() {
		return res
	}

	if c.TargetTableName() == "" {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s will not be used: target table could not be determined", ToolName))
		return res
	}
	if db := c.TargetDatabaseName(); db != "" && conn.Database != "" && !strings.EqualFold(db, conn.Database) {
		res.Errors = append(res.Errors, fmt.Errorf("%w: table %s.%s, connection database %s", ErrCrossDatabase, db, c.TargetTableName(), conn.Database))
	}
	return res
}
