// Package change models the schema changes of a changelog and how each one
// resolves the table that pt-online-schema-change would alter.
package change

import "errors"

// Change is a schema change that may be delegated to pt-online-schema-change.
type Change interface {
	// ChangeName identifies the change type; it is matched against the
	// configured skip list.
	ChangeName() string

	UsePercona() *bool
	SetUsePercona(v *bool)
	PerconaOptions() string
	SetPerconaOptions(opts string)

	// GenerateAlterStatement returns the --alter fragment, or "" when the
	// change can't be expressed as one.
	GenerateAlterStatement() string
	TargetTableName() string
	TargetDatabaseName() string

	// Statements returns what the change runs when it is not delegated.
	Statements() []Statement

	// Validate checks the change's own required fields.
	Validate() []error
}

var (
	ErrTableNameRequired  = errors.New("tableName is required")
	ErrColumnNameRequired = errors.New("columnName or columns is required")
	ErrColumnsExclusive   = errors.New("columnName and columns are mutually exclusive")
	ErrSQLRequired        = errors.New("sql is required")
)

// Bool returns a pointer to v, for setting the tri-state usePercona flag.
func Bool(v bool) *bool {
	return &v
}

// Percona holds the pt-online-schema-change settings shared by every change
// type. A nil UsePercona means the author left it unset.
type Percona struct {
	usePercona     *bool
	perconaOptions string
}

func (p *Percona) UsePercona() *bool {
	return p.usePercona
}

func (p *Percona) SetUsePercona(v *bool) {
	p.usePercona = v
}

func (p *Percona) PerconaOptions() string {
	return p.perconaOptions
}

func (p *Percona) SetPerconaOptions(opts string) {
	p.perconaOptions = opts
}

// OptedOut reports whether usePercona was explicitly set to false.
func OptedOut(c Change) bool {
	v := c.UsePercona()
	return v != nil && !*v
}
