package change

import "strings"

// DropColumnName is the change name of DropColumn.
const DropColumnName = "dropColumn"

// DropColumn drops one or more columns from a table. Its target is
// structural, so it always resolves.
type DropColumn struct {
	Percona

	CatalogName string
	TableName   string
	ColumnName  string
	Columns     []string // takes precedence over ColumnName
}

func (d *DropColumn) ChangeName() string {
	return DropColumnName
}

func (d *DropColumn) columns() []string {
	if len(d.Columns) > 0 {
		return d.Columns
	}
	if d.ColumnName != "" {
		return []string{d.ColumnName}
	}
	return nil
}

// GenerateAlterStatement returns "DROP COLUMN a, DROP COLUMN b" in
// declaration order.
func (d *DropColumn) GenerateAlterStatement() string {
	cols := d.columns()
	clauses := make([]string, len(cols))
	for i, col := range cols {
		clauses[i] = "DROP COLUMN " + col
	}
	return strings.Join(clauses, ", ")
}

func (d *DropColumn) TargetTableName() string {
	return d.TableName
}

func (d *DropColumn) TargetDatabaseName() string {
	return d.CatalogName
}

func (d *DropColumn) Statements() []Statement {
	table := d.TableName
	if d.CatalogName != "" {
		table = d.CatalogName + "." + table
	}
	return []Statement{SQLStatement("ALTER TABLE " + table + " " + d.GenerateAlterStatement())}
}

func (d *DropColumn) Validate() []error {
	var errs []error
	if d.TableName == "" {
		errs = append(errs, ErrTableNameRequired)
	}
	switch {
	case d.ColumnName != "" && len(d.Columns) > 0:
		errs = append(errs, ErrColumnsExclusive)
	case len(d.columns()) == 0:
		errs = append(errs, ErrColumnNameRequired)
	}
	return errs
}
