package parser

import (
	"errors"
	"testing"
)

const alterText = "ADD COLUMN address VARCHAR(255) NULL"

func TestRecognizeAlterTable(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		database string
		table    string
		options  string
		wantErr  error
	}{
		{
			name:    "simple",
			sql:     "alter table person " + alterText,
			table:   "person",
			options: alterText,
		},
		{
			name:    "keeps case",
			sql:     "altEr tAble pErSoN " + alterText,
			table:   "pErSoN",
			options: alterText,
		},
		{
			name:    "extra whitespace",
			sql:     "  altEr   tAble   pErSoN   " + alterText + "  ",
			table:   "pErSoN",
			options: alterText,
		},
		{
			name:    "newlines and tabs",
			sql:     "ALTER\tTABLE\n  person\n  " + alterText,
			table:   "person",
			options: alterText,
		},
		{
			name:    "backtick quoted table",
			sql:     "altEr tAble `pErSoN` ADD COLUMN `address` VARCHAR(255) NULL",
			table:   "pErSoN",
			options: "ADD COLUMN `address` VARCHAR(255) NULL",
		},
		{
			name:     "qualified table",
			sql:      "ALTER TABLE mydb.person " + alterText,
			database: "mydb",
			table:    "person",
			options:  alterText,
		},
		{
			name:     "backtick quoted database and table",
			sql:      "ALTER TABLE `mydb`.`person` " + alterText,
			database: "mydb",
			table:    "person",
			options:  alterText,
		},
		{
			name:     "database name contains table name",
			sql:      "alter table persons_db.person DROP COLUMN age",
			database: "persons_db",
			table:    "person",
			options:  "DROP COLUMN age",
		},
		{
			name:    "table name is part of a keyword",
			sql:     "alter table t drop column a",
			table:   "t",
			options: "drop column a",
		},
		{
			name:    "multiple alter clauses",
			sql:     "ALTER TABLE users ADD COLUMN email VARCHAR(255), ADD INDEX idx_email (email)",
			table:   "users",
			options: "ADD COLUMN email VARCHAR(255), ADD INDEX idx_email (email)",
		},
		{
			name:    "rename column keeps table",
			sql:     "ALTER TABLE person RENAME COLUMN name TO full_name",
			table:   "person",
			options: "RENAME COLUMN name TO full_name",
		},
		{
			name:    "rename index keeps table",
			sql:     "ALTER TABLE person rename index idx_a TO idx_b",
			table:   "person",
			options: "rename index idx_a TO idx_b",
		},
		{
			name:    "rename key keeps table",
			sql:     "ALTER TABLE person RENAME KEY idx_a TO idx_b",
			table:   "person",
			options: "RENAME KEY idx_a TO idx_b",
		},
		{
			name:    "rename table",
			sql:     "ALTER TABLE person RENAME people",
			wantErr: ErrRenameTable,
		},
		{
			name:    "rename table with TO",
			sql:     "alter table person rename to people",
			wantErr: ErrRenameTable,
		},
		{
			name:    "escaped name with spaces",
			sql:     "altEr tAble `my pErSoN table` ADD COLUMN `address` VARCHAR(255) NULL",
			wantErr: ErrUnparseableTable,
		},
		{
			name:    "too many qualifiers",
			sql:     "ALTER TABLE a.b.c " + alterText,
			wantErr: ErrUnparseableTable,
		},
		{
			name:    "insert",
			sql:     "insert into person (name) values ('Bob')",
			wantErr: ErrNotAlterTable,
		},
		{
			name:    "create table",
			sql:     "CREATE TABLE person (id INT)",
			wantErr: ErrNotAlterTable,
		},
		{
			name:    "alter view",
			sql:     "ALTER VIEW v AS SELECT 1",
			wantErr: ErrNotAlterTable,
		},
		{
			name:    "too short",
			sql:     "ALTER TABLE",
			wantErr: ErrNotAlterTable,
		},
		{
			name:    "empty",
			sql:     "",
			wantErr: ErrNotAlterTable,
		},
		{
			name:    "no alter clause",
			sql:     "ALTER TABLE person",
			wantErr: ErrNoAlterClause,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecognizeAlterTable(tt.sql)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if got != (AlterTarget{}) {
					t.Errorf("target = %+v, want zero value", got)
				}
				if got.OK() {
					t.Error("OK() = true, want false")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Table != tt.table {
				t.Errorf("Table = %q, want %q", got.Table, tt.table)
			}
			if got.Database != tt.database {
				t.Errorf("Database = %q, want %q", got.Database, tt.database)
			}
			if got.AlterOptions != tt.options {
				t.Errorf("AlterOptions = %q, want %q", got.AlterOptions, tt.options)
			}
		})
	}
}

func TestResolveAlterTarget(t *testing.T) {
	opts := SplitOptions{StripComments: true}

	t.Run("single statement with terminator", func(t *testing.T) {
		got, err := ResolveAlterTarget("ALTER TABLE person "+alterText+";", opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Table != "person" || got.AlterOptions != alterText {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("comments are stripped", func(t *testing.T) {
		got, err := ResolveAlterTarget("-- add the address\nALTER TABLE person /* inline */ "+alterText+"; -- done", opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Table != "person" {
			t.Errorf("Table = %q, want person", got.Table)
		}
		if got.AlterOptions != alterText {
			t.Errorf("AlterOptions = %q, want %q", got.AlterOptions, alterText)
		}
	})

	t.Run("multiple statements", func(t *testing.T) {
		got, err := ResolveAlterTarget("ALTER TABLE a ADD COLUMN x INT; ALTER TABLE b ADD COLUMN y INT;", opts)
		if !errors.Is(err, ErrMultipleStatements) {
			t.Fatalf("error = %v, want %v", err, ErrMultipleStatements)
		}
		if got.OK() {
			t.Errorf("got %+v, want no target", got)
		}
	})

	t.Run("empty script", func(t *testing.T) {
		_, err := ResolveAlterTarget("  -- nothing here\n", opts)
		if !errors.Is(err, ErrNotAlterTable) {
			t.Fatalf("error = %v, want %v", err, ErrNotAlterTable)
		}
	})

	t.Run("custom delimiter", func(t *testing.T) {
		got, err := ResolveAlterTarget("ALTER TABLE person "+alterText+"\n/\n", SplitOptions{StripComments: true, Delimiter: "/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.AlterOptions != alterText {
			t.Errorf("AlterOptions = %q, want %q", got.AlterOptions, alterText)
		}
	})
}

func TestAlterOptions(t *testing.T) {
	tests := []struct {
		name  string
		stmt  string
		table string
		want  string
	}{
		{"no table", "ALTER TABLE person ADD x INT", "", ""},
		{"table not referenced", "ALTER TABLE person ADD x INT", "orders", ""},
		{"nothing after table", "ALTER TABLE person", "person", ""},
		{"quoted", "ALTER TABLE `person` DROP COLUMN x", "person", "DROP COLUMN x"},
		{"trailing whitespace", "ALTER TABLE person   DROP COLUMN x   ", "person", "DROP COLUMN x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlterOptions(tt.stmt, tt.table); got != tt.want {
				t.Errorf("AlterOptions(%q, %q) = %q, want %q", tt.stmt, tt.table, got, tt.want)
			}
		})
	}
}
