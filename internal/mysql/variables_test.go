package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGetVariable(t *testing.T) {
	tests := []struct {
		name      string
		variable  string
		query     string
		rows      *sqlmock.Rows
		err       error
		want      string
		wantError bool
	}{
		{
			name:     "read_only ON",
			variable: "read_only",
			query:    `SHOW GLOBAL VARIABLES LIKE 'read\_only'`,
			rows:     sqlmock.NewRows([]string{"Variable_name", "Value"}).AddRow("read_only", "ON"),
			want:     "ON",
		},
		{
			name:     "unknown variable",
			variable: "wsrep_OSU_method",
			query:    `SHOW GLOBAL VARIABLES LIKE 'wsrep\_OSU\_method'`,
			rows:     sqlmock.NewRows([]string{"Variable_name", "Value"}),
			want:     "",
		},
		{
			name:     "NULL value",
			variable: "gtid_mode",
			query:    `SHOW GLOBAL VARIABLES LIKE 'gtid\_mode'`,
			rows:     sqlmock.NewRows([]string{"Variable_name", "Value"}).AddRow("gtid_mode", nil),
			want:     "",
		},
		{
			name:      "query error",
			variable:  "read_only",
			query:     `SHOW GLOBAL VARIABLES LIKE 'read\_only'`,
			err:       fmt.Errorf("connection lost"),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			exp := mock.ExpectQuery(tt.query)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			got, err := GetVariable(context.Background(), db, tt.variable)
			if (err != nil) != tt.wantError {
				t.Fatalf("GetVariable() error = %v, wantError %v", err, tt.wantError)
			}
			if got != tt.want {
				t.Errorf("GetVariable() = %q, want %q", got, tt.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestGetStatus(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SHOW GLOBAL STATUS LIKE 'wsrep\_flow\_control\_paused'`).
		WillReturnRows(sqlmock.NewRows([]string{"Variable_name", "Value"}).AddRow("wsrep_flow_control_paused", "0.25"))
	mock.ExpectQuery(`SHOW GLOBAL STATUS LIKE 'wsrep\_local\_state\_comment'`).
		WillReturnError(sql.ErrNoRows)

	got, err := GetStatus(context.Background(), db, "wsrep_flow_control_paused")
	if err != nil || got != "0.25" {
		t.Errorf("GetStatus() = %q, %v", got, err)
	}
	got, err = GetStatus(context.Background(), db, "wsrep_local_state_comment")
	if err != nil || got != "" {
		t.Errorf("GetStatus() missing = %q, %v", got, err)
	}
}

func TestGetVariableInt(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SHOW GLOBAL VARIABLES LIKE 'wsrep\_cluster\_size'`).
		WillReturnRows(sqlmock.NewRows([]string{"Variable_name", "Value"}).AddRow("wsrep_cluster_size", "3"))
	mock.ExpectQuery(`SHOW GLOBAL VARIABLES LIKE 'wsrep\_max\_ws\_size'`).
		WillReturnRows(sqlmock.NewRows([]string{"Variable_name", "Value"}))
	mock.ExpectQuery(`SHOW GLOBAL VARIABLES LIKE 'version'`).
		WillReturnRows(sqlmock.NewRows([]string{"Variable_name", "Value"}).AddRow("version", "8.0.35"))

	if n, err := GetVariableInt(context.Background(), db, "wsrep_cluster_size"); err != nil || n != 3 {
		t.Errorf("GetVariableInt() = %d, %v, want 3", n, err)
	}
	if n, err := GetVariableInt(context.Background(), db, "wsrep_max_ws_size"); err != nil || n != 0 {
		t.Errorf("GetVariableInt() missing = %d, %v, want 0", n, err)
	}
	if _, err := GetVariableInt(context.Background(), db, "version"); err == nil {
		t.Error("GetVariableInt() should fail on a non-numeric value")
	}
}
