package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// GetVariable returns a global system variable, or "" when the server does
// not know it.
func GetVariable(ctx context.Context, db *sql.DB, name string) (string, error) {
	return showValue(ctx, db, "SHOW GLOBAL VARIABLES LIKE '%s'", name)
}

// GetStatus returns a global status counter, or "" when it does not exist.
func GetStatus(ctx context.Context, db *sql.DB, name string) (string, error) {
	return showValue(ctx, db, "SHOW GLOBAL STATUS LIKE '%s'", name)
}

// GetVariableInt returns a numeric global variable, 0 when unset.
func GetVariableInt(ctx context.Context, db *sql.DB, name string) (int64, error) {
	val, err := GetVariable(ctx, db, name)
	if err != nil || val == "" {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func showValue(ctx context.Context, db *sql.DB, format, name string) (string, error) {
	// SHOW ... LIKE can't take placeholders; escape the LIKE wildcards instead.
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "_", `\_`, "%", `\%`).Replace(name)

	var varName string
	var value sql.NullString
	err := db.QueryRowContext(ctx, fmt.Sprintf(format, escaped)).Scan(&varName, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return value.String, nil
}
