package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrTableNotFound is returned when information_schema has no row for a table.
var ErrTableNotFound = errors.New("table not found")

// TableStats holds the size information shown next to a planned change.
type TableStats struct {
	Database    string
	Table       string
	Engine      string
	RowCount    int64
	DataLength  int64 // bytes
	IndexLength int64 // bytes
}

// TotalSize returns data + index size in bytes.
func (s *TableStats) TotalSize() int64 {
	return s.DataLength + s.IndexLength
}

// TotalSizeHuman returns a human-readable size string.
func (s *TableStats) TotalSizeHuman() string {
	return humanBytes(s.TotalSize())
}

// GetTableStats reads engine, row estimate and size of a table from
// information_schema.TABLES.
func GetTableStats(ctx context.Context, db *sql.DB, database, table string) (*TableStats, error) {
	stats := &TableStats{
		Database: database,
		Table:    table,
	}

	err := db.QueryRowContext(ctx, `
		SELECT
			IFNULL(ENGINE, ''),
			IFNULL(TABLE_ROWS, 0),
			IFNULL(DATA_LENGTH, 0),
			IFNULL(INDEX_LENGTH, 0)
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
	`, database, table).Scan(
		&stats.Engine,
		&stats.RowCount,
		&stats.DataLength,
		&stats.IndexLength,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s.%s: %w", database, table, ErrTableNotFound)
		}
		return nil, fmt.Errorf("querying table info: %w", err)
	}

	return stats, nil
}

func humanBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)
	switch {
	case b >= TB:
		return fmt.Sprintf("%.1f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
