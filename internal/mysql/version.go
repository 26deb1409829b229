package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reAuroraVersion = regexp.MustCompile(`^(\d+)\.(\d+)\.mysql_aurora\.(\d+\.\d+\.\d+)`)
	reServerVersion = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)`)
)

// ServerVersion represents a parsed MySQL version.
type ServerVersion struct {
	Raw           string // e.g. "8.0.35-27-Percona XtraDB Cluster"
	Major         int
	Minor         int
	Patch         int    // 0 for Aurora
	Flavor        string // "mysql", "percona", "percona-xtradb-cluster", "mariadb", "aurora-mysql"
	AuroraVersion string
}

// String returns a human-readable version string.
func (v ServerVersion) String() string {
	if v.AuroraVersion != "" {
		return fmt.Sprintf("%d.%d (aurora-mysql %s)", v.Major, v.Minor, v.AuroraVersion)
	}
	return fmt.Sprintf("%d.%d.%d (%s)", v.Major, v.Minor, v.Patch, v.Flavor)
}

// GetServerVersion queries and parses the MySQL server version.
func GetServerVersion(ctx context.Context, db *sql.DB) (ServerVersion, error) {
	var raw string
	err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&raw)
	if err != nil {
		return ServerVersion{}, fmt.Errorf("querying version: %w", err)
	}
	return ParseVersion(raw)
}

// ParseVersion parses a MySQL version string.
func ParseVersion(raw string) (ServerVersion, error) {
	v := ServerVersion{Raw: raw}

	// Aurora versions have no numeric patch, so check them first.
	if m := reAuroraVersion.FindStringSubmatch(raw); m != nil {
		v.Major, _ = strconv.Atoi(m[1])
		v.Minor, _ = strconv.Atoi(m[2])
		v.Flavor = "aurora-mysql"
		v.AuroraVersion = m[3]
		return v, nil
	}

	matches := reServerVersion.FindStringSubmatch(raw)
	if matches == nil {
		return v, fmt.Errorf("could not parse version: %s", raw)
	}

	v.Major, _ = strconv.Atoi(matches[1])
	v.Minor, _ = strconv.Atoi(matches[2])
	v.Patch, _ = strconv.Atoi(matches[3])

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "percona xtradb cluster"):
		v.Flavor = "percona-xtradb-cluster"
	case strings.Contains(lower, "percona"):
		v.Flavor = "percona"
	case strings.Contains(lower, "mariadb"):
		v.Flavor = "mariadb"
	default:
		v.Flavor = "mysql"
	}

	return v, nil
}
