package osc

import (
	"fmt"
	"strings"

	"github.com/nethalo/oscmig/internal/change"
	"github.com/nethalo/oscmig/internal/mysql"
)

const redactedPassword = "***"

// Command is one pt-online-schema-change invocation. Its String form is the
// redacted command shown in comments and logs; Args carries the real
// password for execution.
type Command struct {
	DefaultOptions string
	Options        string // per-change perconaOptions, appended verbatim
	Alter          string
	Database       string // target database, falls back to the connection's
	Table          string
	Conn           mysql.ConnectionConfig
}

// NewCommand builds the command for c against conn. It touches no external
// state.
func NewCommand(c change.Change, conn mysql.ConnectionConfig, cfg Config) *Command {
	return &Command{
		DefaultOptions: cfg.DefaultOptions,
		Options:        c.PerconaOptions(),
		Alter:          c.GenerateAlterStatement(),
		Database:       c.TargetDatabaseName(),
		Table:          c.TargetTableName(),
		Conn:           conn,
	}
}

// String renders:
//
//	pt-online-schema-change <defaults> [<options>] --alter="<alter>" --password=*** --execute h=<host>,P=<port>,u=<user>,D=<db>,t=<table>
func (c *Command) String() string {
	parts := []string{ToolName}
	if opts := strings.TrimSpace(c.DefaultOptions); opts != "" {
		parts = append(parts, opts)
	}
	if opts := strings.TrimSpace(c.Options); opts != "" {
		parts = append(parts, opts)
	}
	parts = append(parts, `--alter="`+c.Alter+`"`, "--password="+redactedPassword, "--execute", c.DSN())
	return strings.Join(parts, " ")
}

// Args returns the process arguments, without the executable name. The
// password flag is passed only when the connection has one.
func (c *Command) Args() []string {
	var args []string
	args = append(args, splitArgs(c.DefaultOptions)...)
	args = append(args, splitArgs(c.Options)...)
	args = append(args, "--alter="+c.Alter)
	if c.Conn.Password != "" {
		args = append(args, "--password="+c.Conn.Password)
	}
	return append(args, "--execute", c.DSN())
}

// DSN returns the pt-osc DSN, e.g. "h=localhost,P=3306,u=user,D=testdb,t=person".
func (c *Command) DSN() string {
	var dsn string
	if c.Conn.Host == "" && c.Conn.Socket != "" {
		dsn = "S=" + c.Conn.Socket
	} else {
		dsn = fmt.Sprintf("h=%s,P=%d", c.Conn.Host, c.Conn.Port)
	}
	db := c.Database
	if db == "" {
		db = c.Conn.Database
	}
	return dsn + fmt.Sprintf(",u=%s,D=%s,t=%s", c.Conn.User, db, c.Table)
}

// splitArgs splits options on whitespace, keeping single- or double-quoted
// runs together and dropping the quotes.
func splitArgs(s string) []string {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		pending bool
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			pending = true
		case r == ' ' || r == '\t' || r == '\n':
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending {
		args = append(args, cur.String())
	}
	return args
}
