package parser

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// Reasons a statement cannot be handed to an online schema change tool.
var (
	ErrMultipleStatements = errors.New("multiple statements are not supported")
	ErrNotAlterTable      = errors.New("sql statement is not an alter table")
	ErrUnparseableTable   = errors.New("can't parse sql statement")
	ErrRenameTable        = errors.New("can't rename table")
	ErrNoAlterClause      = errors.New("alter table statement has no alter clause")
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	// "alter" and "table" keywords plus the whitespace before the table reference.
	reAlterPrefix = regexp.MustCompile(`^\S+\s+\S+\s+`)
	// [`db`.]`table`, each part optionally backtick-quoted.
	reTableRef = regexp.MustCompile("^(?:`?([^`.]+)`?\\.)?`?([^`.]+)`?$")
)

// AlterTarget is the table an ALTER TABLE statement modifies and the
// clause that follows the table reference. All fields are empty when the
// statement can't be delegated.
type AlterTarget struct {
	Database     string
	Table        string
	AlterOptions string
}

// OK reports whether a target table was resolved.
func (t AlterTarget) OK() bool {
	return t.Table != ""
}

// ResolveAlterTarget splits sql and recognizes it as a single ALTER TABLE
// statement. Scripts with more than one statement never resolve.
func ResolveAlterTarget(sql string, opts SplitOptions) (AlterTarget, error) {
	statements, err := Split(sql, opts)
	if err != nil {
		return AlterTarget{}, err
	}
	switch len(statements) {
	case 0:
		return AlterTarget{}, ErrNotAlterTable
	case 1:
		return RecognizeAlterTable(statements[0])
	default:
		return AlterTarget{}, ErrMultipleStatements
	}
}

// RecognizeAlterTable matches one statement against
// "ALTER TABLE [db.]table <alter options>". Keywords compare
// case-insensitively; the returned names keep the author's casing.
func RecognizeAlterTable(stmt string) (AlterTarget, error) {
	stmt = strings.TrimSpace(stmt)
	tokens := reWhitespace.Split(stmt, -1)
	if len(tokens) < 3 || !strings.EqualFold(tokens[0], "alter") || !strings.EqualFold(tokens[1], "table") {
		return AlterTarget{}, ErrNotAlterTable
	}

	// A quoted name containing spaces gets split across tokens, leaving an
	// opening backtick without its closing one.
	ref := tokens[2]
	if ref[0] == '`' && ref[len(ref)-1] != '`' {
		return AlterTarget{}, ErrUnparseableTable
	}
	m := reTableRef.FindStringSubmatch(ref)
	if m == nil {
		return AlterTarget{}, ErrUnparseableTable
	}

	if len(tokens) >= 5 && strings.EqualFold(tokens[3], "rename") && !isRenameSubject(tokens[4]) {
		return AlterTarget{}, ErrRenameTable
	}

	target := AlterTarget{Database: m[1], Table: m[2]}
	target.AlterOptions = AlterOptions(stmt, target.Table)
	if target.AlterOptions == "" {
		return AlterTarget{}, ErrNoAlterClause
	}
	return target, nil
}

// AlterOptions returns the text after the first occurrence of table that
// follows the ALTER TABLE keywords, skipping one separating character
// (a space or closing backtick).
func AlterOptions(stmt, table string) string {
	if table == "" {
		return ""
	}
	stmt = strings.TrimSpace(stmt)
	offset := 0
	if loc := reAlterPrefix.FindStringIndex(stmt); loc != nil {
		offset = loc[1]
		// skip a database qualifier
		ref := stmt[offset:]
		if end := strings.IndexFunc(ref, unicode.IsSpace); end >= 0 {
			ref = ref[:end]
		}
		if dot := strings.IndexByte(ref, '.'); dot >= 0 {
			offset += dot + 1
		}
	}
	idx := strings.Index(stmt[offset:], table)
	if idx < 0 {
		return ""
	}
	start := offset + idx + len(table) + 1
	if start >= len(stmt) {
		return ""
	}
	return strings.TrimSpace(stmt[start:])
}

// RENAME COLUMN / INDEX / KEY keep the table; anything else renames it.
func isRenameSubject(tok string) bool {
	switch strings.ToLower(tok) {
	case "column", "index", "key":
		return true
	}
	return false
}
