package change

import "strings"

// StatementKind distinguishes annotations from executable SQL.
type StatementKind string

const (
	CommentKind StatementKind = "COMMENT"
	SQLKind     StatementKind = "SQL"
)

// Statement is one entry of the ordered output of a change.
type Statement struct {
	Kind StatementKind
	Text string
}

// Comment returns an annotation statement. It is never sent to the server.
func Comment(text string) Statement {
	return Statement{Kind: CommentKind, Text: text}
}

// SQLStatement returns an executable statement.
func SQLStatement(text string) Statement {
	return Statement{Kind: SQLKind, Text: text}
}

// IsComment reports whether s is an annotation.
func (s Statement) IsComment() bool {
	return s.Kind == CommentKind
}

// Format renders s for a SQL script: comments as "-- " lines, SQL followed
// by delimiter.
func (s Statement) Format(delimiter string) string {
	if s.IsComment() {
		lines := strings.Split(s.Text, "\n")
		for i, l := range lines {
			lines[i] = "-- " + l
		}
		return strings.Join(lines, "\n")
	}
	return s.Text + delimiter
}
