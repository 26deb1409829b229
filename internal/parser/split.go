package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultDelimiter terminates statements when no end delimiter is configured.
const DefaultDelimiter = ";"

// A line holding only GO (any case) separates batches, like ";" at end of line.
var reGoSeparator = regexp.MustCompile(`(?im)^[ \t]*go[ \t]*$`)

// SplitOptions controls how a script is broken into statements.
type SplitOptions struct {
	StripComments bool
	Delimiter     string // "" means DefaultDelimiter
}

// Split breaks a SQL script into trimmed, non-empty statements.
//
// Quoted strings and backtick identifiers are never split. With the default
// delimiter the vitess tokenizer does the splitting; custom delimiters such
// as "/" or "$$" are matched literally outside of quotes.
func Split(sql string, opts SplitOptions) ([]string, error) {
	if opts.StripComments {
		sql = stripComments(sql)
	}

	var statements []string
	for _, batch := range reGoSeparator.Split(sql, -1) {
		var (
			pieces []string
			err    error
		)
		if opts.Delimiter == "" || opts.Delimiter == DefaultDelimiter {
			pieces, err = splitDefault(batch)
		} else {
			pieces = splitOnDelimiter(batch, opts.Delimiter)
		}
		if err != nil {
			return nil, err
		}
		for _, p := range pieces {
			p = strings.TrimSpace(p)
			if p == "" || (!opts.StripComments && strings.TrimSpace(stripComments(p)) == "") {
				continue
			}
			statements = append(statements, p)
		}
	}
	return statements, nil
}

func splitDefault(batch string) ([]string, error) {
	if strings.TrimSpace(batch) == "" {
		return nil, nil
	}
	p, err := getParser()
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}
	pieces, err := p.SplitStatementToPieces(batch)
	if err != nil {
		return nil, fmt.Errorf("splitting statements: %w", err)
	}
	return pieces, nil
}

// splitOnDelimiter splits on a literal delimiter outside of quotes.
func splitOnDelimiter(batch, delim string) []string {
	var (
		pieces []string
		quote  byte
		start  int
	)
	for i := 0; i < len(batch); i++ {
		c := batch[i]
		switch {
		case quote != 0:
			if c == '\\' && quote != '`' && i+1 < len(batch) {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case strings.HasPrefix(batch[i:], delim):
			pieces = append(pieces, batch[start:i])
			i += len(delim) - 1
			start = i + 1
		}
	}
	return append(pieces, batch[start:])
}

// stripComments removes "-- ", "#" and "/* */" comments outside of quotes.
// A removed block comment is replaced by a single space so that tokens on
// either side stay apart.
func stripComments(sql string) string {
	var (
		b     strings.Builder
		quote byte
	)
	b.Grow(len(sql))
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && quote != '`' && i+1 < len(sql) {
				i++
				b.WriteByte(sql[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)
		case c == '#', c == '-' && isLineComment(sql[i:]):
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			if i < len(sql) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				i = len(sql)
			} else {
				i += end + 3 // last byte of "*/"
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isLineComment(s string) bool {
	if !strings.HasPrefix(s, "--") {
		return false
	}
	return len(s) == 2 || s[2] == ' ' || s[2] == '\t' || s[2] == '\n' || s[2] == '\r'
}
