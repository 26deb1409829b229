// Package osc decides whether a change runs through pt-online-schema-change
// and produces the statements that replace or annotate its blocking ALTER.
package osc

import "strings"

// ToolName is the executable name, also used in generated comments.
const ToolName = "pt-online-schema-change"

// DefaultOptions are passed to every invocation ahead of per-change options.
const DefaultOptions = "--alter-foreign-keys-method=auto --nocheck-unique-key-change"

// Config is the run-wide policy. It is a value: the generator never mutates
// it and callers may rebuild it between runs.
type Config struct {
	// DryRun renders statements for review instead of executing anything.
	DryRun bool
	// FailIfUnavailable turns a missing tool into an error instead of a
	// silent fallback to the blocking statements.
	FailIfUnavailable bool
	// NoAlterSQLDryMode drops the fallback statements from dry-run output,
	// leaving only the command comment.
	NoAlterSQLDryMode bool
	// SkipChanges lists change names (e.g. "sql", "dropColumn") that are
	// never delegated.
	SkipChanges []string
	// DefaultOn applies when a change leaves usePercona unset.
	DefaultOn bool
	// DefaultOptions precede the per-change perconaOptions.
	DefaultOptions string
	// Path overrides the executable looked up on PATH.
	Path string
}

// DefaultConfig returns the policy used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DefaultOn:      true,
		DefaultOptions: DefaultOptions,
	}
}

// Skips reports whether changes named name bypass delegation.
func (c Config) Skips(name string) bool {
	for _, s := range c.SkipChanges {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return true
		}
	}
	return false
}

// ParseSkipList splits a comma separated list such as "sql, dropColumn".
func ParseSkipList(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}
