// Package changelog loads YAML changelogs of change sets.
//
//	changeSets:
//	  - id: "1"
//	    author: alice
//	    changes:
//	      - sql: ALTER TABLE person ADD COLUMN address VARCHAR(255)
//	      - dropColumn:
//	          tableName: person
//	          columnName: legacy
package changelog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nethalo/oscmig/internal/change"
)

var (
	ErrMissingID     = errors.New("change set has no id")
	ErrDuplicateID   = errors.New("duplicate change set")
	ErrUnknownChange = errors.New("unknown change type")
	ErrEmptyChange   = errors.New("change entry must hold exactly one change type")
)

// ChangeLog is an ordered list of change sets.
type ChangeLog struct {
	Path       string
	ChangeSets []ChangeSet
}

// ChangeSet groups changes applied together under one id.
type ChangeSet struct {
	ID      string
	Author  string
	Comment string
	Changes []change.Change
}

// Key identifies a change set as "id::author".
func (cs ChangeSet) Key() string {
	return cs.ID + "::" + cs.Author
}

// Len returns the number of changes across all change sets.
func (cl *ChangeLog) Len() int {
	n := 0
	for _, cs := range cl.ChangeSets {
		n += len(cs.Changes)
	}
	return n
}

type fileChangeLog struct {
	ChangeSets []fileChangeSet `yaml:"changeSets"`
}

type fileChangeSet struct {
	ID      string                 `yaml:"id"`
	Author  string                 `yaml:"author"`
	Comment string                 `yaml:"comment"`
	Changes []map[string]yaml.Node `yaml:"changes"`
}

type perconaFields struct {
	UsePercona     *bool  `yaml:"usePercona"`
	PerconaOptions string `yaml:"perconaOptions"`
}

func (p perconaFields) apply(c change.Change) {
	c.SetUsePercona(p.UsePercona)
	c.SetPerconaOptions(p.PerconaOptions)
}

type sqlChange struct {
	perconaFields `yaml:",inline"`

	SQL             string `yaml:"sql"`
	EndDelimiter    string `yaml:"endDelimiter"`
	SplitStatements *bool  `yaml:"splitStatements"`
	StripComments   bool   `yaml:"stripComments"`
}

type dropColumnChange struct {
	perconaFields `yaml:",inline"`

	CatalogName string      `yaml:"catalogName"`
	TableName   string      `yaml:"tableName"`
	ColumnName  string      `yaml:"columnName"`
	Columns     []columnRef `yaml:"columns"`
}

type columnRef struct {
	Name string `yaml:"name"`
}

// Load reads and parses the changelog at path.
func Load(path string) (*ChangeLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog: %w", err)
	}
	defer f.Close()

	cl, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cl.Path = path
	return cl, nil
}

// Parse decodes a changelog. Unknown keys are rejected.
func Parse(r io.Reader) (*ChangeLog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	var file fileChangeLog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding changelog: %w", err)
	}

	cl := &ChangeLog{}
	seen := make(map[string]bool)
	for i, fcs := range file.ChangeSets {
		if fcs.ID == "" {
			return nil, fmt.Errorf("change set #%d: %w", i+1, ErrMissingID)
		}
		cs := ChangeSet{ID: fcs.ID, Author: fcs.Author, Comment: fcs.Comment}
		if seen[cs.Key()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, cs.Key())
		}
		seen[cs.Key()] = true

		for j, entry := range fcs.Changes {
			c, err := decodeChange(entry)
			if err != nil {
				return nil, fmt.Errorf("change set %s, change #%d: %w", cs.Key(), j+1, err)
			}
			cs.Changes = append(cs.Changes, c)
		}
		cl.ChangeSets = append(cl.ChangeSets, cs)
	}
	return cl, nil
}

func decodeChange(entry map[string]yaml.Node) (change.Change, error) {
	if len(entry) != 1 {
		return nil, ErrEmptyChange
	}
	for kind, node := range entry {
		switch kind {
		case change.RawSQLName:
			return decodeSQL(&node)
		case change.DropColumnName:
			return decodeDropColumn(&node)
		default:
			return nil, fmt.Errorf("%w %q", ErrUnknownChange, kind)
		}
	}
	return nil, ErrEmptyChange
}

func decodeSQL(node *yaml.Node) (change.Change, error) {
	// "- sql: ALTER TABLE ..." shorthand
	if node.Kind == yaml.ScalarNode {
		return change.NewRawSQL(node.Value), nil
	}

	var v sqlChange
	if err := decodeStrict(node, &v); err != nil {
		return nil, fmt.Errorf("decoding sql change: %w", err)
	}
	c := change.NewRawSQL(v.SQL)
	c.EndDelimiter = v.EndDelimiter
	c.StripComments = v.StripComments
	if v.SplitStatements != nil {
		c.SplitStatements = *v.SplitStatements
	}
	v.apply(c)
	return c, nil
}

func decodeDropColumn(node *yaml.Node) (change.Change, error) {
	var v dropColumnChange
	if err := decodeStrict(node, &v); err != nil {
		return nil, fmt.Errorf("decoding dropColumn change: %w", err)
	}
	c := &change.DropColumn{
		CatalogName: v.CatalogName,
		TableName:   v.TableName,
		ColumnName:  v.ColumnName,
	}
	for _, col := range v.Columns {
		c.Columns = append(c.Columns, col.Name)
	}
	v.apply(c)
	return c, nil
}

// decodeStrict decodes node into v, rejecting unknown keys. yaml.Node.Decode
// does not honor the parent decoder's KnownFields setting.
func decodeStrict(node *yaml.Node, v interface{}) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(v)
}
