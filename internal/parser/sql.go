package parser

import (
	"fmt"
	"strings"
	"sync"

	"vitess.io/vitess/go/vt/sqlparser"
)

// DDLOperation enumerates the ALTER TABLE sub-operations reported by Classify.
type DDLOperation string

const (
	AddColumn           DDLOperation = "ADD_COLUMN"
	DropColumn          DDLOperation = "DROP_COLUMN"
	ModifyColumn        DDLOperation = "MODIFY_COLUMN"
	ChangeColumn        DDLOperation = "CHANGE_COLUMN"
	AddIndex            DDLOperation = "ADD_INDEX"
	DropIndex           DDLOperation = "DROP_INDEX"
	AddForeignKey       DDLOperation = "ADD_FOREIGN_KEY"
	DropForeignKey      DDLOperation = "DROP_FOREIGN_KEY"
	AddPrimaryKey       DDLOperation = "ADD_PRIMARY_KEY"
	DropPrimaryKey      DDLOperation = "DROP_PRIMARY_KEY"
	AddFulltextIndex    DDLOperation = "ADD_FULLTEXT_INDEX"
	AddSpatialIndex     DDLOperation = "ADD_SPATIAL_INDEX"
	RenameIndex         DDLOperation = "RENAME_INDEX"
	RenameTable         DDLOperation = "RENAME_TABLE"
	ConvertCharset      DDLOperation = "CONVERT_CHARSET"
	ChangeEngine        DDLOperation = "CHANGE_ENGINE"
	ChangeRowFormat     DDLOperation = "CHANGE_ROW_FORMAT"
	ChangeCharset       DDLOperation = "CHANGE_CHARSET"
	ChangeAutoIncrement DDLOperation = "CHANGE_AUTO_INCREMENT"
	SetDefault          DDLOperation = "SET_DEFAULT"
	DropDefault         DDLOperation = "DROP_DEFAULT"
	ForceRebuild        DDLOperation = "FORCE_REBUILD"
	PartitionChange     DDLOperation = "PARTITION"
	OtherDDL            DDLOperation = "OTHER"
)

var (
	parserOnce      sync.Once
	globalParser    *sqlparser.Parser
	globalParserErr error
)

func getParser() (*sqlparser.Parser, error) {
	parserOnce.Do(func() {
		globalParser, globalParserErr = sqlparser.New(sqlparser.Options{})
	})
	return globalParser, globalParserErr
}

// Classify parses an ALTER TABLE statement and lists its sub-operations in
// statement order. It is informational: a statement vitess can't parse may
// still be delegated.
func Classify(stmt string) ([]DDLOperation, error) {
	p, err := getParser()
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}

	parsed, err := p.Parse(strings.TrimRight(strings.TrimSpace(stmt), ";"))
	if err != nil {
		return nil, fmt.Errorf("parsing SQL: %w", err)
	}

	alter, ok := parsed.(*sqlparser.AlterTable)
	if !ok {
		return nil, ErrNotAlterTable
	}

	var ops []DDLOperation
	for _, opt := range alter.AlterOptions {
		ops = append(ops, classifySingleAlterOp(opt))
	}
	// Partition operations live in PartitionSpec, not AlterOptions.
	if alter.PartitionSpec != nil {
		ops = append(ops, PartitionChange)
	}
	if len(ops) == 0 {
		ops = append(ops, OtherDDL)
	}
	return ops, nil
}

func classifySingleAlterOp(opt sqlparser.AlterOption) DDLOperation {
	switch opt := opt.(type) {
	case *sqlparser.AddColumns:
		return AddColumn
	case *sqlparser.DropColumn:
		return DropColumn
	case *sqlparser.ModifyColumn:
		return ModifyColumn
	case *sqlparser.ChangeColumn:
		return ChangeColumn
	case *sqlparser.AddIndexDefinition:
		switch opt.IndexDefinition.Info.Type {
		case sqlparser.IndexTypePrimary:
			return AddPrimaryKey
		case sqlparser.IndexTypeFullText:
			return AddFulltextIndex
		case sqlparser.IndexTypeSpatial:
			return AddSpatialIndex
		}
		return AddIndex
	case *sqlparser.DropKey:
		switch opt.Type {
		case sqlparser.PrimaryKeyType:
			return DropPrimaryKey
		case sqlparser.ForeignKeyType:
			return DropForeignKey
		default:
			return DropIndex
		}
	case *sqlparser.RenameIndex:
		return RenameIndex
	case *sqlparser.RenameTableName:
		return RenameTable
	case *sqlparser.Force:
		return ForceRebuild
	case *sqlparser.AddConstraintDefinition:
		return AddForeignKey
	case *sqlparser.AlterCharset:
		return ConvertCharset
	case *sqlparser.AlterColumn:
		if opt.DropDefault {
			return DropDefault
		}
		if opt.DefaultVal != nil {
			return SetDefault
		}
		return OtherDDL
	case sqlparser.TableOptions:
		for _, tableOpt := range opt {
			switch strings.ToUpper(tableOpt.Name) {
			case "ENGINE":
				return ChangeEngine
			case "ROW_FORMAT":
				return ChangeRowFormat
			case "CHARSET", "CHARACTER SET":
				return ChangeCharset
			case "AUTO_INCREMENT":
				return ChangeAutoIncrement
			}
		}
		return OtherDDL
	default:
		return OtherDDL
	}
}

// Summary joins operations for display, e.g. "ADD_COLUMN, DROP_INDEX".
func Summary(ops []DDLOperation) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return strings.Join(parts, ", ")
}
