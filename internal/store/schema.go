package store

import (
	"fmt"
	"strings"
)

// ColumnType is the closed set of semantic column types a table schema
// may declare. Each maps to one engine-native DDL type token.
type ColumnType int

const (
	// Text stores UTF-8 strings (DDL token TEXT).
	Text ColumnType = iota

	// Integer stores 64-bit signed integers (DDL token INTEGER).
	Integer

	// Boolean stores true/false values (DDL token BOOLEAN; SQLite
	// keeps these as 0/1 with numeric affinity).
	Boolean
)

// String returns the human-readable name of the column type.
func (t ColumnType) String() string {
	switch t {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// ddl returns the engine-native DDL token for the column type.
func (t ColumnType) ddl() string {
	switch t {
	case Text:
		return "TEXT"
	case Integer:
		return "INTEGER"
	case Boolean:
		return "BOOLEAN"
	default:
		return ""
	}
}

// Column is a single named, typed column in a table schema.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is an ordered table schema. Slice order is the order columns
// appear in the emitted CREATE TABLE statement.
type Schema []Column

// validate rejects empty schemas, invalid identifiers, unknown type
// tags and duplicate column names before any DDL is built.
func (s Schema) validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schema has no columns")
	}

	seen := make(map[string]bool, len(s))
	for _, col := range s {
		if !validIdentifier(col.Name) {
			return fmt.Errorf("invalid column name %q", col.Name)
		}
		if col.Type.ddl() == "" {
			return fmt.Errorf("column %q has unknown type %v", col.Name, col.Type)
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate column name %q", col.Name)
		}
		seen[col.Name] = true
	}
	return nil
}

// Field is one column/value pair of a row being inserted.
type Field struct {
	Column string
	Value  any
}

// Fields is the ordered set of values for one row. Slice order
// determines both the emitted column list and the positional parameter
// list, so the two can never drift apart.
type Fields []Field

// validate rejects empty field sets, invalid column names and values
// outside the supported scalar kinds (text, integer, boolean, null).
func (f Fields) validate() error {
	if len(f) == 0 {
		return fmt.Errorf("no fields to insert")
	}

	for _, fld := range f {
		if !validIdentifier(fld.Column) {
			return fmt.Errorf("invalid column name %q", fld.Column)
		}
		switch fld.Value.(type) {
		case nil, string, int, int64, bool:
		default:
			return fmt.Errorf("column %q has unsupported value type %T", fld.Column, fld.Value)
		}
	}
	return nil
}

// values returns the positional parameters in field order.
func (f Fields) values() []any {
	params := make([]any, len(f))
	for i, fld := range f {
		params[i] = fld.Value
	}
	return params
}

// buildCreateTable renders the idempotent DDL for a schema.
// Callers must have validated the name and schema first.
func buildCreateTable(name string, schema Schema) string {
	cols := make([]string, len(schema))
	for i, col := range schema {
		cols[i] = col.Name + " " + col.Type.ddl()
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", name, strings.Join(cols, ", "))
}

// buildInsert renders a parameterised INSERT with one ? per field.
// Column order and parameter order both follow field order.
func buildInsert(table string, fields Fields) (string, []any) {
	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	for i, fld := range fields {
		cols[i] = fld.Column
		marks[i] = "?"
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	return stmt, fields.values()
}

// validIdentifier reports whether s is usable as a bare SQL identifier:
// letters, digits and underscores, not starting with a digit. Names are
// interpolated into statement text, so anything else is rejected.
func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// countPlaceholders counts ? placeholders in a statement, ignoring
// question marks inside single-quoted string literals and double-quoted
// identifiers. Doubled quotes inside a literal toggle the state twice,
// which leaves the count correct.
func countPlaceholders(stmt string) int {
	count := 0
	var quote rune
	for _, r := range stmt {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			count++
		}
	}
	return count
}
