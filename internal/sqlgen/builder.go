// Package sqlgen provides SQL building helpers to reduce string concatenation
// in the dialect layer.
package sqlgen

import (
	"strings"
)

// Builder provides fluent construction of constraint DDL statements.
type Builder struct {
	buf strings.Builder
}

// New creates a new Builder.
func New() *Builder {
	return &Builder{}
}

// AlterTable appends "ALTER TABLE <name>" to the buffer.
func (b *Builder) AlterTable(name string) *Builder {
	b.buf.WriteString("ALTER TABLE ")
	b.buf.WriteString(QuoteIdent(name))
	return b
}

// AddConstraint appends " ADD CONSTRAINT <name>" to the buffer.
func (b *Builder) AddConstraint(name string) *Builder {
	b.buf.WriteString(" ADD CONSTRAINT ")
	b.buf.WriteString(QuoteIdent(name))
	return b
}

// DropConstraint appends " DROP CONSTRAINT <name>" to the buffer.
func (b *Builder) DropConstraint(name string) *Builder {
	b.buf.WriteString(" DROP CONSTRAINT ")
	b.buf.WriteString(QuoteIdent(name))
	return b
}

// Check appends " CHECK <expr>" to the buffer. The expression is written
// as-is: compiled predicates arrive already parenthesized and their exact
// text must survive into the DDL unchanged.
func (b *Builder) Check(expr string) *Builder {
	b.buf.WriteString(" CHECK ")
	b.buf.WriteString(expr)
	return b
}

// Raw appends raw SQL to the buffer without any modification.
func (b *Builder) Raw(sql string) *Builder {
	b.buf.WriteString(sql)
	return b
}

// String returns the accumulated SQL string.
func (b *Builder) String() string {
	return b.buf.String()
}

// Reset clears the buffer so the builder can be reused.
func (b *Builder) Reset() *Builder {
	b.buf.Reset()
	return b
}

// QuoteIdent returns the identifier quoted for PostgreSQL/SQLite.
// Both use double quotes; embedded quotes are escaped by doubling.
func QuoteIdent(s string) string {
	escaped := strings.ReplaceAll(s, `"`, `""`)
	return `"` + escaped + `"`
}
