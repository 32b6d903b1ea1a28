package dialect

import (
	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/sqlgen"
)

// sqlite implements the Dialect interface for SQLite.
//
// SQLite cannot add or drop constraints on an existing table; both
// operations require the table recreation pattern, which is out of scope
// for constraint-only migrations. The methods return coded errors so the
// caller can surface a clear message instead of emitting invalid DDL.
type sqlite struct{}

// SQLite returns the SQLite dialect implementation.
func SQLite() Dialect {
	return &sqlite{}
}

func (d *sqlite) Name() string {
	return "sqlite"
}

func (d *sqlite) QuoteIdent(name string) string {
	return sqlgen.QuoteIdent(name)
}

func (d *sqlite) AddCheckSQL(table, name, predicate string) (string, error) {
	return "", sqliteUnsupported("SQLite does not support ALTER TABLE ADD CHECK; use table recreation", table, name)
}

func (d *sqlite) DropCheckSQL(table, name string) (string, error) {
	return "", sqliteUnsupported("SQLite does not support ALTER TABLE DROP CONSTRAINT; use table recreation", table, name)
}

func sqliteUnsupported(msg, table, constraint string) error {
	return ckerr.New(ckerr.ErrSQLExecution, msg).
		WithTable(table).
		WithConstraint(constraint).
		With("dialect", "sqlite")
}
