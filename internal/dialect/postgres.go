package dialect

import (
	"github.com/chekov-db/chekov/internal/sqlgen"
)

// postgres implements the Dialect interface for PostgreSQL.
type postgres struct{}

// Postgres returns the PostgreSQL dialect implementation.
func Postgres() Dialect {
	return &postgres{}
}

func (d *postgres) Name() string {
	return "postgres"
}

func (d *postgres) QuoteIdent(name string) string {
	return sqlgen.QuoteIdent(name)
}

func (d *postgres) AddCheckSQL(table, name, predicate string) (string, error) {
	sql := sqlgen.New().
		AlterTable(table).
		AddConstraint(name).
		Check(predicate).
		String()
	return sql, nil
}

func (d *postgres) DropCheckSQL(table, name string) (string, error) {
	sql := sqlgen.New().
		AlterTable(table).
		DropConstraint(name).
		String()
	return sql, nil
}
