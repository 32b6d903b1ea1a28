// Package dialect renders constraint operations into database-specific DDL.
package dialect

import (
	"strings"

	"github.com/chekov-db/chekov/internal/ckerr"
)

// Dialect generates DDL statements for a specific database. The two
// methods mirror the engine's executor verbs.
type Dialect interface {
	// Name returns the dialect identifier ("postgres", "sqlite").
	Name() string

	// QuoteIdent quotes an identifier for this dialect.
	QuoteIdent(name string) string

	// AddCheckSQL generates the ALTER TABLE ADD CONSTRAINT CHECK statement.
	// The predicate arrives as compiled canonical text and must be embedded
	// unchanged.
	AddCheckSQL(table, name, predicate string) (string, error)

	// DropCheckSQL generates the ALTER TABLE DROP CONSTRAINT statement.
	DropCheckSQL(table, name string) (string, error)
}

// ForURL picks the dialect for a database connection URL.
func ForURL(url string) (Dialect, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Postgres(), nil
	case strings.HasPrefix(url, "sqlite://"), strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"):
		return SQLite(), nil
	default:
		return nil, ckerr.New(ckerr.ErrSQLConnection, "cannot determine dialect from database URL").
			With("url", url)
	}
}
