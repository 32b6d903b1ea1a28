// Package exec provides executors for constraint DDL: a live database
// executor backed by database/sql and a recorder that collects statements
// for dry-run output. Both satisfy the engine's Executor interface.
package exec

import (
	"context"
	"database/sql"

	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/dialect"
)

// DB executes constraint DDL against a live database.
type DB struct {
	db      *sql.DB
	dialect dialect.Dialect
}

// Open connects to the database at url and picks the matching dialect.
// Only PostgreSQL connections are supported; SQLite URLs resolve to a
// dialect that refuses constraint DDL before any connection is needed.
func Open(ctx context.Context, url string) (*DB, error) {
	d, err := dialect.ForURL(url)
	if err != nil {
		return nil, err
	}
	if d.Name() != "postgres" {
		return nil, ckerr.New(ckerr.ErrSQLConnection, "only postgres databases can execute constraint DDL").
			With("dialect", d.Name())
	}

	sqlDB, err := sql.Open("postgres", url)
	if err != nil {
		return nil, ckerr.Wrap(ckerr.ErrSQLConnection, err, "failed to open database connection")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, ckerr.Wrap(ckerr.ErrSQLConnection, err, "failed to reach database")
	}

	return &DB{db: sqlDB, dialect: d}, nil
}

// Close releases the underlying connection pool.
func (e *DB) Close() error {
	return e.db.Close()
}

// Dialect returns the dialect in use.
func (e *DB) Dialect() dialect.Dialect {
	return e.dialect
}

// CreateCheckConstraint renders and executes the ADD CONSTRAINT statement.
func (e *DB) CreateCheckConstraint(ctx context.Context, table, name, predicate string) error {
	stmt, err := e.dialect.AddCheckSQL(table, name, predicate)
	if err != nil {
		return err
	}
	if _, err := e.db.ExecContext(ctx, stmt); err != nil {
		return ckerr.Wrap(ckerr.ErrSQLExecution, err, "failed to create check constraint").
			WithTable(table).
			WithConstraint(name).
			WithSQL(stmt)
	}
	return nil
}

// DropCheckConstraint renders and executes the DROP CONSTRAINT statement.
func (e *DB) DropCheckConstraint(ctx context.Context, table, name string) error {
	stmt, err := e.dialect.DropCheckSQL(table, name)
	if err != nil {
		return err
	}
	if _, err := e.db.ExecContext(ctx, stmt); err != nil {
		return ckerr.Wrap(ckerr.ErrSQLExecution, err, "failed to drop check constraint").
			WithTable(table).
			WithConstraint(name).
			WithSQL(stmt)
	}
	return nil
}
