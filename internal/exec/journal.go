package exec

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/dialect"
	"github.com/chekov-db/chekov/internal/engine"
)

// JournalTableName is the name of the version tracking table.
const JournalTableName = "chekov_migrations"

// SQLJournal stores applied-migration records in the chekov_migrations
// table. Constraint names are stored per migration so rollback can drop
// anonymously named constraints generated on a previous run.
type SQLJournal struct {
	db      *sql.DB
	dialect dialect.Dialect
}

// NewJournal creates a journal backed by the executor's connection.
func NewJournal(e *DB) *SQLJournal {
	return &SQLJournal{db: e.db, dialect: e.dialect}
}

// EnsureTable creates the tracking table if it does not exist.
func (j *SQLJournal) EnsureTable(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    revision         VARCHAR(20) PRIMARY KEY,
    name             TEXT,
    checksum         VARCHAR(64),
    applied_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    constraint_names TEXT
)`, j.dialect.QuoteIdent(JournalTableName))

	if _, err := j.db.ExecContext(ctx, stmt); err != nil {
		return ckerr.Wrap(ckerr.ErrSQLExecution, err, "failed to create migrations table").
			WithSQL(stmt)
	}
	return nil
}

// Applied returns all journal entries ordered by revision.
func (j *SQLJournal) Applied(ctx context.Context) ([]engine.AppliedMigration, error) {
	query := fmt.Sprintf(
		"SELECT revision, name, checksum, applied_at, constraint_names FROM %s ORDER BY revision ASC",
		j.dialect.QuoteIdent(JournalTableName),
	)

	rows, err := j.db.QueryContext(ctx, query)
	if err != nil {
		return nil, ckerr.Wrap(ckerr.ErrSQLExecution, err, "failed to query applied migrations").
			WithSQL(query)
	}
	defer rows.Close()

	var entries []engine.AppliedMigration
	for rows.Next() {
		var entry engine.AppliedMigration
		var name, checksum, names sql.NullString
		var appliedAt time.Time

		if err := rows.Scan(&entry.Revision, &name, &checksum, &appliedAt, &names); err != nil {
			return nil, ckerr.Wrap(ckerr.ErrSQLExecution, err, "failed to scan migration row")
		}

		entry.Name = name.String
		entry.Checksum = checksum.String
		entry.AppliedAt = appliedAt
		entry.ConstraintNames = decodeNames(names.String)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, ckerr.Wrap(ckerr.ErrSQLExecution, err, "error iterating migration rows")
	}

	return entries, nil
}

// Record adds a journal entry after a migration is applied.
func (j *SQLJournal) Record(ctx context.Context, entry engine.AppliedMigration) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (revision, name, checksum, constraint_names) VALUES ($1, $2, $3, $4)",
		j.dialect.QuoteIdent(JournalTableName),
	)

	_, err := j.db.ExecContext(ctx, query,
		entry.Revision, entry.Name, entry.Checksum, encodeNames(entry.ConstraintNames))
	if err != nil {
		return ckerr.Wrap(ckerr.ErrSQLExecution, err, "failed to record applied migration").
			With("revision", entry.Revision).
			WithSQL(query)
	}
	return nil
}

// Remove deletes the journal entry after a migration is rolled back.
func (j *SQLJournal) Remove(ctx context.Context, revision string) error {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE revision = $1",
		j.dialect.QuoteIdent(JournalTableName),
	)

	result, err := j.db.ExecContext(ctx, query, revision)
	if err != nil {
		return ckerr.Wrap(ckerr.ErrSQLExecution, err, "failed to remove migration record").
			With("revision", revision).
			WithSQL(query)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return ckerr.Wrap(ckerr.ErrSQLExecution, err, "failed to get rows affected")
	}
	if affected == 0 {
		return ckerr.New(ckerr.ErrMigrationNotFound, "migration not found in journal").
			With("revision", revision)
	}

	return nil
}

// encodeNames joins resolved constraint names for storage. Names are SQL
// identifiers and never contain commas.
func encodeNames(names []string) string {
	return strings.Join(names, ",")
}

func decodeNames(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
