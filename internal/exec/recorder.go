package exec

import (
	"context"

	"github.com/chekov-db/chekov/internal/dialect"
)

// Recorder collects rendered DDL instead of executing it. Used by the
// plan command and --dry-run to show what a migration would do.
type Recorder struct {
	dialect    dialect.Dialect
	statements []string
}

// NewRecorder creates a Recorder rendering through the given dialect.
func NewRecorder(d dialect.Dialect) *Recorder {
	return &Recorder{dialect: d}
}

// Statements returns the collected DDL in execution order.
func (r *Recorder) Statements() []string {
	return r.statements
}

// Reset discards the collected statements.
func (r *Recorder) Reset() {
	r.statements = nil
}

func (r *Recorder) CreateCheckConstraint(ctx context.Context, table, name, predicate string) error {
	stmt, err := r.dialect.AddCheckSQL(table, name, predicate)
	if err != nil {
		return err
	}
	r.statements = append(r.statements, stmt)
	return nil
}

func (r *Recorder) DropCheckConstraint(ctx context.Context, table, name string) error {
	stmt, err := r.dialect.DropCheckSQL(table, name)
	if err != nil {
		return err
	}
	r.statements = append(r.statements, stmt)
	return nil
}
