package engine

import (
	"context"

	"github.com/chekov-db/chekov/internal/ast"
	"github.com/chekov-db/chekov/internal/namer"
)

// ReplayOperations applies a sequence of operations to build the resulting
// schema state without emitting any DDL. Used for computing what the schema
// looks like after a set of migrations, e.g. for snapshot generation.
//
// names optionally supplies the resolved constraint name per operation (in
// operation order, as recorded in the journal); when nil or too short,
// anonymous constraints draw fresh names from src.
func ReplayOperations(ops []ast.Operation, names []string, src namer.Source) (*Schema, error) {
	ledger := NewLedger(Discard(), src)
	ctx := context.Background()

	for i, op := range ops {
		rec, err := ledger.Declare(op)
		if err != nil {
			return nil, err
		}

		// Pin the recorded name for anonymous adds so replayed state
		// matches what actually exists in the database.
		if add, ok := op.(*ast.AddCheck); ok && add.Name == "" && i < len(names) && names[i] != "" {
			pinned := *add
			pinned.Name = names[i]
			rec.Op = &pinned
		}

		if err := ledger.Apply(ctx, rec); err != nil {
			return nil, err
		}
	}

	return ledger.Schema(), nil
}
