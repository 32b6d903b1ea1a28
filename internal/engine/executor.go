package engine

import "context"

// Executor issues constraint DDL against the target database. The engine
// only ever needs two verbs; everything else about statement rendering and
// connection handling lives behind this interface.
type Executor interface {
	// CreateCheckConstraint emits the DDL that adds a named check
	// constraint with the given compiled predicate text.
	CreateCheckConstraint(ctx context.Context, table, name, predicate string) error

	// DropCheckConstraint emits the DDL that drops the named constraint.
	DropCheckConstraint(ctx context.Context, table, name string) error
}

// discard is an Executor that performs no I/O. Used when replaying
// operation history to rebuild in-memory state.
type discard struct{}

func (discard) CreateCheckConstraint(ctx context.Context, table, name, predicate string) error {
	return nil
}

func (discard) DropCheckConstraint(ctx context.Context, table, name string) error {
	return nil
}

// Discard returns an Executor that silently accepts all DDL.
func Discard() Executor { return discard{} }
