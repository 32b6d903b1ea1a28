package engine

import (
	"context"

	"github.com/chekov-db/chekov/internal/ast"
	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/namer"
	"github.com/chekov-db/chekov/internal/sqlexpr"
)

// OpState tracks one operation through its lifecycle.
type OpState int

const (
	// StateDeclared means the operation is validated but not yet executed.
	StateDeclared OpState = iota
	// StateApplied means the forward action ran to completion.
	StateApplied
	// StateReversed means the inverse action ran to completion.
	StateReversed
	// StateReversalFailed means the operation could not be reversed.
	// This state is terminal.
	StateReversalFailed
)

// String returns the string representation of an OpState.
func (s OpState) String() string {
	switch s {
	case StateDeclared:
		return "declared"
	case StateApplied:
		return "applied"
	case StateReversed:
		return "reversed"
	case StateReversalFailed:
		return "reversal_failed"
	default:
		return "unknown"
	}
}

// Execution is the per-operation record the ledger hands back when an
// operation is declared. It carries the resolved constraint name, which for
// anonymous constraints exists nowhere else.
type Execution struct {
	Op    ast.Operation
	Name  string // resolved constraint name; set once applied
	State OpState
}

// Ledger owns the live constraint state for the duration of a migration
// run. It applies operations forward and reconstructs their inverses on
// rollback. Execution is strictly sequential; the ledger does no locking.
type Ledger struct {
	schema *Schema
	exec   Executor
	src    namer.Source
}

// NewLedger creates a ledger that emits DDL through exec and draws
// anonymous constraint suffixes from src (nil src uses the system source).
func NewLedger(exec Executor, src namer.Source) *Ledger {
	return &Ledger{
		schema: NewSchema(),
		exec:   exec,
		src:    src,
	}
}

// Schema exposes the current constraint state, e.g. for snapshot rendering.
func (l *Ledger) Schema() *Schema {
	return l.schema
}

// Declare validates an operation and returns its execution record.
// Nothing is executed; malformed operations fail here, before any DDL.
func (l *Ledger) Declare(op ast.Operation) (*Execution, error) {
	if op == nil {
		return nil, ckerr.New(ckerr.ErrDescriptorInvalid, "operation is nil")
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return &Execution{Op: op, State: StateDeclared}, nil
}

// Restored returns an execution record in the applied state, used when
// rebuilding run state from the journal. name is the constraint name that
// was resolved when the operation originally ran.
func Restored(op ast.Operation, name string) *Execution {
	return &Execution{Op: op, Name: name, State: StateApplied}
}

// Apply runs an operation's forward action: compile, resolve the name,
// emit DDL, and register the resulting constraint. Compiler and namer
// failures abort before any DDL is issued.
func (l *Ledger) Apply(ctx context.Context, rec *Execution) error {
	if rec.State != StateDeclared {
		return ckerr.New(ckerr.ErrOperationState, "operation is not in the declared state").
			With("state", rec.State.String())
	}

	switch op := rec.Op.(type) {
	case *ast.AddCheck:
		name, err := l.addCheck(ctx, op.Table(), op.Name, op.Expr)
		if err != nil {
			return err
		}
		rec.Name = name

	case *ast.DropCheck:
		if err := l.dropCheck(ctx, op.Table(), op.Name); err != nil {
			return err
		}
		rec.Name = op.Name

	default:
		return ckerr.Newf(ckerr.ErrMigrationFailed, "unsupported operation type %s", rec.Op.Type())
	}

	rec.State = StateApplied
	return nil
}

// Revert runs an operation's inverse action: dropping an added constraint,
// or re-adding a dropped one from its recorded expression. A drop that was
// declared without its expression cannot be reversed; the record moves to
// the terminal reversal-failed state and the guard error is returned.
func (l *Ledger) Revert(ctx context.Context, rec *Execution) error {
	if rec.State != StateApplied {
		return ckerr.New(ckerr.ErrOperationState, "only applied operations can be reversed").
			With("state", rec.State.String())
	}

	switch op := rec.Op.(type) {
	case *ast.AddCheck:
		// Dropping by name never needs the stored expression.
		if err := l.dropCheck(ctx, op.Table(), rec.Name); err != nil {
			return err
		}

	case *ast.DropCheck:
		if op.Expr == nil {
			rec.State = StateReversalFailed
			return irreversibleErr(op.Table(), op.Name)
		}
		// Re-add with the original name and expression. Compilation is
		// deterministic, so the predicate text is reproduced exactly.
		if _, err := l.addCheck(ctx, op.Table(), op.Name, op.Expr); err != nil {
			return err
		}

	default:
		return ckerr.Newf(ckerr.ErrMigrationFailed, "unsupported operation type %s", rec.Op.Type())
	}

	rec.State = StateReversed
	return nil
}

// addCheck is the shared forward action for AddCheck and for reversing a
// DropCheck. Returns the resolved constraint name.
func (l *Ledger) addCheck(ctx context.Context, table, explicit string, expr sqlexpr.Descriptor) (string, error) {
	predicate, err := sqlexpr.Compile(expr)
	if err != nil {
		return "", err
	}

	t := l.schema.EnsureTable(table)
	name, err := namer.Resolve(table, explicit, t.CheckNames(), l.src)
	if err != nil {
		return "", err
	}

	if err := l.exec.CreateCheckConstraint(ctx, table, name, predicate); err != nil {
		return "", err
	}

	t.Checks = append(t.Checks, &ast.CheckDef{Name: name, Predicate: predicate, Expr: expr})
	return name, nil
}

// dropCheck is the shared inverse/forward drop action.
func (l *Ledger) dropCheck(ctx context.Context, table, name string) error {
	t := l.schema.Table(table)
	if t == nil || !t.HasCheck(name) {
		return ckerr.New(ckerr.ErrConstraintNotFound, "check constraint does not exist").
			WithTable(table).
			WithConstraint(name)
	}

	if err := l.exec.DropCheckConstraint(ctx, table, name); err != nil {
		return err
	}

	checks := make([]*ast.CheckDef, 0, len(t.Checks)-1)
	for _, c := range t.Checks {
		if c.Name != name {
			checks = append(checks, c)
		}
	}
	t.Checks = checks
	return nil
}

// RestoreCheck registers a constraint in the schema without emitting DDL.
// Used when rebuilding state for a database whose constraints already exist.
func (l *Ledger) RestoreCheck(table, name string, expr sqlexpr.Descriptor) error {
	predicate := ""
	if expr != nil {
		var err error
		predicate, err = sqlexpr.Compile(expr)
		if err != nil {
			return err
		}
	}

	t := l.schema.EnsureTable(table)
	if t.HasCheck(name) {
		return ckerr.New(ckerr.ErrDuplicateConstraint, "constraint name already exists").
			WithTable(table).
			WithConstraint(name)
	}
	t.Checks = append(t.Checks, &ast.CheckDef{Name: name, Predicate: predicate, Expr: expr})
	return nil
}

// ForgetCheck removes a constraint from the schema without emitting DDL,
// the restore-time counterpart of a drop operation.
func (l *Ledger) ForgetCheck(table, name string) {
	t := l.schema.Table(table)
	if t == nil {
		return
	}
	checks := make([]*ast.CheckDef, 0, len(t.Checks))
	for _, c := range t.Checks {
		if c.Name != name {
			checks = append(checks, c)
		}
	}
	t.Checks = checks
}

// irreversibleErr builds the guard error for reversing a drop that carries
// no expression. The help text shows the corrective drop-call syntax with
// the expression attached.
func irreversibleErr(table, name string) error {
	return ckerr.New(ckerr.ErrIrreversible, "cannot reverse drop of a check constraint declared without its expression").
		WithTable(table).
		WithConstraint(name).
		WithHelp(`re-issue the drop with the original expression attached, e.g. drop_check: {table: ` + table + `, name: ` + name + `, expr: {raw: "<original predicate>"}}`)
}
