package runner

import (
	"context"
	"time"

	"github.com/chekov-db/chekov/internal/ast"
	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/engine"
	"github.com/chekov-db/chekov/internal/namer"
)

// Journal persists which migrations have been applied, including the
// constraint names each operation resolved to.
type Journal interface {
	// Applied returns all journal entries in revision order.
	Applied(ctx context.Context) ([]engine.AppliedMigration, error)

	// Record adds a journal entry after a migration is applied.
	Record(ctx context.Context, entry engine.AppliedMigration) error

	// Remove deletes the journal entry after a migration is rolled back.
	Remove(ctx context.Context, revision string) error
}

// Runner applies and rolls back migrations through an engine ledger,
// keeping the journal in sync. Execution is strictly sequential.
type Runner struct {
	exec    engine.Executor
	journal Journal
	src     namer.Source
}

// New creates a Runner. src may be nil to use the system randomness source.
func New(exec engine.Executor, journal Journal, src namer.Source) *Runner {
	return &Runner{exec: exec, journal: journal, src: src}
}

// Migrate applies all pending migrations up to target (empty target means
// all). Returns the number of migrations applied.
func (r *Runner) Migrate(ctx context.Context, all []engine.Migration, target string) (int, error) {
	applied, err := r.journal.Applied(ctx)
	if err != nil {
		return 0, err
	}

	plan, err := PlanMigrations(all, applied, target, engine.Up)
	if err != nil {
		return 0, err
	}
	if plan.IsEmpty() {
		return 0, nil
	}

	ledger, err := rebuildLedger(all, applied, r.exec, r.src)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range plan.Migrations {
		names, err := r.applyMigration(ctx, ledger, m)
		if err != nil {
			return count, ckerr.Wrapf(ckerr.ErrMigrationFailed, err, "migration %s failed", m.Revision).
				With("revision", m.Revision).
				With("name", m.Name)
		}

		entry := engine.AppliedMigration{
			Revision:        m.Revision,
			Name:            m.Name,
			Checksum:        m.Checksum,
			AppliedAt:       time.Now().UTC(),
			ConstraintNames: names,
		}
		if err := r.journal.Record(ctx, entry); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// applyMigration runs every operation of one migration in order, returning
// the resolved constraint name per operation.
func (r *Runner) applyMigration(ctx context.Context, ledger *engine.Ledger, m engine.Migration) ([]string, error) {
	names := make([]string, 0, len(m.Ops))
	for _, op := range m.Ops {
		rec, err := ledger.Declare(op)
		if err != nil {
			return nil, err
		}
		if err := ledger.Apply(ctx, rec); err != nil {
			return nil, err
		}
		names = append(names, rec.Name)
	}
	return names, nil
}

// Rollback reverts the most recent `steps` applied migrations. Returns the
// number of migrations rolled back. An irreversible operation aborts the
// rollback of its migration; migrations already rolled back stay rolled
// back.
func (r *Runner) Rollback(ctx context.Context, all []engine.Migration, steps int) (int, error) {
	applied, err := r.journal.Applied(ctx)
	if err != nil {
		return 0, err
	}

	plan, err := PlanMigrations(all, applied, "", engine.Down)
	if err != nil {
		return 0, err
	}
	if steps < len(plan.Migrations) {
		plan.Migrations = plan.Migrations[:steps]
	}
	if plan.IsEmpty() {
		return 0, nil
	}

	ledger, err := rebuildLedger(all, applied, r.exec, r.src)
	if err != nil {
		return 0, err
	}

	appliedMap := engine.ToMap(applied, func(a engine.AppliedMigration) string { return a.Revision })

	count := 0
	for _, m := range plan.Migrations {
		entry := appliedMap[m.Revision]
		if err := r.revertMigration(ctx, ledger, m, entry.ConstraintNames); err != nil {
			return count, err
		}
		if err := r.journal.Remove(ctx, m.Revision); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// revertMigration reverses one migration's operations in reverse order.
func (r *Runner) revertMigration(ctx context.Context, ledger *engine.Ledger, m engine.Migration, names []string) error {
	recs := restoredExecutions(m, names)
	for i := len(recs) - 1; i >= 0; i-- {
		if err := ledger.Revert(ctx, recs[i]); err != nil {
			return err
		}
	}
	return nil
}

// restoredExecutions rebuilds the execution records for an applied
// migration from its journal entry, pinning the recorded constraint names.
func restoredExecutions(m engine.Migration, names []string) []*engine.Execution {
	recs := make([]*engine.Execution, len(m.Ops))
	for i, op := range m.Ops {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		recs[i] = engine.Restored(op, name)
	}
	return recs
}

// rebuildLedger reconstructs the in-memory constraint state for all applied
// migrations without emitting DDL, so uniqueness checks and drops operate
// on the same state the database holds.
func rebuildLedger(all []engine.Migration, applied []engine.AppliedMigration, exec engine.Executor, src namer.Source) (*engine.Ledger, error) {
	ledger := engine.NewLedger(exec, src)

	migrationMap := engine.ToMap(all, func(m engine.Migration) string { return m.Revision })

	for _, a := range applied {
		m, ok := migrationMap[a.Revision]
		if !ok {
			// Missing file is only fatal when rolling back; planUp reports
			// it through checksum verification paths. Skip here.
			continue
		}
		for i, op := range m.Ops {
			switch o := op.(type) {
			case *ast.AddCheck:
				name := o.Name
				if name == "" && i < len(a.ConstraintNames) {
					name = a.ConstraintNames[i]
				}
				if err := ledger.RestoreCheck(o.Table(), name, o.Expr); err != nil {
					return nil, err
				}
			case *ast.DropCheck:
				ledger.ForgetCheck(o.Table(), o.Name)
			}
		}
	}

	return ledger, nil
}
