// Package runner sequences migration execution: it plans which migrations
// to run in which direction, verifies file integrity against the journal,
// and drives the engine ledger through each operation.
package runner

import (
	"slices"
	"strings"

	"github.com/chekov-db/chekov/internal/ast"
	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/engine"
)

// PlanMigrations creates an execution plan based on current journal state.
//
// For Up direction:
//   - Returns pending migrations in revision order up to target (or all
//     pending when target is empty).
//
// For Down direction:
//   - Returns applied migrations most recent first, down to but excluding
//     target (or all applied when target is empty).
func PlanMigrations(all []engine.Migration, applied []engine.AppliedMigration, target string, dir engine.Direction) (*engine.Plan, error) {
	appliedSet := make(map[string]bool, len(applied))
	appliedChecksums := make(map[string]string, len(applied))
	for _, a := range applied {
		appliedSet[a.Revision] = true
		appliedChecksums[a.Revision] = a.Checksum
	}

	switch dir {
	case engine.Up:
		// Verify checksums of applied migrations against current files
		if err := verifyChecksums(all, appliedChecksums); err != nil {
			return nil, err
		}
		return planUp(all, appliedSet, target)
	case engine.Down:
		return planDown(all, applied, target)
	default:
		return &engine.Plan{Direction: dir}, nil
	}
}

// verifyChecksums checks that all applied migrations still match their
// recorded checksums. Returns an error if any migration file has been
// modified after being applied.
func verifyChecksums(all []engine.Migration, appliedChecksums map[string]string) error {
	for _, m := range all {
		recorded, ok := appliedChecksums[m.Revision]
		if !ok {
			continue // not applied yet
		}
		if recorded == "" || m.Checksum == "" {
			continue // no checksum to compare
		}
		if recorded != m.Checksum {
			return ckerr.New(ckerr.ErrChecksumMismatch, "migration file was modified after being applied").
				With("revision", m.Revision).
				With("name", m.Name).
				With("expected", recorded).
				With("actual", m.Checksum)
		}
	}
	return nil
}

// planUp creates a plan for applying pending migrations.
func planUp(all []engine.Migration, appliedSet map[string]bool, target string) (*engine.Plan, error) {
	plan := &engine.Plan{
		Direction:  engine.Up,
		Migrations: make([]engine.Migration, 0),
	}

	sorted := slices.Clone(all)
	slices.SortFunc(sorted, func(a, b engine.Migration) int {
		return strings.Compare(a.Revision, b.Revision)
	})

	for _, m := range sorted {
		if appliedSet[m.Revision] {
			continue
		}

		plan.Migrations = append(plan.Migrations, m)

		if target != "" && m.Revision == target {
			break
		}
	}

	if target != "" {
		found := false
		for _, m := range all {
			if m.Revision == target {
				found = true
				break
			}
		}
		if !found {
			return nil, ckerr.New(ckerr.ErrMigrationNotFound, "target migration not found").
				With("target", target)
		}
	}

	return plan, nil
}

// planDown creates a plan for rolling back applied migrations.
func planDown(all []engine.Migration, applied []engine.AppliedMigration, target string) (*engine.Plan, error) {
	plan := &engine.Plan{
		Direction:  engine.Down,
		Migrations: make([]engine.Migration, 0),
	}

	migrationMap := engine.ToMap(all, func(m engine.Migration) string { return m.Revision })

	// Most recent first
	sortedApplied := slices.Clone(applied)
	slices.SortFunc(sortedApplied, func(a, b engine.AppliedMigration) int {
		return strings.Compare(b.Revision, a.Revision)
	})

	for _, a := range sortedApplied {
		// Target stays applied
		if target != "" && a.Revision == target {
			break
		}

		m, ok := migrationMap[a.Revision]
		if !ok {
			return nil, ckerr.New(ckerr.ErrMigrationNotFound, "migration file not found for applied revision").
				With("revision", a.Revision)
		}

		plan.Migrations = append(plan.Migrations, m)
	}

	return plan, nil
}

// GetStatus returns the journal status of all known migrations.
func GetStatus(all []engine.Migration, applied []engine.AppliedMigration) []engine.MigrationStatus {
	appliedMap := engine.ToMap(applied, func(a engine.AppliedMigration) string { return a.Revision })
	migrationMap := engine.ToMap(all, func(m engine.Migration) string { return m.Revision })

	revisionSet := make(map[string]bool, len(all)+len(applied))
	for _, m := range all {
		revisionSet[m.Revision] = true
	}
	for _, a := range applied {
		revisionSet[a.Revision] = true
	}

	revisions := make([]string, 0, len(revisionSet))
	for r := range revisionSet {
		revisions = append(revisions, r)
	}
	slices.Sort(revisions)

	statuses := make([]engine.MigrationStatus, 0, len(revisions))
	for _, rev := range revisions {
		status := engine.MigrationStatus{Revision: rev}

		m, hasMigration := migrationMap[rev]
		a, wasApplied := appliedMap[rev]

		if hasMigration {
			status.Name = m.Name
			status.Checksum = m.Checksum
		}

		if wasApplied {
			appliedStr := a.AppliedAt.Format("2006-01-02 15:04:05")
			status.AppliedAt = &appliedStr

			if !hasMigration {
				status.Status = engine.StatusMissing
			} else if a.Checksum != "" && m.Checksum != "" && a.Checksum != m.Checksum {
				status.Status = engine.StatusModified
			} else {
				status.Status = engine.StatusApplied
			}
		} else {
			status.Status = engine.StatusPending
		}

		statuses = append(statuses, status)
	}

	return statuses
}

// HasIrreversibleOps reports whether any operation in the migration cannot
// be auto-reversed: a drop declared without its expression.
func HasIrreversibleOps(m engine.Migration) bool {
	for _, op := range m.Ops {
		if drop, ok := op.(*ast.DropCheck); ok && !drop.Reversible() {
			return true
		}
	}
	return false
}
