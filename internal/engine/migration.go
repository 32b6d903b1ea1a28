package engine

import (
	"time"

	"github.com/chekov-db/chekov/internal/ast"
)

// Direction of migration execution.
type Direction int

const (
	// Up applies migrations (adds/drops constraints as declared).
	Up Direction = iota
	// Down rolls back migrations (reverts constraint changes).
	Down
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Migration is a single migration file: an ordered list of constraint
// operations plus identity and integrity metadata.
type Migration struct {
	// Revision is the unique identifier (e.g., "0001").
	Revision string

	// Name is the human-readable name (e.g., "add_price_checks").
	Name string

	// Path is the file path to the migration file.
	Path string

	// Checksum is the SHA-256 hash of the file content for integrity checking.
	Checksum string

	// Ops are the operations to execute, in declared order.
	Ops []ast.Operation
}

// AppliedMigration is a journal entry for a migration that has been applied.
type AppliedMigration struct {
	Revision  string
	Name      string
	Checksum  string
	AppliedAt time.Time

	// ConstraintNames holds the resolved constraint name per operation, in
	// operation order. For anonymous AddCheck operations this is the only
	// durable record of the generated name, and rollback depends on it.
	ConstraintNames []string
}

// Plan is an ordered list of migrations to execute.
type Plan struct {
	// Migrations to execute, in order.
	Migrations []Migration

	// Direction of execution (Up or Down).
	Direction Direction
}

// IsEmpty returns true if the plan has no migrations to execute.
func (p *Plan) IsEmpty() bool {
	return len(p.Migrations) == 0
}

// PlanStatus describes the state of one migration relative to the journal.
type PlanStatus int

const (
	// StatusPending means the migration has not been applied.
	StatusPending PlanStatus = iota
	// StatusApplied means the migration has been applied and matches its file.
	StatusApplied
	// StatusModified means the file changed after being applied.
	StatusModified
	// StatusMissing means the journal references a file that no longer exists.
	StatusMissing
)

// String returns the string representation of a PlanStatus.
func (s PlanStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApplied:
		return "applied"
	case StatusModified:
		return "modified"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// MigrationStatus pairs a revision with its journal state for display.
type MigrationStatus struct {
	Revision  string
	Name      string
	Status    PlanStatus
	AppliedAt *string // nil if not applied
	Checksum  string
}

// ToMap builds a lookup map from a slice using the provided key function.
func ToMap[T any](items []T, key func(T) string) map[string]T {
	m := make(map[string]T, len(items))
	for _, item := range items {
		m[key(item)] = item
	}
	return m
}
