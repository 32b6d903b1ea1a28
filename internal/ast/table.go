package ast

import (
	"sort"

	"github.com/chekov-db/chekov/internal/sqlexpr"
)

// CheckDef is a registered CHECK constraint: the compiled predicate plus,
// when the constraint was declared structurally, its source descriptor.
// The descriptor is what makes a later drop of this constraint reversible.
type CheckDef struct {
	Name      string             // Constraint name, unique within the table
	Predicate string             // Canonical compiled predicate text
	Expr      sqlexpr.Descriptor // Source descriptor; nil when unknown
}

// TableDef holds the constraint state of a single table.
type TableDef struct {
	Name   string
	Checks []*CheckDef
}

// GetCheck returns the check constraint with the given name, or nil.
func (t *TableDef) GetCheck(name string) *CheckDef {
	for _, c := range t.Checks {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// HasCheck returns true if a check constraint with the given name exists.
func (t *TableDef) HasCheck(name string) bool {
	return t.GetCheck(name) != nil
}

// CheckNames returns the constraint names as a membership set, the form the
// namer's collision check consumes.
func (t *TableDef) CheckNames() map[string]bool {
	names := make(map[string]bool, len(t.Checks))
	for _, c := range t.Checks {
		names[c.Name] = true
	}
	return names
}

// SortedChecks returns the constraints ordered by name. Registration order
// is irrelevant to serialization; two tables with the same final state must
// render identically.
func (t *TableDef) SortedChecks() []*CheckDef {
	sorted := make([]*CheckDef, len(t.Checks))
	copy(sorted, t.Checks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
