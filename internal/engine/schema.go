// Package engine owns the reversible application of constraint operations:
// it tracks per-table constraint state, emits DDL through an Executor, and
// reconstructs inverse operations during rollback.
package engine

import (
	"sort"

	"github.com/chekov-db/chekov/internal/ast"
)

// Schema is the in-memory constraint state of the database: every table
// that carries at least one check constraint, or has at some point.
type Schema struct {
	Tables map[string]*ast.TableDef
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{Tables: make(map[string]*ast.TableDef)}
}

// Table returns the named table, or nil if it has no recorded state.
func (s *Schema) Table(name string) *ast.TableDef {
	return s.Tables[name]
}

// EnsureTable returns the named table, creating an empty entry if needed.
func (s *Schema) EnsureTable(name string) *ast.TableDef {
	t, ok := s.Tables[name]
	if !ok {
		t = &ast.TableDef{Name: name}
		s.Tables[name] = t
	}
	return t
}

// TableNames returns all table names in sorted order for deterministic
// iteration.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
