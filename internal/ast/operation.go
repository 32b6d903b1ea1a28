package ast

import (
	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/sqlexpr"
)

// Operation represents a single atomic change to the database schema.
// All constraint changes (from migration files or rollback synthesis) are
// converted to Operations before being rendered to SQL.
type Operation interface {
	// Type returns the operation type (OpAddCheck or OpDropCheck).
	Type() OpType

	// Table returns the name of the table the operation targets.
	Table() string

	// Validate checks that the operation is well-formed.
	// Returns an error if the operation has invalid or missing fields.
	Validate() error
}

// -----------------------------------------------------------------------------
// AddCheck - adds a CHECK constraint
// -----------------------------------------------------------------------------

// AddCheck represents adding a CHECK constraint to a table.
// Name may be empty, in which case an anonymous name is generated when the
// operation is applied.
type AddCheck struct {
	Table_ string
	Name   string
	Expr   sqlexpr.Descriptor
}

func (op *AddCheck) Type() OpType { return OpAddCheck }

func (op *AddCheck) Table() string { return op.Table_ }

func (op *AddCheck) Validate() error {
	if op.Table_ == "" {
		return ckerr.New(ckerr.ErrDescriptorInvalid, "table name is required for add check")
	}
	if op.Expr == nil {
		return ckerr.New(ckerr.ErrDescriptorInvalid, "check expression is required").
			WithTable(op.Table_)
	}
	// Compile eagerly so malformed descriptors fail before any DDL is emitted.
	if _, err := sqlexpr.Compile(op.Expr); err != nil {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------
// DropCheck - removes a CHECK constraint
// -----------------------------------------------------------------------------

// DropCheck represents removing a CHECK constraint from a table.
// Expr is optional: when present it records the constraint's original
// expression so the drop can be reversed by re-adding it; without it the
// operation is irreversible.
type DropCheck struct {
	Table_ string
	Name   string
	Expr   sqlexpr.Descriptor
}

func (op *DropCheck) Type() OpType { return OpDropCheck }

func (op *DropCheck) Table() string { return op.Table_ }

func (op *DropCheck) Validate() error {
	if op.Table_ == "" {
		return ckerr.New(ckerr.ErrDescriptorInvalid, "table name is required for drop check")
	}
	if op.Name == "" {
		return ckerr.New(ckerr.ErrDescriptorInvalid, "constraint name is required for drop check").
			WithTable(op.Table_)
	}
	if op.Expr != nil {
		if _, err := sqlexpr.Compile(op.Expr); err != nil {
			return err
		}
	}
	return nil
}

// Reversible reports whether the drop carries enough information to be
// reversed (re-added) during rollback.
func (op *DropCheck) Reversible() bool {
	return op.Expr != nil
}
