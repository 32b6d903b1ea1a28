// Package ast defines the operation and definition types for check-constraint
// migrations. All schema changes are converted to Operations before being
// rendered to SQL or replayed into schema state.
package ast

// OpType identifies the kind of schema operation.
type OpType int

const (
	// OpAddCheck adds a CHECK constraint to a table.
	OpAddCheck OpType = iota

	// OpDropCheck removes a CHECK constraint from a table.
	OpDropCheck
)

// String returns the string representation of an OpType.
func (o OpType) String() string {
	switch o {
	case OpAddCheck:
		return "AddCheck"
	case OpDropCheck:
		return "DropCheck"
	default:
		return "Unknown"
	}
}
