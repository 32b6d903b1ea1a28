// Package sqlexpr compiles structured check-constraint descriptors into
// canonical SQL predicate text. Compilation is deterministic: equal
// descriptors always produce byte-identical output, which the snapshot
// format relies on for text comparison across runs.
package sqlexpr

// Descriptor is the structured representation of a check-constraint
// expression before it is compiled to SQL text. The variant set is closed:
// Raw, ColumnInSet, and Conjunction are the only implementations, so the
// compiler can type-switch exhaustively.
type Descriptor interface {
	// isDescriptor seals the interface to the variants defined in this package.
	isDescriptor()
}

// Raw is a literal SQL predicate fragment, used verbatim.
// The text is trusted SQL supplied by the migration author.
type Raw struct {
	SQL string
}

func (Raw) isDescriptor() {}

// ColumnInSet means "column equals one of these values".
// Value order is preserved for deterministic output.
type ColumnInSet struct {
	Column string
	Values []any
}

func (ColumnInSet) isDescriptor() {}

// Conjunction means all parts must hold (SQL AND).
// Part order is preserved for deterministic output.
type Conjunction struct {
	Parts []Descriptor
}

func (Conjunction) isDescriptor() {}

// Equal reports whether two descriptors are structurally identical.
// Because compilation is deterministic, equality of compiled text is
// equivalent; Equal avoids compiling when both sides are well-formed.
func Equal(a, b Descriptor) bool {
	sa, errA := Compile(a)
	sb, errB := Compile(b)
	if errA != nil || errB != nil {
		return false
	}
	return sa == sb
}
