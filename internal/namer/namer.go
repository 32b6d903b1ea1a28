// Package namer resolves check-constraint names, generating anonymous ones
// when the migration author does not supply a name.
package namer

import (
	"math/rand/v2"
	"strconv"

	"github.com/chekov-db/chekov/internal/ckerr"
)

// Anonymous suffixes are drawn from [minSuffix, maxSuffix], giving 7 to 9
// digit names that mirror the database's own anonymous-constraint convention.
const (
	minSuffix = 1_000_000
	maxSuffix = 999_999_999

	// maxAttempts bounds collision retries so a misbehaving Source cannot
	// spin forever; with a 9-digit space this is never reached in practice.
	maxAttempts = 10_000
)

// Source yields random integers for anonymous suffix generation.
// Tests inject a deterministic implementation to assert exact names.
type Source interface {
	// Int64N returns a non-negative pseudo-random number in [0, n).
	Int64N(n int64) int64
}

// systemSource is the default Source, backed by math/rand/v2.
type systemSource struct{}

func (systemSource) Int64N(n int64) int64 { return rand.Int64N(n) }

// System returns the default randomness source.
func System() Source { return systemSource{} }

// Resolve produces the constraint name for a table.
//
// If explicit is non-empty it is validated against the existing names and
// returned as-is; a collision fails with ErrDuplicateConstraint before any
// DDL is emitted. If explicit is empty an anonymous name of the form
// "<table>_<suffix>" is generated, retrying on collision.
func Resolve(table, explicit string, existing map[string]bool, src Source) (string, error) {
	if explicit != "" {
		if existing[explicit] {
			return "", ckerr.New(ckerr.ErrDuplicateConstraint, "constraint name already exists").
				WithTable(table).
				WithConstraint(explicit)
		}
		return explicit, nil
	}

	if src == nil {
		src = System()
	}

	for i := 0; i < maxAttempts; i++ {
		suffix := minSuffix + src.Int64N(maxSuffix-minSuffix+1)
		name := table + "_" + strconv.FormatInt(suffix, 10)
		if !existing[name] {
			return name, nil
		}
	}

	return "", ckerr.New(ckerr.ErrNameExhausted, "could not generate a unique anonymous constraint name").
		WithTable(table)
}
