package drift

import (
	"github.com/chekov-db/chekov/internal/engine"
)

// Result is the full outcome of a drift check between the schema the
// migration history implies and the schema recorded in the snapshot.
type Result struct {
	// HasDrift is true if any differences were found
	HasDrift bool

	// ExpectedHash is the merkle root of the replayed migration state
	ExpectedHash string

	// ActualHash is the merkle root of the snapshot state
	ActualHash string

	// Comparison contains the per-table differences
	Comparison *HashComparison

	// ExpectedSchema is the schema replayed from migrations
	ExpectedSchema *engine.Schema

	// ActualSchema is the schema parsed from the snapshot file
	ActualSchema *engine.Schema
}

// Detect fingerprints both schemas and compares them, returning a detailed
// result for CLI rendering.
func Detect(expected, actual *engine.Schema) (*Result, error) {
	expectedHash, err := ComputeSchemaHash(expected)
	if err != nil {
		return nil, err
	}

	actualHash, err := ComputeSchemaHash(actual)
	if err != nil {
		return nil, err
	}

	comparison := CompareHashes(expectedHash, actualHash)

	return &Result{
		HasDrift:       !comparison.Match,
		ExpectedHash:   expectedHash.Root,
		ActualHash:     actualHash.Root,
		Comparison:     comparison,
		ExpectedSchema: expected,
		ActualSchema:   actual,
	}, nil
}

// QuickCheck reports whether the two schemas match, comparing only root
// hashes.
func QuickCheck(expected, actual *engine.Schema) (bool, error) {
	result, err := Detect(expected, actual)
	if err != nil {
		return false, err
	}
	return !result.HasDrift, nil
}
