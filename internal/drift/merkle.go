// Package drift detects divergence between the constraint state the
// migration history implies and the state recorded in the snapshot file.
// Schemas are fingerprinted with a merkle tree so a matching root hash
// proves equality without walking every constraint.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/cbergoon/merkletree"

	"github.com/chekov-db/chekov/internal/ast"
	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/engine"
)

// SchemaHash is the merkle fingerprint of a schema's constraint state.
type SchemaHash struct {
	Root   string                // Root hash over all table hashes
	Tables map[string]*TableHash // Per-table hashes for drill-down
}

// TableHash is the fingerprint of a single table's check constraints.
type TableHash struct {
	Name   string            // Table name
	Hash   string            // Hash of the table's full constraint set
	Checks map[string]string // Constraint name -> predicate hash
}

// tableContent implements merkletree.Content for table-level hashing.
type tableContent struct {
	name string
	hash string
}

func (t tableContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(t.hash))
	return h[:], nil
}

func (t tableContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(tableContent)
	if !ok {
		return false, nil
	}
	return t.hash == o.hash, nil
}

// ComputeSchemaHash computes the merkle fingerprint for a schema. Tables
// without check constraints do not contribute, matching the snapshot
// format's empty-table omission.
func ComputeSchemaHash(schema *engine.Schema) (*SchemaHash, error) {
	result := &SchemaHash{
		Tables: make(map[string]*TableHash),
	}

	var contents []merkletree.Content
	if schema != nil {
		for _, name := range schema.TableNames() {
			table := schema.Tables[name]
			if len(table.Checks) == 0 {
				continue
			}
			th := computeTableHash(table)
			result.Tables[name] = th
			contents = append(contents, tableContent{name: name, hash: th.Hash})
		}
	}

	if len(contents) == 0 {
		result.Root = emptyHash()
		return result, nil
	}

	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return nil, ckerr.Wrap(ckerr.ErrSnapshotDrift, err, "failed to build merkle tree")
	}

	result.Root = hex.EncodeToString(tree.MerkleRoot())
	return result, nil
}

// computeTableHash fingerprints one table's constraint set, sorted by
// constraint name for determinism.
func computeTableHash(table *ast.TableDef) *TableHash {
	result := &TableHash{
		Name:   table.Name,
		Checks: make(map[string]string),
	}

	var checkHashes []string
	for _, check := range table.SortedChecks() {
		h := hashString("name:" + check.Name + "|predicate:" + check.Predicate)
		result.Checks[check.Name] = h
		checkHashes = append(checkHashes, check.Name+":"+h)
	}

	result.Hash = hashString("table:" + table.Name + "|checks:[" + strings.Join(checkHashes, ",") + "]")
	return result
}

func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// emptyHash returns a consistent hash for schemas with no constraints.
func emptyHash() string {
	return hashString("empty_schema")
}

// HashComparison is the result of comparing two schema fingerprints.
type HashComparison struct {
	Match         bool                  // True if fingerprints are identical
	ExpectedRoot  string                // Expected schema root hash
	ActualRoot    string                // Actual schema root hash
	TableDiffs    map[string]*TableDiff // Tables with differing constraint sets
	MissingTables []string              // Tables missing from actual
	ExtraTables   []string              // Extra tables in actual
}

// TableDiff lists constraint-level differences within one table.
type TableDiff struct {
	Name           string   // Table name
	MissingChecks  []string // Constraints missing from actual
	ExtraChecks    []string // Extra constraints in actual
	ModifiedChecks []string // Constraints whose predicate text differs
}

// HasDifferences reports whether the table diff is non-empty.
func (d *TableDiff) HasDifferences() bool {
	return len(d.MissingChecks) > 0 ||
		len(d.ExtraChecks) > 0 ||
		len(d.ModifiedChecks) > 0
}

// CompareHashes compares two schema fingerprints and returns the
// differences. A matching root short-circuits the per-table walk.
func CompareHashes(expected, actual *SchemaHash) *HashComparison {
	result := &HashComparison{
		Match:         expected.Root == actual.Root,
		ExpectedRoot:  expected.Root,
		ActualRoot:    actual.Root,
		TableDiffs:    make(map[string]*TableDiff),
		MissingTables: []string{},
		ExtraTables:   []string{},
	}

	if result.Match {
		return result
	}

	for name := range expected.Tables {
		if _, exists := actual.Tables[name]; !exists {
			result.MissingTables = append(result.MissingTables, name)
		}
	}
	sort.Strings(result.MissingTables)

	for name := range actual.Tables {
		if _, exists := expected.Tables[name]; !exists {
			result.ExtraTables = append(result.ExtraTables, name)
		}
	}
	sort.Strings(result.ExtraTables)

	for name, expectedTable := range expected.Tables {
		actualTable, exists := actual.Tables[name]
		if !exists {
			continue
		}
		if expectedTable.Hash != actualTable.Hash {
			result.TableDiffs[name] = compareTableHashes(expectedTable, actualTable)
		}
	}

	return result
}

// compareTableHashes diffs two table fingerprints constraint by constraint.
func compareTableHashes(expected, actual *TableHash) *TableDiff {
	diff := &TableDiff{Name: expected.Name}

	for name, hash := range expected.Checks {
		actualHash, exists := actual.Checks[name]
		if !exists {
			diff.MissingChecks = append(diff.MissingChecks, name)
		} else if hash != actualHash {
			diff.ModifiedChecks = append(diff.ModifiedChecks, name)
		}
	}
	for name := range actual.Checks {
		if _, exists := expected.Checks[name]; !exists {
			diff.ExtraChecks = append(diff.ExtraChecks, name)
		}
	}

	sort.Strings(diff.MissingChecks)
	sort.Strings(diff.ExtraChecks)
	sort.Strings(diff.ModifiedChecks)

	return diff
}
