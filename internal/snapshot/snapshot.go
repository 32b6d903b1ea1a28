// Package snapshot renders the schema's check constraints into the
// chekov.snapshot text format and parses it back for verification.
//
// The format is line-oriented and deterministic: tables sorted by name,
// constraints within a table sorted by name, so two dumps of identical
// state are byte-identical and diff cleanly in review.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chekov-db/chekov/internal/ast"
	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/engine"
)

const header = "# chekov schema snapshot. Generated file; do not edit by hand."

// RenderTable renders the check-constraint fragment for one table: one
// `name: predicate` line per constraint, sorted by name. A table with no
// constraints produces no fragment at all, not an empty block.
func RenderTable(table *ast.TableDef) string {
	if table == nil || len(table.Checks) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, check := range table.SortedChecks() {
		sb.WriteString("  ")
		sb.WriteString(check.Name)
		sb.WriteString(": ")
		sb.WriteString(check.Predicate)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Render produces the full snapshot document for a schema. Tables without
// check constraints are omitted entirely.
func Render(schema *engine.Schema) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")

	if schema == nil {
		return sb.String()
	}

	for _, name := range schema.TableNames() {
		fragment := RenderTable(schema.Tables[name])
		if fragment == "" {
			continue
		}
		sb.WriteString("\ntable ")
		sb.WriteString(name)
		sb.WriteString("\n")
		sb.WriteString(fragment)
	}

	return sb.String()
}

// Parse reads a snapshot document back into schema state. Only the
// constraint name and predicate text survive a round trip; source
// descriptors are not persisted.
func Parse(text string) (*engine.Schema, error) {
	schema := engine.NewSchema()

	var current *ast.TableDef
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "table "); ok {
			name := strings.TrimSpace(rest)
			if name == "" {
				return nil, parseErr(i, "table header without a name")
			}
			current = schema.EnsureTable(name)
			continue
		}

		if current == nil {
			return nil, parseErr(i, "constraint line outside a table block")
		}
		name, predicate, ok := strings.Cut(trimmed, ": ")
		if !ok || name == "" {
			return nil, parseErr(i, "malformed constraint line")
		}
		if current.HasCheck(name) {
			return nil, parseErr(i, "duplicate constraint name").
				WithTable(current.Name).
				WithConstraint(name)
		}
		current.Checks = append(current.Checks, &ast.CheckDef{
			Name:      name,
			Predicate: predicate,
		})
	}

	return schema, nil
}

func parseErr(lineIdx int, msg string) *ckerr.Error {
	return ckerr.New(ckerr.ErrSnapshotParse, msg).With("line", lineIdx+1)
}

// Write renders the schema and writes it to path, creating parent
// directories as needed.
func Write(path string, schema *engine.Schema) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return os.WriteFile(path, []byte(Render(schema)), 0644)
}

// Read parses the snapshot file at path. Returns nil if the file does
// not exist.
func Read(path string) (*engine.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return Parse(string(data))
}

// DefaultPath returns the default snapshot path, next to chekov.yaml.
func DefaultPath() string {
	return "chekov.snapshot"
}
