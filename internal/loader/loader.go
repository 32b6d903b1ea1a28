// Package loader reads migration files from disk. Migrations are YAML
// documents named NNNN_description.yaml; the numeric prefix is the
// revision and orders execution.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chekov-db/chekov/internal/ast"
	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/engine"
	"github.com/chekov-db/chekov/internal/sqlexpr"
)

var filenameRe = regexp.MustCompile(`^(\d{4,})_([a-zA-Z0-9_]+)\.yaml$`)

// migrationDoc is the YAML shape of one migration file.
type migrationDoc struct {
	Name       string          `yaml:"name"`
	Operations []operationNode `yaml:"operations"`
}

// operationNode holds exactly one operation variant.
type operationNode struct {
	AddCheck  *checkNode `yaml:"add_check"`
	DropCheck *checkNode `yaml:"drop_check"`
}

type checkNode struct {
	Table string    `yaml:"table"`
	Name  string    `yaml:"name"`
	Expr  *exprNode `yaml:"expr"`
}

// exprNode holds exactly one descriptor variant.
type exprNode struct {
	Raw         *string     `yaml:"raw"`
	ColumnInSet *inSetNode  `yaml:"column_in_set"`
	AllOf       []*exprNode `yaml:"all_of"`
}

type inSetNode struct {
	Column string `yaml:"column"`
	Values []any  `yaml:"values"`
}

// LoadDir reads all migration files in dir, sorted by revision. Returns
// an empty slice if the directory does not exist.
func LoadDir(dir string) ([]engine.Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []engine.Migration
	for _, de := range entries {
		if de.IsDir() || !filenameRe.MatchString(de.Name()) {
			continue
		}
		m, err := LoadFile(filepath.Join(dir, de.Name()))
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, m)
	}

	slices.SortFunc(migrations, func(a, b engine.Migration) int {
		return strings.Compare(a.Revision, b.Revision)
	})

	return migrations, nil
}

// LoadFile reads and parses a single migration file.
func LoadFile(path string) (engine.Migration, error) {
	base := filepath.Base(path)
	match := filenameRe.FindStringSubmatch(base)
	if match == nil {
		return engine.Migration{}, ckerr.New(ckerr.ErrMigrationParse, "migration filename must match NNNN_name.yaml").
			With("file", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Migration{}, ckerr.Wrap(ckerr.ErrMigrationParse, err, "failed to read migration file").
			With("file", base)
	}

	var doc migrationDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return engine.Migration{}, ckerr.Wrap(ckerr.ErrMigrationParse, err, "invalid migration YAML").
			With("file", base)
	}

	ops := make([]ast.Operation, 0, len(doc.Operations))
	for i, node := range doc.Operations {
		op, err := decodeOperation(node)
		if err != nil {
			return engine.Migration{}, ckerr.Wrap(ckerr.ErrMigrationParse, err, "invalid operation").
				With("file", base).
				With("operation", i+1)
		}
		ops = append(ops, op)
	}

	name := doc.Name
	if name == "" {
		name = strings.ReplaceAll(match[2], "_", " ")
	}

	sum := sha256.Sum256(data)

	return engine.Migration{
		Revision: match[1],
		Name:     name,
		Path:     path,
		Checksum: hex.EncodeToString(sum[:]),
		Ops:      ops,
	}, nil
}

func decodeOperation(node operationNode) (ast.Operation, error) {
	switch {
	case node.AddCheck != nil && node.DropCheck != nil:
		return nil, ckerr.New(ckerr.ErrMigrationParse, "operation declares more than one kind")
	case node.AddCheck != nil:
		expr, err := decodeExpr(node.AddCheck.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.AddCheck{
			Table_: node.AddCheck.Table,
			Name:   node.AddCheck.Name,
			Expr:   expr,
		}, nil
	case node.DropCheck != nil:
		// Expr is optional on a drop; without it the drop cannot be
		// auto-reversed.
		var expr sqlexpr.Descriptor
		if node.DropCheck.Expr != nil {
			var err error
			expr, err = decodeExpr(node.DropCheck.Expr)
			if err != nil {
				return nil, err
			}
		}
		return &ast.DropCheck{
			Table_: node.DropCheck.Table,
			Name:   node.DropCheck.Name,
			Expr:   expr,
		}, nil
	default:
		return nil, ckerr.New(ckerr.ErrMigrationParse, "operation must be add_check or drop_check")
	}
}

func decodeExpr(node *exprNode) (sqlexpr.Descriptor, error) {
	if node == nil {
		return nil, ckerr.New(ckerr.ErrMigrationParse, "missing expr")
	}

	set := 0
	if node.Raw != nil {
		set++
	}
	if node.ColumnInSet != nil {
		set++
	}
	if node.AllOf != nil {
		set++
	}
	if set != 1 {
		return nil, ckerr.New(ckerr.ErrMigrationParse, "expr must declare exactly one of raw, column_in_set, all_of")
	}

	switch {
	case node.Raw != nil:
		return sqlexpr.Raw{SQL: *node.Raw}, nil
	case node.ColumnInSet != nil:
		return sqlexpr.ColumnInSet{
			Column: node.ColumnInSet.Column,
			Values: node.ColumnInSet.Values,
		}, nil
	default:
		parts := make([]sqlexpr.Descriptor, 0, len(node.AllOf))
		for _, child := range node.AllOf {
			part, err := decodeExpr(child)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		return sqlexpr.Conjunction{Parts: parts}, nil
	}
}

// Template is the scaffold written by `chekov new`.
const Template = `name: %s

# Each operation is one of add_check or drop_check.
#
# operations:
#   - add_check:
#       table: prices
#       name: price_positive      # omit for an anonymous name
#       expr:
#         raw: "price > 0"
#   - drop_check:
#       table: prices
#       name: old_check
#       expr:                     # keep the expression so rollback can recreate it
#         column_in_set:
#           column: price
#           values: [10, 20, 30]
operations: []
`

// NextRevision returns the zero-padded revision that follows the highest
// revision present in migrations.
func NextRevision(migrations []engine.Migration) string {
	next := 1
	for _, m := range migrations {
		var n int
		if _, err := fmt.Sscanf(m.Revision, "%d", &n); err == nil && n >= next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%04d", next)
}
