package drift

import (
	"testing"

	"github.com/chekov-db/chekov/internal/ast"
	"github.com/chekov-db/chekov/internal/engine"
)

func schemaWith(t *testing.T, tables map[string][]*ast.CheckDef) *engine.Schema {
	t.Helper()
	schema := engine.NewSchema()
	for name, checks := range tables {
		table := schema.EnsureTable(name)
		table.Checks = checks
	}
	return schema
}

func TestComputeSchemaHash_Deterministic(t *testing.T) {
	a := schemaWith(t, map[string][]*ast.CheckDef{
		"prices": {
			{Name: "price_positive", Predicate: "(price > 0)"},
			{Name: "tier_check", Predicate: "(tier < 5)"},
		},
	})
	// Same constraints, reversed insertion order.
	b := schemaWith(t, map[string][]*ast.CheckDef{
		"prices": {
			{Name: "tier_check", Predicate: "(tier < 5)"},
			{Name: "price_positive", Predicate: "(price > 0)"},
		},
	})

	ha, err := ComputeSchemaHash(a)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	hb, err := ComputeSchemaHash(b)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if ha.Root != hb.Root {
		t.Errorf("hash depends on insertion order\na: %s\nb: %s", ha.Root, hb.Root)
	}
}

func TestComputeSchemaHash_Empty(t *testing.T) {
	empty, err := ComputeSchemaHash(engine.NewSchema())
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	nilHash, err := ComputeSchemaHash(nil)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if empty.Root != nilHash.Root {
		t.Errorf("empty and nil schema hash differently: %s vs %s", empty.Root, nilHash.Root)
	}

	// A table with no constraints contributes nothing.
	withEmptyTable := schemaWith(t, map[string][]*ast.CheckDef{"bare": nil})
	h, err := ComputeSchemaHash(withEmptyTable)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if h.Root != empty.Root {
		t.Errorf("constraint-free table changed the root hash")
	}
}

func TestCompareHashes(t *testing.T) {
	base := map[string][]*ast.CheckDef{
		"orders": {{Name: "total_positive", Predicate: "(total > 0)"}},
		"prices": {{Name: "price_positive", Predicate: "(price > 0)"}},
	}

	tests := []struct {
		name        string
		actual      map[string][]*ast.CheckDef
		wantMatch   bool
		wantMissing []string
		wantExtra   []string
		wantDiffs   int
	}{
		{
			name:      "identical",
			actual:    base,
			wantMatch: true,
		},
		{
			name: "missing table",
			actual: map[string][]*ast.CheckDef{
				"prices": {{Name: "price_positive", Predicate: "(price > 0)"}},
			},
			wantMissing: []string{"orders"},
		},
		{
			name: "extra table",
			actual: map[string][]*ast.CheckDef{
				"orders": {{Name: "total_positive", Predicate: "(total > 0)"}},
				"prices": {{Name: "price_positive", Predicate: "(price > 0)"}},
				"users":  {{Name: "age_check", Predicate: "(age >= 0)"}},
			},
			wantExtra: []string{"users"},
		},
		{
			name: "modified predicate",
			actual: map[string][]*ast.CheckDef{
				"orders": {{Name: "total_positive", Predicate: "(total >= 0)"}},
				"prices": {{Name: "price_positive", Predicate: "(price > 0)"}},
			},
			wantDiffs: 1,
		},
	}

	expected, err := ComputeSchemaHash(schemaWith(t, base))
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := ComputeSchemaHash(schemaWith(t, tt.actual))
			if err != nil {
				t.Fatalf("hash failed: %v", err)
			}

			comp := CompareHashes(expected, actual)
			if comp.Match != tt.wantMatch {
				t.Errorf("match = %v, want %v", comp.Match, tt.wantMatch)
			}
			if len(comp.MissingTables) != len(tt.wantMissing) {
				t.Errorf("missing tables = %v, want %v", comp.MissingTables, tt.wantMissing)
			}
			for i, want := range tt.wantMissing {
				if comp.MissingTables[i] != want {
					t.Errorf("missing[%d] = %s, want %s", i, comp.MissingTables[i], want)
				}
			}
			if len(comp.ExtraTables) != len(tt.wantExtra) {
				t.Errorf("extra tables = %v, want %v", comp.ExtraTables, tt.wantExtra)
			}
			if len(comp.TableDiffs) != tt.wantDiffs {
				t.Errorf("table diffs = %d, want %d", len(comp.TableDiffs), tt.wantDiffs)
			}
		})
	}
}

func TestCompareTableHashes_ConstraintLevel(t *testing.T) {
	expected := schemaWith(t, map[string][]*ast.CheckDef{
		"prices": {
			{Name: "kept", Predicate: "(a > 0)"},
			{Name: "dropped", Predicate: "(b > 0)"},
			{Name: "changed", Predicate: "(c > 0)"},
		},
	})
	actual := schemaWith(t, map[string][]*ast.CheckDef{
		"prices": {
			{Name: "kept", Predicate: "(a > 0)"},
			{Name: "changed", Predicate: "(c >= 0)"},
			{Name: "added", Predicate: "(d > 0)"},
		},
	})

	eh, err := ComputeSchemaHash(expected)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	ah, err := ComputeSchemaHash(actual)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	comp := CompareHashes(eh, ah)
	diff := comp.TableDiffs["prices"]
	if diff == nil {
		t.Fatal("expected a diff for prices")
	}
	if len(diff.MissingChecks) != 1 || diff.MissingChecks[0] != "dropped" {
		t.Errorf("missing checks = %v, want [dropped]", diff.MissingChecks)
	}
	if len(diff.ExtraChecks) != 1 || diff.ExtraChecks[0] != "added" {
		t.Errorf("extra checks = %v, want [added]", diff.ExtraChecks)
	}
	if len(diff.ModifiedChecks) != 1 || diff.ModifiedChecks[0] != "changed" {
		t.Errorf("modified checks = %v, want [changed]", diff.ModifiedChecks)
	}
	if !diff.HasDifferences() {
		t.Error("HasDifferences should be true")
	}
}

func TestDetect(t *testing.T) {
	expected := schemaWith(t, map[string][]*ast.CheckDef{
		"prices": {{Name: "price_positive", Predicate: "(price > 0)"}},
	})
	same := schemaWith(t, map[string][]*ast.CheckDef{
		"prices": {{Name: "price_positive", Predicate: "(price > 0)"}},
	})

	result, err := Detect(expected, same)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if result.HasDrift {
		t.Errorf("identical schemas reported as drifted: %+v", result.Comparison)
	}

	drifted := schemaWith(t, map[string][]*ast.CheckDef{
		"prices": {{Name: "price_positive", Predicate: "(price >= 0)"}},
	})
	result, err = Detect(expected, drifted)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !result.HasDrift {
		t.Error("modified predicate not reported as drift")
	}
}

func TestQuickCheck(t *testing.T) {
	a := schemaWith(t, map[string][]*ast.CheckDef{
		"orders": {{Name: "total_positive", Predicate: "(total > 0)"}},
	})
	b := schemaWith(t, map[string][]*ast.CheckDef{
		"orders": {{Name: "total_positive", Predicate: "(total > 0)"}},
	})

	match, err := QuickCheck(a, b)
	if err != nil {
		t.Fatalf("quick check failed: %v", err)
	}
	if !match {
		t.Error("identical schemas should match")
	}

	b.EnsureTable("orders").Checks[0].Predicate = "(total >= 0)"
	match, err = QuickCheck(a, b)
	if err != nil {
		t.Fatalf("quick check failed: %v", err)
	}
	if match {
		t.Error("modified predicate should not match")
	}
}
