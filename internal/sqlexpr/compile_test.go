package sqlexpr

import (
	"errors"
	"testing"

	"github.com/chekov-db/chekov/internal/ckerr"
)

// TestCompile_Raw tests compilation of raw predicate fragments.
func TestCompile_Raw(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			name: "simple comparison",
			d:    Raw{SQL: "price > 1000"},
			want: "(price > 1000)",
		},
		{
			name: "compound expression wrapped exactly once",
			d:    Raw{SQL: "price > 0 AND price < 100"},
			want: "(price > 0 AND price < 100)",
		},
		{
			name: "already parenthesized text keeps its parens",
			d:    Raw{SQL: "(price > 0)"},
			want: "((price > 0))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.d)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("predicate mismatch\ngot:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

// TestCompile_ColumnInSet tests compilation of value-set predicates.
func TestCompile_ColumnInSet(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			name: "integer values",
			d:    ColumnInSet{Column: "price", Values: []any{10, 20, 30}},
			want: "(price = ANY (ARRAY[10, 20, 30]))",
		},
		{
			name: "single value",
			d:    ColumnInSet{Column: "status", Values: []any{"active"}},
			want: "(status = ANY (ARRAY['active']))",
		},
		{
			name: "string values quoted and escaped",
			d:    ColumnInSet{Column: "role", Values: []any{"admin", "user's"}},
			want: "(role = ANY (ARRAY['admin', 'user''s']))",
		},
		{
			name: "float values",
			d:    ColumnInSet{Column: "rate", Values: []any{0.5, 1.25}},
			want: "(rate = ANY (ARRAY[0.5, 1.25]))",
		},
		{
			name: "boolean values",
			d:    ColumnInSet{Column: "active", Values: []any{true, false}},
			want: "(active = ANY (ARRAY[TRUE, FALSE]))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.d)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("predicate mismatch\ngot:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

// TestCompile_Conjunction tests compilation of AND-joined descriptors.
func TestCompile_Conjunction(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			name: "raw and value set",
			d: Conjunction{Parts: []Descriptor{
				Raw{SQL: "price > 50"},
				ColumnInSet{Column: "price", Values: []any{90, 100}},
			}},
			want: "((price > 50) AND (price = ANY (ARRAY[90, 100])))",
		},
		{
			name: "single part still wrapped",
			d: Conjunction{Parts: []Descriptor{
				Raw{SQL: "price > 0"},
			}},
			want: "((price > 0))",
		},
		{
			name: "nested conjunction",
			d: Conjunction{Parts: []Descriptor{
				Conjunction{Parts: []Descriptor{
					Raw{SQL: "a > 1"},
					Raw{SQL: "b > 2"},
				}},
				Raw{SQL: "c > 3"},
			}},
			want: "(((a > 1) AND (b > 2)) AND (c > 3))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.d)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("predicate mismatch\ngot:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

// TestCompile_Errors tests the malformed-descriptor cases.
func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		d        Descriptor
		wantCode ckerr.Code
	}{
		{"nil descriptor", nil, ckerr.ErrDescriptorInvalid},
		{"empty raw text", Raw{SQL: "  "}, ckerr.ErrDescriptorInvalid},
		{"empty value set", ColumnInSet{Column: "price"}, ckerr.ErrEmptyValueSet},
		{"missing column", ColumnInSet{Values: []any{1}}, ckerr.ErrDescriptorInvalid},
		{"empty conjunction", Conjunction{}, ckerr.ErrEmptyConjunction},
		{
			"malformed nested part",
			Conjunction{Parts: []Descriptor{Raw{SQL: "ok > 0"}, Conjunction{}}},
			ckerr.ErrEmptyConjunction,
		},
		{
			"unsupported literal type",
			ColumnInSet{Column: "data", Values: []any{[]int{1, 2}}},
			ckerr.ErrBadLiteral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.d)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if got := ckerr.GetErrorCode(err); got != tt.wantCode {
				t.Errorf("error code = %q, want %q (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

// TestCompile_Deterministic verifies that repeated compilation of the same
// descriptor yields byte-identical output.
func TestCompile_Deterministic(t *testing.T) {
	d := Conjunction{Parts: []Descriptor{
		Raw{SQL: "price > 50"},
		ColumnInSet{Column: "status", Values: []any{"a", "b", "c"}},
		ColumnInSet{Column: "price", Values: []any{90, 100}},
	}}

	first, err := Compile(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Compile(d)
		if err != nil {
			t.Fatalf("unexpected error on iteration %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("non-deterministic output on iteration %d\nfirst: %q\nagain: %q", i, first, again)
		}
	}
}

func TestEqual(t *testing.T) {
	a := ColumnInSet{Column: "price", Values: []any{10, 20}}
	b := ColumnInSet{Column: "price", Values: []any{10, 20}}
	c := ColumnInSet{Column: "price", Values: []any{20, 10}}

	if !Equal(a, b) {
		t.Error("structurally identical descriptors should be equal")
	}
	if Equal(a, c) {
		t.Error("value order is significant; reordered sets should not be equal")
	}
	if Equal(a, Conjunction{}) {
		t.Error("malformed descriptor should never be equal")
	}
}

func TestLiteral_ErrorIsNotCoded(t *testing.T) {
	_, err := Literal(struct{}{})
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if !errors.Is(err, ckerr.New(ckerr.ErrBadLiteral, "")) {
		t.Errorf("expected ErrBadLiteral, got %v", err)
	}
}
