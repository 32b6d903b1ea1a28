package ast

import (
	"testing"

	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/sqlexpr"
)

func TestAddCheck_Validate(t *testing.T) {
	tests := []struct {
		name     string
		op       *AddCheck
		wantCode ckerr.Code
	}{
		{
			name: "valid with explicit name",
			op: &AddCheck{
				Table_: "prices",
				Name:   "price_positive",
				Expr:   sqlexpr.Raw{SQL: "price > 0"},
			},
		},
		{
			name: "valid anonymous",
			op: &AddCheck{
				Table_: "prices",
				Expr:   sqlexpr.ColumnInSet{Column: "price", Values: []any{10, 20}},
			},
		},
		{
			name:     "missing table",
			op:       &AddCheck{Expr: sqlexpr.Raw{SQL: "price > 0"}},
			wantCode: ckerr.ErrDescriptorInvalid,
		},
		{
			name:     "missing expression",
			op:       &AddCheck{Table_: "prices", Name: "c"},
			wantCode: ckerr.ErrDescriptorInvalid,
		},
		{
			name: "malformed expression caught at validation",
			op: &AddCheck{
				Table_: "prices",
				Expr:   sqlexpr.Conjunction{},
			},
			wantCode: ckerr.ErrEmptyConjunction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if got := ckerr.GetErrorCode(err); got != tt.wantCode {
				t.Errorf("error code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestDropCheck_Validate(t *testing.T) {
	tests := []struct {
		name     string
		op       *DropCheck
		wantCode ckerr.Code
	}{
		{
			name: "valid without expression",
			op:   &DropCheck{Table_: "prices", Name: "price_check"},
		},
		{
			name: "valid with expression",
			op: &DropCheck{
				Table_: "prices",
				Name:   "price_check",
				Expr:   sqlexpr.Raw{SQL: "price > 0"},
			},
		},
		{
			name:     "missing name",
			op:       &DropCheck{Table_: "prices"},
			wantCode: ckerr.ErrDescriptorInvalid,
		},
		{
			name: "malformed stored expression",
			op: &DropCheck{
				Table_: "prices",
				Name:   "price_check",
				Expr:   sqlexpr.ColumnInSet{Column: "price"},
			},
			wantCode: ckerr.ErrEmptyValueSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if got := ckerr.GetErrorCode(err); got != tt.wantCode {
				t.Errorf("error code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestDropCheck_Reversible(t *testing.T) {
	with := &DropCheck{Table_: "t", Name: "c", Expr: sqlexpr.Raw{SQL: "x > 0"}}
	without := &DropCheck{Table_: "t", Name: "c"}

	if !with.Reversible() {
		t.Error("drop with stored expression should be reversible")
	}
	if without.Reversible() {
		t.Error("drop without stored expression should be irreversible")
	}
}

func TestTableDef_SortedChecks(t *testing.T) {
	table := &TableDef{
		Name: "prices",
		Checks: []*CheckDef{
			{Name: "b_check", Predicate: "(b > 0)"},
			{Name: "a_check", Predicate: "(a > 0)"},
		},
	}

	sorted := table.SortedChecks()
	if sorted[0].Name != "a_check" || sorted[1].Name != "b_check" {
		t.Errorf("checks not sorted by name: %v, %v", sorted[0].Name, sorted[1].Name)
	}
	// Original order must be untouched.
	if table.Checks[0].Name != "b_check" {
		t.Error("SortedChecks must not mutate the table")
	}
}

func TestOpType_String(t *testing.T) {
	if OpAddCheck.String() != "AddCheck" || OpDropCheck.String() != "DropCheck" {
		t.Error("unexpected OpType string values")
	}
	if OpType(99).String() != "Unknown" {
		t.Error("unknown OpType should stringify as Unknown")
	}
}
