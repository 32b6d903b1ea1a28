package ckerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := New(ErrDuplicateConstraint, "constraint name already exists").
		WithTable("prices").
		WithConstraint("price_check")

	got := err.Error()
	want := "[E2001] constraint name already exists\n  constraint: price_check\n  table: prices"
	if got != want {
		t.Errorf("format mismatch\ngot:  %q\nwant: %q", got, want)
	}
}

func TestError_ContextSorted(t *testing.T) {
	err := New(ErrSQLExecution, "failed").
		With("zebra", 1).
		With("alpha", 2).
		With("middle", 3)

	// Context keys must render in sorted order regardless of insertion order.
	got := err.Error()
	alphaIdx := strings.Index(got, "alpha")
	middleIdx := strings.Index(got, "middle")
	zebraIdx := strings.Index(got, "zebra")
	if !(alphaIdx < middleIdx && middleIdx < zebraIdx) {
		t.Errorf("context keys not sorted: %q", got)
	}
}

func TestError_Is(t *testing.T) {
	err := New(ErrIrreversible, "cannot reverse")

	if !errors.Is(err, New(ErrIrreversible, "other message")) {
		t.Error("errors with same code should match")
	}
	if errors.Is(err, New(ErrMigrationFailed, "cannot reverse")) {
		t.Error("errors with different codes should not match")
	}
}

func TestError_Wrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrSQLConnection, cause, "failed to connect")

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "cause: connection refused") {
		t.Errorf("formatted error should include cause, got: %q", err.Error())
	}
}

func TestError_WrapNil(t *testing.T) {
	err := Wrap(ErrSQLExecution, nil, "no cause")
	if err.Unwrap() != nil {
		t.Error("wrapping nil should produce error without cause")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil error", nil, ""},
		{"plain error", fmt.Errorf("plain"), ""},
		{"coded error", New(ErrEmptyValueSet, "empty"), ErrEmptyValueSet},
		{"wrapped coded error", fmt.Errorf("outer: %w", New(ErrEmptyConjunction, "empty")), ErrEmptyConjunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.want {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Helps(t *testing.T) {
	err := New(ErrIrreversible, "cannot reverse").
		WithHelp("re-issue the drop with the original expression").
		WithHelp("see migration docs")

	helps := err.Helps()
	if len(helps) != 2 {
		t.Fatalf("expected 2 helps, got %d", len(helps))
	}
	if helps[0] != "re-issue the drop with the original expression" {
		t.Errorf("unexpected first help: %q", helps[0])
	}
}
