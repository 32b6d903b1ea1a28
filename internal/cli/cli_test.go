package cli

import (
	"strings"
	"testing"

	"github.com/chekov-db/chekov/internal/ckerr"
)

func usePlain(t *testing.T) {
	t.Helper()
	prev := Default()
	SetDefault(NewConfigWithMode(ModePlain))
	t.Cleanup(func() { SetDefault(prev) })
}

func TestFormatError_Coded(t *testing.T) {
	usePlain(t)

	err := ckerr.New(ckerr.ErrDuplicateConstraint, "constraint name already exists").
		WithTable("prices").
		WithConstraint("price_check").
		WithHelp("pick a different name")

	got := FormatError(err)

	for _, want := range []string{
		"error[E2001]: constraint name already exists",
		"| constraint: price_check",
		"| table: prices",
		"help: pick a different name",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestFormatError_ContextSorted(t *testing.T) {
	usePlain(t)

	err := ckerr.New(ckerr.ErrMigrationFailed, "boom").
		With("zebra", 1).
		With("alpha", 2)

	got := FormatError(err)
	if strings.Index(got, "alpha") > strings.Index(got, "zebra") {
		t.Errorf("context keys not sorted:\n%s", got)
	}
}

func TestFormatError_Generic(t *testing.T) {
	usePlain(t)

	got := FormatError(errFixed("plain failure"))
	want := "error: plain failure\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatError_Nil(t *testing.T) {
	if got := FormatError(nil); got != "" {
		t.Errorf("nil error produced output: %q", got)
	}
}

type errFixed string

func (e errFixed) Error() string { return string(e) }

func TestTable(t *testing.T) {
	usePlain(t)

	tbl := NewTable("REVISION", "STATUS")
	tbl.AddRow("0001", "applied")
	tbl.AddRow("0002", "pending")

	got := tbl.String()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "REVISION") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "0001") || !strings.Contains(lines[2], "applied") {
		t.Errorf("row line = %q", lines[2])
	}
}

func TestList(t *testing.T) {
	usePlain(t)

	l := NewList()
	l.AddSuccess("0001_first.yaml")
	l.AddError("0002_second.yaml")

	got := l.String()
	if !strings.Contains(got, "✓ 0001_first.yaml") {
		t.Errorf("missing success item:\n%s", got)
	}
	if !strings.Contains(got, "✗ 0002_second.yaml") {
		t.Errorf("missing error item:\n%s", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1, "migration", "migrations"); got != "1 migration" {
		t.Errorf("got %q", got)
	}
	if got := FormatCount(3, "migration", "migrations"); got != "3 migrations" {
		t.Errorf("got %q", got)
	}
}
