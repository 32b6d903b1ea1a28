package namer

import (
	"regexp"
	"testing"

	"github.com/chekov-db/chekov/internal/ckerr"
)

// seqSource returns pre-programmed values, then falls back to zero.
type seqSource struct {
	values []int64
	pos    int
}

func (s *seqSource) Int64N(n int64) int64 {
	if s.pos >= len(s.values) {
		return 0
	}
	v := s.values[s.pos] % n
	s.pos++
	return v
}

func TestResolve_ExplicitName(t *testing.T) {
	existing := map[string]bool{"price_check": true}

	tests := []struct {
		name     string
		explicit string
		want     string
		wantCode ckerr.Code
	}{
		{"fresh explicit name", "positive_price", "positive_price", ""},
		{"colliding explicit name", "price_check", "", ckerr.ErrDuplicateConstraint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve("prices", tt.explicit, existing, System())
			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if code := ckerr.GetErrorCode(err); code != tt.wantCode {
					t.Errorf("error code = %q, want %q", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("name = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestResolve_AnonymousPattern verifies anonymous names follow the
// table_[0-9]{7,9} convention across repeated generations.
func TestResolve_AnonymousPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^prices_[0-9]{7,9}$`)
	existing := make(map[string]bool)

	for i := 0; i < 200; i++ {
		name, err := Resolve("prices", "", existing, System())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !pattern.MatchString(name) {
			t.Fatalf("name %q does not match anonymous pattern", name)
		}
		if existing[name] {
			t.Fatalf("name %q generated twice", name)
		}
		existing[name] = true
	}
}

// TestResolve_DeterministicSource asserts exact names with an injected source.
func TestResolve_DeterministicSource(t *testing.T) {
	src := &seqSource{values: []int64{0, 41_999_999}}

	got, err := Resolve("orders", "", map[string]bool{}, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "orders_1000000" {
		t.Errorf("name = %q, want %q", got, "orders_1000000")
	}

	got, err = Resolve("orders", "", map[string]bool{}, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "orders_42999999" {
		t.Errorf("name = %q, want %q", got, "orders_42999999")
	}
}

// TestResolve_CollisionRetry verifies generation retries until a free name
// is found.
func TestResolve_CollisionRetry(t *testing.T) {
	src := &seqSource{values: []int64{5, 5, 5, 7}}
	existing := map[string]bool{"t_1000005": true}

	got, err := Resolve("t", "", existing, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "t_1000007" {
		t.Errorf("name = %q, want %q", got, "t_1000007")
	}
}

// TestResolve_Exhaustion verifies the retry loop gives up with a coded error
// instead of spinning when the source never produces a free suffix.
func TestResolve_Exhaustion(t *testing.T) {
	src := &seqSource{} // always returns 0 -> always t_1000000
	existing := map[string]bool{"t_1000000": true}

	_, err := Resolve("t", "", existing, src)
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if code := ckerr.GetErrorCode(err); code != ckerr.ErrNameExhausted {
		t.Errorf("error code = %q, want %q", code, ckerr.ErrNameExhausted)
	}
}

func TestResolve_NilSourceFallsBack(t *testing.T) {
	name, err := Resolve("prices", "", map[string]bool{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name == "" {
		t.Error("expected generated name with nil source")
	}
}
