package core

import (
	"testing"

	"github.com/go-air/dio/internal/refhost"
	"github.com/go-air/dio/ivar"
)

func newTestS() *S {
	h := refhost.New(1, 0)
	return NewS(h)
}

// regVars registers n fresh host columns with s's Register and returns
// their local ids, so hand-built rows can use var ids that Register
// already knows about (otherwise a later AddFresh could collide with an
// id a test wired in directly via Store.SetE).
func regVars(s *S, n int) []ivar.Var {
	out := make([]ivar.Var, n)
	for i := range out {
		out[i] = s.reg.Add(1000 + i)
	}
	return out
}

// TestNormalizeByGCDConflict: 2x + 4y + 3 = 0
// has gcd(2,4)=2 but 3 is not a multiple of 2, so normalizing by the gcd
// must report a conflict.
func TestNormalizeByGCDConflict(t *testing.T) {
	s := newTestS()
	v := regVars(s, 2)
	r := s.store.AddRow()
	s.store.SetE(r, v[0], bi(2))
	s.store.SetE(r, v[1], bi(4))
	s.entries.Set(r, bi(3), ivar.F)

	if got := s.normalizeByGCD(r); got != normConflict {
		t.Fatalf("normalizeByGCD = %v, want normConflict", got)
	}
}

// TestNormalizeByGCDDivides checks the gcd divides the row exactly when
// it also divides the constant.
func TestNormalizeByGCDDivides(t *testing.T) {
	s := newTestS()
	v := regVars(s, 2)
	r := s.store.AddRow()
	s.store.SetE(r, v[0], bi(2))
	s.store.SetE(r, v[1], bi(4))
	s.entries.Set(r, bi(6), ivar.F)

	if got := s.normalizeByGCD(r); got != normOK {
		t.Fatalf("normalizeByGCD = %v, want normOK", got)
	}
	if c := s.entries.C(r); c.Cmp(bi(3)) != 0 {
		t.Fatalf("constant after normalize = %v, want 3", c)
	}
	if e := s.store.GetE(r, v[0]); e.Cmp(bi(1)) != 0 {
		t.Fatalf("coefficient on %v after normalize = %v, want 1", v[0], e)
	}
}

// TestNormalizeByGCDCoprimeNoOp checks a coprime row is left untouched.
func TestNormalizeByGCDCoprimeNoOp(t *testing.T) {
	s := newTestS()
	v := regVars(s, 2)
	r := s.store.AddRow()
	s.store.SetE(r, v[0], bi(2))
	s.store.SetE(r, v[1], bi(3))
	s.entries.Set(r, bi(7), ivar.F)

	if got := s.normalizeByGCD(r); got != normOK {
		t.Fatalf("normalizeByGCD = %v, want normOK", got)
	}
	if c := s.entries.C(r); c.Cmp(bi(7)) != 0 {
		t.Fatalf("constant should be untouched, got %v, want 7", c)
	}
}

func TestNormalizeByGCDCutFromProof(t *testing.T) {
	h := refhost.New(1, 1) // cut every call
	s := NewS(h)
	v := regVars(s, 2)
	r := s.store.AddRow()
	s.store.SetE(r, v[0], bi(2))
	s.store.SetE(r, v[1], bi(4))
	s.entries.Set(r, bi(3), ivar.F)
	s.h.Stats().DioCalls = 1 // 1 % 1 == 0

	got := s.normalizeByGCD(r)
	if got != normBranch {
		t.Fatalf("normalizeByGCD with cut-from-proof enabled = %v, want normBranch", got)
	}
	if s.pendingCut == nil {
		t.Fatalf("expected a pending cut to be prepared")
	}
	if !s.pendingCut.IsUpper {
		t.Fatalf("cut should be an upper bound")
	}
}

func TestBigAbs(t *testing.T) {
	if got := bigAbs(bi(-5)); got.Cmp(bi(5)) != 0 {
		t.Fatalf("bigAbs(-5) = %v, want 5", got)
	}
	if got := bigAbs(bi(5)); got.Cmp(bi(5)) != 0 {
		t.Fatalf("bigAbs(5) = %v, want 5", got)
	}
}
