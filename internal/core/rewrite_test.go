package core

import (
	"testing"

	"github.com/go-air/dio/ivar"
)

// TestRewriteOnePromotesUnitCoeff: a row
// with a coefficient of absolute value 1 is promoted straight to S and
// eliminated from the other F-rows that share its pivot variable.
func TestRewriteOnePromotesUnitCoeff(t *testing.T) {
	s := newTestS()
	v := regVars(s, 3)
	// x - 2y + 3z - 4 = 0, pivot on x (coeff 1).
	h := s.store.AddRow()
	s.store.SetE(h, v[0], bi(1))
	s.store.SetE(h, v[1], bi(-2))
	s.store.SetE(h, v[2], bi(3))
	s.entries.Set(h, bi(-4), ivar.F)

	if got := s.rewriteOne(); got != procUndef {
		t.Fatalf("rewriteOne = %v, want procUndef", got)
	}
	if s.entries.Status(h) != ivar.S {
		t.Fatalf("row should have been promoted to S")
	}
	if s.subst.Row(v[0]) != h {
		t.Fatalf("subst[%v] = %v, want %v", v[0], s.subst.Row(v[0]), h)
	}
	if got := s.store.GetE(h, v[0]); got == nil || got.Cmp(bi(1)) != 0 {
		t.Fatalf("pivot variable should keep coefficient 1 in its own row: %v", got)
	}
}

// TestRewriteOneEliminatesFromOtherFRows checks eliminateVarInF: a
// second F-row sharing the pivot variable is rewritten to no longer
// contain it.
func TestRewriteOneEliminatesFromOtherFRows(t *testing.T) {
	s := newTestS()
	v := regVars(s, 3) // v[0]=x, v[1]=y, v[2]=z
	h := s.store.AddRow()
	s.store.SetE(h, v[0], bi(1))
	s.store.SetE(h, v[1], bi(-2))
	s.entries.Set(h, bi(0), ivar.F)

	other := s.store.AddRow()
	s.store.SetE(other, v[0], bi(3))
	s.store.SetE(other, v[2], bi(5))
	s.entries.Set(other, bi(1), ivar.F)

	s.rewriteOne()

	if s.store.GetE(other, v[0]) != nil {
		t.Fatalf("variable %v should be eliminated from row %v, still present: %v", v[0], other, s.store.GetE(other, v[0]))
	}
	// other was x - 2y = 0 (h), substituted into 3x + 5z + 1 = 0:
	// 3*(2y) + 5z + 1 = 6y + 5z + 1 = 0.
	if got := s.store.GetE(other, v[1]); got == nil || got.Cmp(bi(6)) != 0 {
		t.Fatalf("coefficient on %v after elimination = %v, want 6", v[1], got)
	}
}

// TestFreshVarStep: 3x + 5y + 7 = 0 has no coefficient of absolute value
// 1 (min is 3 on x), so rewriteOne must introduce a fresh variable xt
// with x = xt - y - 2 (fr's row), leaving h as 3*xt + 2*y + 1 = 0.
// Substituting fr's definition of x back into the original row must
// reproduce it exactly: 3*(xt-y-2) + 5y + 7 = 3xt + 2y + 1.
func TestFreshVarStep(t *testing.T) {
	s := newTestS()
	v := regVars(s, 2)
	h := s.store.AddRow()
	s.store.SetE(h, v[0], bi(3)) // x
	s.store.SetE(h, v[1], bi(5)) // y
	s.entries.Set(h, bi(7), ivar.F)

	maxBefore := s.reg.Max()
	if got := s.rewriteOne(); got != procUndef {
		t.Fatalf("rewriteOne = %v, want procUndef", got)
	}
	if s.reg.Max() <= maxBefore {
		t.Fatalf("a fresh variable should have been allocated")
	}
	xt := s.reg.Max()
	if !s.reg.IsFresh(xt) {
		t.Fatalf("variable %v should be fresh", xt)
	}
	fd, ok := s.subst.GetFreshDef(xt)
	if !ok {
		t.Fatalf("fresh def should be recorded for %v", xt)
	}
	// h's own row must have shed its pivot variable (x) entirely and now
	// refers to the fresh variable instead.
	if s.store.GetE(h, v[0]) != nil {
		t.Fatalf("pivot variable should be gone from its row")
	}
	requireCoeff(t, s, h, xt, 3)
	requireCoeff(t, s, h, v[1], 2)
	requireConst(t, s, h, 1)

	fr := fd.DefiningRow
	requireCoeff(t, s, fr, xt, -1)
	requireCoeff(t, s, fr, v[0], 1)
	requireCoeff(t, s, fr, v[1], 1)
	requireConst(t, s, fr, 2)
}

// TestFreshVarStepNegativePivot is the regression case for a negative
// minimum-|coefficient| pivot: -2x + 3y + 1 = 0
// picks x (|-2| < |3|) as pivot with a negative coefficient. fr must
// define x = xt - y (not x = xt + y, which a sign-stripped pivot would
// produce), so that substituting it back reproduces the original row:
// -2*(xt-y) + 3y + 1 = -2xt + y + 1.
func TestFreshVarStepNegativePivot(t *testing.T) {
	s := newTestS()
	v := regVars(s, 2)
	h := s.store.AddRow()
	s.store.SetE(h, v[0], bi(-2)) // x
	s.store.SetE(h, v[1], bi(3))  // y
	s.entries.Set(h, bi(1), ivar.F)

	if got := s.rewriteOne(); got != procUndef {
		t.Fatalf("rewriteOne = %v, want procUndef", got)
	}
	xt := s.reg.Max()
	fd, ok := s.subst.GetFreshDef(xt)
	if !ok {
		t.Fatalf("fresh def should be recorded for %v", xt)
	}

	requireCoeff(t, s, h, xt, -2)
	requireCoeff(t, s, h, v[1], 1)
	requireConst(t, s, h, 1)

	fr := fd.DefiningRow
	requireCoeff(t, s, fr, xt, -1)
	requireCoeff(t, s, fr, v[0], 1)
	requireCoeff(t, s, fr, v[1], -1)
	requireConst(t, s, fr, 0)
}

func requireCoeff(t *testing.T, s *S, r ivar.Row, j ivar.Var, want int64) {
	t.Helper()
	got := s.store.GetE(r, j)
	if got == nil || got.Cmp(bi(want)) != 0 {
		t.Fatalf("row %v coefficient on %v = %v, want %d", r, j, got, want)
	}
}

func requireConst(t *testing.T, s *S, r ivar.Row, want int64) {
	t.Helper()
	if got := s.entries.C(r); got.Cmp(bi(want)) != 0 {
		t.Fatalf("row %v constant = %v, want %d", r, got, want)
	}
}

// TestRewriteOneDropsTrivialRow checks that a zero-length, zero-constant
// F-row is quietly recycled rather than pivoted or flagged as a
// conflict.
func TestRewriteOneDropsTrivialRow(t *testing.T) {
	s := newTestS()
	r := s.store.AddRow()
	s.entries.Set(r, bi(0), ivar.F)

	if got := s.rewriteOne(); got != procUndef {
		t.Fatalf("rewriteOne = %v, want procUndef", got)
	}
	if s.entries.Status(r) != ivar.NoSNoF {
		t.Fatalf("trivial row should have been dropped to NoSNoF")
	}
}

// TestRewriteOneEmptyNonzeroIsConflict checks that a zero-length row with
// a nonzero constant is reported as a conflict.
func TestRewriteOneEmptyNonzeroIsConflict(t *testing.T) {
	s := newTestS()
	r := s.store.AddRow()
	s.entries.Set(r, bi(5), ivar.F)

	if got := s.rewriteOne(); got != procConflict {
		t.Fatalf("rewriteOne = %v, want procConflict", got)
	}
	if s.conflictRow != r {
		t.Fatalf("conflictRow = %v, want %v", s.conflictRow, r)
	}
}
