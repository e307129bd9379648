package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-air/dio/host"
	"github.com/go-air/dio/internal/refhost"
	"github.com/go-air/dio/ivar"
)

// TestCheckResolvesTrivialLinearSystem drives "2x-4y+6z=8" through Check
// end to end: the gcd normalizer divides the row by 2, the remainder
// promotes straight to S on x (the only unit coefficient), and since the
// residual gcd of the other two columns is 1, tightening is a no-op. With
// no fractional host column left, Check settles at Sat.
func TestCheckResolvesTrivialLinearSystem(t *testing.T) {
	h := refhost.New(1, 0)
	s := NewS(h)

	x := h.AddVar(true)
	y := h.AddVar(true)
	z := h.AddVar(true)

	term := host.NewTerm()
	term.Set(x, big.NewRat(2, 1))
	term.Set(y, big.NewRat(-4, 1))
	term.Set(z, big.NewRat(6, 1))
	col := h.AddTermColumn(term, true)
	h.AddVarBound(col, host.Lower, big.NewRat(8, 1))
	h.AddVarBound(col, host.Upper, big.NewRat(8, 1))

	require.Equal(t, Sat, s.Check())

	lx, ok := s.reg.Local(x)
	require.True(t, ok)
	require.NotEqual(t, ivar.RowNull, s.subst.Row(lx), "x should have been solved for")
}

// TestCheckReportsGCDConflict drives "2x+4y=3" through Check: the
// asserted constant isn't a multiple of gcd(2,4), so normalization
// reports a conflict immediately, and Explain names the single
// constraint responsible.
func TestCheckReportsGCDConflict(t *testing.T) {
	h := refhost.New(1, 0)
	s := NewS(h)

	x := h.AddVar(true)
	y := h.AddVar(true)

	term := host.NewTerm()
	term.Set(x, big.NewRat(2, 1))
	term.Set(y, big.NewRat(4, 1))
	col := h.AddTermColumn(term, true)
	h.AddVarBound(col, host.Lower, big.NewRat(3, 1))
	h.AddVarBound(col, host.Upper, big.NewRat(3, 1))

	require.Equal(t, Conflict, s.Check())
	require.Equal(t, []int{col}, s.Explain())
}

// TestCheckIntroducesFreshVariableOnNonUnitRow drives "3x+5y+7=0" through
// Check: no coefficient has absolute value 1, so rewriteOne must split it
// with a fresh variable before the system can make further progress.
// Nothing here is bounded against the other variables, so the run ends
// at Sat rather than a conflict.
func TestCheckIntroducesFreshVariableOnNonUnitRow(t *testing.T) {
	h := refhost.New(1, 0)
	s := NewS(h)

	x := h.AddVar(true)
	y := h.AddVar(true)

	term := host.NewTerm()
	term.Set(x, big.NewRat(3, 1))
	term.Set(y, big.NewRat(5, 1))
	col := h.AddTermColumn(term, true)
	h.AddVarBound(col, host.Lower, big.NewRat(-7, 1))
	h.AddVarBound(col, host.Upper, big.NewRat(-7, 1))

	maxBefore := s.reg.Max()
	require.Equal(t, Sat, s.Check())
	require.True(t, s.reg.Max() > maxBefore, "a fresh variable should have been allocated")
}

// TestCheckTightensThroughSubstitutionDepth drives the substitution-depth
// tightening case end to end: "z" is asserted equal to 2x+3y, and
// separately "x" is asserted equal to "y", neither individually fixing
// x or y. Expanding z's row through x's substitution row leaves z = 5y,
// so z's upper bound of 9 tightens to 5 via the residual gcd even though
// neither x nor y ever gets pinned to a value.
func TestCheckTightensThroughSubstitutionDepth(t *testing.T) {
	h := refhost.New(1, 0)
	s := NewS(h)

	x := h.AddVar(true)
	y := h.AddVar(true)

	zTerm := host.NewTerm()
	zTerm.Set(x, big.NewRat(2, 1))
	zTerm.Set(y, big.NewRat(3, 1))
	z := h.AddTermColumn(zTerm, true)
	h.AddVarBound(z, host.Upper, big.NewRat(9, 1))

	xyTerm := host.NewTerm()
	xyTerm.Set(x, big.NewRat(1, 1))
	xyTerm.Set(y, big.NewRat(-1, 1))
	xy := h.AddTermColumn(xyTerm, true)
	h.AddVarBound(xy, host.Lower, big.NewRat(0, 1))
	h.AddVarBound(xy, host.Upper, big.NewRat(0, 1))

	require.Equal(t, Sat, s.Check())

	up, _, _, ok := h.HasBoundOfType(z, host.Upper)
	require.True(t, ok)
	require.Equal(t, 0, up.Cmp(big.NewRat(5, 1)), "z's upper bound should tighten to 5")
	require.False(t, h.ColumnIsFixed(x), "x should remain unfixed")
	require.False(t, h.ColumnIsFixed(y), "y should remain unfixed")
}

// TestBranchResolvesRightSideAfterLeftInfeasible drives a single
// branching column whose host-reported value straddles a fraction
// through a full left-infeasible, right-feasible cycle: Check asks the
// host to try col<=floor(split) first; once the host reports that side
// infeasible, the branch must flip to col>=ceil(split), popping the
// floor bound rather than leaving it stuck, and the new bound must take
// hold (here tight enough to fix the column outright).
func TestBranchResolvesRightSideAfterLeftInfeasible(t *testing.T) {
	h := refhost.New(1, 0)
	s := NewS(h)

	col := h.AddTermColumn(host.NewTerm(), true)
	h.AddVarBound(col, host.Lower, big.NewRat(1, 1))
	h.AddVarBound(col, host.Upper, big.NewRat(2, 1))
	h.SetColumnValue(col, big.NewRat(3, 2))

	require.Equal(t, Branch, s.branchingOnUndef())
	pbCol, pbKind, pbVal, ok := s.PendingBranch()
	require.True(t, ok)
	require.Equal(t, col, pbCol)
	require.Equal(t, host.Upper, pbKind)
	require.Equal(t, 0, pbVal.Cmp(big.NewRat(1, 1)))
	up := h.GetUpperBound(col)
	require.Equal(t, 0, up.Cmp(big.NewRat(1, 1)), "the left side should have asserted col<=1")

	s.BranchInfeasible(0)

	require.False(t, s.branches[0].Left, "the branch should have flipped off the left side")
	require.False(t, s.branches[0].FullyExplored, "only one side has been tried so far")

	upAfter := h.GetUpperBound(col)
	require.Equal(t, 0, upAfter.Cmp(big.NewRat(2, 1)), "the floor bound must be popped, restoring the original upper bound")
	loAfter, _, _, ok := h.HasBoundOfType(col, host.Lower)
	require.True(t, ok)
	require.Equal(t, 0, loAfter.Cmp(big.NewRat(2, 1)), "the right side must assert col>=ceil(split)")
	require.True(t, h.ColumnIsFixed(col), "lower=2 meeting the restored upper=2 fixes the column")

	pbCol2, pbKind2, pbVal2, ok := s.PendingBranch()
	require.True(t, ok)
	require.Equal(t, col, pbCol2)
	require.Equal(t, host.Lower, pbKind2)
	require.Equal(t, 0, pbVal2.Cmp(big.NewRat(2, 1)))

	require.Equal(t, Sat, s.branchingOnUndef(), "nothing fractional remains once the column is fixed")
}

// TestCheckpointRestoreMatchesPriorState checks that a host-level
// push/assert/check/pop cycle can be undone on the dio side by swapping
// back to a Copy taken before the push, the way an integration loop
// checkpoints dio state alongside the host's own trail: after the
// restore, dio has no memory of the row introduced during the pushed
// segment, while the state asserted before the push survives untouched.
func TestCheckpointRestoreMatchesPriorState(t *testing.T) {
	h := refhost.New(1, 0)
	s := NewS(h)

	x := h.AddVar(true)
	termX := host.NewTerm()
	termX.Set(x, big.NewRat(1, 1))
	colX := h.AddTermColumn(termX, true)
	h.AddVarBound(colX, host.Lower, big.NewRat(5, 1))
	h.AddVarBound(colX, host.Upper, big.NewRat(5, 1))

	require.Equal(t, Sat, s.Check())
	snapshot := s.Copy()
	fLenBefore := len(snapshot.entries.FRows())
	sLenBefore := len(snapshot.entries.SRows())
	require.True(t, h.ColumnIsFixed(x))

	h.Push()
	y := h.AddVar(true)
	termY := host.NewTerm()
	termY.Set(y, big.NewRat(1, 1))
	colY := h.AddTermColumn(termY, true)
	h.AddVarBound(colY, host.Lower, big.NewRat(10, 1))
	h.AddVarBound(colY, host.Upper, big.NewRat(10, 1))

	require.Equal(t, Sat, s.Check())
	require.Equal(t, sLenBefore+1, len(s.entries.SRows()), "the second assertion's row should also have resolved")
	require.True(t, h.ColumnIsFixed(y))

	h.Pop()
	s = snapshot

	require.Equal(t, fLenBefore, len(s.entries.FRows()))
	require.Equal(t, sLenBefore, len(s.entries.SRows()))
	_, ok := s.reg.Local(y)
	require.False(t, ok, "restoring to the pre-push snapshot must forget the second assertion's row entirely")
	require.True(t, h.ColumnIsFixed(x), "the first assertion's fix must survive the pop")
}
