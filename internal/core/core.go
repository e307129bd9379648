// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package core implements the Diophantine equality decision procedure:
// it tightens bounds on integer terms, detects arithmetic infeasibility,
// and branches over integer-infeasible variables, cooperating with an
// external host linear-arithmetic solver.
package core

import (
	"math/big"

	"github.com/go-air/dio/host"
	"github.com/go-air/dio/ivar"
)

// S is the orchestrator: the bundle of C1-C10 state a single dio instance
// owns behind one receiver.
type S struct {
	h host.Host

	reg     *Register
	store   *Store
	entries *EntryTable
	subst   *Subst
	changes *ChangeTracker

	termRow map[int]ivar.Row // host term column -> its defining E/L row

	conflictRow     ivar.Row   // set on procConflict (a normalize or rewrite conflict)
	conflictExplain []int      // set when the conflict has no row (a tightening conflict)
	pendingCut      *CutTerm   // set on procBranch
	pendingBranch   *branchLit // set when Check returns Branch via C9

	branches []branch

	maxIter      int
	maxIterFloor int
}

// branchLit is the literal dio asks the host to apply when it cannot
// resolve a row on its own.
type branchLit struct {
	Col   int
	Kind  host.BoundKind
	Value *big.Rat
}

// NewS creates an empty dio instance bound to host h with default
// capacity hints, registering the callbacks that feed C5.
func NewS(h host.Host) *S {
	return NewSVc(h, 64, 64, 100, 5)
}

// NewSVc creates a dio instance with capacity hints for variable count
// (vCapHint), row count (rCapHint), the initial branch-iteration budget
// (maxIterInitial) and its floor (maxIterFloor).
func NewSVc(h host.Host, vCapHint, rCapHint, maxIterInitial, maxIterFloor int) *S {
	s := &S{
		h:            h,
		reg:          NewRegister(vCapHint),
		store:        NewStore(vCapHint),
		entries:      NewEntryTable(),
		subst:        NewSubst(),
		changes:      NewChangeTracker(),
		termRow:      make(map[int]ivar.Row, rCapHint),
		conflictRow:  ivar.RowNull,
		maxIter:      maxIterInitial,
		maxIterFloor: maxIterFloor,
	}
	h.OnAddTerm(s.changes.QueueAdd)
	h.OnRemoveTerm(s.onRemoveTerm)
	h.OnUpdateColumnBound(s.changes.QueueChangedColumn)
	return s
}

func (s *S) onRemoveTerm(col int) {
	if s.changes.CancelAdd(col) {
		return
	}
	r, ok := s.termRow[col]
	if !ok {
		return
	}
	delete(s.termRow, col)
	s.dropRow(r)
}

// ensureVarCap grows the row store's column index to cover local id j,
// doubling capacity as needed. The register and substitution index grow
// on their own when ids are allocated or set.
func (s *S) ensureVarCap(j ivar.Var) {
	s.store.GrowToVar(j)
}

// lcmBig returns the least common multiple of a and b (both taken
// positive); used to clear denominators when a host term is imported
// into an integer E-row.
func lcmBig(a, b *big.Int) *big.Int {
	a, b = bigAbs(a), bigAbs(b)
	if a.Sign() == 0 {
		return new(big.Int).Set(b)
	}
	if b.Sign() == 0 {
		return new(big.Int).Set(a)
	}
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Div(a, g)
	out.Mul(out, b)
	return out
}

// addTermRow imports a newly activated host term column into the row
// store. If col is not yet fixed, it builds the E-row
// "lcm*local(col) - sum(scaled coeffs) = 0" so dio tracks the term's
// value through the local variable representing it. If col is already
// fixed at activation time (the shape an equality assertion takes: bound
// the term column's upper and lower to the same value before activating
// it), col's value is folded directly into the row's constant instead,
// so "assert T = k" becomes the single equation "T's expansion - k = 0"
// with no auxiliary variable.
func (s *S) addTermRow(col int) {
	term := s.h.GetTerm(col)
	lcm := big.NewInt(1)
	for _, j := range term.Cols() {
		lcm = lcmBig(lcm, term.Coeff(j).Denom())
	}

	r := s.store.AddRow()
	c := big.NewInt(0)
	if s.h.ColumnIsFixed(col) {
		v := s.h.GetLowerBound(col)
		scaled := new(big.Rat).Mul(v, new(big.Rat).SetInt(lcm))
		vi := new(big.Int).Quo(scaled.Num(), scaled.Denom())
		c.Neg(vi)
	} else {
		jCol := s.reg.Add(col)
		s.ensureVarCap(jCol)
		s.store.SetE(r, jCol, new(big.Int).Neg(lcm))
	}

	for _, j := range term.Cols() {
		xj := s.reg.Add(j)
		s.ensureVarCap(xj)
		scaled := new(big.Rat).Mul(term.Coeff(j), new(big.Rat).SetInt(lcm))
		si := new(big.Int).Quo(scaled.Num(), scaled.Denom())
		s.store.AddToE(r, xj, si)
	}

	s.entries.Set(r, c, ivar.F)
	s.store.SetL(r, col, big.NewRat(1, 1))
	s.termRow[col] = r
}

// recomputeColumn reopens every S-row that depends on a host column whose
// bound or fixed status just changed, so C7/C8 re-examine it on the next
// processF/tighten pass.
func (s *S) recomputeColumn(col int) {
	j, ok := s.reg.Local(col)
	if !ok {
		return
	}
	for _, r := range append([]ivar.Row(nil), s.store.ColRows(j)...) {
		if s.entries.Status(r) == ivar.S {
			s.entries.MoveToF(r)
			s.subst.ClearRow(r)
		}
	}
}

// Check runs one full pass of the decision procedure: drain pending host
// changes, saturate F (C6+C7), tighten bounds from S (C8), and branch if
// still undetermined (C9).
func (s *S) Check() Result {
	s.h.Stats().DioCalls++
	s.pendingCut = nil
	s.pendingBranch = nil
	s.conflictExplain = nil
	s.conflictRow = ivar.RowNull

	for _, col := range s.changes.DrainAdds() {
		s.addTermRow(col)
	}
	for _, col := range s.changes.DrainChangedColumns() {
		s.recomputeColumn(col)
	}

	switch s.processF() {
	case procConflict:
		return Conflict
	case procBranch:
		return Branch
	}

	switch s.tightenTermsWithS() {
	case tightenConflict:
		return Conflict
	}

	return s.branchingOnUndef()
}

// PendingCut returns the Gomory-style cut built by the most recent
// Branch result due to a non-integral gcd conflict, or nil if the last
// Branch came from C9 instead.
func (s *S) PendingCut() *CutTerm { return s.pendingCut }

// PendingBranch returns the column, bound kind and value of the
// branching literal C9 asked the host to apply, or ok=false if the last
// Branch result came from a C6 cut instead.
func (s *S) PendingBranch() (col int, kind host.BoundKind, value *big.Rat, ok bool) {
	if s.pendingBranch == nil {
		return 0, 0, nil, false
	}
	return s.pendingBranch.Col, s.pendingBranch.Kind, s.pendingBranch.Value, true
}

// Stats returns the host's live statistics counters.
func (s *S) Stats() *host.Stats { return s.h.Stats() }

// BranchInfeasible reports that the side of a branch most recently
// pushed at depth turned out infeasible, letting C9 retire branches that
// are fully explored on both sides.
func (s *S) BranchInfeasible(depth int) { s.onBranchInfeasible(depth) }

// Copy returns a deep, independent copy of s, used by the host to
// checkpoint dio state around a branch push.
func (s *S) Copy() *S {
	out := &S{
		h:            s.h,
		reg:          s.reg.Copy(),
		store:        s.store.Copy(),
		entries:      s.entries.Copy(),
		subst:        s.subst.Copy(),
		changes:      NewChangeTracker(),
		termRow:      make(map[int]ivar.Row, len(s.termRow)),
		conflictRow:  ivar.RowNull,
		maxIter:      s.maxIter,
		maxIterFloor: s.maxIterFloor,
		branches:     append([]branch(nil), s.branches...),
	}
	for k, v := range s.termRow {
		out.termRow[k] = v
	}
	return out
}
