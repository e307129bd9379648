// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

import (
	"math/big"

	"github.com/go-air/dio/host"
)

// branch records one explored branching decision on a host column, kept
// on s.branches so a later conflict can be traced back and undone.
type branch struct {
	Col           int
	Split         *big.Rat // branching point: col <= floor(split) or col >= ceil(split)
	Left          bool     // true while the <= side is asserted; false once it was reported infeasible and the >= side replaced it
	FullyExplored bool
	SumScore      *big.Rat
	CountScore    int64
}

// branchingOnUndef is called when F and S are both saturated and no
// tightening conflict fired: it looks for an integer-typed
// host column whose current range still straddles a fraction and ask the
// host to split on it. Returns Sat if none remain, Branch if one was
// created, or Undef if the iteration budget ran out first.
func (s *S) branchingOnUndef() Result {
	s.undoExploredBranches()

	iter := s.maxIter
	for iter > 0 {
		iter--
		s.h.Stats().DioBranchIterations++

		col, val, ok := s.pickBranchColumn()
		if !ok {
			s.h.Stats().DioBranchingSats++
			return Sat
		}
		if s.checkFixing(col, val) {
			continue
		}
		s.createBranch(col, val)
		return Branch
	}
	s.maxIter = s.maxIter / 2
	if s.maxIter < s.maxIterFloor {
		s.maxIter = s.maxIterFloor
	}
	return Undef
}

// pickBranchColumn scans the host's basis for an integer column whose
// current value is non-integral, using a random tie-break
// (host.RandomNext, never a package-level PRNG) among equally-fractional
// candidates.
func (s *S) pickBranchColumn() (int, *big.Rat, bool) {
	var bestCol = -1
	var bestVal *big.Rat
	var bestScore *big.Rat
	nCandidates := uint64(0)

	for _, col := range s.h.RBasis() {
		if !s.h.ColumnIsInt(col) || s.h.ColumnIsFixed(col) {
			continue
		}
		val := s.h.ColumnValue(col)
		frac := fracPart(val)
		if frac.Sign() == 0 {
			continue
		}
		score := distToHalf(frac)
		nCandidates++
		if bestScore == nil || score.Cmp(bestScore) < 0 {
			bestScore, bestCol, bestVal = score, col, val
		} else if score.Cmp(bestScore) == 0 && s.h.RandomNext()%nCandidates == 0 {
			bestCol, bestVal = col, val
		}
	}
	if bestCol < 0 {
		return 0, nil, false
	}
	return bestCol, bestVal, true
}

func fracPart(v *big.Rat) *big.Rat {
	fl := new(big.Int).Div(v.Num(), v.Denom())
	out := new(big.Rat).Sub(v, new(big.Rat).SetInt(fl))
	return out
}

func distToHalf(frac *big.Rat) *big.Rat {
	d := new(big.Rat).Sub(frac, big.NewRat(1, 2))
	if d.Sign() < 0 {
		d.Neg(d)
	}
	return d
}

// checkFixing handles a fast path: if col is the fresh
// variable introduced to eliminate a substituted variable k and k's host
// column is already fixed, col's value is forced; record it as a bound
// instead of spending a branch.
func (s *S) checkFixing(col int, val *big.Rat) bool {
	j, ok := s.reg.Local(col)
	if !ok || !s.reg.IsFresh(j) {
		return false
	}
	fd, ok := s.subst.GetFreshDef(j)
	if !ok {
		return false
	}
	return s.fixVar(fd, col, val)
}

func (s *S) fixVar(fd FreshDef, col int, val *big.Rat) bool {
	if s.store.ERowLen(fd.DefiningRow) != 0 {
		return false
	}
	c := s.entries.C(fd.DefiningRow)
	v := new(big.Rat).SetInt(new(big.Int).Neg(c))
	dep := s.rowWitness(fd.OriginRow)
	if s.tightenBoundKind(col, host.Upper, v, dep, host.Lower, v, dep) == tightenConflict {
		return false
	}
	return true
}

// createBranch pushes a new branching point on col at val and records it
// on the branch stack, asking the host to add the literal and checkpoint
// its trail.
func (s *S) createBranch(col int, val *big.Rat) {
	floor := ratFloor(val)
	s.h.Push()
	s.h.AddVarBound(col, host.Upper, new(big.Rat).SetInt(floor))
	s.h.TrailPush(func() { s.h.Pop() })
	s.branches = append(s.branches, branch{
		Col:        col,
		Split:      new(big.Rat).Set(val),
		Left:       true,
		SumScore:   new(big.Rat),
		CountScore: 0,
	})
	s.h.Stats().DioBranchingDepth = len(s.branches)
	s.pendingBranch = &branchLit{Col: col, Kind: host.Upper, Value: new(big.Rat).SetInt(floor)}
}

// undoExploredBranches pops fully explored branches off the stack before
// looking for a new one to make.
func (s *S) undoExploredBranches() {
	for len(s.branches) > 0 {
		top := s.branches[len(s.branches)-1]
		if !top.FullyExplored {
			return
		}
		s.branches = s.branches[:len(s.branches)-1]
	}
}

// onBranchInfeasible is called by the host when the side of a branch it
// just explored turned out infeasible; it records score statistics. The
// first time this fires for a branch it pops the <= side's pushed bound
// and re-asserts the >= side in its place; the second time, both sides
// are explored and the branch is retired.
func (s *S) onBranchInfeasible(depth int) {
	if depth < 0 || depth >= len(s.branches) {
		return
	}
	s.h.Stats().DioBranchingInfeasible++
	b := &s.branches[depth]
	b.CountScore++
	if b.Left {
		b.Left = false
		s.h.Pop()
		ceil := ratCeil(b.Split)
		s.h.Push()
		s.h.AddVarBound(b.Col, host.Lower, new(big.Rat).SetInt(ceil))
		s.h.TrailPush(func() { s.h.Pop() })
		s.pendingBranch = &branchLit{Col: b.Col, Kind: host.Lower, Value: new(big.Rat).SetInt(ceil)}
		return
	}
	b.FullyExplored = true
}
