// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

import (
	"math/big"

	"github.com/go-air/dio/ivar"
)

// procResult is the outcome of draining F: normalizing rows by gcd and
// performing rewrite steps on them.
type procResult int

const (
	procUndef procResult = iota
	procConflict
	procBranch
)

// processF drains F: normalize every current F-row by gcd, then perform
// one rewrite step, until F is empty or a conflict/branch is found.
func (s *S) processF() procResult {
	for s.entries.FLen() > 0 {
		for _, r := range s.entries.FRows() {
			switch s.normalizeByGCD(r) {
			case normConflict:
				s.conflictRow = r
				s.h.Stats().DioNormalizeConflicts++
				return procConflict
			case normBranch:
				s.h.Stats().DioCutFromProofs++
				return procBranch
			}
		}
		if s.rewriteOne() == procConflict {
			s.h.Stats().DioRewriteConflicts++
			return procConflict
		}
	}
	return procUndef
}

// rewriteOne pops the first non-empty F-row, drops rows that became
// trivially true (0=0) as it scans, and performs a single elimination or
// fresh-variable step on whatever row it lands on.
func (s *S) rewriteOne() procResult {
	var h ivar.Row
	found := false
	for _, r := range s.entries.FRows() {
		if s.store.ERowLen(r) == 0 {
			if s.entries.C(r).Sign() == 0 {
				s.dropRow(r)
				continue
			}
			s.conflictRow = r
			return procConflict
		}
		h = r
		found = true
		break
	}
	if !found {
		return procUndef
	}

	k, ahk, sign := s.findMinAbsCoeff(h)
	if ahk.Cmp(big.NewInt(1)) == 0 {
		s.entries.MoveToS(h)
		s.subst.Set(k, h)
		s.eliminateVarInF(h, k, sign)
	} else {
		s.freshVarStep(h, k)
	}
	return procUndef
}

// findMinAbsCoeff returns (k, |a_hk|, sign(a_hk)) for the entry with
// minimal absolute coefficient in row h, ties broken by smaller local id.
func (s *S) findMinAbsCoeff(h ivar.Row) (ivar.Var, *big.Int, int) {
	cols := s.store.ERowCols(h)
	var bestJ ivar.Var
	var bestAbs *big.Int
	bestSign := 1
	for i, j := range cols {
		c := s.store.ERowCoeff(h, i)
		abs := bigAbs(c)
		if bestAbs == nil || abs.Cmp(bestAbs) < 0 || (abs.Cmp(bestAbs) == 0 && j < bestJ) {
			bestAbs = abs
			bestJ = j
			if c.Sign() < 0 {
				bestSign = -1
			} else {
				bestSign = 1
			}
			if bestAbs.Cmp(big.NewInt(1)) == 0 {
				break
			}
		}
	}
	return bestJ, bestAbs, bestSign
}

// eliminateVarInF eliminates variable k (present with coefficient
// jSign*1 in pivotRow) from every other F-row containing it.
func (s *S) eliminateVarInF(pivotRow ivar.Row, k ivar.Var, jSign int) {
	pivotC := s.entries.C(pivotRow)
	rows := append([]ivar.Row(nil), s.store.ColRows(k)...)
	jSignBig := big.NewInt(int64(jSign))
	for _, i := range rows {
		if i == pivotRow || s.entries.Status(i) != ivar.F {
			continue
		}
		coeff := s.store.GetE(i, k)
		if coeff == nil {
			continue
		}
		alpha := new(big.Int).Mul(coeff, jSignBig)
		alpha.Neg(alpha)
		s.store.AddRows(alpha, pivotRow, i)
		delta := new(big.Int).Mul(alpha, pivotC)
		s.entries.SetC(i, new(big.Int).Add(s.entries.C(i), delta))
	}
}

// freshVarStep introduces a fresh variable to split a row whose minimum
// |coefficient| exceeds one. ahk keeps k's actual signed coefficient:
// every DivMod below divides by it directly, so a negative pivot flips
// the quotients it produces (fr's coefficients) the same way it would
// flip them by hand, while the Euclidean remainder (h's new
// coefficients) lands in [0, |ahk|) regardless of ahk's sign.
func (s *S) freshVarStep(h ivar.Row, k ivar.Var) {
	ahk := new(big.Int).Set(s.store.GetE(h, k))
	// snapshot h's row before mutating it.
	cols := append([]ivar.Var(nil), s.store.ERowCols(h)...)
	coeffs := make([]*big.Int, len(cols))
	for i := range cols {
		coeffs[i] = new(big.Int).Set(s.store.ERowCoeff(h, i))
	}
	c := s.entries.C(h)

	xt := s.reg.AddFresh()
	s.store.GrowToVar(xt)
	fr := s.store.AddRow()
	s.entries.Set(fr, nil, ivar.NoSNoF)

	// c = q*ahk + r, 0 <= r < |ahk| (Euclidean division).
	q, r := new(big.Int), new(big.Int)
	q.DivMod(c, ahk, r)
	s.entries.SetC(h, r)
	s.store.ResetE(h)
	s.store.SetE(h, k, nil)
	s.store.SetE(h, xt, new(big.Int).Set(ahk))

	s.store.SetE(fr, xt, big.NewInt(-1))
	s.store.SetE(fr, k, big.NewInt(1))
	s.entries.SetC(fr, new(big.Int).Set(q))

	for i, j := range cols {
		if j == k {
			continue
		}
		qi, ri := new(big.Int), new(big.Int)
		qi.DivMod(coeffs[i], ahk, ri)
		if ri.Sign() != 0 {
			s.store.SetE(h, j, ri)
		}
		if qi.Sign() != 0 {
			s.store.SetE(fr, j, qi)
		}
	}

	s.subst.Set(k, fr)
	s.subst.SetFreshDef(xt, FreshDef{DefiningRow: fr, OriginRow: h})

	s.eliminateVarInF(fr, k, 1)
}

// dropRow recycles a row that has become the trivial equation 0=0.
func (s *S) dropRow(r ivar.Row) {
	s.entries.MoveToNoSNoF(r)
	s.subst.ClearRow(r)
	s.store.RemoveRow(r)
}
