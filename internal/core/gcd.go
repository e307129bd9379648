// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

import (
	"math/big"

	"github.com/go-air/dio/host"
	"github.com/go-air/dio/ivar"
)

// normResult is the outcome of normalizing a single F-row by its gcd (C6).
type normResult int

const (
	normOK normResult = iota
	normConflict
	normBranch
)

// CutTerm is the pending cut emitted when a gcd conflict is reported as a
// branch instead of an outright conflict.
type CutTerm struct {
	Term    *host.Term // over host column ids
	Offset  *big.Int   // the cut is Term <= Offset
	IsUpper bool
}

func bigAbs(x *big.Int) *big.Int {
	if x.Sign() < 0 {
		return new(big.Int).Neg(x)
	}
	return x
}

// rowGCD returns the gcd of the absolute values of an E-row's
// coefficients, or 0 if the row is empty.
func rowGCD(row *erow) *big.Int {
	g := big.NewInt(0)
	for _, c := range row.coeffs {
		g.GCD(nil, nil, g, bigAbs(c))
	}
	return g
}

// normalizeByGCD divides an F-row by the gcd of its coefficients, or
// reports a conflict (possibly a cut) when the constant doesn't divide
// evenly.
func (s *S) normalizeByGCD(row ivar.Row) normResult {
	g := rowGCD(&s.store.E[row])
	if g.Sign() == 0 || g.Cmp(big.NewInt(1)) == 0 {
		return normOK
	}
	c := s.entries.C(row)
	q, r := new(big.Int), new(big.Int)
	q.DivMod(c, g, r)
	if r.Sign() == 0 {
		s.store.DivideRowExact(row, g)
		s.entries.SetC(row, q)
		return normOK
	}
	// c/g is not integral: conflict, possibly reportable as a cut.
	period := s.h.CutFromProofPeriod()
	if period > 0 && s.h.Stats().DioCalls%int64(period) == 0 && !s.hasFreshVar(row) {
		s.prepareCut(row, g, q)
		return normBranch
	}
	return normConflict
}

func (s *S) hasFreshVar(row ivar.Row) bool {
	for _, j := range s.store.ERowCols(row) {
		if s.reg.IsFresh(j) {
			return true
		}
	}
	return false
}

// prepareCut builds a Gomory-style cut term:
// sum((coeff_i/g)*ext(i)) <= floor(-c_i/g), where c_i/g (== q here, after
// DivMod) is the non-integral residue actually floor(c/g) with remainder
// r != 0, so -q-1 is floor(-c/g) when c/g is not an integer (Euclidean
// DivMod leaves 0 < r < g, so c/g's true floor is q and -c/g's floor is
// -q-1).
func (s *S) prepareCut(row ivar.Row, g, q *big.Int) {
	t := host.NewTerm()
	for i, j := range s.store.ERowCols(row) {
		coeff := s.store.ERowCoeff(row, i)
		ext, ok := s.reg.External(j)
		if !ok {
			continue
		}
		cr := new(big.Rat).SetFrac(coeff, g)
		t.Set(ext, cr)
	}
	offset := new(big.Int).Neg(q)
	offset.Sub(offset, big.NewInt(1))
	s.pendingCut = &CutTerm{Term: t, Offset: offset, IsUpper: true}
}
