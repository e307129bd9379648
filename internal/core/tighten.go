// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

import (
	"math/big"

	"github.com/go-air/dio/host"
	"github.com/go-air/dio/ivar"
)

// tightenResult is the outcome of a single tightening pass over S (C8).
type tightenResult int

const (
	tightenOK tightenResult = iota
	tightenConflict
)

// tightenTermsWithS walks every row that is now in S (i.e. every local
// variable dio has fully solved for), propagating the solved value, or
// the tightest bound it implies, to the host column it represents.
func (s *S) tightenTermsWithS() tightenResult {
	for _, r := range s.entries.SRows() {
		if s.tightenBoundsForTermColumn(r) == tightenConflict {
			s.h.Stats().DioTightenConflicts++
			return tightenConflict
		}
	}
	return tightenOK
}

// residual is row r's non-pivot side fully expanded through subst: every
// substitutable variable has been eliminated away, leaving only truly
// free variables in work, an accumulated constant c, and the dependency
// set of every fixed host column folded in along the way.
type residual struct {
	work map[ivar.Var]*big.Int
	c    *big.Int
	dep  host.Dep
}

// reduceRow expands row r's columns other than pivot to a fixpoint: a
// column whose host value is already fixed gets folded into c, a column
// with its own substitution row gets expanded through it (which may
// surface further-substitutable variables, so this repeats until
// nothing changes), and anything left over is a genuinely free variable
// contributing to the row's residual gcd.
func (s *S) reduceRow(r ivar.Row, pivot ivar.Var) residual {
	res := residual{work: map[ivar.Var]*big.Int{}, c: new(big.Int).Set(s.entries.C(r))}
	for _, j := range s.store.ERowCols(r) {
		if j == pivot {
			continue
		}
		res.work[j] = new(big.Int).Set(s.store.GetE(r, j))
	}

	for {
		progressed := false
		for j, coeff := range res.work {
			if coeff.Sign() == 0 {
				delete(res.work, j)
				progressed = true
				continue
			}
			if ext, ok := s.reg.External(j); ok && s.h.ColumnIsFixed(ext) {
				val := s.h.ColumnValue(ext)
				vi := new(big.Int).Quo(val.Num(), val.Denom())
				res.c.Add(res.c, new(big.Int).Mul(coeff, vi))
				res.dep = s.h.MkJoin(res.dep, s.h.BoundConstraintWitnesses(ext))
				delete(res.work, j)
				progressed = true
				continue
			}
			rj := s.subst.Row(j)
			if rj == ivar.RowNull {
				continue // genuinely free variable, stays in work
			}
			ajCoeff := s.store.GetE(rj, j)
			if ajCoeff == nil {
				continue
			}
			alpha := new(big.Int).Neg(coeff)
			alpha.Mul(alpha, ajCoeff)
			res.c.Add(res.c, new(big.Int).Mul(alpha, s.entries.C(rj)))
			delete(res.work, j)
			for _, j2 := range s.store.ERowCols(rj) {
				if j2 == j || j2 == pivot {
					continue
				}
				delta := new(big.Int).Mul(alpha, s.store.GetE(rj, j2))
				if cur, had := res.work[j2]; had {
					cur.Add(cur, delta)
				} else {
					res.work[j2] = delta
				}
			}
			progressed = true
			break // res.work was mutated; restart the scan
		}
		if !progressed {
			break
		}
	}
	return res
}

// tightenBoundsForTermColumn inspects S-row r, which solves for the
// variable subst points at (its pivot column k always carries coefficient
// ±1 in r, per C7's promotion invariant). It expands every other column
// through subst and, depending on what is left over, either finds k
// exactly determined or finds a residual gcd that tightens k's host
// bounds without pinning it down completely.
func (s *S) tightenBoundsForTermColumn(r ivar.Row) tightenResult {
	k := s.substKeyFor(r)
	if k == ivar.VarNull {
		return tightenOK
	}
	akCoeff := s.store.GetE(r, k)
	if akCoeff == nil {
		return tightenOK
	}

	res := s.reduceRow(r, k)
	if len(res.work) == 0 {
		// r reduces to "akCoeff*k + c = 0" with akCoeff == ±1, so k = -c*akCoeff.
		value := new(big.Int).Neg(res.c)
		value.Mul(value, akCoeff)
		return s.handleConstantTerm(r, value, s.h.MkJoin(res.dep, s.rowWitness(r)))
	}
	return s.tightenBoundsByResidualGCD(r, k, akCoeff, res)
}

// handleConstantTerm fires when row r has become "local(k) = value" with
// no remaining variables; it pushes value as both the upper and lower
// bound of the host column k maps to, joining dep as the witness.
func (s *S) handleConstantTerm(r ivar.Row, value *big.Int, dep host.Dep) tightenResult {
	k := s.substKeyFor(r)
	if k == ivar.VarNull {
		return tightenOK
	}
	ext, ok := s.reg.External(k)
	if !ok {
		return tightenOK
	}
	v := new(big.Rat).SetInt(value)
	return s.tightenBoundKind(ext, host.Upper, v, dep, host.Lower, v, dep)
}

// tightenBoundsByResidualGCD fires when row r's non-pivot side, fully
// expanded through subst, still has at least one genuinely free
// variable. It computes g, the gcd of the remaining coefficients, and
// uses it to tighten whichever of k's host bounds are not already of the
// form m_c + g*t: for k = m_c + sum(scaled[j]*j) with every scaled[j] a
// multiple of g, every reachable k has (k-m_c)/g integral, so when
// (rs-m_c)/g is non-integral an upper bound rs is rounded down (floor)
// and a lower bound rounded up (ceil) to the nearest such value without
// losing any solution.
func (s *S) tightenBoundsByResidualGCD(r ivar.Row, k ivar.Var, akCoeff *big.Int, res residual) tightenResult {
	g := big.NewInt(0)
	for _, coeff := range res.work {
		g.GCD(nil, nil, g, bigAbs(coeff))
	}
	if g.Cmp(big.NewInt(1)) <= 0 {
		return tightenOK
	}

	ext, ok := s.reg.External(k)
	if !ok {
		return tightenOK
	}

	// r is akCoeff*k + sum(work[j]*j) + c = 0, akCoeff == ±1, so
	// k = m_c + sum(scaled[j]*j) with m_c = -akCoeff*c. g divides every
	// scaled[j] since it divides every work[j] and akCoeff is a unit.
	mc := new(big.Int).Neg(res.c)
	mc.Mul(mc, akCoeff)
	mcRat := new(big.Rat).SetInt(mc)
	gRat := new(big.Rat).SetInt(g)
	dep := s.h.MkJoin(res.dep, s.rowWitness(r))

	if up, _, upDep, ok := s.h.HasBoundOfType(ext, host.Upper); ok {
		rsPrime := new(big.Rat).Sub(up, mcRat)
		rsPrime.Quo(rsPrime, gRat)
		if !rsPrime.IsInt() {
			v := new(big.Rat).SetInt(ratFloor(rsPrime))
			v.Mul(v, gRat)
			v.Add(v, mcRat)
			if s.tightenOneBound(ext, host.Upper, v, s.h.MkJoin(dep, upDep)) == tightenConflict {
				return tightenConflict
			}
		}
	}
	if lo, _, loDep, ok := s.h.HasBoundOfType(ext, host.Lower); ok {
		rsPrime := new(big.Rat).Sub(lo, mcRat)
		rsPrime.Quo(rsPrime, gRat)
		if !rsPrime.IsInt() {
			v := new(big.Rat).SetInt(ratCeil(rsPrime))
			v.Mul(v, gRat)
			v.Add(v, mcRat)
			if s.tightenOneBound(ext, host.Lower, v, s.h.MkJoin(dep, loDep)) == tightenConflict {
				return tightenConflict
			}
		}
	}
	return tightenOK
}

// ratFloor and ratCeil rely on big.Rat always normalizing Denom() to be
// positive, which makes big.Int.Div's Euclidean convention (0 <= r <
// Denom()) coincide with floor division.
func ratFloor(x *big.Rat) *big.Int {
	return new(big.Int).Div(x.Num(), x.Denom())
}

func ratCeil(x *big.Rat) *big.Int {
	f := ratFloor(x)
	if new(big.Rat).SetInt(f).Cmp(x) == 0 {
		return f
	}
	return f.Add(f, big.NewInt(1))
}

// tightenBoundKind pushes both bounds to the host at the same value,
// checking each against the column's current opposite bound before
// committing; a contradiction yields a conflict with the joined
// witnesses. Used when k's value is exactly determined.
func (s *S) tightenBoundKind(col int, upKind host.BoundKind, up *big.Rat, upDep host.Dep,
	loKind host.BoundKind, lo *big.Rat, loDep host.Dep) tightenResult {

	if cur, strict, wdep, ok := s.h.HasBoundOfType(col, host.Lower); ok {
		if up.Cmp(cur) < 0 || (strict && up.Cmp(cur) == 0) {
			s.conflictExplain = s.h.Flatten(s.h.MkJoin(upDep, wdep))
			return tightenConflict
		}
	}
	if cur, strict, wdep, ok := s.h.HasBoundOfType(col, host.Upper); ok {
		if lo.Cmp(cur) > 0 || (strict && lo.Cmp(cur) == 0) {
			s.conflictExplain = s.h.Flatten(s.h.MkJoin(loDep, wdep))
			return tightenConflict
		}
	}
	s.h.UpdateColumnTypeAndBound(col, upKind, up, upDep)
	s.h.UpdateColumnTypeAndBound(col, loKind, lo, loDep)
	return tightenOK
}

// tightenOneBound tightens col's kind-side bound to v alone, checking it
// against the column's existing opposite bound for a contradiction
// before committing. Used when only one side of k's range is implied.
func (s *S) tightenOneBound(col int, kind host.BoundKind, v *big.Rat, dep host.Dep) tightenResult {
	opposite := host.Lower
	if kind == host.Lower {
		opposite = host.Upper
	}
	if cur, strict, wdep, ok := s.h.HasBoundOfType(col, opposite); ok {
		var bad bool
		if kind == host.Upper {
			bad = v.Cmp(cur) < 0 || (strict && v.Cmp(cur) == 0)
		} else {
			bad = v.Cmp(cur) > 0 || (strict && v.Cmp(cur) == 0)
		}
		if bad {
			s.conflictExplain = s.h.Flatten(s.h.MkJoin(dep, wdep))
			return tightenConflict
		}
	}
	s.h.UpdateColumnTypeAndBound(col, kind, v, dep)
	return tightenOK
}

// substKeyFor returns the variable that row r is the substitution row for
// (the k such that subst[k] == r), or ivar.VarNull if none.
func (s *S) substKeyFor(r ivar.Row) ivar.Var {
	for i := 0; i < len(s.subst.subst); i++ {
		if s.subst.subst[i] == r {
			return ivar.Var(i)
		}
	}
	return ivar.VarNull
}

// rowWitness joins the bound witnesses of every fixed host column row r's
// E-row touches, the dependency set that justifies the value dio derived
// for it.
func (s *S) rowWitness(r ivar.Row) host.Dep {
	var dep host.Dep
	for _, j := range s.store.ERowCols(r) {
		ext, ok := s.reg.External(j)
		if !ok || !s.h.ColumnIsFixed(ext) {
			continue
		}
		dep = s.h.MkJoin(dep, s.h.BoundConstraintWitnesses(ext))
	}
	return dep
}
