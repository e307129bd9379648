// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

import (
	"math/big"

	"github.com/go-air/dio/host"
	"github.com/go-air/dio/ivar"
)

// erow is one sparse row of the E-matrix: the equation
// sum(coeffs[i]*x[cols[i]]) + c = 0 (the constant c lives in the entry
// table, C3). Columns are kept sorted ascending so elimination and
// minimum-|coeff| scans (C7) are deterministic, ties broken by smaller
// local id.
type erow struct {
	cols   []ivar.Var
	coeffs []*big.Int
}

func (e *erow) find(j ivar.Var) int {
	lo, hi := 0, len(e.cols)
	for lo < hi {
		mid := (lo + hi) / 2
		if e.cols[mid] < j {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Get returns the coefficient of j, or nil if absent.
func (e *erow) Get(j ivar.Var) *big.Int {
	i := e.find(j)
	if i < len(e.cols) && e.cols[i] == j {
		return e.coeffs[i]
	}
	return nil
}

func (e *erow) set(j ivar.Var, v *big.Int) {
	i := e.find(j)
	has := i < len(e.cols) && e.cols[i] == j
	if v == nil || v.Sign() == 0 {
		if has {
			e.cols = append(e.cols[:i], e.cols[i+1:]...)
			e.coeffs = append(e.coeffs[:i], e.coeffs[i+1:]...)
		}
		return
	}
	if has {
		e.coeffs[i] = v
		return
	}
	e.cols = append(e.cols, 0)
	copy(e.cols[i+1:], e.cols[i:])
	e.cols[i] = j
	e.coeffs = append(e.coeffs, nil)
	copy(e.coeffs[i+1:], e.coeffs[i:])
	e.coeffs[i] = v
}

func (e *erow) clone() erow {
	out := erow{
		cols:   append([]ivar.Var(nil), e.cols...),
		coeffs: make([]*big.Int, len(e.coeffs)),
	}
	for i, c := range e.coeffs {
		out.coeffs[i] = new(big.Int).Set(c)
	}
	return out
}

// Store holds the E-matrix and L-matrix sharing a row index space (C2),
// with column-direction indexing over E so elimination (C7)
// and affected-row scans (C5) are O(nnz) rather than O(rows).
type Store struct {
	E []erow
	L []*host.Term

	// colRows[j] lists the rows whose E-row has a nonzero coefficient on
	// variable j: a plain slice indexed by variable id holding each
	// variable's occurrence list.
	colRows [][]ivar.Row
	// lColRows[k] lists the rows whose L-row touches host term column k.
	lColRows map[int][]ivar.Row

	free []ivar.Row
}

// NewStore creates an empty Store with variable capacity hint vCap.
func NewStore(vCap int) *Store {
	if vCap < 1 {
		vCap = 1
	}
	return &Store{
		colRows:  make([][]ivar.Row, vCap+1),
		lColRows: make(map[int][]ivar.Row),
	}
}

// GrowToVar ensures the column index covers variable j.
func (st *Store) GrowToVar(j ivar.Var) {
	if int(j) < len(st.colRows) {
		return
	}
	grown := make([][]ivar.Row, int(j)*2+1)
	copy(grown, st.colRows)
	st.colRows = grown
}

// AddRow allocates a fresh, empty row, reusing a recycled slot if one is
// available.
func (st *Store) AddRow() ivar.Row {
	if n := len(st.free); n > 0 {
		r := st.free[n-1]
		st.free = st.free[:n-1]
		st.E[r] = erow{}
		st.L[r] = host.NewTerm()
		return r
	}
	r := ivar.Row(len(st.E))
	st.E = append(st.E, erow{})
	st.L = append(st.L, host.NewTerm())
	return r
}

// RemoveRow clears a row's content and returns its slot to the free list.
// Callers (C5) are responsible for updating the entry table and
// substitution index first.
func (st *Store) RemoveRow(r ivar.Row) {
	st.unindexE(r)
	st.unindexL(r)
	st.E[r] = erow{}
	st.L[r] = host.NewTerm()
	st.free = append(st.free, r)
}

func (st *Store) unindexE(r ivar.Row) {
	for _, j := range st.E[r].cols {
		st.removeColRow(j, r)
	}
}

func (st *Store) unindexL(r ivar.Row) {
	for _, k := range st.L[r].Cols() {
		st.removeLColRow(k, r)
	}
}

func (st *Store) removeColRow(j ivar.Var, r ivar.Row) {
	rows := st.colRows[j]
	for i, rr := range rows {
		if rr == r {
			rows[i] = rows[len(rows)-1]
			st.colRows[j] = rows[:len(rows)-1]
			return
		}
	}
}

func (st *Store) addColRow(j ivar.Var, r ivar.Row) {
	for _, rr := range st.colRows[j] {
		if rr == r {
			return
		}
	}
	st.colRows[j] = append(st.colRows[j], r)
}

func (st *Store) removeLColRow(k int, r ivar.Row) {
	rows := st.lColRows[k]
	for i, rr := range rows {
		if rr == r {
			rows[i] = rows[len(rows)-1]
			rows = rows[:len(rows)-1]
			if len(rows) == 0 {
				delete(st.lColRows, k)
			} else {
				st.lColRows[k] = rows
			}
			return
		}
	}
}

func (st *Store) addLColRow(k int, r ivar.Row) {
	for _, rr := range st.lColRows[k] {
		if rr == r {
			return
		}
	}
	st.lColRows[k] = append(st.lColRows[k], r)
}

// ColRows returns the rows whose E-row contains variable j. The returned
// slice is owned by the Store; callers must not mutate it, and must not
// assume it is stable across subsequent mutating calls.
func (st *Store) ColRows(j ivar.Var) []ivar.Row {
	if int(j) >= len(st.colRows) {
		return nil
	}
	return st.colRows[j]
}

// LColRows returns the rows whose L-row touches host term column k.
func (st *Store) LColRows(k int) []ivar.Row {
	return st.lColRows[k]
}

// GetE returns the E-coefficient of variable j in row r, or nil.
func (st *Store) GetE(r ivar.Row, j ivar.Var) *big.Int {
	return st.E[r].Get(j)
}

// SetE sets the E-coefficient of variable j in row r, maintaining the
// column index. A nil or zero v removes the entry.
func (st *Store) SetE(r ivar.Row, j ivar.Var, v *big.Int) {
	had := st.E[r].Get(j) != nil
	st.E[r].set(j, v)
	has := v != nil && v.Sign() != 0
	if has && !had {
		st.addColRow(j, r)
	} else if !has && had {
		st.removeColRow(j, r)
	}
}

// AddToE adds delta to the E-coefficient of j in row r.
func (st *Store) AddToE(r ivar.Row, j ivar.Var, delta *big.Int) {
	cur := st.GetE(r, j)
	if cur == nil {
		st.SetE(r, j, new(big.Int).Set(delta))
		return
	}
	st.SetE(r, j, new(big.Int).Add(cur, delta))
}

// ERowCols returns the sorted variable ids with a nonzero coefficient in
// row r's E-row.
func (st *Store) ERowCols(r ivar.Row) []ivar.Var {
	return st.E[r].cols
}

// ERowCoeff returns the coefficient at position i in row r's E-row, in
// the same order as ERowCols.
func (st *Store) ERowCoeff(r ivar.Row, i int) *big.Int {
	return st.E[r].coeffs[i]
}

// ERowLen returns the number of nonzero E-row entries in row r.
func (st *Store) ERowLen(r ivar.Row) int { return len(st.E[r].cols) }

// L_ returns row r's L-row. Callers may read it but must go through SetL/
// AddToL to mutate it so the column index stays correct.
func (st *Store) L_(r ivar.Row) *host.Term { return st.L[r] }

// SetL sets the L-coefficient of host column k in row r.
func (st *Store) SetL(r ivar.Row, k int, v *big.Rat) {
	had := st.L[r].Coeff(k) != nil
	st.L[r].Set(k, v)
	has := v != nil && v.Sign() != 0
	if has && !had {
		st.addLColRow(k, r)
	} else if !has && had {
		st.removeLColRow(k, r)
	}
}

// ResetL clears row r's L-row entirely (used when C5 recomputes a row from
// scratch).
func (st *Store) ResetL(r ivar.Row) {
	st.unindexL(r)
	st.L[r] = host.NewTerm()
}

// ResetE clears row r's E-row entirely.
func (st *Store) ResetE(r ivar.Row) {
	st.unindexE(r)
	st.E[r] = erow{}
}

// AddRows performs row[dst] += alpha*row[src] over both E and L. The
// caller manages the entry table's constant term separately.
func (st *Store) AddRows(alpha *big.Int, src, dst ivar.Row) {
	srow := st.E[src]
	for i, j := range srow.cols {
		delta := new(big.Int).Mul(alpha, srow.coeffs[i])
		st.AddToE(dst, j, delta)
	}
	alphaRat := new(big.Rat).SetInt(alpha)
	lsrc := st.L[src]
	for _, k := range lsrc.Cols() {
		v := new(big.Rat).Mul(alphaRat, lsrc.Coeff(k))
		cur := st.L[dst].Coeff(k)
		if cur == nil {
			st.SetL(dst, k, v)
		} else {
			st.SetL(dst, k, new(big.Rat).Add(cur, v))
		}
	}
}

// DivideRowExact divides every E- and L-coefficient of row r by g. Callers
// must ensure g exactly divides every E coefficient (C6 guarantees this).
func (st *Store) DivideRowExact(r ivar.Row, g *big.Int) {
	row := st.E[r]
	for i, c := range row.coeffs {
		q := new(big.Int)
		q.Div(c, g)
		row.coeffs[i] = q
	}
	gRat := new(big.Rat).SetInt(g)
	l := st.L[r]
	for _, k := range l.Cols() {
		v := new(big.Rat).Quo(l.Coeff(k), gRat)
		l.Set(k, v)
	}
}

// MultiplyRow scales every E- and L-coefficient of row r by alpha.
func (st *Store) MultiplyRow(r ivar.Row, alpha *big.Int) {
	row := st.E[r]
	for i, c := range row.coeffs {
		row.coeffs[i] = new(big.Int).Mul(c, alpha)
	}
	alphaRat := new(big.Rat).SetInt(alpha)
	l := st.L[r]
	for _, k := range l.Cols() {
		l.Set(k, new(big.Rat).Mul(l.Coeff(k), alphaRat))
	}
}

// TransposeRows swaps the contents (not the identities) of rows i and k,
// keeping the column cross-links consistent. Callers must
// also update the entry table and substitution index, which live outside
// Store.
func (st *Store) TransposeRows(i, k ivar.Row) {
	if i == k {
		return
	}
	touchedVars := map[ivar.Var]bool{}
	for _, j := range st.E[i].cols {
		touchedVars[j] = true
	}
	for _, j := range st.E[k].cols {
		touchedVars[j] = true
	}
	touchedCols := map[int]bool{}
	for _, c := range st.L[i].Cols() {
		touchedCols[c] = true
	}
	for _, c := range st.L[k].Cols() {
		touchedCols[c] = true
	}
	for j := range touchedVars {
		st.removeColRow(j, i)
		st.removeColRow(j, k)
	}
	for c := range touchedCols {
		st.removeLColRow(c, i)
		st.removeLColRow(c, k)
	}
	st.E[i], st.E[k] = st.E[k], st.E[i]
	st.L[i], st.L[k] = st.L[k], st.L[i]
	for j := range touchedVars {
		if st.E[i].Get(j) != nil {
			st.addColRow(j, i)
		}
		if st.E[k].Get(j) != nil {
			st.addColRow(j, k)
		}
	}
	for c := range touchedCols {
		if st.L[i].Coeff(c) != nil {
			st.addLColRow(c, i)
		}
		if st.L[k].Coeff(c) != nil {
			st.addLColRow(c, k)
		}
	}
}

// Copy returns a deep copy of the store.
func (st *Store) Copy() *Store {
	out := &Store{
		E:        make([]erow, len(st.E)),
		L:        make([]*host.Term, len(st.L)),
		colRows:  make([][]ivar.Row, len(st.colRows)),
		lColRows: make(map[int][]ivar.Row, len(st.lColRows)),
		free:     append([]ivar.Row(nil), st.free...),
	}
	for i := range st.E {
		out.E[i] = st.E[i].clone()
	}
	for i := range st.L {
		out.L[i] = st.L[i].Clone()
	}
	for j, rows := range st.colRows {
		out.colRows[j] = append([]ivar.Row(nil), rows...)
	}
	for k, rows := range st.lColRows {
		out.lColRows[k] = append([]ivar.Row(nil), rows...)
	}
	return out
}
