// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

import "github.com/go-air/dio/ivar"

// FreshDef records that fresh local xt was defined by row DefiningRow
// while eliminating k from OriginRow.
type FreshDef struct {
	DefiningRow ivar.Row
	OriginRow   ivar.Row
}

// Subst is the substitution index: which S-row eliminates a given
// variable, and, for fresh variables, which row defines them and which
// row they arose from.
type Subst struct {
	subst     []ivar.Row
	freshDefs map[ivar.Var]FreshDef
}

// NewSubst creates an empty substitution index.
func NewSubst() *Subst {
	return &Subst{freshDefs: map[ivar.Var]FreshDef{}}
}

func (s *Subst) grow(n int) {
	for len(s.subst) <= n {
		s.subst = append(s.subst, ivar.RowNull)
	}
}

// Row returns the S-row eliminating k, or ivar.RowNull if k is not
// substituted.
func (s *Subst) Row(k ivar.Var) ivar.Row {
	if int(k) >= len(s.subst) {
		return ivar.RowNull
	}
	return s.subst[k]
}

// Set records that row r eliminates variable k.
func (s *Subst) Set(k ivar.Var, r ivar.Row) {
	s.grow(int(k))
	s.subst[k] = r
}

// Clear removes any substitution recorded for k.
func (s *Subst) Clear(k ivar.Var) {
	if int(k) < len(s.subst) {
		s.subst[k] = ivar.RowNull
	}
}

// ClearRow removes any substitution entry pointing at row r. Called from
// every row-reclassification path so the index never holds a stale
// pointer into a row that has left S.
func (s *Subst) ClearRow(r ivar.Row) {
	for k, rr := range s.subst {
		if rr == r {
			s.subst[k] = ivar.RowNull
		}
	}
}

// SetFreshDef records the defining/origin rows for fresh variable xt.
func (s *Subst) SetFreshDef(xt ivar.Var, fd FreshDef) {
	s.freshDefs[xt] = fd
}

// GetFreshDef returns xt's fresh-definition record, if any.
func (s *Subst) GetFreshDef(xt ivar.Var) (FreshDef, bool) {
	fd, ok := s.freshDefs[xt]
	return fd, ok
}

// RemoveFreshDef deletes xt's fresh-definition record.
func (s *Subst) RemoveFreshDef(xt ivar.Var) {
	delete(s.freshDefs, xt)
}

// Copy returns a deep copy of the substitution index.
func (s *Subst) Copy() *Subst {
	out := &Subst{
		subst:     append([]ivar.Row(nil), s.subst...),
		freshDefs: make(map[ivar.Var]FreshDef, len(s.freshDefs)),
	}
	for k, v := range s.freshDefs {
		out.freshDefs[k] = v
	}
	return out
}
