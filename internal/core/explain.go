// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

import "github.com/go-air/dio/ivar"

// Explain returns the witness set for the most recent Conflict result.
// It follows one of two paths: when a conflicting row exists (a
// normalize or rewrite conflict), it returns the host term column ids in
// that row's L-row, without expanding them into host constraint indices;
// otherwise the conflict was detected during tightening or branching and
// its host constraint indices were already flattened and stashed by that
// code path.
func (s *S) Explain() []int {
	if s.conflictRow != ivar.RowNull {
		return s.explainRow(s.conflictRow)
	}
	return s.conflictExplain
}

// explainRow reads off the host term columns touched by a conflicting
// row's L-row: each nonzero L entry names a term whose host-level
// constraints contributed to the derivation that produced the conflict.
func (s *S) explainRow(r ivar.Row) []int {
	l := s.store.L_(r)
	cols := l.Cols()
	if len(cols) == 0 {
		return nil
	}
	out := make([]int, len(cols))
	copy(out, cols)
	return out
}
