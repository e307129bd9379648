// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package dio implements a Diophantine equality solver: a decision
// procedure that tightens bounds on integer terms, detects arithmetic
// infeasibility, and branches over integer-infeasible variables,
// cooperating with an external host linear-arithmetic solver.
package dio

import (
	"math/big"

	"github.com/go-air/dio/host"
	"github.com/go-air/dio/internal/core"
)

// Solver is a concrete dio instance bound to a host.
type Solver struct {
	c *core.S
}

// New creates a Solver bound to h with default configuration,
// registering the callbacks h uses to feed it term and bound-change
// notifications.
func New(h host.Host) *Solver {
	return &Solver{c: core.NewS(h)}
}

// NewVc creates a Solver bound to h with an explicit configuration.
func NewVc(h host.Host, cfg Config) *Solver {
	return &Solver{c: core.NewSVc(h, cfg.VarCapHint, cfg.RowCapHint, cfg.MaxIterInitial, cfg.MaxIterFloor)}
}

// Copy makes an independent copy of s, for checkpointing around a
// branch push. The register, row store, entries, substitution index,
// branch stack and current branch-iteration budget are copied; queued
// host notifications, the last conflict and the pending branch or cut
// are not. The copy is not registered with the host's callbacks, which
// keep feeding s.
func (s *Solver) Copy() *Solver {
	return &Solver{c: s.c.Copy()}
}

// Check runs one pass of the decision procedure and reports the result.
func (s *Solver) Check() Result {
	return fromCore(s.c.Check())
}

// Explain returns the witness set for the most recent Conflict result.
// For a conflict found while normalizing or rewriting a row, the set is
// the host term column ids in that row's L-row, not expanded into host
// constraint indices; for a conflict found while tightening, it is the
// flattened host constraint indices of the bound witnesses involved.
// Its result is undefined unless the previous call to Check returned
// Conflict.
func (s *Solver) Explain() []int {
	return s.c.Explain()
}

// PendingCut returns the Gomory-style cut dio built for the most recent
// Branch result, or ok=false if that branch came from splitting a column
// instead (see PendingBranch).
func (s *Solver) PendingCut() (term *host.Term, offset *big.Int, isUpper bool, ok bool) {
	ct := s.c.PendingCut()
	if ct == nil {
		return nil, nil, false, false
	}
	return ct.Term, ct.Offset, ct.IsUpper, true
}

// PendingBranch returns the column, bound kind and value of the
// branching literal dio asked the host to apply for the most recent
// Branch result, or ok=false if that branch was a cut instead (see
// PendingCut).
func (s *Solver) PendingBranch() (col int, kind host.BoundKind, value *big.Rat, ok bool) {
	return s.c.PendingBranch()
}

// BranchInfeasible reports that the side of a branch pushed at depth
// turned out infeasible, letting dio retire branches once both sides
// have been explored.
func (s *Solver) BranchInfeasible(depth int) {
	s.c.BranchInfeasible(depth)
}

// Stats returns the live statistics counters dio maintains on the host.
func (s *Solver) Stats() *host.Stats {
	return s.c.Stats()
}
