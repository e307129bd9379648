// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dio

import "github.com/go-air/dio/internal/core"

// Result is the outcome of a call to Check.
type Result int

const (
	// Undef means the iteration budget ran out before dio could
	// determine satisfiability; call Check again to keep making
	// progress.
	Undef Result = iota
	// Sat means no conflict was found and no non-fixed integer column in
	// the host's basis has a fractional current value.
	Sat
	// Conflict means the current equalities are arithmetically
	// infeasible over the integers. Explain returns the witness set.
	Conflict
	// Branch means dio asked the host to split on a column (see
	// PendingBranch) or to add a cut (see PendingCut); call
	// FindFeasibleSolution and Check again after the host applies it.
	Branch
)

func (r Result) String() string {
	switch r {
	case Undef:
		return "undef"
	case Sat:
		return "sat"
	case Conflict:
		return "conflict"
	case Branch:
		return "branch"
	default:
		return "result?"
	}
}

func fromCore(r core.Result) Result {
	switch r {
	case core.Sat:
		return Sat
	case core.Conflict:
		return Conflict
	case core.Branch:
		return Branch
	default:
		return Undef
	}
}
