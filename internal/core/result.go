// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

// Result is the outcome of a top-level Check.
type Result int

const (
	// Undef means no conflict was found and the branching iteration budget
	// ran out before a branch was created or Sat was established; the row
	// store is internally consistent but integer feasibility of the whole
	// problem is still undetermined.
	Undef Result = iota
	// Sat means no conflict was found and no non-fixed integer column in
	// the host's basis has a fractional current value.
	Sat
	// Conflict means the current equalities are arithmetically infeasible
	// over the integers; Explain() returns the witness set.
	Conflict
	// Branch means dio could not resolve an equation on its own and has
	// handed the host a branching literal or cut to apply.
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
