// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package host

// Dep is an opaque dependency handle produced by the host's bound- and
// fixed-variable witnesses. The core never inspects a Dep; it only joins
// them (MkJoin) and, at the end of a derivation, flattens them into
// constraint indices (Flatten) for the explanation it hands back to its
// caller.
type Dep interface{}

// BoundKind distinguishes upper and lower bounds.
type BoundKind uint8

const (
	Upper BoundKind = iota
	Lower
)

func (k BoundKind) String() string {
	if k == Upper {
		return "upper"
	}
	return "lower"
}

// FeasStatus is the result of a call to FindFeasibleSolution.
type FeasStatus int

const (
	Infeasible FeasStatus = iota
	Feasible
	Cancelled
)
