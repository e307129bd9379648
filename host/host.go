// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package host describes the interface the dio core consumes from (and
// the small mutations it produces for) the surrounding linear-arithmetic
// solver: the seam between the engine and whatever drives it.
package host

import "math/big"

// Host is the set of operations the dio core needs from the external
// linear-arithmetic solver. A production LRA solver implements it; tests
// and cmd/diocheck use internal/refhost's in-memory implementation.
type Host interface {
	// Term registry.
	GetTerm(col int) *Term
	ColumnHasTerm(col int) bool
	Terms() []int
	ColumnIsInt(col int) bool
	ColumnIsFixed(col int) bool
	ColumnIsFree(col int) bool
	ColumnIsIntInf(col int) bool
	GetLowerBound(col int) *big.Rat
	GetUpperBound(col int) *big.Rat
	// HasBoundOfType returns the bound value, its strictness, a witness
	// dependency for it, and whether it exists at all.
	HasBoundOfType(col int, kind BoundKind) (value *big.Rat, strict bool, dep Dep, ok bool)

	// Mutation.
	UpdateColumnTypeAndBound(col int, kind BoundKind, value *big.Rat, dep Dep)
	AddVarBound(col int, kind BoundKind, value *big.Rat)
	Push()
	Pop()
	FindFeasibleSolution() FeasStatus

	// Dependencies.
	ColumnUpperBoundWitness(col int) Dep
	ColumnLowerBoundWitness(col int) Dep
	BoundConstraintWitnesses(col int) Dep
	MkJoin(a, b Dep) Dep
	Flatten(d Dep) []int
	InfeasibilityExplanation() []int

	// Trail: undo is invoked when the host's trail unwinds past the point
	// it was pushed at.
	TrailPush(undo func())

	// Branching support.
	RBasis() []int
	ColumnValue(col int) *big.Rat

	// Stats and settings.
	Stats() *Stats
	CutFromProofPeriod() int
	RandomNext() uint64

	// Callback registration. An explicit context object (the Host itself,
	// via method value) is passed rather than a closure capturing implicit
	// lifetimes.
	OnAddTerm(func(termCol int))
	OnRemoveTerm(func(termCol int))
	OnUpdateColumnBound(func(col int))
}
