// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package refhost is a reference, in-memory implementation of
// host.Host: a synthetic, fully controllable stand-in for a production
// host, used by internal/core's own tests and by cmd/diocheck.
package refhost

import (
	"fmt"
	"math/big"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/go-air/dio/host"
)

// constraint records one asserted bound, stamped with a synthetic id the
// way a production host assigns a stable index to every asserted atom.
type constraint struct {
	id  int
	tag uuid.UUID
}

type column struct {
	isInt   bool
	isFixed bool
	term    *host.Term // nil for a base variable

	hasUpper bool
	upper    *big.Rat
	upStrict bool
	upDep    host.Dep

	hasLower bool
	lower    *big.Rat
	loStrict bool
	loDep    host.Dep

	value *big.Rat
}

// H is a reference host: an in-memory term/bound registry with a
// checkpoint-able trail, sufficient to drive and test an
// internal/core.S (or dio.Solver) without a real linear-arithmetic
// engine.
type H struct {
	cols map[int]*column
	next int

	constraints []constraint

	trail      []func()
	trailMarks []int

	stats host.Stats

	cutPeriod int
	rng       *rand.Rand

	onAdd    []func(int)
	onRemove []func(int)
	onBound  []func(int)
}

// New creates an empty reference host seeded for deterministic
// randomness; it owns its own *rand.Rand rather than calling into the
// package-level math/rand functions, so two hosts seeded alike never
// interfere with each other.
func New(seed int64, cutPeriod int) *H {
	return &H{
		cols:      map[int]*column{},
		cutPeriod: cutPeriod,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// AddVar registers a fresh base (non-term) integer or rational column
// and returns its id.
func (h *H) AddVar(isInt bool) int {
	h.next++
	col := h.next
	h.cols[col] = &column{isInt: isInt, value: big.NewRat(0, 1)}
	return col
}

// AddTermColumn registers a new term column defined by t at the next
// free id and notifies any OnAddTerm callback. Term columns read from an
// eqfile stream go through Vis and registerColumnAt instead.
func (h *H) AddTermColumn(t *host.Term, isInt bool) int {
	h.next++
	col := h.next
	h.cols[col] = &column{isInt: isInt, term: t.Clone(), value: big.NewRat(0, 1)}
	for _, f := range h.onAdd {
		f(col)
	}
	return col
}

// RemoveTermColumn retracts a term column, notifying OnRemoveTerm.
func (h *H) RemoveTermColumn(col int) {
	if _, ok := h.cols[col]; !ok {
		return
	}
	delete(h.cols, col)
	for _, f := range h.onRemove {
		f(col)
	}
}

func (h *H) get(col int) *column {
	c, ok := h.cols[col]
	if !ok {
		panic(fmt.Sprintf("refhost: unknown column %d", col))
	}
	return c
}

// --- host.Host: term registry ---

func (h *H) GetTerm(col int) *host.Term  { return h.get(col).term }
func (h *H) ColumnHasTerm(col int) bool  { return h.get(col).term != nil }
func (h *H) ColumnIsInt(col int) bool    { return h.get(col).isInt }
func (h *H) ColumnIsFixed(col int) bool  { return h.get(col).isFixed }
func (h *H) ColumnIsFree(col int) bool {
	c := h.get(col)
	return !c.hasUpper && !c.hasLower
}
func (h *H) ColumnIsIntInf(col int) bool {
	c := h.get(col)
	return c.isInt && !c.isFixed
}

func (h *H) Terms() []int {
	out := make([]int, 0, len(h.cols))
	for col, c := range h.cols {
		if c.term != nil {
			out = append(out, col)
		}
	}
	sort.Ints(out)
	return out
}

func (h *H) GetLowerBound(col int) *big.Rat {
	c := h.get(col)
	if !c.hasLower {
		return nil
	}
	return c.lower
}

func (h *H) GetUpperBound(col int) *big.Rat {
	c := h.get(col)
	if !c.hasUpper {
		return nil
	}
	return c.upper
}

func (h *H) HasBoundOfType(col int, kind host.BoundKind) (*big.Rat, bool, host.Dep, bool) {
	c := h.get(col)
	if kind == host.Upper {
		if !c.hasUpper {
			return nil, false, nil, false
		}
		return c.upper, c.upStrict, c.upDep, true
	}
	if !c.hasLower {
		return nil, false, nil, false
	}
	return c.lower, c.loStrict, c.loDep, true
}

// --- host.Host: mutation ---

func (h *H) UpdateColumnTypeAndBound(col int, kind host.BoundKind, value *big.Rat, dep host.Dep) {
	c := h.get(col)
	prevHasUpper := c.hasUpper
	prevHasLower := c.hasLower
	oldUp, oldUpS, oldUpD := c.upper, c.upStrict, c.upDep
	oldLo, oldLoS, oldLoD := c.lower, c.loStrict, c.loDep

	if kind == host.Upper {
		c.hasUpper, c.upper, c.upStrict, c.upDep = true, value, false, dep
	} else {
		c.hasLower, c.lower, c.loStrict, c.loDep = true, value, false, dep
	}
	h.trailPushLocal(func() {
		c.hasUpper, c.upper, c.upStrict, c.upDep = prevHasUpper, oldUp, oldUpS, oldUpD
		c.hasLower, c.lower, c.loStrict, c.loDep = prevHasLower, oldLo, oldLoS, oldLoD
	})
	if c.hasUpper && c.hasLower && c.upper.Cmp(c.lower) == 0 {
		c.isFixed = true
		c.value = c.upper
	}
	for _, f := range h.onBound {
		f(col)
	}
}

func (h *H) AddVarBound(col int, kind host.BoundKind, value *big.Rat) {
	h.constraints = append(h.constraints, constraint{id: len(h.constraints), tag: uuid.New()})
	dep := host.Dep([]int{len(h.constraints) - 1})
	h.UpdateColumnTypeAndBound(col, kind, value, dep)
}

func (h *H) Push() {
	h.trailMarks = append(h.trailMarks, len(h.trail))
}

func (h *H) Pop() {
	if len(h.trailMarks) == 0 {
		return
	}
	mark := h.trailMarks[len(h.trailMarks)-1]
	h.trailMarks = h.trailMarks[:len(h.trailMarks)-1]
	for i := len(h.trail) - 1; i >= mark; i-- {
		h.trail[i]()
	}
	h.trail = h.trail[:mark]
}

func (h *H) trailPushLocal(undo func()) {
	h.trail = append(h.trail, undo)
}

func (h *H) TrailPush(undo func()) {
	h.trail = append(h.trail, undo)
}

func (h *H) FindFeasibleSolution() host.FeasStatus {
	for _, c := range h.cols {
		if c.hasLower && c.hasUpper && c.lower.Cmp(c.upper) > 0 {
			return host.Infeasible
		}
	}
	return host.Feasible
}

// --- host.Host: dependencies ---

func (h *H) ColumnUpperBoundWitness(col int) host.Dep { return h.get(col).upDep }
func (h *H) ColumnLowerBoundWitness(col int) host.Dep { return h.get(col).loDep }

func (h *H) BoundConstraintWitnesses(col int) host.Dep {
	return h.MkJoin(h.get(col).upDep, h.get(col).loDep)
}

func (h *H) MkJoin(a, b host.Dep) host.Dep {
	sa, _ := a.([]int)
	sb, _ := b.([]int)
	if len(sa) == 0 {
		return sb
	}
	if len(sb) == 0 {
		return sa
	}
	seen := map[int]bool{}
	out := make([]int, 0, len(sa)+len(sb))
	for _, x := range append(append([]int{}, sa...), sb...) {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Ints(out)
	return out
}

func (h *H) Flatten(d host.Dep) []int {
	s, _ := d.([]int)
	return append([]int(nil), s...)
}

func (h *H) InfeasibilityExplanation() []int {
	out := make([]int, len(h.constraints))
	for i, c := range h.constraints {
		out[i] = c.id
	}
	return out
}

// --- host.Host: branching support ---

func (h *H) RBasis() []int { return h.Terms() }

func (h *H) ColumnValue(col int) *big.Rat { return h.get(col).value }

// SetColumnValue lets a caller (typically a test) stamp the host's
// current model value for a column, the value C8/C9 read back via
// ColumnValue.
func (h *H) SetColumnValue(col int, v *big.Rat) { h.get(col).value = v }

// --- host.Host: stats/settings ---

func (h *H) Stats() *host.Stats      { return &h.stats }
func (h *H) CutFromProofPeriod() int { return h.cutPeriod }
func (h *H) RandomNext() uint64      { return h.rng.Uint64() }

// --- host.Host: callback registration ---

func (h *H) OnAddTerm(f func(int))          { h.onAdd = append(h.onAdd, f) }
func (h *H) OnRemoveTerm(f func(int))       { h.onRemove = append(h.onRemove, f) }
func (h *H) OnUpdateColumnBound(f func(int)) { h.onBound = append(h.onBound, f) }
