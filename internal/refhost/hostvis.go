// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package refhost

import (
	"math/big"

	"github.com/go-air/dio/host"
	"github.com/go-air/dio/internal/eqfile"
)

// Vis builds an *H from an eqfile stream, turning the parser's callback
// sequence into a populated reference host.
type Vis struct {
	h       *H
	pending []pendingTerm
}

type pendingTerm struct {
	col     int
	entries []eqfile.TermEntry
}

// NewVis creates a Vis over a fresh reference host, seeded for
// deterministic tie-breaks and reporting cutPeriod as its cut-from-proof
// period (a non-positive value disables cuts).
func NewVis(seed int64, cutPeriod int) *Vis {
	return &Vis{h: New(seed, cutPeriod)}
}

// H returns the reference host built from the stream, valid after Eof.
func (v *Vis) H() *H { return v.h }

func (v *Vis) Init(nVars, nEqs int) {
	v.pending = make([]pendingTerm, 0, nEqs)
}

func (v *Vis) Var(col int, isInt bool) {
	v.h.registerColumnAt(col, isInt, nil)
}

func (v *Vis) Bound(col int, kind host.BoundKind, value *big.Rat) {
	v.h.AddVarBound(col, kind, value)
}

func (v *Vis) Term(col int, entries []eqfile.TermEntry) {
	// Term columns may reference columns declared later in the file
	// (forward references are common in hand-written systems); defer
	// building the host.Term until Eof, once every "v"/"t" has been seen.
	v.pending = append(v.pending, pendingTerm{col: col, entries: entries})
}

func (v *Vis) Eof() {
	for _, p := range v.pending {
		t := host.NewTerm()
		for _, e := range p.entries {
			t.Add(e.Col, e.Coeff)
		}
		v.h.registerColumnAt(p.col, true, t)
	}
}

// registerColumnAt installs a column at an explicit id from the file
// (rather than letting AddVar/AddTermColumn allocate the next id), and
// fires the OnAddTerm callback for term columns exactly as AddTermColumn
// does.
func (h *H) registerColumnAt(col int, isInt bool, term *host.Term) {
	c := &column{isInt: isInt, value: big.NewRat(0, 1)}
	if term != nil {
		c.term = term.Clone()
	}
	h.cols[col] = c
	if col > h.next {
		h.next = col
	}
	if term != nil {
		for _, f := range h.onAdd {
			f(col)
		}
	}
}
