// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package host

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Term is a sparse rational vector over host column ids, the shape the
// host's term registry hands back from GetTerm. It also doubles as an
// L-row payload: a linear combination of host term columns.
type Term struct {
	cols   []int
	coeffs []*big.Rat
}

// NewTerm returns an empty term.
func NewTerm() *Term {
	return &Term{}
}

// Len returns the number of nonzero entries.
func (t *Term) Len() int { return len(t.cols) }

// Cols returns the term's column ids in ascending order. The returned
// slice must not be mutated.
func (t *Term) Cols() []int { return t.cols }

// Coeff returns the coefficient of column j, or nil if j does not occur.
func (t *Term) Coeff(j int) *big.Rat {
	i := t.find(j)
	if i >= len(t.cols) || t.cols[i] != j {
		return nil
	}
	return t.coeffs[i]
}

func (t *Term) find(j int) int {
	return sort.Search(len(t.cols), func(i int) bool { return t.cols[i] >= j })
}

// Set sets the coefficient of column j to v, removing the entry if v is
// zero.
func (t *Term) Set(j int, v *big.Rat) {
	i := t.find(j)
	if i < len(t.cols) && t.cols[i] == j {
		if v == nil || v.Sign() == 0 {
			t.cols = append(t.cols[:i], t.cols[i+1:]...)
			t.coeffs = append(t.coeffs[:i], t.coeffs[i+1:]...)
			return
		}
		t.coeffs[i] = v
		return
	}
	if v == nil || v.Sign() == 0 {
		return
	}
	t.cols = append(t.cols, 0)
	copy(t.cols[i+1:], t.cols[i:])
	t.cols[i] = j
	t.coeffs = append(t.coeffs, nil)
	copy(t.coeffs[i+1:], t.coeffs[i:])
	t.coeffs[i] = v
}

// Add accumulates v into the coefficient of column j.
func (t *Term) Add(j int, v *big.Rat) {
	cur := t.Coeff(j)
	if cur == nil {
		t.Set(j, new(big.Rat).Set(v))
		return
	}
	t.Set(j, new(big.Rat).Add(cur, v))
}

// AddScaled accumulates alpha*src into t, entry by entry.
func (t *Term) AddScaled(alpha *big.Rat, src *Term) {
	for i, j := range src.cols {
		t.Add(j, new(big.Rat).Mul(alpha, src.coeffs[i]))
	}
}

// Clone returns a deep copy.
func (t *Term) Clone() *Term {
	out := &Term{
		cols:   append([]int(nil), t.cols...),
		coeffs: make([]*big.Rat, len(t.coeffs)),
	}
	for i, c := range t.coeffs {
		out.coeffs[i] = new(big.Rat).Set(c)
	}
	return out
}

func (t *Term) String() string {
	var sb strings.Builder
	for i, j := range t.cols {
		if i > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%s*col%d", t.coeffs[i].RatString(), j)
	}
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}
