// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

import "github.com/go-air/dio/ivar"

// Register is a bijection between host column ids and local ids. Ids
// are allocated densely starting at 1, 0 is the null sentinel, and
// capacity grows by doubling.
type Register struct {
	// localExt[j] is the host column id for local j, or ivar.ExtNone if j
	// is fresh.
	localExt []int
	extLocal map[int]ivar.Var
	max      ivar.Var
}

// NewRegister creates a Register with capacity hint capHint.
func NewRegister(capHint int) *Register {
	if capHint < 1 {
		capHint = 1
	}
	return &Register{
		localExt: make([]int, capHint+1),
		extLocal: make(map[int]ivar.Var, capHint),
	}
}

// Max returns the highest allocated local id.
func (r *Register) Max() ivar.Var { return r.max }

// Add returns the local id for host column ext, allocating a new one if
// necessary.
func (r *Register) Add(ext int) ivar.Var {
	if j, ok := r.extLocal[ext]; ok {
		return j
	}
	j := r.alloc()
	r.localExt[j] = ext
	r.extLocal[ext] = j
	return j
}

// AddFresh allocates a local id with no host counterpart.
func (r *Register) AddFresh() ivar.Var {
	j := r.alloc()
	r.localExt[j] = ivar.ExtNone
	return j
}

func (r *Register) alloc() ivar.Var {
	r.max++
	j := r.max
	if int(j) >= len(r.localExt) {
		r.growTo(int(j) * 2)
	}
	return j
}

func (r *Register) growTo(n int) {
	grown := make([]int, n+1)
	copy(grown, r.localExt)
	r.localExt = grown
}

// IsFresh reports whether j has no host counterpart.
func (r *Register) IsFresh(j ivar.Var) bool {
	if int(j) >= len(r.localExt) {
		return false
	}
	return r.localExt[j] == ivar.ExtNone
}

// External returns the host column id for j, and false if j is fresh or
// unallocated.
func (r *Register) External(j ivar.Var) (int, bool) {
	if j == ivar.VarNull || int(j) >= len(r.localExt) || j > r.max {
		return 0, false
	}
	ext := r.localExt[j]
	if ext == ivar.ExtNone {
		return 0, false
	}
	return ext, true
}

// Local returns the local id for host column ext, if registered.
func (r *Register) Local(ext int) (ivar.Var, bool) {
	j, ok := r.extLocal[ext]
	return j, ok
}

// Shrink drops locals with id >= n, used when host column capacity
// contracts after a term removal.
func (r *Register) Shrink(n ivar.Var) {
	for j := n; j <= r.max; j++ {
		if int(j) < len(r.localExt) {
			if ext := r.localExt[j]; ext != ivar.ExtNone {
				delete(r.extLocal, ext)
			}
			r.localExt[j] = ivar.ExtNone
		}
	}
	if n > 0 {
		r.max = n - 1
	} else {
		r.max = 0
	}
}

// Copy returns a deep copy of r.
func (r *Register) Copy() *Register {
	out := &Register{
		localExt: append([]int(nil), r.localExt...),
		extLocal: make(map[int]ivar.Var, len(r.extLocal)),
		max:      r.max,
	}
	for k, v := range r.extLocal {
		out.extLocal[k] = v
	}
	return out
}
