// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

import (
	"math/big"

	"github.com/go-air/dio/ivar"
)

// EntryTable holds, for every row i, its constant term c_i and status
// (C3), plus the F and S work lists. Lists are kept as slices with a
// position index for O(1) removal rather than a linked list, since Go
// slices beat pointer-chasing lists for this size of data.
type EntryTable struct {
	c      []*big.Int
	status []ivar.Status

	fList []ivar.Row
	fPos  map[ivar.Row]int
	sList []ivar.Row
	sPos  map[ivar.Row]int
}

// NewEntryTable creates an empty entry table.
func NewEntryTable() *EntryTable {
	return &EntryTable{
		fPos: map[ivar.Row]int{},
		sPos: map[ivar.Row]int{},
	}
}

func (et *EntryTable) grow(n int) {
	for len(et.c) <= n {
		et.c = append(et.c, nil)
		et.status = append(et.status, ivar.NoSNoF)
	}
}

// Set installs row r with constant c and status, inserting it into the
// corresponding list. Row r must not already be present in a list (use
// Remove first if reassigning a recycled slot).
func (et *EntryTable) Set(r ivar.Row, c *big.Int, status ivar.Status) {
	et.grow(int(r))
	et.c[r] = c
	et.status[r] = status
	switch status {
	case ivar.F:
		et.fPos[r] = len(et.fList)
		et.fList = append(et.fList, r)
	case ivar.S:
		et.sPos[r] = len(et.sList)
		et.sList = append(et.sList, r)
	}
}

// C returns row r's constant term.
func (et *EntryTable) C(r ivar.Row) *big.Int { return et.c[r] }

// SetC updates row r's constant term without touching status.
func (et *EntryTable) SetC(r ivar.Row, c *big.Int) { et.c[r] = c }

// Status returns row r's status.
func (et *EntryTable) Status(r ivar.Row) ivar.Status { return et.status[r] }

// MoveToS transitions row r from F (or NoSNoF) to S.
func (et *EntryTable) MoveToS(r ivar.Row) {
	et.removeFromList(r)
	et.status[r] = ivar.S
	et.sPos[r] = len(et.sList)
	et.sList = append(et.sList, r)
}

// MoveToF transitions row r from S (or NoSNoF) to F.
func (et *EntryTable) MoveToF(r ivar.Row) {
	et.removeFromList(r)
	et.status[r] = ivar.F
	et.fPos[r] = len(et.fList)
	et.fList = append(et.fList, r)
}

// MoveToNoSNoF removes row r from whichever list it is in, leaving it
// unlisted.
func (et *EntryTable) MoveToNoSNoF(r ivar.Row) {
	et.removeFromList(r)
	et.status[r] = ivar.NoSNoF
}

func (et *EntryTable) removeFromList(r ivar.Row) {
	switch et.status[r] {
	case ivar.F:
		et.removeAt(&et.fList, et.fPos, r)
	case ivar.S:
		et.removeAt(&et.sList, et.sPos, r)
	}
}

func (et *EntryTable) removeAt(list *[]ivar.Row, pos map[ivar.Row]int, r ivar.Row) {
	l := *list
	i, ok := pos[r]
	if !ok {
		return
	}
	last := len(l) - 1
	l[i] = l[last]
	pos[l[i]] = i
	*list = l[:last]
	delete(pos, r)
}

// PopF returns the first row of F without removing it from F, or
// (RowNull, false) if F is empty.
func (et *EntryTable) PopF() (ivar.Row, bool) {
	if len(et.fList) == 0 {
		return ivar.RowNull, false
	}
	r := et.fList[0]
	return r, true
}

// FLen returns the number of rows currently in F.
func (et *EntryTable) FLen() int { return len(et.fList) }

// FRows returns a snapshot of the current F list.
func (et *EntryTable) FRows() []ivar.Row {
	return append([]ivar.Row(nil), et.fList...)
}

// SRows returns a snapshot of the current S list.
func (et *EntryTable) SRows() []ivar.Row {
	return append([]ivar.Row(nil), et.sList...)
}

// Copy returns a deep copy of the entry table.
func (et *EntryTable) Copy() *EntryTable {
	out := &EntryTable{
		c:      make([]*big.Int, len(et.c)),
		status: append([]ivar.Status(nil), et.status...),
		fList:  append([]ivar.Row(nil), et.fList...),
		fPos:   make(map[ivar.Row]int, len(et.fPos)),
		sList:  append([]ivar.Row(nil), et.sList...),
		sPos:   make(map[ivar.Row]int, len(et.sPos)),
	}
	for i, v := range et.c {
		if v != nil {
			out.c[i] = new(big.Int).Set(v)
		}
	}
	for k, v := range et.fPos {
		out.fPos[k] = v
	}
	for k, v := range et.sPos {
		out.sPos[k] = v
	}
	return out
}
