// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package core

// ChangeTracker buffers host notifications between check() calls (C5).
// The callbacks registered with the host only enqueue work here; they
// never touch the row store directly.
type ChangeTracker struct {
	pendingAdd  []int
	pendingSet  map[int]bool
	changedCols []int
	changedSet  map[int]bool
}

// NewChangeTracker creates an empty tracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		pendingSet: map[int]bool{},
		changedSet: map[int]bool{},
	}
}

// QueueAdd records that host term column col was activated.
func (ct *ChangeTracker) QueueAdd(col int) {
	if ct.pendingSet[col] {
		return
	}
	ct.pendingSet[col] = true
	ct.pendingAdd = append(ct.pendingAdd, col)
}

// CancelAdd pops col from the pending-add queue if it is there (used
// when a term column is removed before it was ever activated). Reports
// whether col was found.
func (ct *ChangeTracker) CancelAdd(col int) bool {
	if !ct.pendingSet[col] {
		return false
	}
	delete(ct.pendingSet, col)
	for i, c := range ct.pendingAdd {
		if c == col {
			ct.pendingAdd = append(ct.pendingAdd[:i], ct.pendingAdd[i+1:]...)
			break
		}
	}
	return true
}

// QueueChangedColumn records that host column col's bound/fixed status
// changed and its rows need recomputation on the next check().
func (ct *ChangeTracker) QueueChangedColumn(col int) {
	if ct.changedSet[col] {
		return
	}
	ct.changedSet[col] = true
	ct.changedCols = append(ct.changedCols, col)
}

// DrainAdds returns and clears the pending-add queue.
func (ct *ChangeTracker) DrainAdds() []int {
	out := ct.pendingAdd
	ct.pendingAdd = nil
	ct.pendingSet = map[int]bool{}
	return out
}

// DrainChangedColumns returns and clears the changed-columns queue.
func (ct *ChangeTracker) DrainChangedColumns() []int {
	out := ct.changedCols
	ct.changedCols = nil
	ct.changedSet = map[int]bool{}
	return out
}

// Idle reports whether both queues are empty, the steady state expected
// across check() boundaries.
func (ct *ChangeTracker) Idle() bool {
	return len(ct.pendingAdd) == 0 && len(ct.changedCols) == 0
}
