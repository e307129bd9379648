// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package host

// Stats holds the host's running counters for the decision procedure.
// Each field's doc comment records the lowercase counter name it stands
// in for, since those names show up in trace output and log lines.
type Stats struct {
	DioCalls               int64 // m_dio_calls
	DioCutFromProofs       int64 // m_dio_cut_from_proofs
	DioNormalizeConflicts  int64 // m_dio_normalize_conflicts
	DioRewriteConflicts    int64 // m_dio_rewrite_conflicts
	DioTightenConflicts    int64 // m_dio_tighten_conflicts
	DioBranchIterations    int64 // m_dio_branch_iterations
	DioBranchingSats       int64 // m_dio_branching_sats
	DioBranchingInfeasible int64 // m_dio_branching_infeasibles
	DioBranchingDepth      int   // m_dio_branching_depth
}

// Merge folds delta's cumulative counters into st and resets delta to
// its zero value, a read-and-reset contract for periodic reporting.
func (st *Stats) Merge(delta *Stats) {
	st.DioCalls += delta.DioCalls
	st.DioCutFromProofs += delta.DioCutFromProofs
	st.DioNormalizeConflicts += delta.DioNormalizeConflicts
	st.DioRewriteConflicts += delta.DioRewriteConflicts
	st.DioTightenConflicts += delta.DioTightenConflicts
	st.DioBranchIterations += delta.DioBranchIterations
	st.DioBranchingSats += delta.DioBranchingSats
	st.DioBranchingInfeasible += delta.DioBranchingInfeasible
	if delta.DioBranchingDepth > st.DioBranchingDepth {
		st.DioBranchingDepth = delta.DioBranchingDepth
	}
	*delta = Stats{}
}
