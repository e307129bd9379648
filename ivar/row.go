// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ivar

import "fmt"

// Row is an index shared by the E-matrix, L-matrix and entry table.
// There is no object identity beyond this integer; transposing two rows
// means transposing their contents in every parallel array.
type Row uint32

// RowNull is the sentinel for "no row".
const RowNull Row = ^Row(0)

func (r Row) String() string {
	if r == RowNull {
		return "row<nil>"
	}
	return fmt.Sprintf("row%d", uint32(r))
}
