// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package ivar holds the small integer id types shared across the dio
// core: local variable ids, row indices, and row status. Ids are kept as
// tiny value types, each with its own null sentinel.
package ivar

import "fmt"

// Var is a local variable id. Local id 0 is never allocated and serves as
// VarNull.
type Var uint32

// VarNull is the zero value, never a valid allocated variable.
const VarNull Var = 0

func (v Var) String() string {
	return fmt.Sprintf("x%d", uint32(v))
}

// ExtNone marks a local variable with no host counterpart: a "fresh"
// variable introduced by the rewrite engine when no existing variable
// in a row has a coefficient of absolute value 1.
const ExtNone int = -1
