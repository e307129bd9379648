package ivar

import (
	"fmt"
	"testing"
)

func TestVarString(t *testing.T) {
	v := Var(33)
	if fmt.Sprintf("%s", v) != fmt.Sprintf("x%d", uint32(v)) {
		t.Errorf("format.")
	}
}

func TestRowNull(t *testing.T) {
	if RowNull.String() != "row<nil>" {
		t.Errorf("wrong RowNull string: %s", RowNull)
	}
	r := Row(7)
	if r.String() != "row7" {
		t.Errorf("wrong Row string: %s", r)
	}
}

func TestStatusString(t *testing.T) {
	for _, s := range []Status{F, S, NoSNoF} {
		if s.String() == "Status(?)" {
			t.Errorf("missing String() case for %d", s)
		}
	}
}
