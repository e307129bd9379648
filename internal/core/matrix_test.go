package core

import (
	"math/big"
	"testing"

	"github.com/go-air/dio/ivar"
)

func bi(n int64) *big.Int { return big.NewInt(n) }

func TestStoreSetGetE(t *testing.T) {
	st := NewStore(8)
	r := st.AddRow()
	st.SetE(r, 1, bi(3))
	st.SetE(r, 2, bi(-5))
	if got := st.GetE(r, 1); got == nil || got.Cmp(bi(3)) != 0 {
		t.Fatalf("GetE(r,1) = %v, want 3", got)
	}
	if got := st.GetE(r, 2); got == nil || got.Cmp(bi(-5)) != 0 {
		t.Fatalf("GetE(r,2) = %v, want -5", got)
	}
	if n := st.ERowLen(r); n != 2 {
		t.Fatalf("ERowLen = %d, want 2", n)
	}
	st.SetE(r, 1, bi(0))
	if got := st.GetE(r, 1); got != nil {
		t.Fatalf("setting to 0 should remove the entry, got %v", got)
	}
}

func TestStoreColRowsIndex(t *testing.T) {
	st := NewStore(8)
	r1 := st.AddRow()
	r2 := st.AddRow()
	st.SetE(r1, 5, bi(1))
	st.SetE(r2, 5, bi(2))
	rows := st.ColRows(5)
	if len(rows) != 2 {
		t.Fatalf("ColRows(5) = %v, want 2 rows", rows)
	}
	st.SetE(r1, 5, bi(0))
	rows = st.ColRows(5)
	if len(rows) != 1 || rows[0] != r2 {
		t.Fatalf("ColRows(5) after removing r1 = %v, want [%v]", rows, r2)
	}
}

func TestStoreAddRows(t *testing.T) {
	st := NewStore(8)
	src := st.AddRow()
	dst := st.AddRow()
	st.SetE(src, 1, bi(2))
	st.SetE(src, 2, bi(3))
	st.SetE(dst, 1, bi(5))
	st.AddRows(bi(-1), src, dst) // dst -= src
	if got := st.GetE(dst, 1); got == nil || got.Cmp(bi(3)) != 0 {
		t.Fatalf("GetE(dst,1) = %v, want 3", got)
	}
	if got := st.GetE(dst, 2); got == nil || got.Cmp(bi(-3)) != 0 {
		t.Fatalf("GetE(dst,2) = %v, want -3", got)
	}
}

func TestStoreDivideRowExact(t *testing.T) {
	st := NewStore(8)
	r := st.AddRow()
	st.SetE(r, 1, bi(6))
	st.SetE(r, 2, bi(-9))
	st.DivideRowExact(r, bi(3))
	if got := st.GetE(r, 1); got.Cmp(bi(2)) != 0 {
		t.Fatalf("GetE(r,1) = %v, want 2", got)
	}
	if got := st.GetE(r, 2); got.Cmp(bi(-3)) != 0 {
		t.Fatalf("GetE(r,2) = %v, want -3", got)
	}
}

func TestStoreRemoveRowRecycles(t *testing.T) {
	st := NewStore(8)
	r := st.AddRow()
	st.SetE(r, 1, bi(1))
	st.RemoveRow(r)
	if rows := st.ColRows(1); len(rows) != 0 {
		t.Fatalf("ColRows(1) after RemoveRow = %v, want empty", rows)
	}
	r2 := st.AddRow()
	if r2 != r {
		t.Fatalf("AddRow after RemoveRow = %v, want recycled slot %v", r2, r)
	}
}

func TestEntryTableFSPartition(t *testing.T) {
	et := NewEntryTable()
	et.Set(0, bi(0), ivar.F)
	et.Set(1, bi(0), ivar.F)
	et.Set(2, bi(0), ivar.S)
	if et.FLen() != 2 {
		t.Fatalf("FLen() = %d, want 2", et.FLen())
	}
	et.MoveToS(0)
	if et.FLen() != 1 {
		t.Fatalf("FLen() after MoveToS = %d, want 1", et.FLen())
	}
	if len(et.SRows()) != 2 {
		t.Fatalf("SRows() = %v, want 2 rows", et.SRows())
	}
}
