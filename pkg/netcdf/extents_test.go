package netcdf

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		e         Extents
		shape     []int
		unlimited []bool
		dataLen   int
		start     []int
		count     []int
		err       error
	}{
		{name: "all", e: All(), shape: []int{2, 3}, unlimited: []bool{false, false}, dataLen: -1,
			start: []int{0, 0}, count: []int{2, 3}},
		{name: "index", e: Index(1, 2), shape: []int{2, 3}, unlimited: []bool{false, false}, dataLen: -1,
			start: []int{1, 2}, count: []int{1, 1}},
		{name: "to end", e: Slab([]int{1, 1}, []int{-1, -1}), shape: []int{4, 3}, unlimited: []bool{false, false}, dataLen: -1,
			start: []int{1, 1}, count: []int{3, 2}},
		{name: "strided to end", e: Slab([]int{0}, []int{-1}).WithStride(3), shape: []int{7}, unlimited: []bool{false}, dataLen: -1,
			start: []int{0}, count: []int{3}},
		{name: "start past end", e: Slab([]int{5}, []int{-1}), shape: []int{3}, unlimited: []bool{false}, dataLen: -1,
			start: []int{5}, count: []int{0}},
		{name: "infer records", e: All(), shape: []int{0, 4}, unlimited: []bool{true, false}, dataLen: 12,
			start: []int{0, 0}, count: []int{3, 4}},
		{name: "read records", e: All(), shape: []int{2, 4}, unlimited: []bool{true, false}, dataLen: -1,
			start: []int{0, 0}, count: []int{2, 4}},
		{name: "partial records", e: All(), shape: []int{0, 4}, unlimited: []bool{true, false}, dataLen: 6,
			err: ErrDimensionMismatch},
		{name: "wrong rank", e: Index(1), shape: []int{2, 3}, unlimited: []bool{false, false}, dataLen: -1,
			err: ErrDimensionMismatch},
		{name: "length mismatch", e: All(), shape: []int{2, 3}, unlimited: []bool{false, false}, dataLen: 5,
			err: ErrDimensionMismatch},
		{name: "negative start", e: Slab([]int{-1}, []int{1}), shape: []int{3}, unlimited: []bool{false}, dataLen: -1,
			err: ErrInvalidArgument},
		{name: "bad count", e: Slab([]int{0}, []int{-2}), shape: []int{3}, unlimited: []bool{false}, dataLen: -1,
			err: ErrInvalidArgument},
		{name: "zero stride", e: All().WithStride(0), shape: []int{3}, unlimited: []bool{false}, dataLen: -1,
			err: ErrInvalidArgument},
		{name: "scalar", e: All(), shape: []int{}, unlimited: []bool{}, dataLen: 1,
			start: []int{}, count: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := tt.e.resolve(tt.shape, tt.unlimited, tt.dataLen)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("resolve error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if !equalInts(sel.start, tt.start) || !equalInts(sel.count, tt.count) {
				t.Fatalf("resolve = start %v count %v, want start %v count %v", sel.start, sel.count, tt.start, tt.count)
			}
		})
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestExtentsString(t *testing.T) {
	if got := All().String(); got != "all" {
		t.Fatalf("All().String() = %q", got)
	}
	got := Slab([]int{0, 1}, []int{2, 2}).WithStride(1, 2).String()
	if want := "start=[0 1] count=[2 2] stride=[1 2]"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
