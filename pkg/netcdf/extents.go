package netcdf

import "fmt"

// Extents selects a hyperslab of a variable. The zero value selects the
// whole variable.
type Extents struct {
	start  []int
	count  []int
	stride []int
	set    bool
}

// All selects every element of a variable.
func All() Extents { return Extents{} }

// Index selects the single element at idx.
func Index(idx ...int) Extents {
	count := make([]int, len(idx))
	for i := range count {
		count[i] = 1
	}
	return Extents{start: append([]int{}, idx...), count: count, set: true}
}

// Slab selects count elements from start along each dimension. A count of
// -1 extends to the end of the dimension; when writing along an unlimited
// dimension it is taken from the length of the data.
func Slab(start, count []int) Extents {
	return Extents{start: append([]int{}, start...), count: append([]int{}, count...), set: true}
}

// WithStride returns a copy of e that steps stride[i] elements along
// dimension i.
func (e Extents) WithStride(stride ...int) Extents {
	e.stride = append([]int{}, stride...)
	return e
}

func (e Extents) String() string {
	if !e.set {
		return "all"
	}
	s := fmt.Sprintf("start=%v count=%v", e.start, e.count)
	if e.stride != nil {
		s += fmt.Sprintf(" stride=%v", e.stride)
	}
	return s
}

type selection struct {
	start, count, stride []int
}

func (s selection) len() int {
	n := 1
	for _, c := range s.count {
		n *= c
	}
	return n
}

// resolve turns e into concrete start/count/stride vectors against the
// current shape. dataLen is the number of elements being written, or -1
// for a read.
func (e Extents) resolve(shape []int, unlimited []bool, dataLen int) (selection, error) {
	n := len(shape)
	write := dataLen >= 0
	sel := selection{start: make([]int, n), count: make([]int, n)}
	if e.set {
		if len(e.start) != n || len(e.count) != n {
			return selection{}, fmt.Errorf("%w: extents %v have %d/%d dimensions, variable has %d",
				ErrDimensionMismatch, e, len(e.start), len(e.count), n)
		}
		copy(sel.start, e.start)
		copy(sel.count, e.count)
	} else {
		for i := range sel.count {
			sel.count[i] = -1
		}
	}
	if e.stride != nil {
		if len(e.stride) != n {
			return selection{}, fmt.Errorf("%w: stride %v for %d dimensions", ErrDimensionMismatch, e.stride, n)
		}
		for _, st := range e.stride {
			if st < 1 {
				return selection{}, fmt.Errorf("%w: stride %v", ErrInvalidArgument, e.stride)
			}
		}
		sel.stride = append([]int{}, e.stride...)
	}

	step := func(i int) int {
		if sel.stride == nil {
			return 1
		}
		return sel.stride[i]
	}
	infer := -1
	for i := range sel.count {
		if sel.start[i] < 0 {
			return selection{}, fmt.Errorf("%w: negative start %v", ErrInvalidArgument, sel.start)
		}
		switch {
		case sel.count[i] >= 0:
			continue
		case sel.count[i] != -1:
			return selection{}, fmt.Errorf("%w: count %v", ErrInvalidArgument, sel.count)
		case write && unlimited[i]:
			if infer >= 0 {
				return selection{}, fmt.Errorf("%w: more than one unlimited dimension to infer", ErrInvalidArgument)
			}
			infer = i
			continue
		}
		remaining := shape[i] - sel.start[i]
		if remaining < 0 {
			remaining = 0
		}
		sel.count[i] = (remaining + step(i) - 1) / step(i)
	}

	if infer >= 0 {
		other := 1
		for i, c := range sel.count {
			if i != infer {
				other *= c
			}
		}
		if other == 0 || dataLen%other != 0 {
			return selection{}, fmt.Errorf("%w: %d values do not fill whole records of %d",
				ErrDimensionMismatch, dataLen, other)
		}
		sel.count[infer] = dataLen / other
	}
	if write && sel.len() != dataLen {
		return selection{}, fmt.Errorf("%w: %d values for a selection of %d (%v)",
			ErrDimensionMismatch, dataLen, sel.len(), sel.count)
	}
	return sel, nil
}
