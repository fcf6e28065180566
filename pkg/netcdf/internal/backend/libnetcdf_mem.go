//go:build cgo && netcdf_c

package backend

/*
#include <stdlib.h>
#include <netcdf.h>
*/
import "C"

import (
	"runtime"
	"unsafe"
)

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func goInts(s []C.int) []int {
	out := make([]int, len(s))
	for i, x := range s {
		out[i] = int(x)
	}
	return out
}

func cInts(s []int) []C.int {
	out := make([]C.int, len(s))
	for i, x := range s {
		out[i] = C.int(x)
	}
	return out
}

func cSizes(s []int) []C.size_t {
	if s == nil {
		return nil
	}
	out := make([]C.size_t, len(s))
	for i, x := range s {
		out[i] = C.size_t(x)
	}
	return out
}

func cDiffs(s []int) []C.ptrdiff_t {
	if s == nil {
		return nil
	}
	out := make([]C.ptrdiff_t, len(s))
	for i, x := range s {
		out[i] = C.ptrdiff_t(x)
	}
	return out
}

func intPtr(s []C.int) *C.int {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

func sizePtr(s []C.size_t) *C.size_t {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

func diffPtr(s []C.ptrdiff_t) *C.ptrdiff_t {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

func charPtr(s []*C.char) **C.char {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

// cStrings copies ss into C memory. release frees every string.
func cStrings(ss []string) ([]*C.char, func()) {
	ptrs := make([]*C.char, len(ss))
	for i, s := range ss {
		ptrs[i] = C.CString(s)
	}
	return ptrs, func() {
		for _, p := range ptrs {
			C.free(unsafe.Pointer(p))
		}
	}
}

// dataPtr pins the first element of a numeric slice for the duration of a
// native call.
func dataPtr(data any) (unsafe.Pointer, func(), error) {
	var p unsafe.Pointer
	switch s := data.(type) {
	case []int8:
		p = unsafe.Pointer(unsafe.SliceData(s))
	case []uint8:
		p = unsafe.Pointer(unsafe.SliceData(s))
	case []int16:
		p = unsafe.Pointer(unsafe.SliceData(s))
	case []uint16:
		p = unsafe.Pointer(unsafe.SliceData(s))
	case []int32:
		p = unsafe.Pointer(unsafe.SliceData(s))
	case []uint32:
		p = unsafe.Pointer(unsafe.SliceData(s))
	case []int64:
		p = unsafe.Pointer(unsafe.SliceData(s))
	case []uint64:
		p = unsafe.Pointer(unsafe.SliceData(s))
	case []float32:
		p = unsafe.Pointer(unsafe.SliceData(s))
	case []float64:
		p = unsafe.Pointer(unsafe.SliceData(s))
	default:
		return nil, nil, EBadType
	}
	if p == nil {
		return nil, func() {}, nil
	}
	var pinner runtime.Pinner
	pinner.Pin(p)
	return p, pinner.Unpin, nil
}
