//go:build !cgo || !netcdf_c

package backend

import (
	"errors"
	"io"
)

// PutVars writes a strided hyperslab. stride may be nil for unit strides.
// Writing past the current record count grows the record dimension; the
// skipped records are filled.
func (l *Lib) PutVars(ncid, varid int, start, count, stride []int, data any) error {
	ds, err := lookup(ncid)
	if err != nil {
		return err
	}
	if !ds.writable {
		return EPerm
	}
	if ds.define {
		return EInDefine
	}
	v, err := ds.variable(varid)
	if err != nil {
		return err
	}
	if !Matches(v.typ, data) {
		return EBadType
	}
	return ds.transfer(v, start, count, stride, data, true)
}

// GetVars reads a strided hyperslab into data, which must hold exactly the
// selected number of elements.
func (l *Lib) GetVars(ncid, varid int, start, count, stride []int, data any) error {
	ds, err := lookup(ncid)
	if err != nil {
		return err
	}
	if ds.define {
		return EInDefine
	}
	v, err := ds.variable(varid)
	if err != nil {
		return err
	}
	if !Matches(v.typ, data) {
		return EBadType
	}
	return ds.transfer(v, start, count, stride, data, false)
}

func (ds *dataset) transfer(v *variable, start, count, stride []int, data any, write bool) error {
	n := len(v.dimids)
	if len(start) != n || len(count) != n || (stride != nil && len(stride) != n) {
		return EInval
	}
	total := 1
	for i, id := range v.dimids {
		step := 1
		if stride != nil {
			step = stride[i]
		}
		if step < 1 {
			return EStride
		}
		if start[i] < 0 {
			return EInvalCoords
		}
		if count[i] < 0 {
			return EEdge
		}
		total *= count[i]
		unlimited := ds.dims[id].length == Unlimited
		if write && unlimited {
			continue
		}
		length := ds.dimLen(id)
		if start[i] > length || (count[i] > 0 && start[i] == length) {
			return EInvalCoords
		}
		if count[i] > 0 && start[i]+(count[i]-1)*step >= length {
			return EEdge
		}
	}
	if SliceLen(data) != total {
		return EInval
	}
	if total == 0 {
		return nil
	}

	if write && ds.isRecord(v) {
		step := 1
		if stride != nil {
			step = stride[0]
		}
		last := start[0] + (count[0]-1)*step
		for r := ds.numrecs; r <= last; r++ {
			if err := ds.file.FillRecord(r); err != nil {
				return statusOf(err)
			}
		}
		if last >= ds.numrecs {
			ds.numrecs = last + 1
		}
	}

	// cdf stores BYTE as unsigned octets.
	buf := data
	if v.typ == TypeByte {
		if write {
			buf = int8ToBytes(data.([]int8))
		} else {
			buf = make([]uint8, total)
		}
	}
	if err := ds.walk(v, start, count, stride, buf, write); err != nil {
		return err
	}
	if !write && v.typ == TypeByte {
		dst := data.([]int8)
		for i, b := range buf.([]uint8) {
			dst[i] = int8(b)
		}
	}
	return nil
}

// walk visits the hyperslab in row-major order. Runs along the innermost
// dimension are moved in one call when they are contiguous on disk.
func (ds *dataset) walk(v *variable, start, count, stride []int, buf any, write bool) error {
	n := len(start)
	if n == 0 {
		return ds.move(v.name, nil, nil, buf, write)
	}
	step := func(i int) int {
		if stride == nil {
			return 1
		}
		return stride[i]
	}
	inner := n - 1
	contiguous := step(inner) == 1 && !(n == 1 && ds.isRecord(v))

	idx := make([]int, n)
	end := make([]int, n)
	outer := make([]int, inner)
	off := 0
	for {
		for i := 0; i < inner; i++ {
			idx[i] = start[i] + outer[i]*step(i)
		}
		if contiguous {
			idx[inner] = start[inner]
			copy(end, idx)
			end[inner] = start[inner] + count[inner] - 1
			if err := ds.move(v.name, idx, end, subslice(buf, off, off+count[inner]), write); err != nil {
				return err
			}
			off += count[inner]
		} else {
			for j := 0; j < count[inner]; j++ {
				idx[inner] = start[inner] + j*step(inner)
				if err := ds.move(v.name, idx, idx, subslice(buf, off, off+1), write); err != nil {
					return err
				}
				off++
			}
		}

		i := inner - 1
		for ; i >= 0; i-- {
			outer[i]++
			if outer[i] < count[i] {
				break
			}
			outer[i] = 0
		}
		if i < 0 {
			return nil
		}
	}
}

// move transfers the elements between the corners begin and end, both
// inclusive.
func (ds *dataset) move(name string, begin, end []int, chunk any, write bool) error {
	if write {
		w := ds.file.Writer(name, begin, end)
		if w == nil {
			return ENotVar
		}
		// The strider reports io.EOF once it reaches end.
		if _, err := w.Write(chunk); err != nil && !errors.Is(err, io.EOF) {
			return statusOf(err)
		}
		return nil
	}
	r := ds.file.Reader(name, begin, end)
	if r == nil {
		return ENotVar
	}
	if _, err := r.Read(chunk); err != nil {
		return EIO
	}
	return nil
}
