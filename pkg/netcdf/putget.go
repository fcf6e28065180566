package netcdf

import (
	"fmt"

	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// GetValues reads the selected elements of v. T must be the Go element
// type of the variable (uint8 for Char).
func GetValues[T Value](v *Variable, e Extents) ([]T, error) {
	var out []T
	if err := v.checkBuffer(out); err != nil {
		return nil, err
	}
	err := call(v.op("read"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return dataMode(lib, v.ncid, func() error {
			sel, err := v.selection(lib, e, -1)
			if err != nil {
				return err
			}
			buf := make([]T, sel.len())
			if err := lib.GetVars(v.ncid, v.id, sel.start, sel.count, sel.stride, buf); err != nil {
				return err
			}
			out = buf
			return nil
		})
	})
	return out, err
}

// GetValue reads the element at index.
func GetValue[T Value](v *Variable, index ...int) (T, error) {
	var zero T
	vals, err := GetValues[T](v, Index(index...))
	if err != nil {
		return zero, err
	}
	if len(vals) != 1 {
		return zero, fmt.Errorf("%w: index %v selected %d elements", ErrDimensionMismatch, index, len(vals))
	}
	return vals[0], nil
}

// PutValues writes data to the selected elements of v.
func PutValues[T Value](v *Variable, e Extents, data []T) error {
	if data == nil {
		data = []T{}
	}
	return v.WriteFrom(data, e)
}

// PutValue writes one element at index.
func PutValue[T Value](v *Variable, value T, index ...int) error {
	return v.WriteFrom([]T{value}, Index(index...))
}

// AddVariableOf defines a variable whose type is inferred from T.
func AddVariableOf[T Value](g *Group, name string, dims ...string) (*Variable, error) {
	return g.AddVariable(name, TypeOf[T](), dims...)
}
