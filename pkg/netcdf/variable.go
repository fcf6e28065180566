package netcdf

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// Variable is an n-dimensional typed array.
type Variable struct {
	file   *File
	ncid   int
	id     int
	name   string
	typ    Type
	dimids []int
}

func (v *Variable) Name() string { return v.name }

func (v *Variable) Type() Type { return v.typ }

// ID returns the native variable id.
func (v *Variable) ID() int { return v.id }

func (v *Variable) op(what string) string {
	return what + " " + strconv.Quote(v.name)
}

// Dimensions returns the variable's dimensions, outermost first.
func (v *Variable) Dimensions() ([]*Dimension, error) {
	var dims []*Dimension
	err := call(v.op("dimensions of"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		g := Group{file: v.file, ncid: v.ncid}
		for _, id := range v.dimids {
			d, err := g.dimension(lib, id)
			if err != nil {
				return err
			}
			dims = append(dims, d)
		}
		return nil
	})
	return dims, err
}

// Shape returns the current length of each dimension.
func (v *Variable) Shape() ([]int, error) {
	var shape []int
	err := call(v.op("shape of"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		var err error
		shape, _, err = v.shape(lib)
		return err
	})
	return shape, err
}

// Len returns the total number of elements currently stored.
func (v *Variable) Len() (int, error) {
	shape, err := v.Shape()
	if err != nil {
		return 0, err
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n, nil
}

func (v *Variable) shape(lib *backend.Lib) ([]int, []bool, error) {
	unlim, err := unlimitedDims(lib, v.ncid)
	if err != nil {
		return nil, nil, err
	}
	shape := make([]int, len(v.dimids))
	unlimited := make([]bool, len(v.dimids))
	for i, id := range v.dimids {
		_, n, err := lib.InqDim(v.ncid, id)
		if err != nil {
			return nil, nil, err
		}
		shape[i] = n
		unlimited[i] = slices.Contains(unlim, id)
	}
	return shape, unlimited, nil
}

// selection resolves e against the current shape. dataLen is -1 for reads.
func (v *Variable) selection(lib *backend.Lib, e Extents, dataLen int) (selection, error) {
	shape, unlimited, err := v.shape(lib)
	if err != nil {
		return selection{}, err
	}
	return e.resolve(shape, unlimited, dataLen)
}

func (v *Variable) Attribute(name string) (*Attribute, error) {
	return attributeOf(v.file, v.ncid, v.id, name)
}

func (v *Variable) Attributes() ([]*Attribute, error) {
	return attributesOf(v.file, v.ncid, v.id)
}

// PutAttribute creates or replaces a variable attribute. See
// AttributeValue for the accepted value types.
func (v *Variable) PutAttribute(name string, value any) (*Attribute, error) {
	return putAttribute(v.file, v.ncid, v.id, name, value)
}

func (v *Variable) DeleteAttribute(name string) error {
	return deleteAttribute(v.file, v.ncid, v.id, name)
}

// FillValue returns the value unwritten elements read as. It is nil when
// fill mode is off.
func (v *Variable) FillValue() (any, error) {
	var fill any
	err := call(v.op("fill value of"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		noFill, value, err := lib.InqVarFill(v.ncid, v.id)
		if err != nil {
			return err
		}
		if !noFill && value != nil {
			fill = first(value)
		}
		return nil
	})
	return fill, err
}

// SetFillValue sets the _FillValue of the variable. value is a scalar of
// the variable's Go element type (a byte for Char).
func (v *Variable) SetFillValue(value any) error {
	fill, err := fillSlice(v.typ, value)
	if err != nil {
		return err
	}
	return call(v.op("set fill value of"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return defineMode(lib, v.ncid, func() error {
			return lib.DefVarFill(v.ncid, v.id, false, fill)
		})
	})
}

func fillSlice(t Type, value any) (any, error) {
	if b, ok := value.(byte); ok && t == Char {
		return []byte{b}, nil
	}
	bt, data, err := attributeData(value)
	if err != nil {
		return nil, err
	}
	if Type(bt) != t || backend.SliceLen(data) != 1 {
		return nil, fmt.Errorf("%w: fill value %v (%T) for a %s variable", ErrTypeMismatch, value, value, t)
	}
	return data, nil
}

// SetNoFill turns off prefilling of unwritten elements.
func (v *Variable) SetNoFill() error {
	return call(v.op("set no fill of"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return defineMode(lib, v.ncid, func() error {
			return lib.DefVarFill(v.ncid, v.id, true, nil)
		})
	})
}

// SetCompression enables deflate at level 0 to 9, optionally with the
// shuffle filter. Only netCDF-4 files support it.
func (v *Variable) SetCompression(level int, shuffle bool) error {
	if level < 0 || level > 9 {
		return fmt.Errorf("%w: deflate level %d", ErrInvalidArgument, level)
	}
	return call(v.op("set compression of"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return defineMode(lib, v.ncid, func() error {
			return lib.DefVarDeflate(v.ncid, v.id, shuffle, level > 0, level)
		})
	})
}

// SetChunking sets the chunk length along each dimension. Only netCDF-4
// files support it.
func (v *Variable) SetChunking(chunks ...int) error {
	if len(chunks) != len(v.dimids) {
		return fmt.Errorf("%w: %d chunk lengths for %d dimensions", ErrDimensionMismatch, len(chunks), len(v.dimids))
	}
	for _, c := range chunks {
		if c < 1 {
			return fmt.Errorf("%w: chunk lengths %v", ErrInvalidArgument, chunks)
		}
	}
	return call(v.op("set chunking of"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return defineMode(lib, v.ncid, func() error {
			return lib.DefVarChunking(v.ncid, v.id, chunks)
		})
	})
}

// Endianness returns the byte order the variable is stored in. Only
// netCDF-4 files record one.
func (v *Variable) Endianness() (Endianness, error) {
	var e Endianness
	err := call(v.op("endianness of"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		n, err := lib.InqVarEndian(v.ncid, v.id)
		e = Endianness(n)
		return err
	})
	return e, err
}

// SetEndianness sets the byte order the variable is stored in. Only
// netCDF-4 files support it.
func (v *Variable) SetEndianness(e Endianness) error {
	switch e {
	case EndianNative, EndianLittle, EndianBig:
	default:
		return fmt.Errorf("%w: endianness %d", ErrInvalidArgument, int(e))
	}
	return call(v.op("set endianness of"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return defineMode(lib, v.ncid, func() error {
			return lib.DefVarEndian(v.ncid, v.id, int(e))
		})
	})
}

func (v *Variable) checkBuffer(buf any) error {
	if backend.Matches(backend.Type(v.typ), buf) {
		return nil
	}
	got := Type(backend.TypeOfSlice(buf))
	if _, ok := buf.([]byte); ok && v.typ == Char {
		got = Char
	}
	if got == Type(backend.TypeNone) {
		return fmt.Errorf("%w: %s cannot hold %s data (%T)", ErrTypeMismatch, v.name, v.typ, buf)
	}
	return typeMismatch(v.name, v.typ, got)
}

// ReadInto reads the selected elements into buf, which must be a slice of
// the variable's Go element type ([]byte for Char) with exactly as many
// elements as the selection.
func (v *Variable) ReadInto(buf any, e Extents) error {
	if err := v.checkBuffer(buf); err != nil {
		return err
	}
	return call(v.op("read"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return dataMode(lib, v.ncid, func() error {
			sel, err := v.selection(lib, e, -1)
			if err != nil {
				return err
			}
			if n := backend.SliceLen(buf); n != sel.len() {
				return fmt.Errorf("%w: buffer of %d for a selection of %d", ErrDimensionMismatch, n, sel.len())
			}
			return lib.GetVars(v.ncid, v.id, sel.start, sel.count, sel.stride, buf)
		})
	})
}

// Read reads the selected elements into a new slice of the variable's Go
// element type.
func (v *Variable) Read(e Extents) (any, error) {
	var out any
	err := call(v.op("read"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return dataMode(lib, v.ncid, func() error {
			sel, err := v.selection(lib, e, -1)
			if err != nil {
				return err
			}
			buf := backend.MakeSlice(backend.Type(v.typ), sel.len())
			if buf == nil {
				return fmt.Errorf("%w: variable type %s", ErrNotSupported, v.typ)
			}
			if err := lib.GetVars(v.ncid, v.id, sel.start, sel.count, sel.stride, buf); err != nil {
				return err
			}
			out = buf
			return nil
		})
	})
	return out, err
}

// WriteFrom writes buf to the selected elements. Writing along an
// unlimited dimension grows it.
func (v *Variable) WriteFrom(buf any, e Extents) error {
	if err := v.checkBuffer(buf); err != nil {
		return err
	}
	return call(v.op("write"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return dataMode(lib, v.ncid, func() error {
			sel, err := v.selection(lib, e, backend.SliceLen(buf))
			if err != nil {
				return err
			}
			return lib.PutVars(v.ncid, v.id, sel.start, sel.count, sel.stride, buf)
		})
	})
}

// GetString reads one string. For a Char variable the innermost dimension
// holds the characters and index addresses the outer dimensions; trailing
// NULs are dropped. For a String variable index addresses an element.
func (v *Variable) GetString(index ...int) (string, error) {
	var s string
	err := call(v.op("read string"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return dataMode(lib, v.ncid, func() error {
			switch v.typ {
			case String:
				sel, err := v.selection(lib, Index(index...), -1)
				if err != nil {
					return err
				}
				buf := make([]string, 1)
				if err := lib.GetVars(v.ncid, v.id, sel.start, sel.count, nil, buf); err != nil {
					return err
				}
				s = buf[0]
				return nil
			case Char:
				sel, err := v.charRow(lib, index, -1)
				if err != nil {
					return err
				}
				buf := make([]byte, sel.len())
				if err := lib.GetVars(v.ncid, v.id, sel.start, sel.count, nil, buf); err != nil {
					return err
				}
				s = strings.TrimRight(string(buf), "\x00")
				return nil
			}
			return typeMismatch(v.name, v.typ, Char)
		})
	})
	return s, err
}

// PutString writes one string, addressed as in GetString. A Char row is
// padded with NULs; a string longer than the row is an error.
func (v *Variable) PutString(s string, index ...int) error {
	return call(v.op("write string"), func(lib *backend.Lib) error {
		if err := v.file.check(); err != nil {
			return err
		}
		return dataMode(lib, v.ncid, func() error {
			switch v.typ {
			case String:
				sel, err := v.selection(lib, Index(index...), 1)
				if err != nil {
					return err
				}
				return lib.PutVars(v.ncid, v.id, sel.start, sel.count, nil, []string{s})
			case Char:
				sel, err := v.charRow(lib, index, len(s))
				if err != nil {
					return err
				}
				buf := make([]byte, sel.len())
				copy(buf, s)
				return lib.PutVars(v.ncid, v.id, sel.start, sel.count, nil, buf)
			}
			return typeMismatch(v.name, v.typ, Char)
		})
	})
}

// charRow selects the characters of one string of a Char variable. n is
// the length of the string being written, or -1 for a read.
func (v *Variable) charRow(lib *backend.Lib, index []int, n int) (selection, error) {
	if len(v.dimids) == 0 || len(index) != len(v.dimids)-1 {
		return selection{}, fmt.Errorf("%w: index %v for a string of %d dimensions", ErrDimensionMismatch, index, len(v.dimids))
	}
	shape, _, err := v.shape(lib)
	if err != nil {
		return selection{}, err
	}
	width := shape[len(shape)-1]
	if n > width {
		return selection{}, fmt.Errorf("%w: string of %d characters in %s rows of %d", ErrDimensionMismatch, n, v.name, width)
	}
	count := make([]int, len(v.dimids))
	for i := range index {
		count[i] = 1
	}
	count[len(count)-1] = width
	return selection{start: append(slices.Clone(index), 0), count: count}, nil
}
