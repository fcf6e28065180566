package netcdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// Attribute is a named value attached to a group or a variable.
type Attribute struct {
	file  *File
	ncid  int
	varid int
	name  string
}

func (a *Attribute) Name() string { return a.name }

// Value reads the attribute.
func (a *Attribute) Value() (AttributeValue, error) {
	var val AttributeValue
	err := call("attribute "+strconv.Quote(a.name), func(lib *backend.Lib) error {
		if err := a.file.check(); err != nil {
			return err
		}
		t, data, err := lib.GetAtt(a.ncid, a.varid, a.name)
		if err != nil {
			return err
		}
		val = AttributeValue{Type: Type(t), Data: data}
		return nil
	})
	return val, err
}

// Type returns the stored type of the attribute.
func (a *Attribute) Type() (Type, error) {
	v, err := a.Value()
	return v.Type, err
}

// AttributeValue is the typed content of an attribute. Data is a string for
// Char attributes and a slice of the Go element type otherwise ([]int8 for
// Byte, []float64 for Double, []string for String and so on).
//
// PutAttribute accepts an AttributeValue, a string (stored as Char), a
// []string (String), or a sized numeric scalar or slice. Plain int and uint
// are rejected because their width is platform dependent.
type AttributeValue struct {
	Type Type
	Data any
}

// Len returns the number of elements, or characters for Char.
func (v AttributeValue) Len() int {
	if s, ok := v.Data.(string); ok {
		return len(s)
	}
	return backend.SliceLen(v.Data)
}

// Text returns the value of a Char attribute.
func (v AttributeValue) Text() (string, bool) {
	s, ok := v.Data.(string)
	return s, ok
}

// Float64s converts a numeric attribute to float64.
func (v AttributeValue) Float64s() ([]float64, bool) {
	return Float64s(v.Data)
}

// String renders the value in CDL notation.
func (v AttributeValue) String() string {
	switch d := v.Data.(type) {
	case string:
		return strconv.Quote(d)
	case []string:
		parts := make([]string, len(d))
		for i, s := range d {
			parts[i] = strconv.Quote(s)
		}
		return strings.Join(parts, ", ")
	}
	return joinValues(v.Data, cdlSuffix(v.Type))
}

func cdlSuffix(t Type) string {
	switch t {
	case Byte:
		return "b"
	case Short:
		return "s"
	case Float:
		return "f"
	case UByte:
		return "ub"
	case UShort:
		return "us"
	case UInt:
		return "u"
	case Int64:
		return "ll"
	case UInt64:
		return "ull"
	}
	return ""
}

// joinValues formats a numeric slice as a comma separated list.
func joinValues(data any, suffix string) string {
	fs, ok := Float64s(data)
	if !ok {
		return fmt.Sprint(data)
	}
	parts := make([]string, len(fs))
	for i, x := range fs {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64) + suffix
	}
	return strings.Join(parts, ", ")
}

// attributeData maps a Go value onto a native type and representation.
func attributeData(value any) (backend.Type, any, error) {
	switch v := value.(type) {
	case AttributeValue:
		return backend.Type(v.Type), v.Data, nil
	case string:
		return backend.TypeChar, v, nil
	case int8:
		return backend.TypeByte, []int8{v}, nil
	case uint8:
		return backend.TypeUByte, []uint8{v}, nil
	case int16:
		return backend.TypeShort, []int16{v}, nil
	case uint16:
		return backend.TypeUShort, []uint16{v}, nil
	case int32:
		return backend.TypeInt, []int32{v}, nil
	case uint32:
		return backend.TypeUInt, []uint32{v}, nil
	case int64:
		return backend.TypeInt64, []int64{v}, nil
	case uint64:
		return backend.TypeUInt64, []uint64{v}, nil
	case float32:
		return backend.TypeFloat, []float32{v}, nil
	case float64:
		return backend.TypeDouble, []float64{v}, nil
	}
	if t := backend.TypeOfSlice(value); t != backend.TypeNone {
		return t, value, nil
	}
	return backend.TypeNone, nil, fmt.Errorf("%w: unsupported attribute value of type %T", ErrTypeMismatch, value)
}

func attributeOf(f *File, ncid, varid int, name string) (*Attribute, error) {
	var a *Attribute
	err := call("attribute "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := f.check(); err != nil {
			return err
		}
		if _, _, err := lib.GetAtt(ncid, varid, name); err != nil {
			return err
		}
		a = &Attribute{file: f, ncid: ncid, varid: varid, name: name}
		return nil
	})
	return a, err
}

func attributesOf(f *File, ncid, varid int) ([]*Attribute, error) {
	var atts []*Attribute
	err := call("attributes", func(lib *backend.Lib) error {
		if err := f.check(); err != nil {
			return err
		}
		names, err := lib.InqAttNames(ncid, varid)
		if err != nil {
			return err
		}
		for _, name := range names {
			atts = append(atts, &Attribute{file: f, ncid: ncid, varid: varid, name: name})
		}
		return nil
	})
	return atts, err
}

func putAttribute(f *File, ncid, varid int, name string, value any) (*Attribute, error) {
	t, data, err := attributeData(value)
	if err != nil {
		return nil, err
	}
	err = call("put attribute "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := f.check(); err != nil {
			return err
		}
		return defineMode(lib, ncid, func() error {
			return lib.PutAtt(ncid, varid, name, t, data)
		})
	})
	if err != nil {
		return nil, err
	}
	return &Attribute{file: f, ncid: ncid, varid: varid, name: name}, nil
}

func deleteAttribute(f *File, ncid, varid int, name string) error {
	return call("delete attribute "+strconv.Quote(name), func(lib *backend.Lib) error {
		if err := f.check(); err != nil {
			return err
		}
		return defineMode(lib, ncid, func() error {
			return lib.DelAtt(ncid, varid, name)
		})
	})
}
