package netcdf

import (
	"fmt"

	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// Type is a netCDF external data type.
type Type int

const (
	Byte   = Type(backend.TypeByte)
	Char   = Type(backend.TypeChar)
	Short  = Type(backend.TypeShort)
	Int    = Type(backend.TypeInt)
	Float  = Type(backend.TypeFloat)
	Double = Type(backend.TypeDouble)
	UByte  = Type(backend.TypeUByte)
	UShort = Type(backend.TypeUShort)
	UInt   = Type(backend.TypeUInt)
	Int64  = Type(backend.TypeInt64)
	UInt64 = Type(backend.TypeUInt64)
	String = Type(backend.TypeString)
)

var typeNames = map[Type]string{
	Byte:   "byte",
	Char:   "char",
	Short:  "short",
	Int:    "int",
	Float:  "float",
	Double: "double",
	UByte:  "ubyte",
	UShort: "ushort",
	UInt:   "uint",
	Int64:  "int64",
	UInt64: "uint64",
	String: "string",
}

// String returns the CDL name of the type.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Value is the set of Go element types that map one to one onto netCDF
// types. Char data is read and written through []byte or strings.
type Value interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64 | string
}

// TypeOf returns the netCDF type stored for Go elements of type T.
func TypeOf[T Value]() Type {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Byte
	case uint8:
		return UByte
	case int16:
		return Short
	case uint16:
		return UShort
	case int32:
		return Int
	case uint32:
		return UInt
	case int64:
		return Int64
	case uint64:
		return UInt64
	case float32:
		return Float
	case float64:
		return Double
	}
	return String
}

// Float64s converts a typed data slice, as returned by Variable.Read or held
// in an AttributeValue, to float64. Strings are not converted.
func Float64s(data any) ([]float64, bool) {
	switch s := data.(type) {
	case []int8:
		return convert(s), true
	case []uint8:
		return convert(s), true
	case []int16:
		return convert(s), true
	case []uint16:
		return convert(s), true
	case []int32:
		return convert(s), true
	case []uint32:
		return convert(s), true
	case []int64:
		return convert(s), true
	case []uint64:
		return convert(s), true
	case []float32:
		return convert(s), true
	case []float64:
		return append([]float64(nil), s...), true
	}
	return nil, false
}

type number interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

func convert[T number](s []T) []float64 {
	out := make([]float64, len(s))
	for i, x := range s {
		out[i] = float64(x)
	}
	return out
}

// first returns element 0 of a typed data slice.
func first(data any) any {
	switch s := data.(type) {
	case []int8:
		return s[0]
	case []uint8:
		return s[0]
	case []int16:
		return s[0]
	case []uint16:
		return s[0]
	case []int32:
		return s[0]
	case []uint32:
		return s[0]
	case []int64:
		return s[0]
	case []uint64:
		return s[0]
	case []float32:
		return s[0]
	case []float64:
		return s[0]
	case []string:
		return s[0]
	}
	return nil
}
