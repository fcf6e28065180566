package backend

// Type is a native external data type code (nc_type).
type Type int

const (
	TypeNone   Type = 0
	TypeByte   Type = 1
	TypeChar   Type = 2
	TypeShort  Type = 3
	TypeInt    Type = 4
	TypeFloat  Type = 5
	TypeDouble Type = 6
	TypeUByte  Type = 7
	TypeUShort Type = 8
	TypeUInt   Type = 9
	TypeInt64  Type = 10
	TypeUInt64 Type = 11
	TypeString Type = 12
)

// Classic reports whether t exists in the classic data model.
func (t Type) Classic() bool { return t >= TypeByte && t <= TypeDouble }

// Valid reports whether t is one of the atomic types.
func (t Type) Valid() bool { return t >= TypeByte && t <= TypeString }

// Size is the external size in bytes of one element, 0 for strings.
func (t Type) Size() int {
	switch t {
	case TypeByte, TypeChar, TypeUByte:
		return 1
	case TypeShort, TypeUShort:
		return 2
	case TypeInt, TypeUInt, TypeFloat:
		return 4
	case TypeDouble, TypeInt64, TypeUInt64:
		return 8
	}
	return 0
}

// Mode flags accepted by Create and Open. Values follow netcdf.h.
const (
	ModeNoWrite      = 0x0000
	ModeWrite        = 0x0001
	ModeClobber      = 0x0000
	ModeNoClobber    = 0x0004
	ModeDiskless     = 0x0008
	Mode64BitData    = 0x0020
	ModeClassicModel = 0x0100
	Mode64BitOffset  = 0x0200
	ModeShare        = 0x0800
	ModeNetCDF4      = 0x1000
	ModeInMemory     = 0x8000
)

// On-disk formats reported by InqFormat.
const (
	FormatClassic        = 1
	Format64BitOffset    = 2
	FormatNetCDF4        = 3
	FormatNetCDF4Classic = 4
	Format64BitData      = 5
)

const (
	// Byte orders of nc_def_var_endian.
	EndianNative = 0
	EndianLittle = 1
	EndianBig    = 2

	// Global is the varid used for group attributes.
	Global = -1
	// Unlimited is the length passed to DefDim for a record dimension.
	Unlimited = 0
	// MaxName is the longest permitted object name in bytes.
	MaxName = 256
)

// VarInfo describes a variable as returned by InqVar.
type VarInfo struct {
	Name   string
	Type   Type
	DimIDs []int
	NAtts  int
}

// Default fill values from netcdf.h, keyed by type.
var defaultFill = map[Type]any{
	TypeByte:   int8(-127),
	TypeChar:   byte(0),
	TypeShort:  int16(-32767),
	TypeInt:    int32(-2147483647),
	TypeFloat:  float32(9.9692099683868690e+36),
	TypeDouble: float64(9.9692099683868690e+36),
	TypeUByte:  uint8(255),
	TypeUShort: uint16(65535),
	TypeUInt:   uint32(4294967295),
	TypeInt64:  int64(-9223372036854775806),
	TypeUInt64: uint64(18446744073709551614),
	TypeString: "",
}

// DefaultFill returns the library default fill value for t as a one
// element slice of the type's Go representation.
func DefaultFill(t Type) any {
	v, ok := defaultFill[t]
	if !ok {
		return nil
	}
	return sliceOf(t, v)
}

// TypeOfSlice maps a Go slice to the native type it represents. []byte is
// reported as TypeUByte; callers holding character data say so explicitly.
func TypeOfSlice(data any) Type {
	switch data.(type) {
	case []int8:
		return TypeByte
	case []uint8:
		return TypeUByte
	case []int16:
		return TypeShort
	case []uint16:
		return TypeUShort
	case []int32:
		return TypeInt
	case []uint32:
		return TypeUInt
	case []int64:
		return TypeInt64
	case []uint64:
		return TypeUInt64
	case []float32:
		return TypeFloat
	case []float64:
		return TypeDouble
	case []string:
		return TypeString
	}
	return TypeNone
}

// Matches reports whether data is the Go representation used for
// elements of type t. Char data is carried as []byte.
func Matches(t Type, data any) bool {
	if t == TypeChar {
		_, ok := data.([]byte)
		return ok
	}
	return TypeOfSlice(data) == t
}

// SliceLen returns the length of a typed data slice.
func SliceLen(data any) int {
	switch s := data.(type) {
	case []int8:
		return len(s)
	case []uint8:
		return len(s)
	case []int16:
		return len(s)
	case []uint16:
		return len(s)
	case []int32:
		return len(s)
	case []uint32:
		return len(s)
	case []int64:
		return len(s)
	case []uint64:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	case []string:
		return len(s)
	}
	return -1
}

// MakeSlice allocates n elements of the Go representation of t.
func MakeSlice(t Type, n int) any {
	switch t {
	case TypeByte:
		return make([]int8, n)
	case TypeChar, TypeUByte:
		return make([]uint8, n)
	case TypeShort:
		return make([]int16, n)
	case TypeUShort:
		return make([]uint16, n)
	case TypeInt:
		return make([]int32, n)
	case TypeUInt:
		return make([]uint32, n)
	case TypeInt64:
		return make([]int64, n)
	case TypeUInt64:
		return make([]uint64, n)
	case TypeFloat:
		return make([]float32, n)
	case TypeDouble:
		return make([]float64, n)
	case TypeString:
		return make([]string, n)
	}
	return nil
}

func sliceOf(t Type, v any) any {
	s := MakeSlice(t, 1)
	switch s := s.(type) {
	case []int8:
		s[0] = v.(int8)
	case []uint8:
		s[0] = v.(uint8)
	case []int16:
		s[0] = v.(int16)
	case []uint16:
		s[0] = v.(uint16)
	case []int32:
		s[0] = v.(int32)
	case []uint32:
		s[0] = v.(uint32)
	case []int64:
		s[0] = v.(int64)
	case []uint64:
		s[0] = v.(uint64)
	case []float32:
		s[0] = v.(float32)
	case []float64:
		s[0] = v.(float64)
	case []string:
		s[0] = v.(string)
	}
	return s
}

// subslice returns data[lo:hi] for any supported element type.
func subslice(data any, lo, hi int) any {
	switch s := data.(type) {
	case []int8:
		return s[lo:hi]
	case []uint8:
		return s[lo:hi]
	case []int16:
		return s[lo:hi]
	case []uint16:
		return s[lo:hi]
	case []int32:
		return s[lo:hi]
	case []uint32:
		return s[lo:hi]
	case []int64:
		return s[lo:hi]
	case []uint64:
		return s[lo:hi]
	case []float32:
		return s[lo:hi]
	case []float64:
		return s[lo:hi]
	case []string:
		return s[lo:hi]
	}
	return nil
}

// copySlice returns a fresh copy of a typed data slice.
func copySlice(data any) any {
	n := SliceLen(data)
	if n < 0 {
		return nil
	}
	out := MakeSliceLike(data, n)
	switch s := out.(type) {
	case []int8:
		copy(s, data.([]int8))
	case []uint8:
		copy(s, data.([]uint8))
	case []int16:
		copy(s, data.([]int16))
	case []uint16:
		copy(s, data.([]uint16))
	case []int32:
		copy(s, data.([]int32))
	case []uint32:
		copy(s, data.([]uint32))
	case []int64:
		copy(s, data.([]int64))
	case []uint64:
		copy(s, data.([]uint64))
	case []float32:
		copy(s, data.([]float32))
	case []float64:
		copy(s, data.([]float64))
	case []string:
		copy(s, data.([]string))
	}
	return out
}

// MakeSliceLike allocates n elements of the same element type as data.
func MakeSliceLike(data any, n int) any {
	if _, ok := data.([]uint8); ok {
		return make([]uint8, n)
	}
	return MakeSlice(TypeOfSlice(data), n)
}

// ValidName applies the netCDF object naming rules.
func ValidName(name string) error {
	if name == "" {
		return EBadName
	}
	if len(name) > MaxName {
		return EMaxName
	}
	first := name[0]
	if !(first == '_' || first >= 0x80 || isAlnum(first)) {
		return EBadName
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '/' || c < 0x20 || c == 0x7f {
			return EBadName
		}
	}
	if name[len(name)-1] == ' ' {
		return EBadName
	}
	return nil
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
