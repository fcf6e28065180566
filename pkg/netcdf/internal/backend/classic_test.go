//go:build !cgo || !netcdf_c

package backend

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func create(t *testing.T, mode int) (int, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nc")
	ncid, err := Load().Create(path, mode)
	require.NoError(t, err)
	return ncid, path
}

func TestHandleEncoding(t *testing.T) {
	l := Load()
	ncid, _ := create(t, 0)
	defer l.Close(ncid)
	assert.Zero(t, ncid&groupMask, "root group index")
	assert.NotZero(t, ncid>>fileIDShift)

	_, err := l.InqFormat(ncid + 1)
	assert.Equal(t, EBadGrpID, err)
	_, err = l.InqFormat(0)
	assert.Equal(t, EBadID, err)

	require.NoError(t, l.Close(ncid))
	assert.Equal(t, EBadID, l.Close(ncid))
}

func TestModes(t *testing.T) {
	l := Load()
	ncid, _ := create(t, 0)
	defer l.Close(ncid)

	dim, err := l.DefDim(ncid, "n", 2)
	require.NoError(t, err)
	v, err := l.DefVar(ncid, "v", TypeShort, []int{dim})
	require.NoError(t, err)

	assert.Equal(t, EInDefine, l.PutVars(ncid, v, []int{0}, []int{2}, nil, []int16{1, 2}))
	assert.Equal(t, EInDefine, l.Redef(ncid))
	require.NoError(t, l.EndDef(ncid))
	assert.Equal(t, ENotInDefine, l.EndDef(ncid))
	_, err = l.DefDim(ncid, "m", 1)
	assert.Equal(t, ENotInDefine, err)
	assert.Equal(t, ENotInDefine, l.PutAtt(ncid, Global, "a", TypeInt, []int32{1}))

	require.NoError(t, l.PutVars(ncid, v, []int{0}, []int{2}, nil, []int16{1, 2}))
	require.NoError(t, l.Redef(ncid))
	require.NoError(t, l.PutAtt(ncid, Global, "a", TypeInt, []int32{1}))
}

func TestNumRecsPersisted(t *testing.T) {
	l := Load()
	ncid, path := create(t, 0)
	rec, err := l.DefDim(ncid, "rec", Unlimited)
	require.NoError(t, err)
	v, err := l.DefVar(ncid, "b", TypeByte, []int{rec})
	require.NoError(t, err)
	require.NoError(t, l.EndDef(ncid))

	// One byte per record: the record fill pads past each slab.
	for r := 0; r < 5; r++ {
		require.NoError(t, l.PutVars(ncid, v, []int{r}, []int{1}, nil, []int8{int8(-r)}))
	}
	require.NoError(t, l.Close(ncid))

	ncid, err = l.Open(path, ModeNoWrite)
	require.NoError(t, err)
	defer l.Close(ncid)
	_, n, err := l.InqDim(ncid, rec)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got := make([]int8, 5)
	require.NoError(t, l.GetVars(ncid, v, []int{0}, []int{5}, nil, got))
	assert.Equal(t, []int8{0, -1, -2, -3, -4}, got)
}

func TestStreamingNumRecs(t *testing.T) {
	l := Load()
	ncid, path := create(t, 0)
	rec, err := l.DefDim(ncid, "rec", Unlimited)
	require.NoError(t, err)
	v, err := l.DefVar(ncid, "d", TypeDouble, []int{rec})
	require.NoError(t, err)
	require.NoError(t, l.EndDef(ncid))
	require.NoError(t, l.PutVars(ncid, v, []int{0}, []int{3}, nil, []float64{1, 2, 3}))
	require.NoError(t, l.Close(ncid))

	// Mark the record count as unknown, as streaming writers do.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	require.NoError(t, writeNumRecs(diskFile{f}, -1))
	require.NoError(t, f.Close())

	ncid, err = l.Open(path, ModeNoWrite)
	require.NoError(t, err)
	defer l.Close(ncid)
	_, n, err := l.InqDim(ncid, rec)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRedefKeepsDataAndFillsNewVariables(t *testing.T) {
	l := Load()
	ncid, path := create(t, 0)
	x, err := l.DefDim(ncid, "x", 3)
	require.NoError(t, err)
	a, err := l.DefVar(ncid, "a", TypeFloat, []int{x})
	require.NoError(t, err)
	require.NoError(t, l.EndDef(ncid))
	require.NoError(t, l.PutVars(ncid, a, []int{0}, []int{3}, nil, []float32{1, 2, 3}))

	require.NoError(t, l.Redef(ncid))
	b, err := l.DefVar(ncid, "b", TypeInt, []int{x})
	require.NoError(t, err)
	require.NoError(t, l.PutAtt(ncid, b, "_FillValue", TypeInt, []int32{-9}))
	require.NoError(t, l.PutAtt(ncid, a, "long_name", TypeChar, "alpha"))
	require.NoError(t, l.Close(ncid))

	ncid, err = l.Open(path, ModeNoWrite)
	require.NoError(t, err)
	defer l.Close(ncid)
	fa := make([]float32, 3)
	require.NoError(t, l.GetVars(ncid, a, []int{0}, []int{3}, nil, fa))
	assert.Equal(t, []float32{1, 2, 3}, fa)
	fb := make([]int32, 3)
	require.NoError(t, l.GetVars(ncid, b, []int{0}, []int{3}, nil, fb))
	assert.Equal(t, []int32{-9, -9, -9}, fb)

	typ, val, err := l.GetAtt(ncid, a, "long_name")
	require.NoError(t, err)
	assert.Equal(t, TypeChar, typ)
	assert.Equal(t, "alpha", val)

	noFill, fill, err := l.InqVarFill(ncid, b)
	require.NoError(t, err)
	assert.False(t, noFill)
	assert.Equal(t, []int32{-9}, fill)
}

func TestTransferBounds(t *testing.T) {
	l := Load()
	ncid, _ := create(t, ModeDiskless)
	defer l.Close(ncid)
	y, err := l.DefDim(ncid, "y", 2)
	require.NoError(t, err)
	x, err := l.DefDim(ncid, "x", 3)
	require.NoError(t, err)
	v, err := l.DefVar(ncid, "v", TypeInt, []int{y, x})
	require.NoError(t, err)
	require.NoError(t, l.EndDef(ncid))

	buf := make([]int32, 2)
	assert.Equal(t, EInvalCoords, l.GetVars(ncid, v, []int{2, 0}, []int{1, 2}, nil, buf))
	assert.Equal(t, EEdge, l.GetVars(ncid, v, []int{1, 2}, []int{1, 2}, nil, buf))
	assert.Equal(t, EStride, l.GetVars(ncid, v, []int{0, 0}, []int{1, 2}, []int{1, 0}, buf))
	assert.Equal(t, EInval, l.GetVars(ncid, v, []int{0, 0}, []int{2, 2}, nil, buf))
	assert.Equal(t, EInval, l.GetVars(ncid, v, []int{0}, []int{2}, nil, buf))
	assert.Equal(t, EBadType, l.GetVars(ncid, v, []int{0, 0}, []int{1, 2}, nil, make([]float32, 2)))
	assert.NoError(t, l.GetVars(ncid, v, []int{2, 0}, []int{0, 2}, nil, []int32{}))
	assert.Equal(t, ENotVar, l.GetVars(ncid, v+1, []int{0, 0}, []int{1, 2}, nil, buf))
}

func TestClassicRestrictions(t *testing.T) {
	l := Load()
	_, err := l.Create(filepath.Join(t.TempDir(), "nc4.nc"), ModeNetCDF4)
	assert.Equal(t, ENotBuilt, err)
	_, err = l.Create(filepath.Join(t.TempDir(), "cdf5.nc"), Mode64BitData)
	assert.Equal(t, ENotBuilt, err)

	ncid, _ := create(t, ModeDiskless)
	defer l.Close(ncid)
	_, err = l.DefVar(ncid, "u", TypeUInt64, nil)
	assert.Equal(t, ENotNC4, err)
	_, err = l.DefVar(ncid, "u", Type(99), nil)
	assert.Equal(t, EBadType, err)
	_, err = l.DefGrp(ncid, "g")
	assert.Equal(t, ENotNC4, err)
	v, err := l.DefVar(ncid, "s", TypeShort, nil)
	require.NoError(t, err)
	assert.Equal(t, ENotNC4, l.DefVarDeflate(ncid, v, true, true, 1))
	assert.Equal(t, ENotNC4, l.DefVarChunking(ncid, v, nil))
	assert.Equal(t, EBadType, l.PutAtt(ncid, v, "_FillValue", TypeInt, []int32{1}))
	assert.Equal(t, EInval, l.PutAtt(ncid, v, "_FillValue", TypeShort, []int16{1, 2}))
	assert.Equal(t, EChar, l.PutAtt(ncid, v, "text", TypeChar, []byte("x")))
}

func TestOpenMemAndFormats(t *testing.T) {
	l := Load()
	ncid, path := create(t, 0)
	format, err := l.InqFormat(ncid)
	require.NoError(t, err)
	assert.Equal(t, FormatClassic, format)
	require.NoError(t, l.PutAtt(ncid, Global, "title", TypeChar, "mem"))
	require.NoError(t, l.Close(ncid))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	ncid, err = l.OpenMem("image", data)
	require.NoError(t, err)
	defer l.Close(ncid)
	p, err := l.InqPath(ncid)
	require.NoError(t, err)
	assert.Equal(t, "image", p)
	_, val, err := l.GetAtt(ncid, Global, "title")
	require.NoError(t, err)
	assert.Equal(t, "mem", val)
	assert.Equal(t, EPerm, l.Redef(ncid))

	cdf5 := append([]byte(magicCDF5), make([]byte, 28)...)
	_, err = l.OpenMem("cdf5", cdf5)
	assert.Equal(t, ENotBuilt, err)
	_, err = l.InqGrpParent(ncid)
	assert.Equal(t, ENoGrp, err)
	_, err = l.OpenMem("short", []byte("CD"))
	assert.Equal(t, ENotNC, err)
}

func TestHeaderWithoutVariables(t *testing.T) {
	l := Load()

	empty, path := create(t, 0)
	require.NoError(t, l.Close(empty))
	ncid, err := l.Open(path, ModeNoWrite)
	require.NoError(t, err)
	ids, err := l.InqDimIDs(ncid)
	require.NoError(t, err)
	assert.Empty(t, ids)
	require.NoError(t, l.Close(ncid))

	ncid, path = create(t, 0)
	_, err = l.DefDim(ncid, "x", 4)
	require.NoError(t, err)
	_, err = l.DefDim(ncid, "t", Unlimited)
	require.NoError(t, err)
	require.NoError(t, l.PutAtt(ncid, Global, "title", TypeChar, "dims only"))
	require.NoError(t, l.EndDef(ncid))
	require.NoError(t, l.Sync(ncid))
	require.NoError(t, l.Close(ncid))

	ncid, err = l.Open(path, ModeWrite)
	require.NoError(t, err)
	format, err := l.InqFormat(ncid)
	require.NoError(t, err)
	assert.Equal(t, FormatClassic, format)
	name, n, err := l.InqDim(ncid, 0)
	require.NoError(t, err)
	assert.Equal(t, "x", name)
	assert.Equal(t, 4, n)
	unlim, err := l.InqUnlimDims(ncid)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, unlim)
	_, val, err := l.GetAtt(ncid, Global, "title")
	require.NoError(t, err)
	assert.Equal(t, "dims only", val)

	// A variable added later gets a regular cdf layout.
	require.NoError(t, l.Redef(ncid))
	v, err := l.DefVar(ncid, "v", TypeInt, []int{1, 0})
	require.NoError(t, err)
	require.NoError(t, l.EndDef(ncid))
	require.NoError(t, l.PutVars(ncid, v, []int{0, 0}, []int{1, 4}, nil, []int32{1, 2, 3, 4}))
	require.NoError(t, l.Close(ncid))

	ncid, err = l.Open(path, ModeNoWrite)
	require.NoError(t, err)
	defer l.Close(ncid)
	got := make([]int32, 4)
	require.NoError(t, l.GetVars(ncid, v, []int{0, 0}, []int{1, 4}, nil, got))
	assert.Equal(t, []int32{1, 2, 3, 4}, got)
}

func TestEndiannessAndRC(t *testing.T) {
	l := Load()
	ncid, _ := create(t, 0)
	defer l.Close(ncid)
	dim, err := l.DefDim(ncid, "n", 2)
	require.NoError(t, err)
	varid, err := l.DefVar(ncid, "v", TypeInt, []int{dim})
	require.NoError(t, err)

	assert.Equal(t, ENotNC4, l.DefVarEndian(ncid, varid, EndianBig))
	_, err = l.InqVarEndian(ncid, varid)
	assert.Equal(t, ENotNC4, err)
	_, err = l.InqVarEndian(ncid, varid+1)
	assert.Equal(t, ENotVar, err)

	require.NoError(t, l.RCSet("BACKEND.TEST", "on"))
	v, ok := l.RCGet("BACKEND.TEST")
	assert.True(t, ok)
	assert.Equal(t, "on", v)
	_, ok = l.RCGet("BACKEND.MISSING")
	assert.False(t, ok)
	assert.Equal(t, EInval, l.RCSet("", "x"))
}

func TestMemFile(t *testing.T) {
	m := &memFile{}
	n, err := m.WriteAt([]byte("abc"), 4)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	size, err := m.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)

	p := make([]byte, 4)
	n, err = m.ReadAt(p, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x00abc"), p[:n])

	n, err = m.ReadAt(p, 5)
	assert.Equal(t, 2, n)
	assert.True(t, errors.Is(err, io.EOF))

	require.NoError(t, m.Truncate(2))
	size, _ = m.Size()
	assert.Equal(t, int64(2), size)
	require.NoError(t, m.Close())
}

func TestValidName(t *testing.T) {
	for _, name := range []string{"x", "_hidden", "Temp 2m", "1st", "ünits"} {
		assert.NoError(t, ValidName(name), name)
	}
	for _, name := range []string{"", "a/b", " lead", "trail ", "tab\there", string(make([]byte, MaxName+1))} {
		assert.Error(t, ValidName(name), name)
	}
}

func TestSliceHelpers(t *testing.T) {
	assert.Equal(t, TypeByte, TypeOfSlice([]int8{}))
	assert.Equal(t, TypeUByte, TypeOfSlice([]byte{}))
	assert.Equal(t, TypeNone, TypeOfSlice([]int{}))
	assert.True(t, Matches(TypeChar, []byte("x")))
	assert.False(t, Matches(TypeChar, "x"))
	assert.Equal(t, -1, SliceLen(3))
	assert.Equal(t, []int16{-32767}, DefaultFill(TypeShort))
	assert.Nil(t, DefaultFill(TypeNone))
	assert.Equal(t, 8, TypeDouble.Size())

	src := []float32{1, 2, 3}
	cp := copySlice(src).([]float32)
	cp[0] = 9
	assert.Equal(t, float32(1), src[0])
	assert.Equal(t, []float32{2, 3}, subslice(src, 1, 3))
}

func TestStatusMessages(t *testing.T) {
	assert.Equal(t, "NetCDF: Variable not found", ENotVar.Error())
	assert.Equal(t, -49, ENotVar.Code())
	assert.Equal(t, ENoent, statusOf(&os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}))
	assert.Equal(t, EIO, statusOf(errors.New("boom")))
	assert.NoError(t, statusOf(nil))
}
