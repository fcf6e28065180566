//go:build cgo && netcdf_c

package backend

/*
#cgo pkg-config: netcdf
#include <stdlib.h>
#include <string.h>
#include <netcdf.h>
#include <netcdf_mem.h>
*/
import "C"

import (
	"unsafe"
)

// Buffers handed to nc_open_mem must outlive the dataset.
var memBuffers = map[int]unsafe.Pointer{}

func check(st C.int) error {
	if st == C.NC_NOERR {
		return nil
	}
	return Status(st)
}

func (l *Lib) Version() string {
	return C.GoString(C.nc_inq_libvers())
}

func (l *Lib) Create(path string, mode int) (int, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	var ncid C.int
	if err := check(C.nc_create(cpath, C.int(mode), &ncid)); err != nil {
		return 0, err
	}
	return int(ncid), nil
}

func (l *Lib) Open(path string, mode int) (int, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	var ncid C.int
	if err := check(C.nc_open(cpath, C.int(mode), &ncid)); err != nil {
		return 0, err
	}
	return int(ncid), nil
}

func (l *Lib) OpenMem(name string, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ENotNC
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	buf := C.CBytes(data)
	var ncid C.int
	if err := check(C.nc_open_mem(cname, C.NC_NOWRITE, C.size_t(len(data)), buf, &ncid)); err != nil {
		C.free(buf)
		return 0, err
	}
	memBuffers[int(ncid)] = buf
	return int(ncid), nil
}

func (l *Lib) Close(ncid int) error {
	err := check(C.nc_close(C.int(ncid)))
	if buf, ok := memBuffers[ncid]; ok && err == nil {
		C.free(buf)
		delete(memBuffers, ncid)
	}
	return err
}

func (l *Lib) Sync(ncid int) error   { return check(C.nc_sync(C.int(ncid))) }
func (l *Lib) Redef(ncid int) error  { return check(C.nc_redef(C.int(ncid))) }
func (l *Lib) EndDef(ncid int) error { return check(C.nc_enddef(C.int(ncid))) }

func (l *Lib) InqFormat(ncid int) (int, error) {
	var format C.int
	if err := check(C.nc_inq_format(C.int(ncid), &format)); err != nil {
		return 0, err
	}
	return int(format), nil
}

func (l *Lib) InqPath(ncid int) (string, error) {
	var n C.size_t
	if err := check(C.nc_inq_path(C.int(ncid), &n, nil)); err != nil {
		return "", err
	}
	buf := make([]C.char, int(n)+1)
	if err := check(C.nc_inq_path(C.int(ncid), &n, &buf[0])); err != nil {
		return "", err
	}
	return C.GoString(&buf[0]), nil
}

func (l *Lib) DefDim(ncid int, name string, length int) (int, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var dimid C.int
	if err := check(C.nc_def_dim(C.int(ncid), cname, C.size_t(length), &dimid)); err != nil {
		return 0, err
	}
	return int(dimid), nil
}

func (l *Lib) InqDimID(ncid int, name string) (int, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var dimid C.int
	if err := check(C.nc_inq_dimid(C.int(ncid), cname, &dimid)); err != nil {
		return 0, err
	}
	return int(dimid), nil
}

func (l *Lib) InqDim(ncid, dimid int) (string, int, error) {
	var name [C.NC_MAX_NAME + 1]C.char
	var length C.size_t
	if err := check(C.nc_inq_dim(C.int(ncid), C.int(dimid), &name[0], &length)); err != nil {
		return "", 0, err
	}
	return C.GoString(&name[0]), int(length), nil
}

func (l *Lib) InqDimIDs(ncid int) ([]int, error) {
	var n C.int
	if err := check(C.nc_inq_dimids(C.int(ncid), &n, nil, 0)); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ids := make([]C.int, n)
	if err := check(C.nc_inq_dimids(C.int(ncid), &n, &ids[0], 0)); err != nil {
		return nil, err
	}
	return goInts(ids), nil
}

func (l *Lib) InqUnlimDims(ncid int) ([]int, error) {
	var n C.int
	if err := check(C.nc_inq_unlimdims(C.int(ncid), &n, nil)); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ids := make([]C.int, n)
	if err := check(C.nc_inq_unlimdims(C.int(ncid), &n, &ids[0])); err != nil {
		return nil, err
	}
	return goInts(ids), nil
}

func (l *Lib) DefVar(ncid int, name string, typ Type, dimids []int) (int, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	cdims := cInts(dimids)
	var varid C.int
	if err := check(C.nc_def_var(C.int(ncid), cname, C.nc_type(typ), C.int(len(dimids)), intPtr(cdims), &varid)); err != nil {
		return 0, err
	}
	return int(varid), nil
}

func (l *Lib) InqVarID(ncid int, name string) (int, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var varid C.int
	if err := check(C.nc_inq_varid(C.int(ncid), cname, &varid)); err != nil {
		return 0, err
	}
	return int(varid), nil
}

func (l *Lib) InqVar(ncid, varid int) (VarInfo, error) {
	var ndims C.int
	if err := check(C.nc_inq_varndims(C.int(ncid), C.int(varid), &ndims)); err != nil {
		return VarInfo{}, err
	}
	var (
		name  [C.NC_MAX_NAME + 1]C.char
		xtype C.nc_type
		natts C.int
	)
	dims := make([]C.int, ndims)
	if err := check(C.nc_inq_var(C.int(ncid), C.int(varid), &name[0], &xtype, &ndims, intPtr(dims), &natts)); err != nil {
		return VarInfo{}, err
	}
	return VarInfo{
		Name:   C.GoString(&name[0]),
		Type:   Type(xtype),
		DimIDs: goInts(dims),
		NAtts:  int(natts),
	}, nil
}

func (l *Lib) InqVarIDs(ncid int) ([]int, error) {
	var n C.int
	if err := check(C.nc_inq_varids(C.int(ncid), &n, nil)); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ids := make([]C.int, n)
	if err := check(C.nc_inq_varids(C.int(ncid), &n, &ids[0])); err != nil {
		return nil, err
	}
	return goInts(ids), nil
}

func (l *Lib) DefVarFill(ncid, varid int, noFill bool, fill any) error {
	var ptr unsafe.Pointer
	if fill != nil {
		p, release, err := dataPtr(fill)
		if err != nil {
			return err
		}
		defer release()
		ptr = p
	}
	return check(C.nc_def_var_fill(C.int(ncid), C.int(varid), cBool(noFill), ptr))
}

func (l *Lib) InqVarFill(ncid, varid int) (bool, any, error) {
	var xtype C.nc_type
	if err := check(C.nc_inq_vartype(C.int(ncid), C.int(varid), &xtype)); err != nil {
		return false, nil, err
	}
	t := Type(xtype)
	var noFill C.int
	if t == TypeString {
		var s *C.char
		if err := check(C.nc_inq_var_fill(C.int(ncid), C.int(varid), &noFill, unsafe.Pointer(&s))); err != nil {
			return false, nil, err
		}
		out := []string{""}
		if s != nil {
			out[0] = C.GoString(s)
			C.nc_free_string(1, &s)
		}
		return noFill != 0, out, nil
	}
	fill := MakeSlice(t, 1)
	if fill == nil {
		return false, nil, EBadType
	}
	p, release, err := dataPtr(fill)
	if err != nil {
		return false, nil, err
	}
	defer release()
	if err := check(C.nc_inq_var_fill(C.int(ncid), C.int(varid), &noFill, p)); err != nil {
		return false, nil, err
	}
	return noFill != 0, fill, nil
}

func (l *Lib) DefVarDeflate(ncid, varid int, shuffle, deflate bool, level int) error {
	return check(C.nc_def_var_deflate(C.int(ncid), C.int(varid), cBool(shuffle), cBool(deflate), C.int(level)))
}

func (l *Lib) DefVarChunking(ncid, varid int, chunks []int) error {
	sizes := cSizes(chunks)
	return check(C.nc_def_var_chunking(C.int(ncid), C.int(varid), C.NC_CHUNKED, sizePtr(sizes)))
}

func (l *Lib) DefVarEndian(ncid, varid, endian int) error {
	return check(C.nc_def_var_endian(C.int(ncid), C.int(varid), C.int(endian)))
}

func (l *Lib) InqVarEndian(ncid, varid int) (int, error) {
	var endian C.int
	if err := check(C.nc_inq_var_endian(C.int(ncid), C.int(varid), &endian)); err != nil {
		return 0, err
	}
	return int(endian), nil
}

func (l *Lib) RCSet(key, value string) error {
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))
	cvalue := C.CString(value)
	defer C.free(unsafe.Pointer(cvalue))
	return check(C.nc_rc_set(ckey, cvalue))
}

func (l *Lib) RCGet(key string) (string, bool) {
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))
	value := C.nc_rc_get(ckey)
	if value == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(value))
	return C.GoString(value), true
}

func (l *Lib) PutAtt(ncid, varid int, name string, typ Type, value any) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	switch typ {
	case TypeChar:
		s, ok := value.(string)
		if !ok {
			return EChar
		}
		cs := C.CString(s)
		defer C.free(unsafe.Pointer(cs))
		return check(C.nc_put_att_text(C.int(ncid), C.int(varid), cname, C.size_t(len(s)), cs))
	case TypeString:
		ss, ok := value.([]string)
		if !ok {
			return EBadType
		}
		ptrs, release := cStrings(ss)
		defer release()
		return check(C.nc_put_att_string(C.int(ncid), C.int(varid), cname, C.size_t(len(ss)), charPtr(ptrs)))
	}
	if !Matches(typ, value) {
		return EBadType
	}
	p, release, err := dataPtr(value)
	if err != nil {
		return err
	}
	defer release()
	return check(C.nc_put_att(C.int(ncid), C.int(varid), cname, C.nc_type(typ), C.size_t(SliceLen(value)), p))
}

func (l *Lib) GetAtt(ncid, varid int, name string) (Type, any, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var (
		xtype  C.nc_type
		length C.size_t
	)
	if err := check(C.nc_inq_att(C.int(ncid), C.int(varid), cname, &xtype, &length)); err != nil {
		return TypeNone, nil, err
	}
	t, n := Type(xtype), int(length)
	switch t {
	case TypeChar:
		if n == 0 {
			return t, "", nil
		}
		buf := make([]byte, n)
		if err := check(C.nc_get_att_text(C.int(ncid), C.int(varid), cname, (*C.char)(unsafe.Pointer(&buf[0])))); err != nil {
			return t, nil, err
		}
		return t, string(buf), nil
	case TypeString:
		out := make([]string, n)
		if n == 0 {
			return t, out, nil
		}
		ptrs := make([]*C.char, n)
		if err := check(C.nc_get_att_string(C.int(ncid), C.int(varid), cname, &ptrs[0])); err != nil {
			return t, nil, err
		}
		for i, p := range ptrs {
			out[i] = C.GoString(p)
		}
		C.nc_free_string(length, &ptrs[0])
		return t, out, nil
	}
	data := MakeSlice(t, n)
	if data == nil {
		return t, nil, EBadType
	}
	if n == 0 {
		return t, data, nil
	}
	p, release, err := dataPtr(data)
	if err != nil {
		return t, nil, err
	}
	defer release()
	if err := check(C.nc_get_att(C.int(ncid), C.int(varid), cname, p)); err != nil {
		return t, nil, err
	}
	return t, data, nil
}

func (l *Lib) InqAttNames(ncid, varid int) ([]string, error) {
	var n C.int
	if err := check(C.nc_inq_varnatts(C.int(ncid), C.int(varid), &n)); err != nil {
		return nil, err
	}
	names := make([]string, n)
	var buf [C.NC_MAX_NAME + 1]C.char
	for i := range names {
		if err := check(C.nc_inq_attname(C.int(ncid), C.int(varid), C.int(i), &buf[0])); err != nil {
			return nil, err
		}
		names[i] = C.GoString(&buf[0])
	}
	return names, nil
}

func (l *Lib) DelAtt(ncid, varid int, name string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return check(C.nc_del_att(C.int(ncid), C.int(varid), cname))
}

func (l *Lib) PutVars(ncid, varid int, start, count, stride []int, data any) error {
	cstart, ccount, cstride := cSizes(start), cSizes(count), cDiffs(stride)
	if SliceLen(data) == 0 {
		return nil
	}
	if ss, ok := data.([]string); ok {
		ptrs, release := cStrings(ss)
		defer release()
		return check(C.nc_put_vars_string(C.int(ncid), C.int(varid), sizePtr(cstart), sizePtr(ccount), diffPtr(cstride), charPtr(ptrs)))
	}
	p, release, err := dataPtr(data)
	if err != nil {
		return err
	}
	defer release()
	return check(C.nc_put_vars(C.int(ncid), C.int(varid), sizePtr(cstart), sizePtr(ccount), diffPtr(cstride), p))
}

func (l *Lib) GetVars(ncid, varid int, start, count, stride []int, data any) error {
	cstart, ccount, cstride := cSizes(start), cSizes(count), cDiffs(stride)
	n := SliceLen(data)
	if n == 0 {
		return nil
	}
	if ss, ok := data.([]string); ok {
		ptrs := make([]*C.char, n)
		if err := check(C.nc_get_vars_string(C.int(ncid), C.int(varid), sizePtr(cstart), sizePtr(ccount), diffPtr(cstride), &ptrs[0])); err != nil {
			return err
		}
		for i, p := range ptrs {
			ss[i] = C.GoString(p)
		}
		C.nc_free_string(C.size_t(n), &ptrs[0])
		return nil
	}
	p, release, err := dataPtr(data)
	if err != nil {
		return err
	}
	defer release()
	return check(C.nc_get_vars(C.int(ncid), C.int(varid), sizePtr(cstart), sizePtr(ccount), diffPtr(cstride), p))
}

func (l *Lib) DefGrp(ncid int, name string) (int, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var grp C.int
	if err := check(C.nc_def_grp(C.int(ncid), cname, &grp)); err != nil {
		return 0, err
	}
	return int(grp), nil
}

func (l *Lib) InqGrps(ncid int) ([]int, error) {
	var n C.int
	if err := check(C.nc_inq_grps(C.int(ncid), &n, nil)); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ids := make([]C.int, n)
	if err := check(C.nc_inq_grps(C.int(ncid), &n, &ids[0])); err != nil {
		return nil, err
	}
	return goInts(ids), nil
}

func (l *Lib) InqGrpName(ncid int) (string, error) {
	var name [C.NC_MAX_NAME + 1]C.char
	if err := check(C.nc_inq_grpname(C.int(ncid), &name[0])); err != nil {
		return "", err
	}
	return C.GoString(&name[0]), nil
}

func (l *Lib) InqGrpParent(ncid int) (int, error) {
	var parent C.int
	if err := check(C.nc_inq_grp_parent(C.int(ncid), &parent)); err != nil {
		return 0, err
	}
	return int(parent), nil
}

func (l *Lib) InqGrpNcid(ncid int, name string) (int, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var grp C.int
	if err := check(C.nc_inq_grp_ncid(C.int(ncid), cname, &grp)); err != nil {
		return 0, err
	}
	return int(grp), nil
}
