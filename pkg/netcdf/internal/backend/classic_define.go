//go:build !cgo || !netcdf_c

package backend

import "math"

const fillValueAtt = "_FillValue"

// DefDim defines a dimension. A length of Unlimited makes the record
// dimension, of which there is at most one.
func (l *Lib) DefDim(ncid int, name string, length int) (int, error) {
	ds, err := definable(ncid)
	if err != nil {
		return 0, err
	}
	if err := ValidName(name); err != nil {
		return 0, err
	}
	if length < 0 || length > math.MaxInt32 {
		return 0, EDimSize
	}
	if ds.dimByName(name) >= 0 {
		return 0, ENameInUse
	}
	if length == Unlimited {
		for _, d := range ds.dims {
			if d.length == Unlimited {
				return 0, EUnlimit
			}
		}
	}
	ds.dims = append(ds.dims, dimension{name: name, length: length})
	ds.dirty = true
	return len(ds.dims) - 1, nil
}

func (l *Lib) InqDimID(ncid int, name string) (int, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return 0, err
	}
	if id := ds.dimByName(name); id >= 0 {
		return id, nil
	}
	return 0, EBadDim
}

// InqDim returns the name and current length of a dimension.
func (l *Lib) InqDim(ncid, dimid int) (string, int, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return "", 0, err
	}
	if dimid < 0 || dimid >= len(ds.dims) {
		return "", 0, EBadDim
	}
	return ds.dims[dimid].name, ds.dimLen(dimid), nil
}

func (l *Lib) InqDimIDs(ncid int) ([]int, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(ds.dims))
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}

func (l *Lib) InqUnlimDims(ncid int) ([]int, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return nil, err
	}
	var ids []int
	for i, d := range ds.dims {
		if d.length == Unlimited {
			ids = append(ids, i)
		}
	}
	return ids, nil
}

// DefVar defines a variable over the given dimensions, outermost first.
func (l *Lib) DefVar(ncid int, name string, typ Type, dimids []int) (int, error) {
	ds, err := definable(ncid)
	if err != nil {
		return 0, err
	}
	if err := ValidName(name); err != nil {
		return 0, err
	}
	if err := classicType(typ); err != nil {
		return 0, err
	}
	if i, _ := ds.varByName(name); i >= 0 {
		return 0, ENameInUse
	}
	for i, id := range dimids {
		if id < 0 || id >= len(ds.dims) {
			return 0, EBadDim
		}
		if i > 0 && ds.dims[id].length == Unlimited {
			return 0, EUnlimPos
		}
	}
	ds.vars = append(ds.vars, &variable{name: name, typ: typ, dimids: append([]int(nil), dimids...)})
	ds.dirty = true
	return len(ds.vars) - 1, nil
}

// classicType rejects types outside the classic model. The netCDF-4 types
// are reported as unsupported rather than invalid.
func classicType(t Type) error {
	switch {
	case t.Classic():
		return nil
	case t.Valid():
		return ENotNC4
	}
	return EBadType
}

func (l *Lib) InqVarID(ncid int, name string) (int, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return 0, err
	}
	if i, _ := ds.varByName(name); i >= 0 {
		return i, nil
	}
	return 0, ENotVar
}

func (l *Lib) InqVar(ncid, varid int) (VarInfo, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return VarInfo{}, err
	}
	v, err := ds.variable(varid)
	if err != nil {
		return VarInfo{}, err
	}
	return VarInfo{
		Name:   v.name,
		Type:   v.typ,
		DimIDs: append([]int(nil), v.dimids...),
		NAtts:  len(v.atts),
	}, nil
}

func (l *Lib) InqVarIDs(ncid int) ([]int, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(ds.vars))
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}

// DefVarFill sets the fill mode of a variable and, when fill is a one
// element slice, its _FillValue attribute. Classic datasets are always
// prefilled; the no-fill flag is recorded and reported only.
func (l *Lib) DefVarFill(ncid, varid int, noFill bool, fill any) error {
	ds, err := definable(ncid)
	if err != nil {
		return err
	}
	v, err := ds.variable(varid)
	if err != nil {
		return err
	}
	if fill != nil {
		if !Matches(v.typ, fill) || SliceLen(fill) != 1 {
			return EBadType
		}
		a := attribute{name: fillValueAtt, typ: v.typ, value: copySlice(fill)}
		if v.typ == TypeChar {
			a.value = string(fill.([]byte))
		}
		setAttr(&v.atts, a)
		ds.dirty = true
	}
	v.noFill = noFill
	return nil
}

// InqVarFill returns the no-fill flag and the fill value as a one element
// slice.
func (l *Lib) InqVarFill(ncid, varid int) (bool, any, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return false, nil, err
	}
	v, err := ds.variable(varid)
	if err != nil {
		return false, nil, err
	}
	for _, a := range v.atts {
		if a.name != fillValueAtt || a.typ != v.typ {
			continue
		}
		if s, ok := a.value.(string); ok && len(s) == 1 {
			return v.noFill, []byte(s), nil
		}
		if SliceLen(a.value) == 1 {
			return v.noFill, copySlice(a.value), nil
		}
	}
	return v.noFill, DefaultFill(v.typ), nil
}

func (l *Lib) DefVarDeflate(ncid, varid int, shuffle, deflate bool, level int) error {
	ds, err := lookup(ncid)
	if err != nil {
		return err
	}
	if _, err := ds.variable(varid); err != nil {
		return err
	}
	return ENotNC4
}

func (l *Lib) DefVarChunking(ncid, varid int, chunks []int) error {
	ds, err := lookup(ncid)
	if err != nil {
		return err
	}
	if _, err := ds.variable(varid); err != nil {
		return err
	}
	return ENotNC4
}

func (l *Lib) DefVarEndian(ncid, varid, endian int) error {
	ds, err := lookup(ncid)
	if err != nil {
		return err
	}
	if _, err := ds.variable(varid); err != nil {
		return err
	}
	return ENotNC4
}

func (l *Lib) InqVarEndian(ncid, varid int) (int, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return 0, err
	}
	if _, err := ds.variable(varid); err != nil {
		return 0, err
	}
	return 0, ENotNC4
}

func (ds *dataset) attrs(varid int) (*[]attribute, *variable, error) {
	if varid == Global {
		return &ds.atts, nil, nil
	}
	v, err := ds.variable(varid)
	if err != nil {
		return nil, nil, err
	}
	return &v.atts, v, nil
}

func setAttr(atts *[]attribute, a attribute) {
	for i := range *atts {
		if (*atts)[i].name == a.name {
			(*atts)[i] = a
			return
		}
	}
	*atts = append(*atts, a)
}

// PutAtt creates or replaces an attribute. Char values are strings, all
// other types are typed slices.
func (l *Lib) PutAtt(ncid, varid int, name string, typ Type, value any) error {
	ds, err := lookup(ncid)
	if err != nil {
		return err
	}
	if !ds.writable {
		return EPerm
	}
	atts, v, err := ds.attrs(varid)
	if err != nil {
		return err
	}
	if err := ValidName(name); err != nil {
		return err
	}
	if err := classicType(typ); err != nil {
		return err
	}
	a := attribute{name: name, typ: typ}
	if typ == TypeChar {
		s, ok := value.(string)
		if !ok {
			return EChar
		}
		a.value = s
	} else {
		if !Matches(typ, value) {
			return EBadType
		}
		a.value = copySlice(value)
	}
	if v != nil && name == fillValueAtt {
		if typ != v.typ {
			return EBadType
		}
		if n := attrLen(a); n != 1 {
			return EInval
		}
	}
	if !ds.define {
		return ENotInDefine
	}
	setAttr(atts, a)
	ds.dirty = true
	return nil
}

func attrLen(a attribute) int {
	if s, ok := a.value.(string); ok {
		return len(s)
	}
	return SliceLen(a.value)
}

// GetAtt returns an attribute's type and a copy of its value.
func (l *Lib) GetAtt(ncid, varid int, name string) (Type, any, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return TypeNone, nil, err
	}
	atts, _, err := ds.attrs(varid)
	if err != nil {
		return TypeNone, nil, err
	}
	for _, a := range *atts {
		if a.name != name {
			continue
		}
		if s, ok := a.value.(string); ok {
			return a.typ, s, nil
		}
		return a.typ, copySlice(a.value), nil
	}
	return TypeNone, nil, ENotAtt
}

func (l *Lib) InqAttNames(ncid, varid int) ([]string, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return nil, err
	}
	atts, _, err := ds.attrs(varid)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(*atts))
	for i, a := range *atts {
		names[i] = a.name
	}
	return names, nil
}

func (l *Lib) DelAtt(ncid, varid int, name string) error {
	ds, err := definable(ncid)
	if err != nil {
		return err
	}
	atts, _, err := ds.attrs(varid)
	if err != nil {
		return err
	}
	for i, a := range *atts {
		if a.name == name {
			*atts = append((*atts)[:i], (*atts)[i+1:]...)
			ds.dirty = true
			return nil
		}
	}
	return ENotAtt
}

// DefGrp is a netCDF-4 operation.
func (l *Lib) DefGrp(ncid int, name string) (int, error) {
	if _, err := lookup(ncid); err != nil {
		return 0, err
	}
	return 0, ENotNC4
}

// InqGrps lists child groups. Classic datasets have none.
func (l *Lib) InqGrps(ncid int) ([]int, error) {
	if _, err := lookup(ncid); err != nil {
		return nil, err
	}
	return nil, nil
}

// InqGrpParent fails with ENoGrp: the root group has no parent.
func (l *Lib) InqGrpParent(ncid int) (int, error) {
	if _, err := lookup(ncid); err != nil {
		return 0, err
	}
	return 0, ENoGrp
}

func (l *Lib) InqGrpName(ncid int) (string, error) {
	if _, err := lookup(ncid); err != nil {
		return "", err
	}
	return "/", nil
}

func (l *Lib) InqGrpNcid(ncid int, name string) (int, error) {
	if _, err := lookup(ncid); err != nil {
		return 0, err
	}
	return 0, ENotNC4
}
