//go:build !cgo || !netcdf_c

package backend

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"

	"github.com/ctessum/cdf"
)

const (
	magicCDF1 = "CDF\x01"
	magicCDF2 = "CDF\x02"
	magicCDF5 = "CDF\x05"
	magicHDF5 = "\x89HDF"

	numRecsOffset = 4
	fileIDShift   = 16
	groupMask     = 1<<fileIDShift - 1
)

type dimension struct {
	name   string
	length int
}

type attribute struct {
	name  string
	typ   Type
	value any // typed slice, or string for TypeChar
}

type variable struct {
	name   string
	typ    Type
	dimids []int
	atts   []attribute
	noFill bool
}

// dataset is one open file. The layout is held in the model fields and
// flushed to a cdf header on leaving define mode.
type dataset struct {
	path     string
	store    storage
	writable bool
	define   bool
	dirty    bool
	file     *cdf.File
	numrecs  int
	dims     []dimension
	atts     []attribute
	vars     []*variable
}

// Open datasets by file id. Like the handle table inside netCDF-C this map
// is not synchronized.
var (
	datasets = map[int]*dataset{}
	nextID   = 1
)

func register(ds *dataset) (int, error) {
	if nextID > 1<<(31-fileIDShift)-1 {
		return 0, ENFile
	}
	id := nextID
	nextID++
	datasets[id] = ds
	return id << fileIDShift, nil
}

func lookup(ncid int) (*dataset, error) {
	if ncid <= 0 {
		return nil, EBadID
	}
	ds, ok := datasets[ncid>>fileIDShift]
	if !ok {
		return nil, EBadID
	}
	if ncid&groupMask != 0 {
		return nil, EBadGrpID
	}
	return ds, nil
}

// definable returns the dataset for ncid if it may be redefined now.
func definable(ncid int) (*dataset, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return nil, err
	}
	if !ds.writable {
		return nil, EPerm
	}
	if !ds.define {
		return nil, ENotInDefine
	}
	return ds, nil
}

// Version identifies the native implementation.
func (l *Lib) Version() string {
	return "classic (github.com/ctessum/cdf)"
}

// Runtime configuration entries, as nc_rc_set keeps them in memory.
var rc = map[string]string{}

// RCSet stores a runtime configuration entry.
func (l *Lib) RCSet(key, value string) error {
	if key == "" {
		return EInval
	}
	rc[key] = value
	return nil
}

// RCGet returns a runtime configuration entry.
func (l *Lib) RCGet(key string) (string, bool) {
	v, ok := rc[key]
	return v, ok
}

// Create creates a dataset at path and leaves it in define mode.
func (l *Lib) Create(path string, mode int) (int, error) {
	if mode&(ModeNetCDF4|Mode64BitData) != 0 {
		return 0, ENotBuilt
	}
	ds := &dataset{path: path, writable: true, define: true, dirty: true}
	if mode&ModeDiskless != 0 {
		ds.store = &memFile{}
		return register(ds)
	}
	flags := os.O_RDWR | os.O_CREATE | os.O_TRUNC
	if mode&ModeNoClobber != 0 {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o666)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, EExist
		}
		return 0, statusOf(err)
	}
	ds.store = diskFile{f}
	id, err := register(ds)
	if err != nil {
		_ = f.Close()
	}
	return id, err
}

// Open opens an existing dataset in data mode.
func (l *Lib) Open(path string, mode int) (int, error) {
	writable := mode&ModeWrite != 0
	if mode&ModeDiskless != 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, statusOf(err)
		}
		return attach(path, &memFile{buf: data}, writable)
	}
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return 0, statusOf(err)
	}
	id, err := attach(path, diskFile{f}, writable)
	if err != nil {
		_ = f.Close()
	}
	return id, err
}

// OpenMem opens a read-only dataset held in memory. The bytes are copied.
func (l *Lib) OpenMem(name string, data []byte) (int, error) {
	return attach(name, &memFile{buf: append([]byte(nil), data...)}, false)
}

func attach(path string, store storage, writable bool) (int, error) {
	var magic [4]byte
	if _, err := store.ReadAt(magic[:], 0); err != nil {
		return 0, ENotNC
	}
	switch string(magic[:]) {
	case magicCDF1, magicCDF2:
	case magicCDF5, magicHDF5:
		return 0, ENotBuilt
	default:
		return 0, ENotNC
	}
	f, err := cdf.Open(store)
	if err != nil {
		return 0, ENotNC
	}
	if errs := f.Header.Check(); len(errs) > 0 {
		return 0, ENotNC
	}
	ds := &dataset{path: path, store: store, writable: writable, file: f}
	if err := ds.load(); err != nil {
		return 0, err
	}
	return register(ds)
}

// load builds the model from the header of an opened file.
func (ds *dataset) load() error {
	h := ds.file.Header
	names, lengths := h.Dimensions(""), h.Lengths("")
	index := make(map[string]int, len(names))
	for i, name := range names {
		ds.dims = append(ds.dims, dimension{name: name, length: lengths[i]})
		index[name] = i
	}
	for _, a := range h.Attributes("") {
		ds.atts = append(ds.atts, fromCDF(a, h.GetAttribute("", a)))
	}
	for _, name := range h.Variables() {
		v := &variable{name: name, typ: typeOfCDF(h.ZeroValue(name, 0))}
		for _, d := range h.Dimensions(name) {
			v.dimids = append(v.dimids, index[d])
		}
		for _, a := range h.Attributes(name) {
			v.atts = append(v.atts, fromCDF(a, h.GetAttribute(name, a)))
		}
		ds.vars = append(ds.vars, v)
	}

	nr, err := readNumRecs(ds.store)
	if err != nil {
		return statusOf(err)
	}
	if nr < 0 {
		size, err := ds.store.Size()
		if err != nil {
			return statusOf(err)
		}
		nr = int(h.NumRecs(size))
	}
	ds.numrecs = nr
	return nil
}

// Close leaves define mode if needed, records the record count and
// releases the dataset.
func (l *Lib) Close(ncid int) error {
	ds, err := lookup(ncid)
	if err != nil {
		return err
	}
	delete(datasets, ncid>>fileIDShift)

	if ds.define {
		err = ds.endDef()
	}
	if err == nil && ds.writable && ds.file != nil {
		err = writeNumRecs(ds.store, ds.numrecs)
	}
	if cerr := ds.store.Close(); cerr != nil && err == nil {
		err = statusOf(cerr)
	}
	return err
}

// Sync flushes a dataset in data mode to storage.
func (l *Lib) Sync(ncid int) error {
	ds, err := lookup(ncid)
	if err != nil {
		return err
	}
	if ds.define {
		return EInDefine
	}
	if ds.writable && ds.file != nil {
		if err := writeNumRecs(ds.store, ds.numrecs); err != nil {
			return err
		}
	}
	return statusOf(ds.store.Sync())
}

// Redef puts a writable dataset back into define mode.
func (l *Lib) Redef(ncid int) error {
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
	ds.define = true
	return nil
}

// EndDef leaves define mode, writing the header and preserving data.
func (l *Lib) EndDef(ncid int) error {
	ds, err := lookup(ncid)
	if err != nil {
		return err
	}
	if !ds.define {
		return ENotInDefine
	}
	return ds.endDef()
}

func (ds *dataset) endDef() error {
	if !ds.dirty {
		ds.define = false
		return nil
	}
	var saved map[*variable]any
	if ds.file != nil {
		var err error
		if saved, err = ds.snapshot(); err != nil {
			return err
		}
	}

	if err := ds.store.Truncate(0); err != nil {
		return statusOf(err)
	}
	f, err := ds.create()
	if err != nil {
		return statusOf(err)
	}
	ds.file = f
	for _, v := range ds.vars {
		if ds.isRecord(v) {
			continue
		}
		if err := f.Fill(v.name); err != nil {
			return statusOf(err)
		}
	}
	for r := 0; r < ds.numrecs; r++ {
		if err := f.FillRecord(r); err != nil {
			return statusOf(err)
		}
	}
	for v, data := range saved {
		start, count := ds.whole(v)
		if err := ds.transfer(v, start, count, nil, data, true); err != nil {
			return err
		}
	}
	ds.define, ds.dirty = false, false
	return nil
}

// snapshot reads every variable present in the current layout.
func (ds *dataset) snapshot() (map[*variable]any, error) {
	saved := make(map[*variable]any)
	for _, name := range ds.file.Header.Variables() {
		_, v := ds.varByName(name)
		if v == nil {
			continue
		}
		start, count := ds.whole(v)
		data := MakeSlice(v.typ, product(count))
		if err := ds.transfer(v, start, count, nil, data, false); err != nil {
			return nil, err
		}
		saved[v] = data
	}
	return saved, nil
}

func (ds *dataset) header() *cdf.Header {
	names := make([]string, len(ds.dims))
	lengths := make([]int, len(ds.dims))
	for i, d := range ds.dims {
		names[i], lengths[i] = d.name, d.length
	}
	h := cdf.NewHeader(names, lengths)
	for _, a := range ds.atts {
		h.AddAttribute("", a.name, toCDF(a))
	}
	for _, v := range ds.vars {
		dims := make([]string, len(v.dimids))
		for i, id := range v.dimids {
			dims[i] = ds.dims[id].name
		}
		h.AddVariable(v.name, dims, cdfZero(v.typ))
		for _, a := range v.atts {
			h.AddAttribute(v.name, a.name, toCDF(a))
		}
	}
	return h
}

// create writes the header of the current layout to the empty store.
// cdf cannot lay out a header without variables, so such a header is
// serialized while still mutable and stamped as CDF-1.
func (ds *dataset) create() (*cdf.File, error) {
	h := ds.header()
	if len(ds.vars) > 0 {
		h.Define()
		return cdf.Create(ds.store, h)
	}
	var buf bytes.Buffer
	if err := h.WriteHeader(&buf); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	copy(b, magicCDF1)
	if _, err := ds.store.WriteAt(b, 0); err != nil {
		return nil, err
	}
	return cdf.Open(ds.store)
}

// InqFormat reports the on-disk format version.
func (l *Lib) InqFormat(ncid int) (int, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return 0, err
	}
	if ds.file == nil {
		return FormatClassic, nil
	}
	var magic [4]byte
	if _, err := ds.store.ReadAt(magic[:], 0); err != nil {
		return 0, statusOf(err)
	}
	if string(magic[:]) == magicCDF2 {
		return Format64BitOffset, nil
	}
	return FormatClassic, nil
}

// InqPath returns the path or name the dataset was opened with.
func (l *Lib) InqPath(ncid int) (string, error) {
	ds, err := lookup(ncid)
	if err != nil {
		return "", err
	}
	return ds.path, nil
}

func readNumRecs(r storage) (int, error) {
	var buf [4]byte
	if _, err := r.ReadAt(buf[:], numRecsOffset); err != nil {
		return 0, err
	}
	return int(int32(binary.BigEndian.Uint32(buf[:]))), nil
}

func writeNumRecs(w storage, n int) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(int32(n)))
	_, err := w.WriteAt(buf[:], numRecsOffset)
	return statusOf(err)
}

func (ds *dataset) isRecord(v *variable) bool {
	return len(v.dimids) > 0 && ds.dims[v.dimids[0]].length == Unlimited
}

// whole returns the start and count covering every element of v.
func (ds *dataset) whole(v *variable) (start, count []int) {
	start = make([]int, len(v.dimids))
	count = make([]int, len(v.dimids))
	for i, id := range v.dimids {
		count[i] = ds.dimLen(id)
	}
	return start, count
}

func (ds *dataset) dimLen(id int) int {
	if ds.dims[id].length == Unlimited {
		return ds.numrecs
	}
	return ds.dims[id].length
}

func (ds *dataset) dimByName(name string) int {
	for i, d := range ds.dims {
		if d.name == name {
			return i
		}
	}
	return -1
}

func (ds *dataset) varByName(name string) (int, *variable) {
	for i, v := range ds.vars {
		if v.name == name {
			return i, v
		}
	}
	return -1, nil
}

func (ds *dataset) variable(varid int) (*variable, error) {
	if varid < 0 || varid >= len(ds.vars) {
		return nil, ENotVar
	}
	return ds.vars[varid], nil
}

func product(n []int) int {
	p := 1
	for _, x := range n {
		p *= x
	}
	return p
}

func typeOfCDF(zero any) Type {
	switch zero.(type) {
	case []uint8:
		return TypeByte
	case string:
		return TypeChar
	case []int16:
		return TypeShort
	case []int32:
		return TypeInt
	case []float32:
		return TypeFloat
	case []float64:
		return TypeDouble
	}
	return TypeNone
}

func cdfZero(t Type) any {
	switch t {
	case TypeByte:
		return []uint8{}
	case TypeChar:
		return ""
	}
	return MakeSlice(t, 0)
}

// fromCDF converts a header attribute value. cdf stores BYTE as []uint8.
func fromCDF(name string, value any) attribute {
	if b, ok := value.([]uint8); ok {
		return attribute{name: name, typ: TypeByte, value: bytesToInt8(b)}
	}
	if s, ok := value.(string); ok {
		return attribute{name: name, typ: TypeChar, value: s}
	}
	return attribute{name: name, typ: TypeOfSlice(value), value: copySlice(value)}
}

func toCDF(a attribute) any {
	if a.typ == TypeByte {
		return int8ToBytes(a.value.([]int8))
	}
	return a.value
}

func bytesToInt8(b []uint8) []int8 {
	out := make([]int8, len(b))
	for i, x := range b {
		out[i] = int8(x)
	}
	return out
}

func int8ToBytes(s []int8) []uint8 {
	out := make([]uint8, len(s))
	for i, x := range s {
		out[i] = uint8(x)
	}
	return out
}
