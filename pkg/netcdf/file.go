package netcdf

import (
	"context"
	"fmt"
	"runtime"

	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// File is an open netCDF dataset. A File is safe for concurrent use; its
// methods and those of every handle derived from it are serialized with all
// other native calls in the process.
//
// Close releases the native handle. A File that becomes unreachable without
// being closed is closed by a finalizer, but callers should not rely on it.
type File struct {
	ncid int
	path string

	closed bool // read and written only under the native gate
}

// Open opens an existing file read-only.
func Open(path string) (*File, error) {
	return OpenWith(path, 0)
}

// OpenWith opens an existing file read-only with extra mode flags.
func OpenWith(path string, mode Mode) (*File, error) {
	return openFile("open", path, int(mode))
}

// Append opens an existing file for reading and writing.
func Append(path string) (*File, error) {
	return AppendWith(path, 0)
}

// AppendWith opens an existing file for writing with extra mode flags.
func AppendWith(path string, mode Mode) (*File, error) {
	return openFile("append", path, int(mode)|backend.ModeWrite)
}

func openFile(op, path string, mode int) (*File, error) {
	var ncid int
	err := call(op+" "+path, func(lib *backend.Lib) error {
		var err error
		ncid, err = lib.Open(path, mode)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newFile(ncid, path, op), nil
}

// Create creates a new file, replacing any existing one. The default format
// is classic.
func Create(path string) (*File, error) {
	return CreateWith(path, 0)
}

// CreateWith creates a new file with the given mode flags.
func CreateWith(path string, mode Mode) (*File, error) {
	var ncid int
	err := call("create "+path, func(lib *backend.Lib) error {
		var err error
		ncid, err = lib.Create(path, int(mode))
		return err
	})
	if err != nil {
		return nil, err
	}
	return newFile(ncid, path, "create"), nil
}

// OpenMem opens a read-only dataset from an in-memory image. name is used
// only for error messages and Path.
func OpenMem(name string, data []byte) (*File, error) {
	var ncid int
	err := call("open memory "+name, func(lib *backend.Lib) error {
		var err error
		ncid, err = lib.OpenMem(name, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newFile(ncid, name, "open memory"), nil
}

func newFile(ncid int, path, how string) *File {
	f := &File{ncid: ncid, path: path}
	runtime.SetFinalizer(f, (*File).finalize)
	logger().Debug(context.Background(), "netcdf file opened", "path", path, "how", how)
	return f
}

func (f *File) finalize() {
	if err := f.Close(); err != nil {
		logger().Warn(context.Background(), "netcdf file closed by finalizer failed", "path", f.path, "error", err)
	}
}

// check reports whether the file may still be used. Callers hold the gate.
func (f *File) check() error {
	if f.closed {
		return fmt.Errorf("%w: %s is closed", ErrInvalidHandle, f.path)
	}
	return nil
}

// Close closes the file, leaving define mode first if needed. Closing a
// closed file is a no-op.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	runtime.SetFinalizer(f, nil)
	var already bool
	err := call("close "+f.path, func(lib *backend.Lib) error {
		if f.closed {
			already = true
			return nil
		}
		f.closed = true
		return lib.Close(f.ncid)
	})
	if !already {
		logger().Debug(context.Background(), "netcdf file closed", "path", f.path, "error", err)
	}
	return err
}

// Sync flushes buffered data to disk.
func (f *File) Sync() error {
	return call("sync "+f.path, func(lib *backend.Lib) error {
		if err := f.check(); err != nil {
			return err
		}
		return dataMode(lib, f.ncid, func() error { return lib.Sync(f.ncid) })
	})
}

// Path returns the path the native library reports for the file.
func (f *File) Path() (string, error) {
	var p string
	err := call("path", func(lib *backend.Lib) error {
		if err := f.check(); err != nil {
			return err
		}
		var err error
		p, err = lib.InqPath(f.ncid)
		return err
	})
	return p, err
}

// Format returns the on-disk format.
func (f *File) Format() (Format, error) {
	var format int
	err := call("format "+f.path, func(lib *backend.Lib) error {
		if err := f.check(); err != nil {
			return err
		}
		var err error
		format, err = lib.InqFormat(f.ncid)
		return err
	})
	return Format(format), err
}

// Root returns the root group.
func (f *File) Root() *Group {
	return &Group{file: f, ncid: f.ncid}
}

// Dimension looks up a dimension of the root group.
func (f *File) Dimension(name string) (*Dimension, error) { return f.Root().Dimension(name) }

// Dimensions lists the dimensions of the root group.
func (f *File) Dimensions() ([]*Dimension, error) { return f.Root().Dimensions() }

// Variable looks up a variable of the root group.
func (f *File) Variable(name string) (*Variable, error) { return f.Root().Variable(name) }

// Variables lists the variables of the root group.
func (f *File) Variables() ([]*Variable, error) { return f.Root().Variables() }

// Attribute looks up a global attribute.
func (f *File) Attribute(name string) (*Attribute, error) { return f.Root().Attribute(name) }

// Attributes lists the global attributes.
func (f *File) Attributes() ([]*Attribute, error) { return f.Root().Attributes() }

// Group looks up a child group of the root group.
func (f *File) Group(name string) (*Group, error) { return f.Root().Group(name) }

// Groups lists the child groups of the root group.
func (f *File) Groups() ([]*Group, error) { return f.Root().Groups() }

// AddDimension defines a fixed-length dimension in the root group.
func (f *File) AddDimension(name string, length int) (*Dimension, error) {
	return f.Root().AddDimension(name, length)
}

// AddUnlimitedDimension defines an unlimited dimension in the root group.
func (f *File) AddUnlimitedDimension(name string) (*Dimension, error) {
	return f.Root().AddUnlimitedDimension(name)
}

// AddVariable defines a root-group variable over the named dimensions.
func (f *File) AddVariable(name string, typ Type, dims ...string) (*Variable, error) {
	return f.Root().AddVariable(name, typ, dims...)
}

// AddVariableFromDimensions is AddVariable with dimension handles.
func (f *File) AddVariableFromDimensions(name string, typ Type, dims ...*Dimension) (*Variable, error) {
	return f.Root().AddVariableFromDimensions(name, typ, dims...)
}

// AddStringVariable defines a root-group variable of type String.
func (f *File) AddStringVariable(name string, dims ...string) (*Variable, error) {
	return f.Root().AddStringVariable(name, dims...)
}

// PutAttribute writes a global attribute.
func (f *File) PutAttribute(name string, value any) (*Attribute, error) {
	return f.Root().PutAttribute(name, value)
}

// DeleteAttribute removes a global attribute.
func (f *File) DeleteAttribute(name string) error { return f.Root().DeleteAttribute(name) }

// AddGroup creates a child group of the root group.
func (f *File) AddGroup(name string) (*Group, error) { return f.Root().AddGroup(name) }

// Update opens path for writing, runs fn and closes the file. The close
// error is returned when fn succeeds.
func Update(path string, fn func(f *File) error) (err error) {
	f, err := Append(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
