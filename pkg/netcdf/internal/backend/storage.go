//go:build !cgo || !netcdf_c

package backend

import (
	"io"
	"os"
)

// storage is what a dataset is read from and written to.
type storage interface {
	io.ReaderAt
	io.WriterAt
	Size() (int64, error)
	Truncate(size int64) error
	Sync() error
	Close() error
}

type diskFile struct {
	*os.File
}

func (f diskFile) Size() (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// memFile is a growable in-memory storage used for diskless datasets and
// for datasets opened from a byte slice.
type memFile struct {
	buf []byte
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, os.ErrInvalid
	}
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memFile) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, os.ErrInvalid
	}
	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		if end > int64(cap(m.buf)) {
			grown := make([]byte, end, 2*end)
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}
	return copy(m.buf[off:], p), nil
}

func (m *memFile) Size() (int64, error) { return int64(len(m.buf)), nil }

func (m *memFile) Truncate(size int64) error {
	if size < 0 {
		return os.ErrInvalid
	}
	if size <= int64(len(m.buf)) {
		clear(m.buf[size:])
		m.buf = m.buf[:size]
		return nil
	}
	_, err := m.WriteAt(make([]byte, size-int64(len(m.buf))), int64(len(m.buf)))
	return err
}

func (m *memFile) Sync() error { return nil }

func (m *memFile) Close() error {
	m.buf = nil
	return nil
}
