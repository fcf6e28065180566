package netcdf

import (
	"strconv"

	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// Dimension is a named axis of a variable.
type Dimension struct {
	file      *File
	ncid      int
	id        int
	name      string
	unlimited bool
}

func (d *Dimension) Name() string { return d.name }

// ID returns the native dimension id.
func (d *Dimension) ID() int { return d.id }

// IsUnlimited reports whether the dimension grows with the data written.
func (d *Dimension) IsUnlimited() bool { return d.unlimited }

// Len returns the current length. For an unlimited dimension this is the
// number of records written so far.
func (d *Dimension) Len() (int, error) {
	var n int
	err := call("dimension length "+strconv.Quote(d.name), func(lib *backend.Lib) error {
		if err := d.file.check(); err != nil {
			return err
		}
		var err error
		_, n, err = lib.InqDim(d.ncid, d.id)
		return err
	})
	return n, err
}
