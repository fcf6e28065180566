package netcdf

import (
	"errors"
	"time"

	"github.com/coinbase/netcdf-go/internal/gate"
	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// native is the only way into the native library. Every exported operation
// makes one call to native.Do and performs all of its native calls inside
// that closure.
var native = gate.New(backend.Load())

// call runs fn under the gate and tags native failures with op.
func call(op string, fn func(lib *backend.Lib) error) error {
	return wrap(op, native.Do(fn))
}

// dataMode runs fn, first leaving define mode if the dataset reports that
// it is still being defined.
func dataMode(lib *backend.Lib, ncid int, fn func() error) error {
	err := fn()
	if !errors.Is(err, backend.EInDefine) {
		return err
	}
	if err := lib.EndDef(ncid); err != nil {
		return err
	}
	return fn()
}

// defineMode runs fn, first entering define mode if the dataset is in data
// mode.
func defineMode(lib *backend.Lib, ncid int, fn func() error) error {
	err := fn()
	if !errors.Is(err, backend.ENotInDefine) {
		return err
	}
	if err := lib.Redef(ncid); err != nil {
		return err
	}
	return fn()
}

// GateStats is a snapshot of the native gate counters.
type GateStats struct {
	// Calls is the number of acquisitions.
	Calls uint64
	// Contended counts acquisitions that had to wait.
	Contended uint64
	// Wait and Held are the total time spent waiting for and holding the
	// lock.
	Wait, Held time.Duration
	// Poisoned is set once a native call has panicked.
	Poisoned bool
}

// Stats returns the native gate counters.
func Stats() GateStats {
	s := native.Stats()
	return GateStats{
		Calls:     s.Calls,
		Contended: s.Contended,
		Wait:      s.Wait,
		Held:      s.Held,
		Poisoned:  s.Poisoned,
	}
}
