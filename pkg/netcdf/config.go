package netcdf

import (
	"sync/atomic"
	"time"

	"github.com/coinbase/netcdf-go/internal/gate"
	"github.com/coinbase/netcdf-go/pkg/netcdf/logging"
)

// Config holds the process-wide settings of the package.
type Config struct {
	// Logger receives open/close events at debug level and gate warnings.
	// Nil discards everything.
	Logger logging.Logger

	// SlowCallThreshold, when positive, logs a warning for every native call
	// that holds the gate longer than this.
	SlowCallThreshold time.Duration
}

var current atomic.Pointer[Config]

// Configure installs cfg. It waits for any in-flight native call.
func Configure(cfg Config) {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	current.Store(&cfg)
	native.Configure(gate.WithLogger(cfg.Logger), gate.WithSlowThreshold(cfg.SlowCallThreshold))
}

func logger() logging.Logger {
	if c := current.Load(); c != nil {
		return c.Logger
	}
	return logging.Discard()
}
