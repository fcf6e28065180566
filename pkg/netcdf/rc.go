package netcdf

import (
	"fmt"
	"strconv"

	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// RCSet sets a runtime configuration entry of the native library, as a
// line of .ncrc would.
func RCSet(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty configuration key", ErrInvalidArgument)
	}
	return call("set rc "+strconv.Quote(key), func(lib *backend.Lib) error {
		return lib.RCSet(key, value)
	})
}

// RCGet returns a runtime configuration entry of the native library. It
// fails with ErrNotFound when the key is unset.
func RCGet(key string) (string, error) {
	var (
		value string
		ok    bool
	)
	op := "get rc " + strconv.Quote(key)
	if err := call(op, func(lib *backend.Lib) error {
		value, ok = lib.RCGet(key)
		return nil
	}); err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return value, nil
}
