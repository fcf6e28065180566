package netcdf

import (
	"github.com/coinbase/netcdf-go/internal/gate"
	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// Version is set at build time via ldflags.
var Version = "v0.0.0-in-progress"

// WrapperVersion returns the version of this module.
func WrapperVersion() string {
	return Version
}

// LibraryVersion returns the version string reported by the native library,
// or the empty string if the library can no longer be called. Use
// NativeVersion to learn why.
func LibraryVersion() string {
	v, _ := NativeVersion()
	return v
}

// NativeVersion returns the version string reported by the native library.
func NativeVersion() (string, error) {
	return libraryVersion(native)
}

func libraryVersion(g *gate.Gate[*backend.Lib]) (string, error) {
	var v string
	err := g.Do(func(lib *backend.Lib) error {
		v = lib.Version()
		return nil
	})
	return v, wrap("library version", err)
}
