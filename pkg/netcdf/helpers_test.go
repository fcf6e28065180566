package netcdf

import "strings"

// classicBuild reports whether the pure-Go classic library is linked.
func classicBuild() bool {
	return strings.HasPrefix(LibraryVersion(), "classic")
}
