// Package backend is the native call surface of the netcdf package: integer
// handles, netCDF status codes and nc_*-shaped operations on *Lib.
//
// The default build uses a pure-Go implementation of the classic and 64-bit
// offset formats. Building with cgo and the netcdf_c tag links netCDF-C
// instead. Neither implementation is safe for concurrent use; every call
// must be made while holding the package netcdf gate.
package backend
