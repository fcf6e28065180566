// Package netcdf reads and writes netCDF datasets through a native netCDF
// library.
//
// The native library is not thread-safe. Every operation in this package,
// including metadata queries and Close, holds a single process-wide lock
// for the whole of its native work, so Files, Groups, Variables and the
// other handles may be shared freely between goroutines. Calls from
// different goroutines are serialized, never interleaved, even when they
// touch different files. A slow read of one file therefore delays every
// other caller.
//
// The lock covers only calls made through this package. When netCDF-C is
// linked (build tags cgo and netcdf_c), HDF5 is usually linked too; a
// program that also calls HDF5 through another binding must serialize those
// calls against this package itself.
//
// If a native call panics, the package stops calling the native library and
// every later operation returns an error matching ErrPoisoned.
//
// The default build uses a pure-Go implementation of the classic and 64-bit
// offset formats. Groups, compression, chunking and the netCDF-4 types need
// netCDF-C and fail with ErrNotSupported otherwise.
package netcdf
