// Package internalcheck holds static checks of the netcdf package's locking
// policy. It contains only tests.
//
// The checks load the netcdf packages with golang.org/x/tools/go/packages
// and assert that:
//
//   - only pkg/netcdf imports the native backend, and only gate.go there
//     obtains the native library;
//   - no closure run under the native gate reaches the gate again, which
//     would deadlock the non-reentrant lock.
package internalcheck
