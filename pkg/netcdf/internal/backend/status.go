package backend

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Status is a native status code. Zero is success, negative values are
// netCDF library errors and positive values are system errno values.
type Status int

const (
	NoErr         Status = 0
	EBadID        Status = -33
	ENFile        Status = -34
	EExist        Status = -35
	EInval        Status = -36
	EPerm         Status = -37
	ENotInDefine  Status = -38
	EInDefine     Status = -39
	EInvalCoords  Status = -40
	EMaxDims      Status = -41
	ENameInUse    Status = -42
	ENotAtt       Status = -43
	EMaxAtts      Status = -44
	EBadType      Status = -45
	EBadDim       Status = -46
	EUnlimPos     Status = -47
	EMaxVars      Status = -48
	ENotVar       Status = -49
	EGlobal       Status = -50
	ENotNC        Status = -51
	EMaxName      Status = -53
	EUnlimit      Status = -54
	ENoRecVars    Status = -55
	EChar         Status = -56
	EEdge         Status = -57
	EStride       Status = -58
	EBadName      Status = -59
	ERange        Status = -60
	ENoMem        Status = -61
	EVarSize      Status = -62
	EDimSize      Status = -63
	ETrunc        Status = -64
	EIO           Status = -68
	EHDFErr       Status = -101
	ECantRead     Status = -102
	ECantWrite    Status = -103
	ECantCreate   Status = -104
	ENotNC4       Status = -111
	EStrictNC3    Status = -112
	EBadGrpID     Status = -116
	ENoGrp        Status = -125
	ENotBuilt     Status = -128
	ENoent        Status = Status(syscall.ENOENT)
	EAccess       Status = Status(syscall.EACCES)
	ESysExist     Status = Status(syscall.EEXIST)
)

var messages = map[Status]string{
	NoErr:        "No error",
	EBadID:       "NetCDF: Not a valid ID",
	ENFile:       "NetCDF: Too many files open",
	EExist:       "NetCDF: File exists && NC_NOCLOBBER",
	EInval:       "NetCDF: Invalid argument",
	EPerm:        "NetCDF: Write to read only",
	ENotInDefine: "NetCDF: Operation not allowed in data mode",
	EInDefine:    "NetCDF: Operation not allowed in define mode",
	EInvalCoords: "NetCDF: Index exceeds dimension bound",
	EMaxDims:     "NetCDF: NC_MAX_DIMS exceeded",
	ENameInUse:   "NetCDF: String match to name in use",
	ENotAtt:      "NetCDF: Attribute not found",
	EMaxAtts:     "NetCDF: NC_MAX_ATTRS exceeded",
	EBadType:     "NetCDF: Not a valid data type or _FillValue type mismatch",
	EBadDim:      "NetCDF: Invalid dimension ID or name",
	EUnlimPos:    "NetCDF: NC_UNLIMITED in the wrong index",
	EMaxVars:     "NetCDF: NC_MAX_VARS exceeded",
	ENotVar:      "NetCDF: Variable not found",
	EGlobal:      "NetCDF: Action prohibited on NC_GLOBAL varid",
	ENotNC:       "NetCDF: Unknown file format",
	EMaxName:     "NetCDF: Name too long",
	EUnlimit:     "NetCDF: NC_UNLIMITED size already in use",
	ENoRecVars:   "NetCDF: nc_rec op when there are no record vars",
	EChar:        "NetCDF: Attempt to convert between text & numbers",
	EEdge:        "NetCDF: Start+count exceeds dimension bound",
	EStride:      "NetCDF: Illegal stride",
	EBadName:     "NetCDF: Name contains illegal characters",
	ERange:       "NetCDF: Numeric conversion not representable",
	ENoMem:       "NetCDF: Memory allocation (malloc) failure",
	EVarSize:     "NetCDF: One or more variable sizes violate format constraints",
	EDimSize:     "NetCDF: Invalid dimension size",
	ETrunc:       "NetCDF: File likely truncated or possibly corrupted",
	EIO:          "NetCDF: I/O failure",
	EHDFErr:      "NetCDF: HDF error",
	ECantRead:    "NetCDF: Can't read file",
	ECantWrite:   "NetCDF: Can't write file",
	ECantCreate:  "NetCDF: Can't create file",
	ENotNC4:      "NetCDF: Attempting netcdf-4 operation on netcdf-3 file",
	EStrictNC3:   "NetCDF: Attempting netcdf-4 operation on strict nc3 netcdf-4 file",
	EBadGrpID:    "NetCDF: Bad group id",
	ENoGrp:       "NetCDF: No group found.",
	ENotBuilt:    "NetCDF: Attempt to use feature that was not turned on when netCDF was built.",
}

// Error renders the status the way nc_strerror does.
func (s Status) Error() string {
	if msg, ok := messages[s]; ok {
		return msg
	}
	if s > 0 {
		return syscall.Errno(s).Error()
	}
	return fmt.Sprintf("Unknown Error %d", int(s))
}

// Code returns the raw integer status.
func (s Status) Code() int { return int(s) }

// statusOf converts an error raised inside a backend into a Status. Errors
// that already are a Status pass through; OS errors keep their errno.
func statusOf(err error) error {
	if err == nil {
		return nil
	}
	var st Status
	if errors.As(err, &st) {
		return st
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return Status(errno)
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ENoent
	case errors.Is(err, fs.ErrExist):
		return EExist
	case errors.Is(err, fs.ErrPermission):
		return EAccess
	}
	return EIO
}
