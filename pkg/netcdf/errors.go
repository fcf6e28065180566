package netcdf

import (
	"errors"
	"fmt"

	"github.com/coinbase/netcdf-go/internal/gate"
	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

// Error categories. Every error returned by this package matches at most one
// of them with errors.Is.
var (
	ErrNotFound          = errors.New("netcdf: not found")
	ErrAlreadyExists     = errors.New("netcdf: already exists")
	ErrTypeMismatch      = errors.New("netcdf: type mismatch")
	ErrDimensionMismatch = errors.New("netcdf: dimension mismatch")
	ErrIO                = errors.New("netcdf: i/o failure")
	ErrInvalidHandle     = errors.New("netcdf: invalid handle")
	ErrNotSupported      = errors.New("netcdf: not supported")
	ErrInvalidArgument   = errors.New("netcdf: invalid argument")
	ErrDefineMode        = errors.New("netcdf: wrong define mode")
	ErrPermission        = errors.New("netcdf: permission denied")

	// ErrPoisoned means a native call panicked. The native state can no
	// longer be trusted and every later call fails with this error.
	ErrPoisoned = gate.ErrPoisoned
)

// StatusError is a failure reported by the native library.
type StatusError struct {
	// Op names the public operation that failed.
	Op string
	// Code is the native status code (netCDF numbering).
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("netcdf: %s: %s (status %d)", e.Op, backend.Status(e.Code).Error(), e.Code)
}

// Is matches the category sentinel of the status code.
func (e *StatusError) Is(target error) bool {
	kind := category(backend.Status(e.Code))
	return kind != nil && kind == target
}

func category(st backend.Status) error {
	switch st {
	case backend.ENotVar, backend.ENotAtt, backend.EBadDim, backend.ENoGrp, backend.ENoent:
		return ErrNotFound
	case backend.ENameInUse, backend.EExist, backend.ESysExist:
		return ErrAlreadyExists
	case backend.EBadType, backend.EChar, backend.ERange:
		return ErrTypeMismatch
	case backend.EInvalCoords, backend.EEdge, backend.EStride, backend.EUnlimPos, backend.EDimSize:
		return ErrDimensionMismatch
	case backend.EBadID, backend.EBadGrpID:
		return ErrInvalidHandle
	case backend.ENotNC4, backend.ENotBuilt, backend.EStrictNC3:
		return ErrNotSupported
	case backend.EInval, backend.EBadName, backend.EMaxName, backend.EGlobal, backend.EUnlimit,
		backend.EMaxDims, backend.EMaxVars, backend.EMaxAtts, backend.ENoRecVars, backend.EVarSize:
		return ErrInvalidArgument
	case backend.ENotInDefine, backend.EInDefine:
		return ErrDefineMode
	case backend.EPerm, backend.EAccess:
		return ErrPermission
	case backend.NoErr:
		return nil
	}
	return ErrIO
}

// wrap converts native statuses into *StatusError. Other errors pass
// through unchanged.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var st backend.Status
	if errors.As(err, &st) {
		return &StatusError{Op: op, Code: int(st)}
	}
	return err
}

// IsRecoverable reports whether the library is still usable after err.
// Only poisoning is unrecoverable.
func IsRecoverable(err error) bool {
	return !errors.Is(err, ErrPoisoned)
}

func typeMismatch(what string, want, got Type) error {
	return fmt.Errorf("%w: %s has type %s, not %s", ErrTypeMismatch, what, want, got)
}
