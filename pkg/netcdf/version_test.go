package netcdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/netcdf-go/internal/gate"
	"github.com/coinbase/netcdf-go/pkg/netcdf/internal/backend"
)

func TestNativeVersion(t *testing.T) {
	v, err := NativeVersion()
	require.NoError(t, err)
	assert.NotEmpty(t, v)
	assert.Equal(t, v, LibraryVersion())
}

func TestVersionOfPoisonedLibrary(t *testing.T) {
	g := gate.New(&backend.Lib{})
	_ = g.Do(func(*backend.Lib) error { panic("native crash") })

	v, err := libraryVersion(g)
	assert.Empty(t, v)
	assert.ErrorIs(t, err, ErrPoisoned)
	assert.False(t, IsRecoverable(err))
}
