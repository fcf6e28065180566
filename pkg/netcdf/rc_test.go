package netcdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeConfiguration(t *testing.T) {
	const key = "NCGO.TEST.ENTRY"
	require.NoError(t, RCSet(key, "1"))
	got, err := RCGet(key)
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	require.NoError(t, RCSet(key, "two"))
	got, err = RCGet(key)
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	_, err = RCGet("NCGO.TEST.UNSET")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, RCSet("", "x"), ErrInvalidArgument)
}
