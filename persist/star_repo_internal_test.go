package persist

import (
	"testing"

	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/stargen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRowDerivesId(t *testing.T) {
	props, err := stargen.Derive(stargen.MainSequence, 4)
	require.NoError(t, err)
	want, err := stargen.FromProperties(props)
	require.NoError(t, err)
	record, err := props.Encode()
	require.NoError(t, err)

	sys := ident.NewPacked(ident.KindSolarSystem, 12)
	row, err := decodeRow(int64(sys.Raw()), record)
	require.NoError(t, err)
	assert.Equal(t, sys, row.SystemID)
	assert.Equal(t, want, row.Star)
}

func TestDecodeRowRejectsGarbage(t *testing.T) {
	_, err := decodeRow(1, []byte("not a record"))
	assert.ErrorContains(t, err, "star of system 1")
}
