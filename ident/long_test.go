package ident_test

import (
	"testing"

	"github.com/plus3/interstellar/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIsPure(t *testing.T) {
	data := []byte{0x96, 0x01, 0xcb, 0x3f, 0xf0, 0, 0, 0, 0, 0, 0}

	a := ident.Derive(data)
	b := ident.Derive(append([]byte(nil), data...))
	assert.Equal(t, a, b)
	assert.True(t, a.Derived())
	assert.False(t, a.IsNil())

	changed := append([]byte(nil), data...)
	changed[4] ^= 0x01
	assert.NotEqual(t, a, ident.Derive(changed))
}

func TestRandomIsNotDerived(t *testing.T) {
	a := ident.Random()
	b := ident.Random()

	assert.NotEqual(t, a, b)
	assert.False(t, a.Derived())
	assert.False(t, a.IsNil())
}

func TestLongIdOrdering(t *testing.T) {
	var lo, hi ident.LongId
	hi[0] = 1

	assert.Equal(t, -1, lo.Compare(hi))
	assert.Equal(t, 1, hi.Compare(lo))
	assert.Equal(t, 0, hi.Compare(hi))
	assert.True(t, ident.NilLong.IsNil())
}

func TestLongIdText(t *testing.T) {
	id := ident.Derive([]byte("sol"))

	text, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, id.String(), string(text))

	var back ident.LongId
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, id, back)

	parsed, err := ident.ParseLong(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ident.ParseLong("not-a-uuid")
	assert.Error(t, err)
}
