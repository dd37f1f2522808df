package ident

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateNeverWraps(t *testing.T) {
	c := NewCounter(KindFleet)

	c.next.Store(MaxCounter)
	id, err := c.Allocate()
	require.NoError(t, err)
	assert.Equal(t, NewPacked(KindFleet, MaxCounter), id)

	_, err = c.Allocate()
	assert.ErrorIs(t, err, ErrCounterExhausted)

	// past 2^32 draws the low 32 bits start over at 0
	c.next.Store(math.MaxUint32)
	c.Next()
	_, err = c.Allocate()
	assert.ErrorIs(t, err, ErrCounterExhausted)
	_, err = c.Allocate()
	assert.ErrorIs(t, err, ErrCounterExhausted)
}
