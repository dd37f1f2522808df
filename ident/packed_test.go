package ident_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/plus3/interstellar/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedIdLayout(t *testing.T) {
	id := ident.PackedId(0x5678abcd)
	id2 := ident.NewPacked(0x56, 0x78abcd)

	assert.Equal(t, id, id2)
	assert.Equal(t, uint32(0x5678abcd), id.Raw())
	assert.Equal(t, ident.Kind(0x56), id.Kind())
	assert.Equal(t, uint32(0x78abcd), id.Counter())
	assert.Equal(t, uint16(0xabcd), id.SubU16())
	assert.Equal(t, uint8(0xcd), id.SubU8())
}

func TestPackedIdEdgeCases(t *testing.T) {
	tests := []struct {
		kind    ident.Kind
		counter uint32
		want    uint32
	}{
		{0, 0, 0},
		{ident.KindSolarSystem, 0, 0x01000000},
		{ident.KindFleet, ident.MaxCounter, 0x03ffffff},
		{ident.KindStar, 0x1000001, 0x02000001}, // overflowing bits are dropped
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("kind=%d,counter=%d", tt.kind, tt.counter), func(t *testing.T) {
			id := ident.NewPacked(tt.kind, tt.counter)
			assert.Equal(t, tt.want, id.Raw())
			assert.Equal(t, tt.kind, id.Kind())
		})
	}
}

func TestInvalidPacked(t *testing.T) {
	assert.False(t, ident.InvalidPacked.Valid())
	assert.Equal(t, uint32(0xffffffff), ident.InvalidPacked.Raw())
	assert.Equal(t, "invalid", ident.InvalidPacked.String())
	assert.Equal(t, "0x01-0x000002", ident.NewPacked(ident.KindSolarSystem, 2).String())
}

func TestCounterStartsAtZero(t *testing.T) {
	alloc := ident.NewAllocator()

	assert.Equal(t, uint32(0), alloc.Next(ident.KindSolarSystem))
	assert.Equal(t, uint32(1), alloc.Next(ident.KindSolarSystem))
	// kinds do not share counters
	assert.Equal(t, uint32(0), alloc.Next(ident.KindFleet))

	id, err := alloc.Allocate(ident.KindSolarSystem)
	require.NoError(t, err)
	assert.Equal(t, ident.NewPacked(ident.KindSolarSystem, 2), id)
	assert.Equal(t, ident.KindFleet, alloc.Counter(ident.KindFleet).Kind())
}

func TestCounterConcurrentUnique(t *testing.T) {
	counter := ident.NewCounter(ident.KindStar)

	const workers = 8
	const perWorker = 2000

	results := make([][]uint32, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			values := make([]uint32, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				values = append(values, counter.Next())
			}
			results[w] = values
		}(w)
	}
	wg.Wait()

	seen := make(map[uint32]bool, workers*perWorker)
	for _, values := range results {
		for i, v := range values {
			assert.False(t, seen[v], "counter %d handed out twice", v)
			seen[v] = true
			if i > 0 {
				assert.Greater(t, v, values[i-1], "values seen by one caller must increase")
			}
		}
	}
	assert.Len(t, seen, workers*perWorker)
	for v := uint32(0); v < workers*perWorker; v++ {
		assert.True(t, seen[v])
	}
}
