package ident

import (
	"fmt"
	"math"
)

// Kind is the object category stored in the top 8 bits of a PackedId.
type Kind uint8

const (
	KindSolarSystem Kind = 0x01
	KindStar        Kind = 0x02
	KindFleet       Kind = 0x03
)

const (
	counterBits = 24
	counterMask = 1<<counterBits - 1

	// MaxCounter is the largest counter that fits in a PackedId.
	MaxCounter = counterMask
)

// PackedId encodes an object kind (upper 8 bits) and a dense per-kind
// counter (lower 24 bits).
type PackedId uint32

// InvalidPacked is never handed out by an Allocator.
const InvalidPacked PackedId = math.MaxUint32

// NewPacked creates a PackedId from a kind and a counter. Counter bits above
// the 24-bit budget are dropped.
func NewPacked(kind Kind, counter uint32) PackedId {
	return PackedId(uint32(kind)<<counterBits | counter&counterMask)
}

// Kind extracts the object category.
func (p PackedId) Kind() Kind {
	return Kind(p >> counterBits)
}

// Counter extracts the 24-bit counter.
func (p PackedId) Counter() uint32 {
	return uint32(p) & counterMask
}

// SubU8 is the low 8 bits of the counter, for kinds with at most 256 objects.
func (p PackedId) SubU8() uint8 {
	return uint8(p & 0xff)
}

// SubU16 is the low 16 bits of the counter.
func (p PackedId) SubU16() uint16 {
	return uint16(p & 0xffff)
}

// Raw returns the full 32-bit value.
func (p PackedId) Raw() uint32 {
	return uint32(p)
}

func (p PackedId) Valid() bool {
	return p != InvalidPacked
}

func (p PackedId) String() string {
	if !p.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("0x%02x-0x%06x", uint8(p.Kind()), p.Counter())
}
