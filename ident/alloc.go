package ident

import (
	"errors"
	"sync/atomic"
)

// ErrCounterExhausted is returned once a kind has used up its 24-bit
// counter space.
var ErrCounterExhausted = errors.New("ident: packed id counter exhausted")

// Counter is a lock-free monotonic generator for a single kind. The first
// value is 0. The count is held in 64 bits so Allocate keeps reporting
// exhaustion however many values are drawn.
type Counter struct {
	kind Kind
	next atomic.Uint64
}

// NewCounter creates a counter for the given kind.
func NewCounter(kind Kind) *Counter {
	return &Counter{kind: kind}
}

// Kind returns the kind this counter allocates for.
func (c *Counter) Kind() Kind {
	return c.kind
}

// Next returns the next counter value truncated to 32 bits. Safe for
// concurrent use.
func (c *Counter) Next() uint32 {
	return uint32(c.take())
}

// Allocate returns a fresh PackedId. Counters past MaxCounter are consumed
// but reported as exhausted, so a wrapped id is never produced.
func (c *Counter) Allocate() (PackedId, error) {
	n := c.take()
	if n > MaxCounter {
		return InvalidPacked, ErrCounterExhausted
	}
	return NewPacked(c.kind, uint32(n)), nil
}

func (c *Counter) take() uint64 {
	return c.next.Add(1) - 1
}

// Allocator owns one Counter per kind.
type Allocator struct {
	counters [256]Counter
}

// NewAllocator creates an allocator with every counter at 0.
func NewAllocator() *Allocator {
	a := &Allocator{}
	for i := range a.counters {
		a.counters[i].kind = Kind(i)
	}
	return a
}

// Counter returns the generator for kind.
func (a *Allocator) Counter(kind Kind) *Counter {
	return &a.counters[kind]
}

// Next returns the next counter value for kind.
func (a *Allocator) Next(kind Kind) uint32 {
	return a.counters[kind].Next()
}

// Allocate returns a fresh PackedId of the given kind.
func (a *Allocator) Allocate(kind Kind) (PackedId, error) {
	return a.counters[kind].Allocate()
}
