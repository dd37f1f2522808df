package collision

import (
	"math"

	"github.com/kamstrup/intmap"
)

// maxProxyCells bounds how many grid cells one proxy is bucketed into.
// Larger proxies are tested against every other proxy instead.
const maxProxyCells = 4096

// Pair is an unordered pair of colliders; A has the lower slot index.
type Pair struct {
	A, B Handle
}

func newPair(a, b Handle) Pair {
	if b.index < a.index {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func (p Pair) key() uint64 {
	return uint64(p.A.index)<<32 | uint64(p.B.index)
}

type PairEventKind uint8

const (
	PairAdded PairEventKind = iota
	PairRemoved
)

// PairEvent reports a change in the broad phase candidate set.
type PairEvent struct {
	Kind PairEventKind
	Pair Pair
}

type cell [3]int32

func (c cell) key() uint64 {
	const mask = 1<<21 - 1
	return uint64(uint32(c[0])&mask)<<42 | uint64(uint32(c[1])&mask)<<21 | uint64(uint32(c[2])&mask)
}

type proxy struct {
	handle    Handle
	aabb      AABB
	lo, hi    cell
	oversized bool
}

// BroadPhase buckets collider bounds into a uniform grid and maintains the
// set of pairs whose bounds overlap.
type BroadPhase struct {
	cellSize  float64
	cells     *intmap.Map[uint64, []uint32]
	proxies   *intmap.Map[uint32, proxy]
	oversized map[uint32]struct{}
	pairs     map[uint32]map[uint32]struct{}
	pairCount int

	seen map[uint32]struct{}
}

// NewBroadPhase creates a grid with the given cell edge length.
func NewBroadPhase(cellSize float64) *BroadPhase {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &BroadPhase{
		cellSize:  cellSize,
		cells:     intmap.New[uint64, []uint32](256),
		proxies:   intmap.New[uint32, proxy](256),
		oversized: make(map[uint32]struct{}),
		pairs:     make(map[uint32]map[uint32]struct{}),
		seen:      make(map[uint32]struct{}),
	}
}

func (bp *BroadPhase) CellSize() float64 { return bp.cellSize }

// PairLen is the number of candidate pairs currently tracked.
func (bp *BroadPhase) PairLen() int { return bp.pairCount }

// ProxyLen is the number of colliders known to the broad phase.
func (bp *BroadPhase) ProxyLen() int { return bp.proxies.Len() }

// Update drops proxies of removed colliders, refreshes proxies of modified
// ones and appends the resulting pair changes to events. Bounds are grown
// by half the prediction distance so pairs closer than prediction become
// candidates.
func (bp *BroadPhase) Update(colliders *ColliderSet, prediction float64, removed, modified []Handle, events []PairEvent) []PairEvent {
	for _, h := range removed {
		p, ok := bp.proxies.Get(h.index)
		if !ok || p.handle != h {
			continue
		}
		bp.unbucket(h.index, p)
		bp.proxies.Del(h.index)
		events = bp.dropPairs(h, events, nil)
	}

	margin := prediction / 2
	for _, h := range modified {
		c := colliders.Get(h)
		if c == nil {
			continue
		}
		if old, ok := bp.proxies.Get(h.index); ok {
			bp.unbucket(h.index, old)
		}
		p := bp.newProxy(h, c.AABB(margin))
		bp.bucket(h.index, p)
		bp.proxies.Put(h.index, p)

		clear(bp.seen)
		bp.candidates(colliders, h.index, p, func(other proxy) {
			if !p.aabb.Intersects(other.aabb) {
				return
			}
			bp.seen[other.handle.index] = struct{}{}
			if bp.link(h.index, other.handle.index) {
				events = append(events, PairEvent{Kind: PairAdded, Pair: newPair(h, other.handle)})
			}
		})
		events = bp.dropPairs(h, events, bp.seen)
	}
	return events
}

func (bp *BroadPhase) newProxy(h Handle, box AABB) proxy {
	p := proxy{handle: h, aabb: box}
	cells := 1.0
	for i := 0; i < 3; i++ {
		p.lo[i] = int32(math.Floor(box.Min[i] / bp.cellSize))
		p.hi[i] = int32(math.Floor(box.Max[i] / bp.cellSize))
		cells *= float64(p.hi[i]-p.lo[i]) + 1
	}
	p.oversized = cells > maxProxyCells
	return p
}

func (bp *BroadPhase) forCells(p proxy, fn func(key uint64)) {
	for x := p.lo[0]; x <= p.hi[0]; x++ {
		for y := p.lo[1]; y <= p.hi[1]; y++ {
			for z := p.lo[2]; z <= p.hi[2]; z++ {
				fn(cell{x, y, z}.key())
			}
		}
	}
}

func (bp *BroadPhase) bucket(index uint32, p proxy) {
	if p.oversized {
		bp.oversized[index] = struct{}{}
		return
	}
	bp.forCells(p, func(key uint64) {
		bucket, _ := bp.cells.Get(key)
		bp.cells.Put(key, append(bucket, index))
	})
}

func (bp *BroadPhase) unbucket(index uint32, p proxy) {
	if p.oversized {
		delete(bp.oversized, index)
		return
	}
	bp.forCells(p, func(key uint64) {
		bucket, ok := bp.cells.Get(key)
		if !ok {
			return
		}
		for i, idx := range bucket {
			if idx == index {
				last := len(bucket) - 1
				bucket[i] = bucket[last]
				bucket = bucket[:last]
				break
			}
		}
		if len(bucket) == 0 {
			bp.cells.Del(key)
			return
		}
		bp.cells.Put(key, bucket)
	})
}

// candidates calls fn once for every other proxy sharing a cell with p.
func (bp *BroadPhase) candidates(colliders *ColliderSet, self uint32, p proxy, fn func(proxy)) {
	visited := make(map[uint32]struct{})
	visit := func(index uint32) {
		if index == self {
			return
		}
		if _, ok := visited[index]; ok {
			return
		}
		visited[index] = struct{}{}
		if other, ok := bp.proxies.Get(index); ok {
			fn(other)
		}
	}
	if p.oversized {
		for h := range colliders.Iter() {
			visit(h.index)
		}
		return
	}
	bp.forCells(p, func(key uint64) {
		bucket, _ := bp.cells.Get(key)
		for _, index := range bucket {
			visit(index)
		}
	})
	for index := range bp.oversized {
		visit(index)
	}
}

// link records a pair and reports whether it is new.
func (bp *BroadPhase) link(a, b uint32) bool {
	if _, ok := bp.pairs[a][b]; ok {
		return false
	}
	for _, e := range [2][2]uint32{{a, b}, {b, a}} {
		adj := bp.pairs[e[0]]
		if adj == nil {
			adj = make(map[uint32]struct{})
			bp.pairs[e[0]] = adj
		}
		adj[e[1]] = struct{}{}
	}
	bp.pairCount++
	return true
}

// dropPairs removes every pair of h whose partner is not in keep.
func (bp *BroadPhase) dropPairs(h Handle, events []PairEvent, keep map[uint32]struct{}) []PairEvent {
	for other := range bp.pairs[h.index] {
		if _, ok := keep[other]; ok {
			continue
		}
		partner := InvalidHandle
		if p, ok := bp.proxies.Get(other); ok {
			partner = p.handle
		}
		delete(bp.pairs[h.index], other)
		delete(bp.pairs[other], h.index)
		if len(bp.pairs[other]) == 0 {
			delete(bp.pairs, other)
		}
		bp.pairCount--
		events = append(events, PairEvent{Kind: PairRemoved, Pair: newPair(h, partner)})
	}
	if len(bp.pairs[h.index]) == 0 {
		delete(bp.pairs, h.index)
	}
	return events
}
