package collision

import "iter"

type edge struct {
	pair         Pair
	intersecting bool
}

// NarrowPhase keeps the intersection graph between sensor candidate pairs.
type NarrowPhase struct {
	edges        map[uint64]*edge
	adjacent     map[uint32]map[uint64]struct{}
	intersecting int

	dirty map[uint64]struct{}
}

func NewNarrowPhase() *NarrowPhase {
	return &NarrowPhase{
		edges:    make(map[uint64]*edge),
		adjacent: make(map[uint32]map[uint64]struct{}),
		dirty:    make(map[uint64]struct{}),
	}
}

// Len is the number of pairs in the graph, intersecting or not.
func (np *NarrowPhase) Len() int { return len(np.edges) }

// IntersectingLen is the number of pairs currently intersecting.
func (np *NarrowPhase) IntersectingLen() int { return np.intersecting }

// Intersections yields every pair whose shapes currently overlap. Each call
// starts a fresh pass over the graph.
func (np *NarrowPhase) Intersections() iter.Seq2[Handle, Handle] {
	return func(yield func(Handle, Handle) bool) {
		for _, e := range np.edges {
			if !e.intersecting {
				continue
			}
			if !yield(e.pair.A, e.pair.B) {
				return
			}
		}
	}
}

// IntersectionPair reports whether a and b currently intersect.
func (np *NarrowPhase) IntersectionPair(a, b Handle) bool {
	e, ok := np.edges[newPair(a, b).key()]
	return ok && e.pair == newPair(a, b) && e.intersecting
}

// IntersectionsWith yields the colliders currently intersecting h.
func (np *NarrowPhase) IntersectionsWith(h Handle) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for key := range np.adjacent[h.index] {
			e := np.edges[key]
			if !e.intersecting {
				continue
			}
			other := e.pair.A
			if other == h {
				other = e.pair.B
			} else if e.pair.B != h {
				continue
			}
			if !yield(other) {
				return
			}
		}
	}
}

// wantsEdge reports whether a pair is tracked at all: at least one side
// must be a sensor and either side's active types must allow the pair.
func wantsEdge(a, b *Collider, bodies *RigidBodySet) bool {
	if !a.sensor && !b.sensor {
		return false
	}
	ta, tb := bodies.bodyType(a), bodies.bodyType(b)
	return a.activeTypes.Test(ta, tb) || b.activeTypes.Test(ta, tb)
}

func (np *NarrowPhase) registerPairs(events []PairEvent, colliders *ColliderSet, bodies *RigidBodySet, handler EventHandler) {
	for _, ev := range events {
		key := ev.Pair.key()
		switch ev.Kind {
		case PairAdded:
			a, b := colliders.Get(ev.Pair.A), colliders.Get(ev.Pair.B)
			if a == nil || b == nil || !wantsEdge(a, b, bodies) {
				continue
			}
			np.edges[key] = &edge{pair: ev.Pair}
			np.link(ev.Pair.A.index, key)
			np.link(ev.Pair.B.index, key)
			np.dirty[key] = struct{}{}
		case PairRemoved:
			e, ok := np.edges[key]
			if !ok {
				continue
			}
			delete(np.edges, key)
			delete(np.dirty, key)
			np.unlink(ev.Pair.A.index, key)
			np.unlink(ev.Pair.B.index, key)
			if e.intersecting {
				np.intersecting--
				removed := !colliders.Contains(e.pair.A) || !colliders.Contains(e.pair.B)
				emit(handler, IntersectionEvent{Kind: IntersectionStopped, A: e.pair.A, B: e.pair.B, Removed: removed})
			}
		}
	}
}

func (np *NarrowPhase) link(index uint32, key uint64) {
	adj := np.adjacent[index]
	if adj == nil {
		adj = make(map[uint64]struct{})
		np.adjacent[index] = adj
	}
	adj[key] = struct{}{}
}

func (np *NarrowPhase) unlink(index uint32, key uint64) {
	delete(np.adjacent[index], key)
	if len(np.adjacent[index]) == 0 {
		delete(np.adjacent, index)
	}
}

// computeIntersections re-tests edges that are new or touch a modified
// collider. Other edges keep their cached state.
func (np *NarrowPhase) computeIntersections(colliders *ColliderSet, modified []Handle, handler EventHandler) {
	for _, h := range modified {
		if !colliders.Contains(h) {
			continue
		}
		for key := range np.adjacent[h.index] {
			np.dirty[key] = struct{}{}
		}
	}
	for key := range np.dirty {
		e := np.edges[key]
		delete(np.dirty, key)
		if e == nil {
			continue
		}
		a, b := colliders.Get(e.pair.A), colliders.Get(e.pair.B)
		if a == nil || b == nil {
			continue
		}
		hit := ballsIntersect(a, b)
		if hit == e.intersecting {
			continue
		}
		e.intersecting = hit
		kind := IntersectionStopped
		if hit {
			kind = IntersectionStarted
			np.intersecting++
		} else {
			np.intersecting--
		}
		emit(handler, IntersectionEvent{Kind: kind, A: e.pair.A, B: e.pair.B})
	}
}

func ballsIntersect(a, b *Collider) bool {
	d := a.translation.Sub(b.translation)
	r := a.radius + b.radius
	return d.Dot(d) <= r*r
}
