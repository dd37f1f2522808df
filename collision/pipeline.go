package collision

type IntersectionEventKind uint8

const (
	IntersectionStarted IntersectionEventKind = iota
	IntersectionStopped
)

func (k IntersectionEventKind) String() string {
	switch k {
	case IntersectionStarted:
		return "started"
	case IntersectionStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IntersectionEvent reports a pair entering or leaving intersection.
// Removed is set when the pair stopped because a collider was removed.
type IntersectionEvent struct {
	Kind    IntersectionEventKind
	A, B    Handle
	Removed bool
}

// EventHandler receives intersection events during Step.
type EventHandler interface {
	HandleIntersectionEvent(IntersectionEvent)
}

// EventCollector buffers events for inspection after a step.
type EventCollector struct {
	Events []IntersectionEvent
}

func (c *EventCollector) HandleIntersectionEvent(ev IntersectionEvent) {
	c.Events = append(c.Events, ev)
}

func (c *EventCollector) Reset() {
	c.Events = c.Events[:0]
}

func emit(handler EventHandler, ev IntersectionEvent) {
	if handler != nil {
		handler.HandleIntersectionEvent(ev)
	}
}

// Pipeline drives one collision detection step over a collider set.
type Pipeline struct {
	pairEvents []PairEvent
	stats      StepStats
}

// StepStats summarizes the last Step.
type StepStats struct {
	Removed      int
	Modified     int
	PairEvents   int
	Pairs        int
	Intersecting int
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Step runs broad phase then narrow phase for everything that changed
// since the previous step. Pairs further apart than prediction never
// become broad phase candidates. handler may be nil.
func (p *Pipeline) Step(prediction float64, bp *BroadPhase, np *NarrowPhase, bodies *RigidBodySet, colliders *ColliderSet, handler EventHandler) {
	removed, modified := colliders.drain()
	p.pairEvents = bp.Update(colliders, prediction, removed, modified, p.pairEvents[:0])
	np.registerPairs(p.pairEvents, colliders, bodies, handler)
	np.computeIntersections(colliders, modified, handler)

	p.stats = StepStats{
		Removed:      len(removed),
		Modified:     len(modified),
		PairEvents:   len(p.pairEvents),
		Pairs:        bp.PairLen(),
		Intersecting: np.IntersectingLen(),
	}
}

func (p *Pipeline) Stats() StepStats {
	return p.stats
}
