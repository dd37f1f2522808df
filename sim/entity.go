package sim

// Entity encodes a generation (upper 32 bits) and a slot index (lower 32
// bits). Index 0 is never allocated, so the zero Entity is always invalid.
type Entity uint64

// NilEntity is the invalid handle.
const NilEntity Entity = 0

// NewEntity creates an Entity from a slot index and generation.
func NewEntity(index uint32, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index.
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the generation.
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

func (e Entity) IsNil() bool {
	return e == NilEntity
}

// entityPool hands out generational indices and recycles freed slots.
type entityPool struct {
	generations []uint32
	freeList    []uint32
	alive       int
}

func newEntityPool() entityPool {
	return entityPool{
		// slot 0 is reserved for NilEntity
		generations: make([]uint32, 1, 1024),
	}
}

func (p *entityPool) create() Entity {
	p.alive++
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewEntity(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 0)
	return NewEntity(idx, 0)
}

func (p *entityPool) isAlive(e Entity) bool {
	idx := e.Index()
	if idx == 0 || int(idx) >= len(p.generations) {
		return false
	}
	return p.generations[idx] == e.Generation()
}

func (p *entityPool) destroy(e Entity) bool {
	if !p.isAlive(e) {
		return false
	}
	idx := e.Index()
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
	p.alive--
	return true
}
