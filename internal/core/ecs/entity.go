package ecs

import (
	"container/heap"
	"fmt"
	"math"
)

// Entity is a handle to a pool slot: an index plus the generation the slot
// had when the handle was issued. It owns nothing and is safe to copy.
// The zero Entity is never valid.
type Entity struct {
	manager    *EntityManager
	index      uint32
	generation uint32
}

func (e Entity) Index() uint32           { return e.index }
func (e Entity) Generation() uint32      { return e.generation }
func (e Entity) Manager() *EntityManager { return e.manager }
func (e Entity) String() string          { return fmt.Sprintf("%d(%d)", e.index, e.generation) }

// Equal compares index and generation only.
func (e Entity) Equal(other Entity) bool {
	return e.index == other.index && e.generation == other.generation
}

// Valid reports whether the handle still addresses a live slot.
func (e Entity) Valid() bool {
	return e.manager != nil && e.manager.IsValid(e)
}

func (e Entity) Destroy() error {
	return e.mgr().DestroyEntity(e)
}

func (e Entity) ResolveComponentDependencies() error {
	return e.mgr().ResolveComponentDependencies(e)
}

// mgr returns the owning manager, or a detached empty one so that
// operations on a zero handle fail with ErrInvalidEntity instead of a nil
// dereference.
func (e Entity) mgr() *EntityManager {
	if e.manager == nil {
		return detached
	}
	return e.manager
}

var detached = NewEntityManager()

// maxEntities caps the number of slots the pool may ever allocate.
const maxEntities = math.MaxUint32

// maxRestoreFree caps the free slots a loaded stream may leave behind.
// Each record may only skip as many indices as keeps the pool's free list
// at or under this bound, so a short stream cannot force a huge table.
const maxRestoreFree = 1 << 20

// EntityPool manages slot allocation with generational indices and a free
// list. Freed indices are reused lowest first.
type EntityPool struct {
	generations []uint32
	live        []bool
	free        freeList
	count       int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 1024),
		live:        make([]bool, 0, 1024),
		free:        make(freeList, 0, 256),
	}
}

// Create allocates a slot and returns its index and current generation.
// It panics with ErrPoolExhausted once every index is in use.
func (p *EntityPool) Create() (uint32, uint32) {
	if p.free.Len() > 0 {
		idx := heap.Pop(&p.free).(uint32)
		p.live[idx] = true
		p.count++
		return idx, p.generations[idx]
	}
	if uint64(len(p.generations)) >= maxEntities {
		panic(ErrPoolExhausted)
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	p.live = append(p.live, true)
	p.count++
	return idx, 1
}

// Alive reports whether index is allocated and still at generation.
func (p *EntityPool) Alive(index, generation uint32) bool {
	if int(index) >= len(p.generations) {
		return false
	}
	return p.live[index] && p.generations[index] == generation
}

// Destroy frees index and bumps its generation. The caller validates the
// handle first.
func (p *EntityPool) Destroy(index uint32) {
	gen := p.generations[index] + 1
	if gen == 0 {
		gen = 1 // 0 is reserved for "never issued"
	}
	p.generations[index] = gen
	p.live[index] = false
	p.count--
	heap.Push(&p.free, index)
}

// Restore marks index live at exactly generation. Indices between the
// current end of the pool and index are added as free slots at
// generation 1. Restore only ever grows the pool, so records must arrive in
// ascending index order, and the pool may hold at most maxRestoreFree free
// slots afterwards.
func (p *EntityPool) Restore(index, generation uint32) error {
	if int(index) < len(p.generations) {
		return fmt.Errorf("restore entity %d(%d): index not ascending: %w", index, generation, ErrMalformedStream)
	}
	if generation == 0 {
		return fmt.Errorf("restore entity %d(%d): zero generation: %w", index, generation, ErrMalformedStream)
	}
	gap := uint64(index) - uint64(len(p.generations))
	if uint64(p.free.Len())+gap > maxRestoreFree {
		return fmt.Errorf("restore entity %d(%d): %d free slots exceed %d: %w",
			index, generation, uint64(p.free.Len())+gap, maxRestoreFree, ErrMalformedStream)
	}
	for i := uint32(len(p.generations)); i < index; i++ {
		p.generations = append(p.generations, 1)
		p.live = append(p.live, false)
		heap.Push(&p.free, i)
	}
	p.generations = append(p.generations, generation)
	p.live = append(p.live, true)
	p.count++
	return nil
}

// Len returns the number of live slots.
func (p *EntityPool) Len() int { return p.count }

// Cap returns the number of slots ever allocated (live or free).
func (p *EntityPool) Cap() int { return len(p.generations) }

// Reset forgets every slot.
func (p *EntityPool) Reset() {
	p.generations = p.generations[:0]
	p.live = p.live[:0]
	p.free = p.free[:0]
	p.count = 0
}

// freeList is a min-heap of free indices.
type freeList []uint32

func (f freeList) Len() int           { return len(f) }
func (f freeList) Less(i, j int) bool { return f[i] < f[j] }
func (f freeList) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *freeList) Push(x any)        { *f = append(*f, x.(uint32)) }
func (f *freeList) Pop() any {
	old := *f
	n := len(old)
	v := old[n-1]
	*f = old[:n-1]
	return v
}
