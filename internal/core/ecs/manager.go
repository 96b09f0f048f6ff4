// Package ecs implements the entity pool, per-entity component storage,
// the component and system registries and the binary snapshot format.
//
// An EntityManager is single-threaded. Nothing in this package locks;
// callers that share a manager across goroutines serialize access
// themselves. Component pointers handed out by the manager stay valid until
// the component is removed, its entity is destroyed or the manager is
// cleared.
package ecs

import (
	"fmt"
	"iter"
)

type attached struct {
	typ ComponentType
	c   Component
}

// EntityManager owns the entity pool, the component lists of every slot,
// the component registry and the registered systems. It also keeps a
// deferred destruction queue flushed once per tick by the cleanup system.
type EntityManager struct {
	pool         *EntityPool
	slots        [][]attached
	registry     *Registry
	systems      []System
	destroyQueue []Entity
}

func NewEntityManager() *EntityManager {
	return &EntityManager{
		pool:         NewEntityPool(),
		slots:        make([][]attached, 0, 1024),
		registry:     NewRegistry(),
		destroyQueue: make([]Entity, 0, 64),
	}
}

func (m *EntityManager) Registry() *Registry { return m.registry }
func (m *EntityManager) Pool() *EntityPool   { return m.pool }

// Size returns the number of live entities.
func (m *EntityManager) Size() int { return m.pool.Len() }

func (m *EntityManager) handle(index uint32) Entity {
	return Entity{manager: m, index: index, generation: m.pool.generations[index]}
}

// CreateEntity allocates the lowest free index, or grows the pool by one.
func (m *EntityManager) CreateEntity() Entity {
	idx, gen := m.pool.Create()
	m.ensureSlot(idx)
	return Entity{manager: m, index: idx, generation: gen}
}

func (m *EntityManager) ensureSlot(idx uint32) {
	for uint32(len(m.slots)) <= idx {
		m.slots = append(m.slots, nil)
	}
}

// CreateEntityWith creates an entity carrying one default instance of each
// listed type. Every attach runs the load hook as usual; once all of them
// exist the entity's dependencies are resolved again, so components created
// together always see each other. On failure the entity is destroyed.
func (m *EntityManager) CreateEntityWith(types ...ComponentType) (Entity, error) {
	for _, t := range types {
		if !m.registry.known(t) {
			return Entity{}, fmt.Errorf("create entity with type %d: %w", t, ErrComponentNotRegistered)
		}
	}
	e := m.CreateEntity()
	for _, t := range types {
		if _, err := m.AddComponentByType(e, t, nil); err != nil {
			_ = m.DestroyEntity(e)
			return Entity{}, err
		}
	}
	m.resolveSlot(e.index)
	return e, nil
}

// IsValid reports whether e belongs to m and addresses a live slot at the
// same generation.
func (m *EntityManager) IsValid(e Entity) bool {
	return e.manager == m && m.pool.Alive(e.index, e.generation)
}

func (m *EntityManager) check(e Entity) error {
	if !m.IsValid(e) {
		return fmt.Errorf("entity %s: %w", e, ErrInvalidEntity)
	}
	return nil
}

// DestroyEntity drops every component of e and frees its index. No hook
// runs on the dropped components.
func (m *EntityManager) DestroyEntity(e Entity) error {
	if err := m.check(e); err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	m.dropSlot(e.index)
	m.pool.Destroy(e.index)
	return nil
}

func (m *EntityManager) dropSlot(idx uint32) {
	for _, a := range m.slots[idx] {
		a.c.componentBase().entity = Entity{}
	}
	clear(m.slots[idx])
	m.slots[idx] = m.slots[idx][:0]
}

// MarkForDestruction queues e for the next FlushDestroyQueue.
func (m *EntityManager) MarkForDestruction(e Entity) error {
	if err := m.check(e); err != nil {
		return fmt.Errorf("mark for destruction: %w", err)
	}
	m.destroyQueue = append(m.destroyQueue, e)
	return nil
}

// FlushDestroyQueue destroys every queued entity and returns the ones that
// were actually destroyed. Handles that went stale after being queued are
// skipped.
func (m *EntityManager) FlushDestroyQueue() []Entity {
	if len(m.destroyQueue) == 0 {
		return nil
	}
	destroyed := make([]Entity, 0, len(m.destroyQueue))
	for _, e := range m.destroyQueue {
		if m.DestroyEntity(e) == nil {
			destroyed = append(destroyed, e)
		}
	}
	m.destroyQueue = m.destroyQueue[:0]
	return destroyed
}

// Clear forgets every entity. Registered component types and systems are
// kept.
func (m *EntityManager) Clear() {
	for i := range m.slots {
		m.dropSlot(uint32(i))
	}
	m.slots = m.slots[:0]
	m.pool.Reset()
	m.destroyQueue = m.destroyQueue[:0]
}

// Entities yields every live entity in ascending index order. Entities
// destroyed during iteration are skipped. An entity created during
// iteration is visited only if it reuses a free index the iteration has
// not reached yet; slots appended past the starting end are not visited.
// Clearing the manager from a visitor ends the iteration.
func (m *EntityManager) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		n := len(m.pool.live)
		for i := 0; i < n && i < len(m.pool.live); i++ {
			if !m.pool.live[i] {
				continue
			}
			if !yield(m.handle(uint32(i))) {
				return
			}
		}
	}
}

// Components returns e's components in attach order.
func (m *EntityManager) Components(e Entity) ([]Component, error) {
	if err := m.check(e); err != nil {
		return nil, err
	}
	slot := m.slots[e.index]
	out := make([]Component, len(slot))
	for i, a := range slot {
		out[i] = a.c
	}
	return out, nil
}

// ResolveComponentDependencies calls OnResolveDependencies on every
// component of e in attach order.
func (m *EntityManager) ResolveComponentDependencies(e Entity) error {
	if err := m.check(e); err != nil {
		return fmt.Errorf("resolve dependencies: %w", err)
	}
	m.resolveSlot(e.index)
	return nil
}

func (m *EntityManager) resolveSlot(idx uint32) {
	// a resolver may attach or remove siblings; walk a snapshot
	slot := append([]attached(nil), m.slots[idx]...)
	for _, a := range slot {
		resolve(a.c)
	}
}

func (m *EntityManager) find(idx uint32, t ComponentType) (Component, int) {
	for i, a := range m.slots[idx] {
		if a.typ == t {
			return a.c, i
		}
	}
	return nil, -1
}

// attach binds c to e under tag t and runs its load hook.
func (m *EntityManager) attach(e Entity, t ComponentType, c Component) error {
	name := m.registry.Name(t)
	if _, i := m.find(e.index, t); i >= 0 {
		return fmt.Errorf("add component %s to entity %s: %w", name, e, ErrComponentExists)
	}
	base := c.componentBase()
	if base.entity.manager != nil {
		return fmt.Errorf("add component %s to entity %s: owned by %s: %w", name, e, base.entity, ErrComponentAttached)
	}
	m.slots[e.index] = append(m.slots[e.index], attached{typ: t, c: c})
	base.entity = e
	load(c)
	return nil
}

// AddComponentByType attaches a fresh instance of t to e. init, when not
// nil, runs on the instance before it is attached and loaded.
func (m *EntityManager) AddComponentByType(e Entity, t ComponentType, init func(Component) error) (Component, error) {
	if err := m.check(e); err != nil {
		return nil, fmt.Errorf("add component: %w", err)
	}
	if !m.registry.known(t) {
		return nil, fmt.Errorf("add component type %d to entity %s: %w", t, e, ErrComponentNotRegistered)
	}
	if _, i := m.find(e.index, t); i >= 0 {
		return nil, fmt.Errorf("add component %s to entity %s: %w", m.registry.Name(t), e, ErrComponentExists)
	}
	c := m.registry.create(t)
	if init != nil {
		if err := init(c); err != nil {
			return nil, fmt.Errorf("init component %s: %w", m.registry.Name(t), err)
		}
	}
	if err := m.attach(e, t, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddComponentByName is AddComponentByType keyed by registered name.
func (m *EntityManager) AddComponentByName(e Entity, name string, init func(Component) error) (Component, error) {
	t, ok := m.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("add component %q: %w", name, ErrComponentNotRegistered)
	}
	return m.AddComponentByType(e, t, init)
}

// GetComponentByType returns e's component of type t, or nil.
func (m *EntityManager) GetComponentByType(e Entity, t ComponentType) (Component, error) {
	if err := m.check(e); err != nil {
		return nil, fmt.Errorf("get component: %w", err)
	}
	c, _ := m.find(e.index, t)
	return c, nil
}

// RemoveComponentByType drops e's component of type t. No hook runs.
func (m *EntityManager) RemoveComponentByType(e Entity, t ComponentType) error {
	if err := m.check(e); err != nil {
		return fmt.Errorf("remove component: %w", err)
	}
	c, i := m.find(e.index, t)
	if i < 0 {
		return fmt.Errorf("remove component %s from entity %s: %w", m.typeName(t), e, ErrComponentNotFound)
	}
	c.componentBase().entity = Entity{}
	m.slots[e.index] = append(m.slots[e.index][:i], m.slots[e.index][i+1:]...)
	return nil
}

func (m *EntityManager) typeName(t ComponentType) string {
	if n := m.registry.Name(t); n != "" {
		return n
	}
	return fmt.Sprintf("type %d", t)
}

// HasComponent reports whether e has every listed type.
func (m *EntityManager) HasComponent(e Entity, types ...ComponentType) (bool, error) {
	if err := m.check(e); err != nil {
		return false, err
	}
	return m.hasAll(e.index, types), nil
}

// HasAnyComponent reports whether e has at least one listed type.
func (m *EntityManager) HasAnyComponent(e Entity, types ...ComponentType) (bool, error) {
	if err := m.check(e); err != nil {
		return false, err
	}
	return m.hasAny(e.index, types), nil
}

func (m *EntityManager) hasAll(idx uint32, types []ComponentType) bool {
	for _, t := range types {
		if _, i := m.find(idx, t); i < 0 {
			return false
		}
	}
	return true
}

func (m *EntityManager) hasAny(idx uint32, types []ComponentType) bool {
	for _, t := range types {
		if _, i := m.find(idx, t); i >= 0 {
			return true
		}
	}
	return false
}
