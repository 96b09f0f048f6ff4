package ecs

import "github.com/symbiote/engine/internal/core/codec"

// Component is a record owned by exactly one entity. Concrete components
// embed Base and report a stable name that is unique per type; the name
// is what keys the component in snapshots.
type Component interface {
	ComponentName() string
	componentBase() *Base
}

// Base carries the owning entity handle. The manager sets it when the
// component is attached and clears it when the component is dropped.
type Base struct {
	entity Entity
}

func (b *Base) componentBase() *Base { return b }

// Entity returns the owning entity, or the zero handle when detached.
func (b *Base) Entity() Entity { return b.entity }

// Defaulter is implemented by components whose zero value is not a
// usable default. SetDefaults runs on every factory-built instance before
// it is initialised, decoded or attached.
type Defaulter interface {
	SetDefaults()
}

// Loader is implemented by components that need work when attached. A
// component without OnLoad has its dependencies resolved instead.
type Loader interface {
	OnLoad()
}

// Resolver is implemented by components that cache sibling components.
type Resolver interface {
	OnResolveDependencies()
}

// Serializer writes a component payload. Components without one have an
// empty payload.
type Serializer interface {
	Serialize(w *codec.Writer)
}

// Deserializer reads back what Serializer wrote. Errors are reported
// through the reader.
type Deserializer interface {
	Deserialize(r *codec.Reader)
}

func load(c Component) {
	if l, ok := c.(Loader); ok {
		l.OnLoad()
		return
	}
	resolve(c)
}

func resolve(c Component) {
	if r, ok := c.(Resolver); ok {
		r.OnResolveDependencies()
	}
}

// Ref caches a sibling component looked up through the owning entity.
// It is only as fresh as the last Resolve: attaching the sibling later
// leaves the Ref empty, removing it leaves it dangling, until the next
// resolution pass. Refs are never serialized.
type Ref[T any] struct {
	ptr *T
}

// Resolve looks T up on e and caches the result, nil when absent.
func (r *Ref[T]) Resolve(e Entity) *T {
	p, err := GetComponent[T](e)
	if err != nil {
		p = nil
	}
	r.ptr = p
	return p
}

// Get returns the cached component.
func (r *Ref[T]) Get() *T { return r.ptr }

// Reset drops the cached component.
func (r *Ref[T]) Reset() { r.ptr = nil }
