package ecs

import (
	"fmt"
	"reflect"
)

func tagFor[T any](m *EntityManager) (ComponentType, error) {
	typ := reflect.TypeFor[T]()
	t, ok := m.registry.byType[typ]
	if !ok {
		return 0, fmt.Errorf("%s: %w", typ, ErrComponentNotRegistered)
	}
	return t, nil
}

// AddComponent attaches a default-constructed T to e and runs its load
// hook. The returned pointer is owned by the manager.
func AddComponent[T any](e Entity) (*T, error) {
	m := e.mgr()
	if err := m.check(e); err != nil {
		return nil, fmt.Errorf("add component: %w", err)
	}
	t, err := tagFor[T](m)
	if err != nil {
		return nil, fmt.Errorf("add component to entity %s: %w", e, err)
	}
	c, err := m.AddComponentByType(e, t, nil)
	if err != nil {
		return nil, err
	}
	return any(c).(*T), nil
}

// AttachComponent attaches a caller-constructed component to e. The
// instance must not belong to another entity.
func AttachComponent[T any, PT componentPtr[T]](e Entity, c PT) (PT, error) {
	var zero PT
	m := e.mgr()
	if err := m.check(e); err != nil {
		return zero, fmt.Errorf("attach component: %w", err)
	}
	t, err := tagFor[T](m)
	if err != nil {
		return zero, fmt.Errorf("attach component to entity %s: %w", e, err)
	}
	if err := m.attach(e, t, c); err != nil {
		return zero, err
	}
	return c, nil
}

// GetComponent returns e's T, or nil when e has none. Absence is not an
// error.
func GetComponent[T any](e Entity) (*T, error) {
	m := e.mgr()
	if err := m.check(e); err != nil {
		return nil, fmt.Errorf("get component: %w", err)
	}
	return getTyped[T](m, e.index), nil
}

func getTyped[T any](m *EntityManager, idx uint32) *T {
	t, ok := m.registry.byType[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return typed[T](m, idx, t)
}

func typed[T any](m *EntityManager, idx uint32, t ComponentType) *T {
	c, i := m.find(idx, t)
	if i < 0 {
		return nil
	}
	return any(c).(*T)
}

// RemoveComponent drops e's T.
func RemoveComponent[T any](e Entity) error {
	m := e.mgr()
	if err := m.check(e); err != nil {
		return fmt.Errorf("remove component: %w", err)
	}
	t, err := tagFor[T](m)
	if err != nil {
		return fmt.Errorf("remove component from entity %s: %w", e, err)
	}
	return m.RemoveComponentByType(e, t)
}

// HasComponent reports whether e has a T.
func HasComponent[T any](e Entity) (bool, error) {
	p, err := GetComponent[T](e)
	return p != nil, err
}
