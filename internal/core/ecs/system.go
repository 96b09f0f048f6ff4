package ecs

import "fmt"

// System is a unit of behaviour held by the manager. The manager never
// calls into a system; the driver loop does.
type System interface {
	SystemName() string
	systemBase() *SystemBase
}

// SystemBase is embedded by concrete systems and carries the manager
// back-reference.
type SystemBase struct {
	manager *EntityManager
}

func (b *SystemBase) systemBase() *SystemBase { return b }

// Manager returns the owning manager, nil while unregistered.
func (b *SystemBase) Manager() *EntityManager { return b.manager }

// AddSystem registers s with m. At most one system per concrete type and
// per name may be registered.
func AddSystem[S System](m *EntityManager, s S) (S, error) {
	for _, existing := range m.systems {
		_, sameType := existing.(S)
		if sameType || existing.SystemName() == s.SystemName() {
			var zero S
			return zero, fmt.Errorf("add system %s: %w", s.SystemName(), ErrSystemExists)
		}
	}
	s.systemBase().manager = m
	m.systems = append(m.systems, s)
	return s, nil
}

// GetSystem returns the registered system of type S.
func GetSystem[S System](m *EntityManager) (S, bool) {
	for _, existing := range m.systems {
		if s, ok := existing.(S); ok {
			return s, true
		}
	}
	var zero S
	return zero, false
}

// HasSystem reports whether a system of type S is registered.
func HasSystem[S System](m *EntityManager) bool {
	_, ok := GetSystem[S](m)
	return ok
}

// RemoveSystem unregisters the system of type S.
func RemoveSystem[S System](m *EntityManager) error {
	for i, existing := range m.systems {
		if _, ok := existing.(S); ok {
			existing.systemBase().manager = nil
			m.systems = append(m.systems[:i], m.systems[i+1:]...)
			return nil
		}
	}
	var zero S
	return fmt.Errorf("remove system %T: %w", zero, ErrSystemNotFound)
}

// Systems returns the registered systems in registration order.
func (m *EntityManager) Systems() []System {
	return append([]System(nil), m.systems...)
}
