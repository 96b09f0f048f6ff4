package ecs

// With returns every live entity holding all of types, in ascending index
// order. With no types it returns every live entity.
func (m *EntityManager) With(types ...ComponentType) []Entity {
	var out []Entity
	for e := range m.Entities() {
		if m.hasAll(e.index, types) {
			out = append(out, e)
		}
	}
	return out
}

// Any returns every live entity holding at least one of types.
func (m *EntityManager) Any(types ...ComponentType) []Entity {
	var out []Entity
	for e := range m.Entities() {
		if m.hasAny(e.index, types) {
			out = append(out, e)
		}
	}
	return out
}

// With1 calls fn for every entity holding an A. Unregistered types never
// match.
func With1[A any](m *EntityManager, fn func(Entity, *A)) {
	ta, ok := TypeOf[A](m)
	if !ok {
		return
	}
	for e := range m.Entities() {
		if a := typed[A](m, e.index, ta); a != nil {
			fn(e, a)
		}
	}
}

// With2 calls fn for every entity holding both an A and a B.
func With2[A, B any](m *EntityManager, fn func(Entity, *A, *B)) {
	ta, okA := TypeOf[A](m)
	tb, okB := TypeOf[B](m)
	if !okA || !okB {
		return
	}
	for e := range m.Entities() {
		a := typed[A](m, e.index, ta)
		if a == nil {
			continue
		}
		if b := typed[B](m, e.index, tb); b != nil {
			fn(e, a, b)
		}
	}
}

// With3 calls fn for every entity holding an A, a B and a C.
func With3[A, B, C any](m *EntityManager, fn func(Entity, *A, *B, *C)) {
	ta, okA := TypeOf[A](m)
	tb, okB := TypeOf[B](m)
	tc, okC := TypeOf[C](m)
	if !okA || !okB || !okC {
		return
	}
	for e := range m.Entities() {
		a := typed[A](m, e.index, ta)
		if a == nil {
			continue
		}
		b := typed[B](m, e.index, tb)
		if b == nil {
			continue
		}
		if c := typed[C](m, e.index, tc); c != nil {
			fn(e, a, b, c)
		}
	}
}

// Any1 calls fn for every entity holding an A. With one type it matches
// exactly what With1 matches.
func Any1[A any](m *EntityManager, fn func(Entity, *A)) {
	With1(m, fn)
}

// Any2 calls fn for every entity holding an A or a B. The missing one is
// nil.
func Any2[A, B any](m *EntityManager, fn func(Entity, *A, *B)) {
	for e := range m.Entities() {
		a := getTyped[A](m, e.index)
		b := getTyped[B](m, e.index)
		if a != nil || b != nil {
			fn(e, a, b)
		}
	}
}

// Any3 calls fn for every entity holding at least one of A, B and C.
func Any3[A, B, C any](m *EntityManager, fn func(Entity, *A, *B, *C)) {
	for e := range m.Entities() {
		a := getTyped[A](m, e.index)
		b := getTyped[B](m, e.index)
		c := getTyped[C](m, e.index)
		if a != nil || b != nil || c != nil {
			fn(e, a, b, c)
		}
	}
}

// EntityWith1 calls fn with e's A if it has one and reports whether fn ran.
func EntityWith1[A any](e Entity, fn func(*A)) (bool, error) {
	a, err := GetComponent[A](e)
	if err != nil || a == nil {
		return false, err
	}
	fn(a)
	return true, nil
}

// EntityWith2 calls fn when e holds both an A and a B.
func EntityWith2[A, B any](e Entity, fn func(*A, *B)) (bool, error) {
	m := e.mgr()
	if err := m.check(e); err != nil {
		return false, err
	}
	a := getTyped[A](m, e.index)
	b := getTyped[B](m, e.index)
	if a == nil || b == nil {
		return false, nil
	}
	fn(a, b)
	return true, nil
}

// EntityAny2 calls fn when e holds an A or a B, passing nil for the missing
// one.
func EntityAny2[A, B any](e Entity, fn func(*A, *B)) (bool, error) {
	m := e.mgr()
	if err := m.check(e); err != nil {
		return false, err
	}
	a := getTyped[A](m, e.index)
	b := getTyped[B](m, e.index)
	if a == nil && b == nil {
		return false, nil
	}
	fn(a, b)
	return true, nil
}
