package ecs

import "testing"

func TestAnyAndWith(t *testing.T) {
	m, _ := newTestManager(t)

	e1 := m.CreateEntity()
	physics1 := mustAdd[physicsComponent](t, e1)

	e2 := m.CreateEntity()
	physics2 := mustAdd[physicsComponent](t, e2)
	transform2 := mustAdd[transformComponent](t, e2)

	count := 0

	ran, err := EntityWith1(e1, func(p *physicsComponent) {
		if p != physics1 {
			t.Errorf("EntityWith1 physics = %p, want %p", p, physics1)
		}
		count++
	})
	if !ran || err != nil {
		t.Fatalf("EntityWith1 ran=%v err=%v", ran, err)
	}

	ran, err = EntityAny2(e1, func(p *physicsComponent, tr *transformComponent) {
		if p != physics1 || tr != nil {
			t.Errorf("EntityAny2 got %p, %p", p, tr)
		}
		count++
	})
	if !ran || err != nil {
		t.Fatalf("EntityAny2 ran=%v err=%v", ran, err)
	}

	With1(m, func(e Entity, p *physicsComponent) {
		switch {
		case e.Equal(e1):
			if p != physics1 {
				t.Errorf("With1 e1 physics = %p", p)
			}
		case e.Equal(e2):
			if p != physics2 {
				t.Errorf("With1 e2 physics = %p", p)
			}
		default:
			t.Errorf("With1 visited unexpected %s", e)
		}
		count++
	})

	With2(m, func(e Entity, p *physicsComponent, tr *transformComponent) {
		if !e.Equal(e2) || p != physics2 || tr != transform2 {
			t.Errorf("With2 got %s, %p, %p", e, p, tr)
		}
		count++
	})

	Any2(m, func(e Entity, p *physicsComponent, tr *transformComponent) {
		switch {
		case e.Equal(e1):
			if p != physics1 || tr != nil {
				t.Errorf("Any2 e1 got %p, %p", p, tr)
			}
		case e.Equal(e2):
			if p != physics2 || tr != transform2 {
				t.Errorf("Any2 e2 got %p, %p", p, tr)
			}
		default:
			t.Errorf("Any2 visited unexpected %s", e)
		}
		count++
	})

	if count != 7 {
		t.Fatalf("visitor ran %d times, want 7", count)
	}
}

func TestEntityWithMissing(t *testing.T) {
	m, _ := newTestManager(t)
	e := m.CreateEntity()
	mustAdd[physicsComponent](t, e)
	ran, err := EntityWith2(e, func(*physicsComponent, *transformComponent) {
		t.Error("visitor ran without a transform")
	})
	if ran || err != nil {
		t.Fatalf("ran=%v err=%v", ran, err)
	}
	ran, _ = EntityAny2(e, func(*dummyComponent, *transformComponent) {
		t.Error("visitor ran with neither component")
	})
	if ran {
		t.Fatal("EntityAny2 reported a visit")
	}
}

func TestCollectingQueries(t *testing.T) {
	m, tt := newTestManager(t)
	var want []Entity
	for i := 0; i < 10; i++ {
		e := m.CreateEntity()
		switch i % 3 {
		case 0:
			mustAdd[transformComponent](t, e)
			mustAdd[physicsComponent](t, e)
			want = append(want, e)
		case 1:
			mustAdd[physicsComponent](t, e)
		}
	}

	got := m.With(tt.transform, tt.physics)
	if len(got) != len(want) {
		t.Fatalf("With returned %d entities, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("With[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if n := len(m.Any(tt.transform, tt.physics)); n != 7 {
		t.Errorf("Any matched %d, want 7", n)
	}
	if n := len(m.Any(tt.dummy)); n != 0 {
		t.Errorf("Any(dummy) matched %d", n)
	}
	if n := len(m.With()); n != 10 {
		t.Errorf("With() matched %d, want every entity", n)
	}
	if n := len(m.Any()); n != 0 {
		t.Errorf("Any() matched %d, want none", n)
	}

	var order []uint32
	With3(m, func(e Entity, _ *transformComponent, _ *physicsComponent, _ *transformComponent) {
		order = append(order, e.Index())
	})
	if len(order) != 4 || order[0] != 0 || order[3] != 9 {
		t.Errorf("With3 order = %v", order)
	}

	visits := 0
	Any3(m, func(_ Entity, d *dummyComponent, _ *physicsComponent, _ *transformComponent) {
		if d != nil {
			t.Error("Any3 produced a dummy component")
		}
		visits++
	})
	if visits != 7 {
		t.Errorf("Any3 visited %d, want 7", visits)
	}
}

func TestQueryUnregisteredType(t *testing.T) {
	m, _ := newTestManager(t)
	mustAdd[physicsComponent](t, m.CreateEntity())
	With2(m, func(Entity, *physicsComponent, *unregisteredComponent) {
		t.Error("matched an unregistered type")
	})
	n := 0
	Any1(m, func(Entity, *physicsComponent) { n++ })
	if n != 1 {
		t.Errorf("Any1 visited %d, want 1", n)
	}
}

func TestDestroyInsideQuery(t *testing.T) {
	m, _ := newTestManager(t)
	for i := 0; i < 5; i++ {
		mustAdd[physicsComponent](t, m.CreateEntity())
	}
	n := 0
	With1(m, func(e Entity, _ *physicsComponent) {
		n++
		mustDestroy(t, e)
	})
	if n != 5 || m.Size() != 0 {
		t.Fatalf("visited %d, %d left", n, m.Size())
	}
}
