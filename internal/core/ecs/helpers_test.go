package ecs

import (
	"testing"

	"github.com/symbiote/engine/internal/core/codec"
)

type dummyComponent struct{ Base }

func (*dummyComponent) ComponentName() string { return "DummyComponent" }

type physicsComponent struct{ Base }

func (*physicsComponent) ComponentName() string { return "PhysicsComponent" }

type transformComponent struct {
	Base
	X, Y float32
}

func (*transformComponent) ComponentName() string { return "TransformComponent" }

func (c *transformComponent) Serialize(w *codec.Writer) {
	w.WriteF(c.X)
	w.WriteF(c.Y)
}

func (c *transformComponent) Deserialize(r *codec.Reader) {
	c.X = r.ReadF()
	c.Y = r.ReadF()
}

type testTypes struct {
	dummy, physics, transform ComponentType
}

func newTestManager(t *testing.T) (*EntityManager, testTypes) {
	t.Helper()
	m := NewEntityManager()
	var tt testTypes
	var err error
	if tt.dummy, err = RegisterComponent[dummyComponent](m); err != nil {
		t.Fatalf("register dummy: %v", err)
	}
	if tt.physics, err = RegisterComponent[physicsComponent](m); err != nil {
		t.Fatalf("register physics: %v", err)
	}
	if tt.transform, err = RegisterComponent[transformComponent](m); err != nil {
		t.Fatalf("register transform: %v", err)
	}
	return m, tt
}

func collect(m *EntityManager) []Entity {
	var out []Entity
	for e := range m.Entities() {
		out = append(out, e)
	}
	return out
}

func mustAdd[T any](t *testing.T, e Entity) *T {
	t.Helper()
	c, err := AddComponent[T](e)
	if err != nil {
		t.Fatalf("add component to %s: %v", e, err)
	}
	return c
}

func mustDestroy(t *testing.T, e Entity) {
	t.Helper()
	if err := e.Destroy(); err != nil {
		t.Fatalf("destroy %s: %v", e, err)
	}
}
