package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/symbiote/engine/internal/component"
	"github.com/symbiote/engine/internal/core/ecs"
)

const testScene = `
entities:
  - name: player
    components:
      game.Sprite: {glyph: "@"}
      game.Transform: {x: 10, y: 5}
      game.RigidBody: {speed: 1.5}
  - name: rock
    count: 3
    components:
      game.Transform:
      game.Sprite: {glyph: "o"}
  - name: empty
`

func newWorld(t *testing.T) *ecs.EntityManager {
	t.Helper()
	m := ecs.NewEntityManager()
	if _, err := component.Register(m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSpawnScene(t *testing.T) {
	s, err := ParseScene([]byte(testScene))
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 5 {
		t.Fatalf("Len = %d, want 5", s.Len())
	}

	m := newWorld(t)
	es, err := s.Spawn(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(es) != 5 || m.Size() != 5 {
		t.Fatalf("spawned %d, Size %d", len(es), m.Size())
	}

	player := es[0]
	tr, _ := ecs.GetComponent[component.Transform](player)
	if tr == nil || tr.X != 10 || tr.Y != 5 || tr.ScaleX != 1 || tr.ScaleY != 1 {
		t.Fatalf("player transform = %+v", tr)
	}
	rb, _ := ecs.GetComponent[component.RigidBody](player)
	if rb == nil || rb.Speed != 1.5 {
		t.Fatalf("player body = %+v", rb)
	}
	sp, _ := ecs.GetComponent[component.Sprite](player)
	// the sprite came first, so only the explicit pass can link it
	if sp == nil || sp.Glyph != "@" || sp.Transform() != tr {
		t.Fatalf("player sprite = %+v", sp)
	}

	cs, _ := m.Components(player)
	if len(cs) != 3 || cs[0].ComponentName() != "game.Sprite" || cs[2].ComponentName() != "game.RigidBody" {
		t.Fatalf("attach order = %v", cs)
	}

	for _, rock := range es[1:4] {
		tr, _ := ecs.GetComponent[component.Transform](rock)
		if tr == nil || tr.X != 0 || tr.ScaleX != 1 {
			t.Fatalf("rock transform = %+v", tr)
		}
	}
	if cs, _ := m.Components(es[4]); len(cs) != 0 {
		t.Fatalf("empty entity has %d components", len(cs))
	}
}

func TestSpawnErrors(t *testing.T) {
	tests := []struct {
		name     string
		scene    string
		want     error
		wantLeft int
	}{
		{
			"unknown component",
			"entities:\n  - name: a\n  - name: b\n    components:\n      game.Ghost: {}\n",
			ecs.ErrComponentNotRegistered,
			1,
		},
		{
			"unknown after known",
			"entities:\n  - components:\n      game.Sprite: {}\n      game.Ghost: {}\n",
			ecs.ErrComponentNotRegistered,
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScene([]byte(tt.scene))
			if err != nil {
				t.Fatal(err)
			}
			m := newWorld(t)
			_, err = s.Spawn(m)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if m.Size() != tt.wantLeft {
				t.Fatalf("Size = %d, want %d", m.Size(), tt.wantLeft)
			}
		})
	}
}

func TestSpawnBadFieldDestroysEntity(t *testing.T) {
	s, err := ParseScene([]byte("entities:\n  - name: ok\n  - name: bad\n    components:\n      game.Transform: {x: nope}\n"))
	if err != nil {
		t.Fatal(err)
	}
	m := newWorld(t)
	es, err := s.Spawn(m)
	if err == nil {
		t.Fatal("bad field accepted")
	}
	if len(es) != 1 || m.Size() != 1 {
		t.Fatalf("spawned %d, Size %d; want only the first entity", len(es), m.Size())
	}
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name  string
		scene string
	}{
		{"not yaml", "entities: [\n"},
		{"components as list", "entities:\n  - components: [a, b]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScene([]byte(tt.scene)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(testScene), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScene(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Entities) != 3 || s.Entities[1].Name != "rock" {
		t.Fatalf("loaded %+v", s.Entities)
	}
	if _, err := LoadScene(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}
