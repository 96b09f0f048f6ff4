// ecsbench times the entity manager under bulk load.
//
// Usage:
//
//	go run ./cmd/ecsbench [-n 65535] [-profile cpu|mem|none] [-out dir] [scenario ...]
//
// Scenarios: create, create-with, update, snapshot (default: all)
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/symbiote/engine/internal/component"
	"github.com/symbiote/engine/internal/core/ecs"
)

type scenario struct {
	name string
	run  func(n int) error
}

var scenarios = []scenario{
	{"create", benchCreate},
	{"create-with", benchCreateWith},
	{"update", benchUpdate},
	{"snapshot", benchSnapshot},
}

func main() {
	os.Exit(run())
}

func run() int {
	n := flag.Int("n", 1<<16-1, "entities per scenario")
	mode := flag.String("profile", "none", "profile mode: cpu, mem or none")
	out := flag.String("out", ".", "profile output directory")
	flag.Parse()

	switch *mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*out), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(*out), profile.NoShutdownHook).Stop()
	case "none":
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *mode)
		return 2
	}

	want := map[string]bool{}
	for _, a := range flag.Args() {
		want[a] = true
	}
	code := 0
	for _, s := range scenarios {
		if len(want) > 0 && !want[s.name] {
			continue
		}
		t0 := time.Now()
		if err := s.run(*n); err != nil {
			fmt.Fprintf(os.Stderr, "%-12s failed: %v\n", s.name, err)
			code = 1
			continue
		}
		fmt.Printf("%-12s %8d entities  %v\n", s.name, *n, time.Since(t0))
	}
	return code
}

func newManager() (*ecs.EntityManager, component.Types, error) {
	m := ecs.NewEntityManager()
	t, err := component.Register(m)
	return m, t, err
}

func benchCreate(n int) error {
	m := ecs.NewEntityManager()
	for i := 0; i < n; i++ {
		m.CreateEntity()
	}
	return nil
}

func benchCreateWith(n int) error {
	m, t, err := newManager()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := m.CreateEntityWith(t.Sprite, t.Transform, t.RigidBody); err != nil {
			return err
		}
	}
	return nil
}

// benchUpdate gives one entity in a thousand a transform and runs a
// hundred transform passes over the whole table.
func benchUpdate(n int) error {
	m, t, err := newManager()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		ct := t.RigidBody
		if i%1000 == 0 {
			ct = t.Transform
		}
		if _, err := m.CreateEntityWith(ct); err != nil {
			return err
		}
	}
	var sum float32
	for i := 0; i < 100; i++ {
		ecs.With1(m, func(_ ecs.Entity, tr *component.Transform) {
			sum += tr.X + tr.Y
		})
	}
	_ = sum
	return nil
}

func benchSnapshot(n int) error {
	m, t, err := newManager()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := m.CreateEntityWith(t.Transform, t.RigidBody); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if err := m.Serialize(&buf); err != nil {
		return err
	}
	if err := m.Deserialize(&buf); err != nil {
		return err
	}
	if m.Size() != n {
		return fmt.Errorf("restored %d entities, want %d", m.Size(), n)
	}
	return nil
}
