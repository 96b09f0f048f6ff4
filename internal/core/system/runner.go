package system

import (
	"sort"
	"time"

	"github.com/symbiote/engine/internal/core/ecs"
	"github.com/symbiote/engine/internal/core/event"
)

// Runner executes one tick at a time over the systems registered on a
// manager: deliver last tick's events, poll, then update in phase order.
// Systems sharing a phase keep their registration order.
type Runner struct {
	manager *ecs.EntityManager
	bus     *event.Bus
	ticks   uint64
}

func NewRunner(m *ecs.EntityManager, bus *event.Bus) *Runner {
	return &Runner{manager: m, bus: bus}
}

// Tick runs a full tick and reports whether the loop should continue.
func (r *Runner) Tick(dt time.Duration) bool {
	r.ticks++
	if r.bus != nil {
		r.bus.SwapBuffers()
		r.bus.DispatchAll()
	}
	systems := r.manager.Systems()
	running := true
	for _, s := range systems {
		if p, ok := s.(Poller); ok && !p.PollEvents() {
			running = false
		}
	}
	if !running {
		return false
	}
	for _, u := range r.updaters(systems) {
		u.Update(dt)
	}
	return true
}

// TickPhase runs only the updaters of one phase, without polling or
// dispatching events.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	for _, u := range r.updaters(r.manager.Systems()) {
		if u.Phase() == phase {
			u.Update(dt)
		}
	}
}

// Ticks returns the number of Tick calls so far.
func (r *Runner) Ticks() uint64 { return r.ticks }

func (r *Runner) updaters(systems []ecs.System) []Updater {
	us := make([]Updater, 0, len(systems))
	for _, s := range systems {
		if u, ok := s.(Updater); ok {
			us = append(us, u)
		}
	}
	sort.SliceStable(us, func(i, j int) bool {
		return us[i].Phase() < us[j].Phase()
	})
	return us
}
