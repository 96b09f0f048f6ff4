// Package system drives the systems registered on an entity manager. The
// manager only stores systems; the runner decides when they execute.
package system

import "time"

// Phase orders systems within a tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: terminal/input polling
	PhaseUpdate                  // 1: simulation
	PhasePostUpdate              // 2: reactions to the simulation
	PhaseRender                  // 3: draw the frame
	PhasePersist                 // 4: snapshots
	PhaseCleanup                 // 5: destroy queued entities
)

var phaseNames = [...]string{"input", "update", "post-update", "render", "persist", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Updater is a system that runs once per tick.
type Updater interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Poller is a system that pumps external events at tick start. Returning
// false stops the driver loop.
type Poller interface {
	PollEvents() bool
}
