package system

import (
	"time"

	"github.com/symbiote/engine/internal/component"
	"github.com/symbiote/engine/internal/core/ecs"
	coresys "github.com/symbiote/engine/internal/core/system"
	"github.com/symbiote/engine/internal/scripting"
	"go.uber.org/zap"
)

// PhysicsSystem advances every entity that has both a RigidBody and a
// Transform. Phase 1 (Update).
type PhysicsSystem struct {
	ecs.SystemBase
	scripts *scripting.Engine
	log     *zap.Logger
}

// NewPhysicsSystem returns a physics system. scripts may be nil, in which
// case only the built-in step is used.
func NewPhysicsSystem(scripts *scripting.Engine, log *zap.Logger) *PhysicsSystem {
	return &PhysicsSystem{scripts: scripts, log: log}
}

func (*PhysicsSystem) SystemName() string   { return "game.Physics" }
func (*PhysicsSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PhysicsSystem) Update(dt time.Duration) {
	s.Step(float32(dt.Seconds()))
}

// Step scales each transform by its body's speed times dt, unless a
// calc_physics_step script supplies the new position.
func (s *PhysicsSystem) Step(dt float32) {
	m := s.Manager()
	if m == nil {
		return
	}
	ecs.With2(m, func(e ecs.Entity, rb *component.RigidBody, tr *component.Transform) {
		if s.scripts != nil {
			res, ok := s.scripts.CalcStep(scripting.StepContext{
				Entity: e.Index(),
				X:      tr.X,
				Y:      tr.Y,
				Speed:  rb.Speed,
				Dt:     dt,
			})
			if ok {
				tr.X, tr.Y = res.X, res.Y
				return
			}
		}
		tr.ScalePosition(rb.Speed, dt)
	})
}
