package system

import (
	"time"

	"github.com/symbiote/engine/internal/core/ecs"
	"github.com/symbiote/engine/internal/core/event"
	coresys "github.com/symbiote/engine/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Phase 5 (Cleanup).
type CleanupSystem struct {
	ecs.SystemBase
	bus *event.Bus
	log *zap.Logger
}

func NewCleanupSystem(bus *event.Bus, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{bus: bus, log: log}
}

func (*CleanupSystem) SystemName() string   { return "game.Cleanup" }
func (*CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	m := s.Manager()
	if m == nil {
		return
	}
	destroyed := m.FlushDestroyQueue()
	if len(destroyed) == 0 {
		return
	}
	if s.bus != nil {
		for _, e := range destroyed {
			event.Emit(s.bus, event.EntityDestroyed{Entity: e})
		}
	}
	s.log.Debug("destroyed queued entities", zap.Int("count", len(destroyed)))
}
