package system

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/symbiote/engine/internal/core/ecs"
	"github.com/symbiote/engine/internal/core/event"
	coresys "github.com/symbiote/engine/internal/core/system"
	"go.uber.org/zap"
)

// SnapshotStore keeps serialized worlds under a name.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, name string, data []byte, entities int) error
	LoadSnapshot(ctx context.Context, name string) ([]byte, error)
}

// SnapshotSystem periodically writes the whole world to a store. Phase 4
// (Persist).
type SnapshotSystem struct {
	ecs.SystemBase
	store     SnapshotStore
	bus       *event.Bus
	log       *zap.Logger
	name      string
	interval  int // save every N ticks, 0 disables periodic saves
	tickCount int
}

func NewSnapshotSystem(store SnapshotStore, bus *event.Bus, log *zap.Logger, name string, intervalTicks int) *SnapshotSystem {
	return &SnapshotSystem{
		store:    store,
		bus:      bus,
		log:      log,
		name:     name,
		interval: intervalTicks,
	}
}

func (*SnapshotSystem) SystemName() string   { return "game.Snapshot" }
func (*SnapshotSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SnapshotSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Save(ctx); err != nil {
		s.log.Error("periodic snapshot failed", zap.String("name", s.name), zap.Error(err))
	}
}

// Save serializes the world and hands it to the store.
func (s *SnapshotSystem) Save(ctx context.Context) error {
	m := s.Manager()
	if m == nil {
		return fmt.Errorf("save snapshot %s: %w", s.name, ecs.ErrSystemNotFound)
	}
	var buf bytes.Buffer
	if err := m.Serialize(&buf); err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.name, err)
	}
	entities := m.Size()
	if err := s.store.SaveSnapshot(ctx, s.name, buf.Bytes(), entities); err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.name, err)
	}
	if s.bus != nil {
		event.Emit(s.bus, event.SnapshotSaved{Name: s.name, Size: int64(buf.Len()), Entities: entities})
	}
	s.log.Info("snapshot saved",
		zap.String("name", s.name),
		zap.Int("entities", entities),
		zap.Int("bytes", buf.Len()),
	)
	return nil
}

// Restore replaces the world with the stored snapshot.
func (s *SnapshotSystem) Restore(ctx context.Context) error {
	m := s.Manager()
	if m == nil {
		return fmt.Errorf("restore snapshot %s: %w", s.name, ecs.ErrSystemNotFound)
	}
	data, err := s.store.LoadSnapshot(ctx, s.name)
	if err != nil {
		return fmt.Errorf("restore snapshot %s: %w", s.name, err)
	}
	if err := m.Deserialize(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("restore snapshot %s: %w", s.name, err)
	}
	s.log.Info("snapshot restored", zap.String("name", s.name), zap.Int("entities", m.Size()))
	return nil
}
