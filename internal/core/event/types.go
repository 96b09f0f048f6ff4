package event

import "github.com/symbiote/engine/internal/core/ecs"

// EntityDestroyed is emitted by the cleanup system for every entity it
// destroys from the deferred queue.
type EntityDestroyed struct {
	Entity ecs.Entity
}

// SnapshotSaved is emitted after the world has been written to a store.
type SnapshotSaved struct {
	Name     string
	Size     int64
	Entities int
}
