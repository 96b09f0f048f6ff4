// Package component holds the sample components of the engine.
package component

import (
	"fmt"

	"github.com/symbiote/engine/internal/core/ecs"
)

// Types are the tags assigned by Register.
type Types struct {
	Transform ecs.ComponentType
	RigidBody ecs.ComponentType
	Sprite    ecs.ComponentType
}

// Register makes every sample component attachable to m's entities.
func Register(m *ecs.EntityManager) (Types, error) {
	var t Types
	var err error
	if t.Transform, err = ecs.RegisterComponent[Transform](m); err != nil {
		return t, fmt.Errorf("register components: %w", err)
	}
	if t.RigidBody, err = ecs.RegisterComponent[RigidBody](m); err != nil {
		return t, fmt.Errorf("register components: %w", err)
	}
	if t.Sprite, err = ecs.RegisterComponent[Sprite](m); err != nil {
		return t, fmt.Errorf("register components: %w", err)
	}
	return t, nil
}
