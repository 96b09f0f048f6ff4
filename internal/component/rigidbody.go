package component

import (
	"github.com/symbiote/engine/internal/core/codec"
	"github.com/symbiote/engine/internal/core/ecs"
)

// RigidBody drives the physics step. Speed is the per-second factor the
// physics system applies to the owner's Transform.
type RigidBody struct {
	ecs.Base `yaml:"-"`
	Speed float32 `yaml:"speed"`
}

func (*RigidBody) ComponentName() string { return "game.RigidBody" }

func (b *RigidBody) Serialize(w *codec.Writer)   { w.WriteF(b.Speed) }
func (b *RigidBody) Deserialize(r *codec.Reader) { b.Speed = r.ReadF() }
