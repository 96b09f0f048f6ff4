package component

import (
	"github.com/symbiote/engine/internal/core/codec"
	"github.com/symbiote/engine/internal/core/ecs"
)

// Transform is a 2D position, scale and rotation in local coordinates.
// Payload: x, y, scale x, scale y, rotation as float32.
type Transform struct {
	ecs.Base `yaml:"-"`
	X        float32 `yaml:"x"`
	Y        float32 `yaml:"y"`
	ScaleX   float32 `yaml:"scale_x"`
	ScaleY   float32 `yaml:"scale_y"`
	Rotation float32 `yaml:"rotation"`
}

func NewTransform(x, y float32) *Transform {
	return &Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

func (*Transform) ComponentName() string { return "game.Transform" }

func (t *Transform) SetDefaults() {
	t.ScaleX, t.ScaleY = 1, 1
}

// ScalePosition multiplies both coordinates by factor*dt. Applied n times
// from p0 this yields p0 * (factor*dt)^n.
func (t *Transform) ScalePosition(factor, dt float32) {
	k := factor * dt
	t.X *= k
	t.Y *= k
}

func (t *Transform) Serialize(w *codec.Writer) {
	w.WriteF(t.X)
	w.WriteF(t.Y)
	w.WriteF(t.ScaleX)
	w.WriteF(t.ScaleY)
	w.WriteF(t.Rotation)
}

func (t *Transform) Deserialize(r *codec.Reader) {
	t.X = r.ReadF()
	t.Y = r.ReadF()
	t.ScaleX = r.ReadF()
	t.ScaleY = r.ReadF()
	t.Rotation = r.ReadF()
}
