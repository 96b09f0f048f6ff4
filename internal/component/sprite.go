package component

import (
	"github.com/symbiote/engine/internal/core/codec"
	"github.com/symbiote/engine/internal/core/ecs"
)

// Sprite is a glyph drawn at its entity's Transform. The transform is a
// cached sibling reference and goes stale until the entity is resolved
// again.
type Sprite struct {
	ecs.Base `yaml:"-"`
	Glyph     string `yaml:"glyph"`
	transform ecs.Ref[Transform]
}

func (*Sprite) ComponentName() string { return "game.Sprite" }

func (s *Sprite) OnResolveDependencies() {
	s.transform.Resolve(s.Entity())
}

// Transform returns the cached transform, nil when unresolved.
func (s *Sprite) Transform() *Transform { return s.transform.Get() }

func (s *Sprite) Serialize(w *codec.Writer)   { w.WriteS(s.Glyph) }
func (s *Sprite) Deserialize(r *codec.Reader) { s.Glyph = r.ReadS() }
