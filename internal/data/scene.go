package data

import (
	"fmt"
	"os"

	"github.com/symbiote/engine/internal/core/ecs"
	"gopkg.in/yaml.v3"
)

// Scene is a list of entity templates loaded from YAML:
//
//	entities:
//	  - name: player
//	    count: 1
//	    components:
//	      game.Transform: {x: 10, y: 5}
//	      game.Sprite: {glyph: "@"}
//
// Components are attached in the order they appear, by registered name.
type Scene struct {
	Entities []EntityTemplate `yaml:"entities"`
}

// EntityTemplate describes one entity, or Count identical ones.
type EntityTemplate struct {
	Name       string    `yaml:"name"`
	Count      int       `yaml:"count"`
	Components yaml.Node `yaml:"components"`
}

// ComponentSpec is a component name and the YAML node holding its fields.
type ComponentSpec struct {
	Name   string
	Fields *yaml.Node
}

// ParseScene decodes a scene document.
func ParseScene(raw []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	for i := range s.Entities {
		if _, err := s.Entities[i].ComponentSpecs(); err != nil {
			return nil, fmt.Errorf("parse scene: entity %d: %w", i, err)
		}
	}
	return &s, nil
}

// LoadScene reads and parses a scene file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(raw)
}

// ComponentSpecs returns the template's components in document order.
func (t *EntityTemplate) ComponentSpecs() ([]ComponentSpec, error) {
	n := &t.Components
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.MappingNode:
	default:
		return nil, fmt.Errorf("line %d: components must be a mapping", n.Line)
	}
	specs := make([]ComponentSpec, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, fmt.Errorf("line %d: bad component name", key.Line)
		}
		specs = append(specs, ComponentSpec{Name: key.Value, Fields: val})
	}
	return specs, nil
}

// Len returns the number of entities the scene spawns.
func (s *Scene) Len() int {
	n := 0
	for i := range s.Entities {
		n += s.Entities[i].count()
	}
	return n
}

func (t *EntityTemplate) count() int {
	if t.Count <= 0 {
		return 1
	}
	return t.Count
}

// Spawn creates the scene's entities in m. Every entity gets one explicit
// dependency resolution pass after all of its components are attached.
// On error the entity being built is destroyed and the ones already
// spawned are returned with the error.
func (s *Scene) Spawn(m *ecs.EntityManager) ([]ecs.Entity, error) {
	spawned := make([]ecs.Entity, 0, s.Len())
	for i := range s.Entities {
		tmpl := &s.Entities[i]
		specs, err := tmpl.ComponentSpecs()
		if err != nil {
			return spawned, fmt.Errorf("spawn %q: %w", tmpl.Name, err)
		}
		for n := 0; n < tmpl.count(); n++ {
			e, err := spawnOne(m, specs)
			if err != nil {
				return spawned, fmt.Errorf("spawn %q: %w", tmpl.Name, err)
			}
			spawned = append(spawned, e)
		}
	}
	return spawned, nil
}

func spawnOne(m *ecs.EntityManager, specs []ComponentSpec) (ecs.Entity, error) {
	e := m.CreateEntity()
	for _, spec := range specs {
		fields := spec.Fields
		_, err := m.AddComponentByName(e, spec.Name, func(c ecs.Component) error {
			if fields == nil || fields.Kind == 0 || fields.Tag == "!!null" {
				return nil
			}
			if err := fields.Decode(c); err != nil {
				return fmt.Errorf("decode %s: %w", spec.Name, err)
			}
			return nil
		})
		if err != nil {
			_ = e.Destroy()
			return ecs.Entity{}, err
		}
	}
	if err := e.ResolveComponentDependencies(); err != nil {
		return ecs.Entity{}, err
	}
	return e, nil
}
