package ecs

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ComponentType is the tag the registry assigns to a component type. Tags
// are dense and stable for the lifetime of a manager.
type ComponentType uint16

const maxComponentTypes = math.MaxUint16

type componentInfo struct {
	name    string
	typ     reflect.Type
	factory func() Component
}

// Registry maps component names and Go types to tags and factories. It is
// owned by one EntityManager; snapshots can only be decoded by a manager
// whose registry knows every name in the stream.
type Registry struct {
	infos  []componentInfo
	byType map[reflect.Type]ComponentType
	byName map[string]ComponentType
}

func NewRegistry() *Registry {
	return &Registry{
		infos:  make([]componentInfo, 0, 16),
		byType: make(map[reflect.Type]ComponentType, 16),
		byName: make(map[string]ComponentType, 16),
	}
}

type componentPtr[T any] interface {
	*T
	Component
}

// RegisterComponent makes T attachable to m's entities and returns its tag.
// The name reported by a fresh T is normalised to NFC.
func RegisterComponent[T any, PT componentPtr[T]](m *EntityManager) (ComponentType, error) {
	return m.registry.register(reflect.TypeFor[T](), func() Component { return PT(new(T)) })
}

// MustRegisterComponent is RegisterComponent for setup code that cannot
// recover from a registration failure.
func MustRegisterComponent[T any, PT componentPtr[T]](m *EntityManager) ComponentType {
	t, err := RegisterComponent[T, PT](m)
	if err != nil {
		panic(err)
	}
	return t
}

// TypeOf returns the tag registered for T.
func TypeOf[T any](m *EntityManager) (ComponentType, bool) {
	t, ok := m.registry.byType[reflect.TypeFor[T]()]
	return t, ok
}

func (r *Registry) register(typ reflect.Type, factory func() Component) (ComponentType, error) {
	name := norm.NFC.String(factory().ComponentName())
	if err := validateName(name); err != nil {
		return 0, fmt.Errorf("register %s: %w", typ, err)
	}
	if _, ok := r.byType[typ]; ok {
		return 0, fmt.Errorf("register %s: %w", typ, ErrComponentRegistered)
	}
	if _, ok := r.byName[name]; ok {
		return 0, fmt.Errorf("register %s as %q: %w", typ, name, ErrComponentRegistered)
	}
	if len(r.infos) >= maxComponentTypes {
		return 0, fmt.Errorf("register %s: too many component types", typ)
	}
	t := ComponentType(len(r.infos))
	r.infos = append(r.infos, componentInfo{name: name, typ: typ, factory: factory})
	r.byType[typ] = t
	r.byName[name] = t
	return t, nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name: %w", ErrInvalidComponentName)
	case strings.IndexByte(name, 0) >= 0:
		return fmt.Errorf("%q contains a zero byte: %w", name, ErrInvalidComponentName)
	case name[0] == recordClose:
		return fmt.Errorf("%q starts with %q: %w", name, recordClose, ErrInvalidComponentName)
	}
	return nil
}

// Lookup returns the tag registered under name.
func (r *Registry) Lookup(name string) (ComponentType, bool) {
	t, ok := r.byName[norm.NFC.String(name)]
	return t, ok
}

// Name returns the registered name of t, or "" for an unknown tag.
func (r *Registry) Name(t ComponentType) string {
	if !r.known(t) {
		return ""
	}
	return r.infos[t].name
}

// Names lists every registered name in tag order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.infos))
	for i, info := range r.infos {
		names[i] = info.name
	}
	return names
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.infos) }

func (r *Registry) known(t ComponentType) bool {
	return int(t) < len(r.infos)
}

// create builds a fresh, detached instance of t.
func (r *Registry) create(t ComponentType) Component {
	c := r.infos[t].factory()
	if d, ok := c.(Defaulter); ok {
		d.SetDefaults()
	}
	return c
}

func (r *Registry) typeOf(c Component) (ComponentType, bool) {
	t, ok := r.byType[reflect.TypeOf(c).Elem()]
	return t, ok
}
