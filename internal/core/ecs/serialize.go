package ecs

import (
	"errors"
	"fmt"
	"io"

	"github.com/symbiote/engine/internal/core/codec"
)

// Snapshot stream delimiters.
const (
	recordOpen  byte = '{'
	recordClose byte = '}'
	streamEnd   byte = '0'
)

// Serialize writes every live entity in ascending index order:
//
//	'{' index:u32le generation:u32le (name 0x00 payload)* '}'
//
// followed by a single '0'. Components are written in attach order.
func (m *EntityManager) Serialize(w io.Writer) error {
	cw := codec.NewWriter(w)
	for e := range m.Entities() {
		cw.WriteC(recordOpen)
		cw.WriteD(e.index)
		cw.WriteD(e.generation)
		for _, a := range m.slots[e.index] {
			cw.WriteS(m.registry.Name(a.typ))
			if s, ok := a.c.(Serializer); ok {
				s.Serialize(cw)
			}
		}
		cw.WriteC(recordClose)
		if cw.Err() != nil {
			break
		}
	}
	cw.WriteC(streamEnd)
	if err := cw.Flush(); err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	return nil
}

// Deserialize replaces the manager's entities with the ones in r. Every
// entity keeps its stored index and generation; indices the stream skips
// become free slots. Each entity is resolved once its record closes. On
// any error the manager is left empty.
func (m *EntityManager) Deserialize(r io.Reader) error {
	m.Clear()
	if err := m.deserialize(codec.NewReader(r)); err != nil {
		m.Clear()
		return fmt.Errorf("deserialize: %w", err)
	}
	return nil
}

func (m *EntityManager) deserialize(r *codec.Reader) error {
	for {
		tok := r.ReadC()
		if errors.Is(r.Err(), io.EOF) {
			return nil
		}
		if r.Err() != nil {
			return r.Err()
		}
		switch tok {
		case streamEnd:
			return nil
		case recordOpen:
			if err := m.readRecord(r); err != nil {
				return err
			}
		default:
			return fmt.Errorf("offset %d: unexpected byte %#x: %w", r.Offset()-1, tok, ErrMalformedStream)
		}
	}
}

func (m *EntityManager) readRecord(r *codec.Reader) error {
	idx := r.ReadD()
	gen := r.ReadD()
	if err := streamErr(r); err != nil {
		return err
	}
	if err := m.pool.Restore(idx, gen); err != nil {
		return err
	}
	m.ensureSlot(idx)
	e := m.handle(idx)

	for {
		first := r.ReadC()
		if err := streamErr(r); err != nil {
			return fmt.Errorf("entity %s: %w", e, err)
		}
		if first == recordClose {
			m.resolveSlot(idx)
			return nil
		}
		if first == 0 {
			return fmt.Errorf("entity %s: offset %d: empty component name: %w", e, r.Offset()-1, ErrMalformedStream)
		}
		name := string(first) + r.ReadS()
		if err := streamErr(r); err != nil {
			return fmt.Errorf("entity %s: %w", e, err)
		}
		if err := m.readComponent(r, e, name); err != nil {
			return err
		}
	}
}

func (m *EntityManager) readComponent(r *codec.Reader, e Entity, name string) error {
	t, ok := m.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("entity %s: component %q: %w", e, name, ErrComponentNotRegistered)
	}
	c := m.registry.create(t)
	if d, ok := c.(Deserializer); ok {
		d.Deserialize(r)
		if err := streamErr(r); err != nil {
			return fmt.Errorf("entity %s: component %s payload: %w", e, name, err)
		}
	}
	return m.attach(e, t, c)
}

// streamErr maps a truncated stream onto ErrMalformedStream.
func streamErr(r *codec.Reader) error {
	err := r.Err()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("offset %d: truncated: %w", r.Offset(), ErrMalformedStream)
	}
	return err
}
