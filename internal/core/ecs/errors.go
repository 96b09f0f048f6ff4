package ecs

import "errors"

var (
	// ErrInvalidEntity is returned for any operation addressed to a stale,
	// out-of-range or zero handle.
	ErrInvalidEntity = errors.New("ecs: invalid entity")

	ErrComponentExists        = errors.New("ecs: component already exists")
	ErrComponentNotFound      = errors.New("ecs: component not found")
	ErrComponentRegistered    = errors.New("ecs: component type already registered")
	ErrComponentNotRegistered = errors.New("ecs: component type not registered")
	ErrComponentAttached      = errors.New("ecs: component instance already attached")
	ErrInvalidComponentName   = errors.New("ecs: invalid component name")

	ErrSystemExists   = errors.New("ecs: system already exists")
	ErrSystemNotFound = errors.New("ecs: system not found")

	// ErrMalformedStream wraps every structural problem found while decoding
	// a snapshot.
	ErrMalformedStream = errors.New("ecs: malformed stream")

	// ErrPoolExhausted is the panic value raised when the index space runs out.
	ErrPoolExhausted = errors.New("ecs: entity pool exhausted")
)
