// Package scripting hosts the Lua VM that can override gameplay rules such
// as the physics step.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (the
// tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a VM and loads every .lua file in dir and dir/physics.
// A missing directory is not an error.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	for _, d := range []string{dir, filepath.Join(dir, "physics")} {
		if err := e.loadDir(d); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the VM.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function called name exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// StepContext is the input of one physics step for one entity.
type StepContext struct {
	Entity uint32
	X, Y   float32
	Speed  float32
	Dt     float32
}

// StepResult is the position a script computed.
type StepResult struct {
	X, Y float32
}

// CalcStep calls calc_physics_step(ctx). ok is false when the function is
// not defined, fails or returns nil; the caller then applies the built-in
// rule.
func (e *Engine) CalcStep(ctx StepContext) (StepResult, bool) {
	fn := e.vm.GetGlobal("calc_physics_step")
	if fn == lua.LNil {
		return StepResult{}, false
	}

	t := e.vm.NewTable()
	t.RawSetString("entity", lua.LNumber(ctx.Entity))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("speed", lua.LNumber(ctx.Speed))
	t.RawSetString("dt", lua.LNumber(ctx.Dt))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_physics_step error", zap.Error(err))
		return StepResult{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return StepResult{}, false
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_physics_step returned non-table")
		return StepResult{}, false
	}
	return StepResult{
		X: lFloat(rt, "x"),
		Y: lFloat(rt, "y"),
	}, true
}

// lFloat reads a number field from a Lua table.
func lFloat(t *lua.LTable, key string) float32 {
	return float32(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
