// Package eval provides the scoped variable environment and the
// expression evaluator.
package eval

// Value is a runtime value: float64, string, or []Value.
type Value any

// Env is a variable environment with an optional parent, read through on
// lookup misses. A child Env is created per macro or loop expansion scope
// and discarded on scope exit.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv returns an empty environment chained to parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{
		vars:   make(map[string]Value),
		parent: parent,
	}
}

// Define binds name in this environment, shadowing any parent binding.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Lookup resolves name through the parent chain.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}
