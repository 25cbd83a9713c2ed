package lox

import "github.com/josharian/intern"

// Environment is a chained name->Value mapping with an optional parent, modeling lexical scope
// at runtime. Environments are ordinary Go pointers: closures keep one alive simply by holding a
// reference to it, and the garbage collector reclaims the chain once nothing does anymore.
type Environment struct {
	parent *Environment
	values map[string]Value
}

// NewEnvironment creates a fresh, parentless environment (the global scope).
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// NewChildEnvironment creates a fresh environment nested inside parent, as happens on every
// function call and every Block.
func NewChildEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]Value)}
}

// Define unconditionally binds name to value in this environment. Shadowing an outer binding of
// the same name is intentional.
func (e *Environment) Define(name string, value Value) {
	e.values[intern.String(name)] = value
}

// Get resolves a Variable/Assign reference by its hops annotation: nil means "global", walking to
// the outermost environment; otherwise walk exactly hops parents before looking the name up. A
// missing global is an UndefinedVariable error; a miss at a resolved hop count is an interpreter
// bug.
func (e *Environment) Get(name string, hops *int) (Value, error) {
	env := e.ancestor(hops)
	if v, ok := env.values[name]; ok {
		return v, nil
	}
	if hops != nil {
		return Value{}, interpreterBug("undefined variable %q at %d hops", name, *hops)
	}
	return Value{}, &undefinedVariableError{name: name}
}

// Assign overwrites an existing binding reached the same way Get walks to it. Assigning to a name
// with no binding anywhere on the chain is an UndefinedVariable error (an interpreter bug when hops
// is non-nil), never an implicit global define.
func (e *Environment) Assign(name string, hops *int, value Value) error {
	env := e.ancestor(hops)
	if _, ok := env.values[name]; !ok {
		if hops != nil {
			return interpreterBug("undefined variable %q at %d hops", name, *hops)
		}
		return &undefinedVariableError{name: name}
	}
	env.values[name] = value
	return nil
}

// ancestor walks hops parents from e (nil hops walks all the way to the global environment).
func (e *Environment) ancestor(hops *int) *Environment {
	if hops == nil {
		env := e
		for env.parent != nil {
			env = env.parent
		}
		return env
	}

	env := e
	for i := 0; i < *hops; i++ {
		if env.parent == nil {
			// The resolver's invariant guarantees this never happens on a cleanly
			// resolved program; reaching it is an interpreter bug, not a user-facing error.
			return env
		}
		env = env.parent
	}
	return env
}
