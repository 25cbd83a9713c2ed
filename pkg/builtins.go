package lox

import (
	"fmt"
	"time"
)

// registerBuiltins defines the native callables every program starts with.
func registerBuiltins(globals *Environment) {
	globals.Define("clock", CallableValue(&Callable{
		Name:  "clock",
		Arity: 0,
		Native: func(interp *Interpreter, args []Value) (Value, error) {
			return Number(float64(time.Now().UnixNano()) / 1e9), nil
		},
	}))

	globals.Define("debug", CallableValue(&Callable{
		Name:  "debug",
		Arity: 1,
		Native: func(interp *Interpreter, args []Value) (Value, error) {
			return String(fmt.Sprintf("%s (%s)", args[0], args[0].Typ)), nil
		},
	}))
}
