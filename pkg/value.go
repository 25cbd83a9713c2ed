package lox

import (
	"fmt"
	"math"
	"strconv"
)

// ValueType tags the dynamic type of a Value, used in type-error messages.
type ValueType int

const (
	TypeNil ValueType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeCallable
)

func (t ValueType) String() string {
	switch t {
	case TypeNil:
		return "Nil"
	case TypeBool:
		return "Bool"
	case TypeNumber:
		return "Number"
	case TypeString:
		return "String"
	case TypeCallable:
		return "Callable"
	default:
		return "Unknown"
	}
}

// Value is the tagged union every expression evaluates to. Exactly one of the typed fields is
// meaningful, selected by Typ.
type Value struct {
	Typ ValueType

	boolVal   bool
	numberVal float64
	stringVal string
	callVal   *Callable
}

// Nil is the null value.
var Nil = Value{Typ: TypeNil}

func Bool(b bool) Value               { return Value{Typ: TypeBool, boolVal: b} }
func Number(n float64) Value          { return Value{Typ: TypeNumber, numberVal: n} }
func String(s string) Value           { return Value{Typ: TypeString, stringVal: s} }
func CallableValue(c *Callable) Value { return Value{Typ: TypeCallable, callVal: c} }

func (v Value) AsBool() (bool, error) {
	if v.Typ != TypeBool {
		return false, &typeError{expected: TypeBool, actual: v.Typ}
	}
	return v.boolVal, nil
}

func (v Value) AsNumber() (float64, error) {
	if v.Typ != TypeNumber {
		return 0, &typeError{expected: TypeNumber, actual: v.Typ}
	}
	return v.numberVal, nil
}

func (v Value) AsString() (string, error) {
	if v.Typ != TypeString {
		return "", &typeError{expected: TypeString, actual: v.Typ}
	}
	return v.stringVal, nil
}

func (v Value) AsCallable() (*Callable, error) {
	if v.Typ != TypeCallable {
		return nil, &typeError{expected: TypeCallable, actual: v.Typ}
	}
	return v.callVal, nil
}

// Equals implements total, tag-aware equality: values of different tags are never equal, numbers
// compare by IEEE-754 equality (NaN != NaN), strings and bools by contents, callables by identity.
func (v Value) Equals(o Value) bool {
	if v.Typ != o.Typ {
		return false
	}
	switch v.Typ {
	case TypeNil:
		return true
	case TypeBool:
		return v.boolVal == o.boolVal
	case TypeNumber:
		return v.numberVal == o.numberVal
	case TypeString:
		return v.stringVal == o.stringVal
	case TypeCallable:
		return v.callVal == o.callVal
	default:
		return false
	}
}

// String renders the display form: integer-valued numbers without a decimal point, NaN/Inf/-Inf
// spelled out, booleans as true/false, nil as "nil", callables named, strings unquoted.
func (v Value) String() string {
	switch v.Typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(v.numberVal)
	case TypeString:
		return v.stringVal
	case TypeCallable:
		return v.callVal.String()
	default:
		return "<invalid value>"
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Inf"
	case math.IsInf(n, -1):
		return "-Inf"
	case n == math.Trunc(n) && math.Abs(n) < 1e15:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}

// Callable is either a Native (host-provided) function or a Scripted (user-defined) one sharing
// the closure Environment captured at its definition site.
type Callable struct {
	Name  string
	Arity int

	// Native is set for host-provided callables; Scripted fields are set otherwise.
	Native func(interp *Interpreter, args []Value) (Value, error)

	Params  []string
	Body    []Stmt
	Closure *Environment
}

func (c *Callable) isNative() bool { return c.Native != nil }

func (c *Callable) String() string {
	if c.isNative() {
		return fmt.Sprintf("<native function %s>", c.Name)
	}
	return fmt.Sprintf("<function %s>", c.Name)
}
