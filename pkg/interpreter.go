package lox

// returnSignal unwinds a function call when a `return` statement executes. It implements error so
// it can travel through the same channel as a genuine runtime error; it is never surfaced to the
// driver, since Interpreter.call intercepts it at the call boundary.
type returnSignal struct {
	value Value
}

func (r *returnSignal) Error() string { return "return outside of a function call (interpreter bug)" }

// Interpreter tree-walks a resolved Program, evaluating it for effect. Its global environment
// persists across Run and Eval calls, so one interpreter can serve a whole REPL session.
type Interpreter struct {
	globals *Environment
	env     *Environment

	out Printer
}

// Printer is where `print` statements' output goes. The driver package's stdoutPrinter and the
// tests' captureOut both satisfy it.
type Printer interface {
	Println(args ...interface{})
}

// NewInterpreter builds an interpreter with a fresh global environment seeded with the builtins,
// printing `print` statement output via out.
func NewInterpreter(out Printer) *Interpreter {
	globals := NewEnvironment()
	interp := &Interpreter{globals: globals, env: globals, out: out}
	registerBuiltins(globals)
	return interp
}

// Run executes every statement of prog in order. A runtime error aborts the remaining statements
// and is returned (runtime errors are fatal, unlike lexer/parser/resolver errors).
func (interp *Interpreter) Run(prog *Program) error {
	for _, stmt := range prog.Statements {
		if err := interp.execStmt(stmt); err != nil {
			if _, ok := err.(*returnSignal); ok {
				return interpreterBug("return reached top level")
			}
			return err
		}
	}
	return nil
}

// Eval evaluates a single expression, for the REPL's bare-expression mode.
func (interp *Interpreter) Eval(expr Expr) (Value, error) {
	return interp.evalExpr(expr)
}

func (interp *Interpreter) execStmt(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := interp.evalExpr(s.Expr)
		return err

	case *PrintStmt:
		v, err := interp.evalExpr(s.Expr)
		if err != nil {
			return err
		}
		interp.out.Println(v.String())
		return nil

	case *VarStmt:
		v := Nil
		if s.Init != nil {
			var err error
			v, err = interp.evalExpr(s.Init)
			if err != nil {
				return err
			}
		}
		interp.env.Define(s.Name, v)
		return nil

	case *BlockStmt:
		return interp.execBlock(s.Statements, NewChildEnvironment(interp.env))

	case *IfStmt:
		cond, err := interp.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		b, err := cond.AsBool()
		if err != nil {
			return err
		}
		switch {
		case b:
			return interp.execStmt(s.Then)
		case s.Else != nil:
			return interp.execStmt(s.Else)
		}
		return nil

	case *WhileStmt:
		for {
			cond, err := interp.evalExpr(s.Cond)
			if err != nil {
				return err
			}
			b, err := cond.AsBool()
			if err != nil {
				return err
			}
			if !b {
				return nil
			}
			if err := interp.execStmt(s.Body); err != nil {
				return err
			}
		}

	case *FunctionStmt:
		fn := &Callable{
			Name:    s.Name,
			Arity:   len(s.Params),
			Params:  s.Params,
			Body:    s.Body,
			Closure: interp.env,
		}
		interp.env.Define(s.Name, CallableValue(fn))
		return nil

	case *ReturnStmt:
		v := Nil
		if s.Value != nil {
			var err error
			v, err = interp.evalExpr(s.Value)
			if err != nil {
				return err
			}
		}
		return &returnSignal{value: v}

	default:
		return interpreterBug("unhandled statement type %T", stmt)
	}
}

// execBlock runs stmts against a freshly pushed environment, always restoring the previous one
// before returning, even if a statement errors.
func (interp *Interpreter) execBlock(stmts []Stmt, blockEnv *Environment) error {
	previous := interp.env
	interp.env = blockEnv
	defer func() { interp.env = previous }()

	for _, stmt := range stmts {
		if err := interp.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (interp *Interpreter) evalExpr(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *BadExpr:
		return Nil, interpreterBug("evaluated a BadExpr: %s", e.Msg)

	case *Literal:
		return e.Value, nil

	case *Variable:
		return interp.env.Get(e.Name, e.Hops)

	case *Grouping:
		return interp.evalExpr(e.Expr)

	case *Unary:
		return interp.evalUnary(e)

	case *Binary:
		return interp.evalBinary(e)

	case *Assign:
		v, err := interp.evalExpr(e.Value)
		if err != nil {
			return Nil, err
		}
		if err := interp.env.Assign(e.Name, e.Hops, v); err != nil {
			return Nil, err
		}
		return v, nil

	case *Call:
		return interp.evalCall(e)

	default:
		return Nil, interpreterBug("unhandled expression type %T", expr)
	}
}

func (interp *Interpreter) evalUnary(e *Unary) (Value, error) {
	v, err := interp.evalExpr(e.Operand)
	if err != nil {
		return Nil, err
	}

	switch e.Op {
	case OpNegate:
		n, err := v.AsNumber()
		if err != nil {
			return Nil, err
		}
		return Number(-n), nil
	case OpNot:
		b, err := v.AsBool()
		if err != nil {
			return Nil, err
		}
		return Bool(!b), nil
	default:
		return Nil, interpreterBug("unhandled unary operator %v", e.Op)
	}
}

func (interp *Interpreter) evalBinary(e *Binary) (Value, error) {
	// `and`/`or` short-circuit and must not evaluate the right operand unconditionally. Both
	// operands must be booleans; there is no truthiness coercion.
	switch e.Op {
	case OpAnd:
		left, err := interp.evalExpr(e.Left)
		if err != nil {
			return Nil, err
		}
		lb, err := left.AsBool()
		if err != nil {
			return Nil, err
		}
		if !lb {
			return Bool(false), nil
		}
		right, err := interp.evalExpr(e.Right)
		if err != nil {
			return Nil, err
		}
		rb, err := right.AsBool()
		if err != nil {
			return Nil, err
		}
		return Bool(rb), nil
	case OpOr:
		left, err := interp.evalExpr(e.Left)
		if err != nil {
			return Nil, err
		}
		lb, err := left.AsBool()
		if err != nil {
			return Nil, err
		}
		if lb {
			return Bool(true), nil
		}
		right, err := interp.evalExpr(e.Right)
		if err != nil {
			return Nil, err
		}
		rb, err := right.AsBool()
		if err != nil {
			return Nil, err
		}
		return Bool(rb), nil
	}

	left, err := interp.evalExpr(e.Left)
	if err != nil {
		return Nil, err
	}
	right, err := interp.evalExpr(e.Right)
	if err != nil {
		return Nil, err
	}

	switch e.Op {
	case OpAdd:
		return addValues(left, right)
	case OpSubtract, OpMultiply, OpDivide:
		return arithmetic(e.Op, left, right)
	case OpEqual:
		return Bool(left.Equals(right)), nil
	case OpNotEqual:
		return Bool(!left.Equals(right)), nil
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return compare(e.Op, left, right)
	default:
		return Nil, interpreterBug("unhandled binary operator %v", e.Op)
	}
}

// addValues implements `+`'s two overloads: numeric addition, and string concatenation.
func addValues(left, right Value) (Value, error) {
	if left.Typ == TypeNumber && right.Typ == TypeNumber {
		return Number(left.numberVal + right.numberVal), nil
	}
	if left.Typ == TypeString && right.Typ == TypeString {
		return String(left.stringVal + right.stringVal), nil
	}

	bad := left
	if left.Typ == TypeNumber || left.Typ == TypeString {
		bad = right
	}
	return Nil, &typeErrorMultiple{expected: []ValueType{TypeNumber, TypeString}, actual: bad.Typ}
}

func arithmetic(op BinaryOp, left, right Value) (Value, error) {
	l, err := left.AsNumber()
	if err != nil {
		return Nil, err
	}
	r, err := right.AsNumber()
	if err != nil {
		return Nil, err
	}

	switch op {
	case OpSubtract:
		return Number(l - r), nil
	case OpMultiply:
		return Number(l * r), nil
	case OpDivide:
		return Number(l / r), nil
	default:
		return Nil, interpreterBug("unhandled arithmetic operator %v", op)
	}
}

func compare(op BinaryOp, left, right Value) (Value, error) {
	l, err := left.AsNumber()
	if err != nil {
		return Nil, err
	}
	r, err := right.AsNumber()
	if err != nil {
		return Nil, err
	}

	switch op {
	case OpLess:
		return Bool(l < r), nil
	case OpLessEqual:
		return Bool(l <= r), nil
	case OpGreater:
		return Bool(l > r), nil
	case OpGreaterEqual:
		return Bool(l >= r), nil
	default:
		return Nil, interpreterBug("unhandled comparison operator %v", op)
	}
}

func (interp *Interpreter) evalCall(e *Call) (Value, error) {
	callee, err := interp.evalExpr(e.Callee)
	if err != nil {
		return Nil, err
	}

	fn, err := callee.AsCallable()
	if err != nil {
		return Nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := interp.evalExpr(a)
		if err != nil {
			return Nil, err
		}
		args[i] = v
	}

	if len(args) != fn.Arity {
		return Nil, &wrongArgsNumError{got: len(args), expected: fn.Arity}
	}

	return interp.call(fn, args)
}

// call invokes fn, intercepting the returnSignal a `return` statement raises inside its body and
// turning it back into a plain Value result.
func (interp *Interpreter) call(fn *Callable, args []Value) (Value, error) {
	if fn.isNative() {
		return fn.Native(interp, args)
	}

	callEnv := NewChildEnvironment(fn.Closure)
	for i, p := range fn.Params {
		callEnv.Define(p, args[i])
	}

	err := interp.execBlock(fn.Body, callEnv)
	if err == nil {
		return Nil, nil
	}

	if ret, ok := err.(*returnSignal); ok {
		return ret.value, nil
	}
	return Nil, err
}
