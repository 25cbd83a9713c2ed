package lox

// scopeState tracks whether a local binding has been declared (name reserved, initializer still
// running) or fully defined (safe to read). The two-phase split is what lets a self-reference
// like `var a = a;` inside an initializer be caught as an error instead of silently reading nil.
type scopeState int

const (
	stateDeclared scopeState = iota
	stateDefined
)

type scope map[string]scopeState

// functionKind tracks what kind of function body is currently being resolved, so a bare `return`
// at file scope can be rejected.
type functionKind int

const (
	functionNone functionKind = iota
	functionScript
)

// Resolver performs the static scope analysis: for every Variable and Assign node it
// computes how many enclosing block scopes separate the reference from its declaration (Hops),
// or leaves Hops nil when the binding turns out to be global. It walks the AST once after
// parsing and mutates it in place, annotating the same tree the parser built rather than
// producing a second resolved-AST type.
type Resolver struct {
	parser SyntacticAnalyzer

	scopes      []scope
	currentFunc functionKind

	errs errorList
}

// NewResolver builds a resolver reading its program from parser.
func NewResolver(parser SyntacticAnalyzer) *Resolver {
	return &Resolver{parser: parser}
}

// Resolve runs the parser to completion, then resolves every statement of the resulting program,
// returning it annotated in place.
func (r *Resolver) Resolve() (*Program, error) {
	prog, err := r.parser.Parse()
	if prog == nil {
		return nil, err
	}

	r.resolveStmts(prog.Statements)

	if err != nil {
		return prog, err // parser errors take priority; resolving still ran for editor tooling
	}
	return prog, r.errs.errOrNil()
}

func (r *Resolver) errorf(loc Location, err error) {
	r.errs = r.errs.append(&LocatedError{Loc: loc, Err: err})
}

// scope stack management

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) inGlobalScope() bool {
	return len(r.scopes) == 0
}

// declare reserves name in the innermost scope without yet making it visible to reads. The read
// side of `var a = a;` is caught separately in resolveExpr; this only catches redeclaration.
func (r *Resolver) declare(name string, loc Location) {
	if r.inGlobalScope() {
		return
	}

	top := r.scopes[len(r.scopes)-1]
	if _, ok := top[name]; ok {
		r.errorf(loc, &variableRedeclarationError{name: name})
	}
	top[name] = stateDeclared
}

func (r *Resolver) define(name string) {
	if r.inGlobalScope() {
		return
	}
	r.scopes[len(r.scopes)-1][name] = stateDefined
}

// resolveLocal walks the scope stack from innermost outward, setting *hops to the distance at
// which name was found, or leaving it nil if name isn't bound in any local scope (a global, or a
// forward reference to a not-yet-declared binding that the interpreter will look up dynamically).
func (r *Resolver) resolveLocal(hops **int, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			d := len(r.scopes) - 1 - i
			*hops = &d
			return
		}
	}
	*hops = nil
}

// statements

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		r.resolveExpr(s.Expr)
	case *PrintStmt:
		r.resolveExpr(s.Expr)
	case *VarStmt:
		r.declare(s.Name, s.Loc)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	case *FunctionStmt:
		r.declare(s.Name, s.Loc)
		r.define(s.Name)
		r.resolveFunction(s)
	case *ReturnStmt:
		if r.currentFunc == functionNone {
			r.errorf(s.Loc, &topLevelReturnError{})
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	}
}

func (r *Resolver) resolveFunction(fn *FunctionStmt) {
	enclosing := r.currentFunc
	r.currentFunc = functionScript
	defer func() { r.currentFunc = enclosing }()

	r.beginScope()
	defer r.endScope()

	for _, p := range fn.Params {
		r.declare(p, fn.Loc)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
}

// expressions

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *BadExpr:
		// already reported by the parser
	case *Literal:
		// nothing to resolve
	case *Variable:
		if !r.inGlobalScope() {
			if state, ok := r.scopes[len(r.scopes)-1][e.Name]; ok && state == stateDeclared {
				r.errorf(e.Loc, &variableOwnInitializerError{name: e.Name})
			}
		}
		r.resolveLocal(&e.Hops, e.Name)
	case *Grouping:
		r.resolveExpr(e.Expr)
	case *Unary:
		r.resolveExpr(e.Operand)
	case *Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *Assign:
		r.resolveExpr(e.Value)
		if !r.inGlobalScope() {
			if state, ok := r.scopes[len(r.scopes)-1][e.Name]; ok && state == stateDeclared {
				r.errorf(e.Loc, &variableOwnInitializerError{name: e.Name})
			}
		}
		r.resolveLocal(&e.Hops, e.Name)
	case *Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	}
}
