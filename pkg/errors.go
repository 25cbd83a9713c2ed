package lox

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// LocatedError pairs an error with the source position it was raised at, rendered as
// "[L:C] Error: MESSAGE".
type LocatedError struct {
	Loc Location
	Err error
}

func (e *LocatedError) Error() string {
	return fmt.Sprintf("[%d:%d] Error: %s", e.Loc.Line, e.Loc.Col, e.Err)
}

func (e *LocatedError) Unwrap() error { return e.Err }

// errorList accumulates LocatedErrors across a pipeline stage using a multierror.Error. Every
// stage in this package (lexer, parser, resolver) reports this way instead of failing on the
// first problem; the interpreter is the one stage that fails fast.
type errorList struct {
	merr *multierror.Error
}

func (l errorList) append(err *LocatedError) errorList {
	l.merr = multierror.Append(l.merr, err)
	return l
}

func (l errorList) errOrNil() error {
	return l.merr.ErrorOrNil()
}

// errs returns the accumulated LocatedErrors sorted by source position, so a file with both an
// early lexer error and a later parser error reports them top-to-bottom regardless of which
// pipeline stage happened to raise them first.
func (l errorList) errs() []*LocatedError {
	if l.merr == nil {
		return nil
	}

	out := make([]*LocatedError, 0, len(l.merr.Errors))
	for _, e := range l.merr.Errors {
		if le, ok := e.(*LocatedError); ok {
			out = append(out, le)
		}
	}

	slices.SortFunc(out, func(a, b *LocatedError) bool {
		if a.Loc.Line != b.Loc.Line {
			return a.Loc.Line < b.Loc.Line
		}
		return a.Loc.Col < b.Loc.Col
	})

	return out
}

// Errors unpacks the accumulated per-file diagnostics out of an error returned by Resolver.Resolve
// or Lexer.Run, sorted by source position, for a driver to print one per line. It returns nil for
// any error that isn't one of this package's own accumulations (e.g. a runtime error, which is
// always a single error rather than a collection).
func Errors(err error) []*LocatedError {
	merr, ok := err.(*multierror.Error)
	if !ok {
		return nil
	}
	return errorList{merr: merr}.errs()
}

// Parser error kinds.
type unexpectedTokenError struct {
	got, expected TokenType
}

func (e *unexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected token %v, expected %v", e.got, e.expected)
}

type invalidExpressionError struct{ tok Token }

func (e *invalidExpressionError) Error() string {
	return fmt.Sprintf("invalid expression at %q", e.tok.Lexeme)
}

type invalidLvalueError struct{}

func (e *invalidLvalueError) Error() string { return "invalid assignment target" }

type tooManyArgumentsError struct{ limit int }

func (e *tooManyArgumentsError) Error() string {
	return fmt.Sprintf("can't have more than %d arguments", e.limit)
}

// Resolver error kinds.
type variableOwnInitializerError struct{ name string }

func (e *variableOwnInitializerError) Error() string {
	return fmt.Sprintf("can't read local variable %q in its own initializer", e.name)
}

type variableRedeclarationError struct{ name string }

func (e *variableRedeclarationError) Error() string {
	return fmt.Sprintf("variable %q already declared in this scope", e.name)
}

type topLevelReturnError struct{}

func (e *topLevelReturnError) Error() string { return "can't return from top-level code" }

// Interpreter error kinds. These are fatal to the running program.
type typeError struct {
	expected, actual ValueType
}

func (e *typeError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.expected, e.actual)
}

type typeErrorMultiple struct {
	expected []ValueType
	actual   ValueType
}

func (e *typeErrorMultiple) Error() string {
	return fmt.Sprintf("expected one of %v, got %s", e.expected, e.actual)
}

type undefinedVariableError struct{ name string }

func (e *undefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.name)
}

type wrongArgsNumError struct{ got, expected int }

func (e *wrongArgsNumError) Error() string {
	return fmt.Sprintf("expected %d arguments but got %d", e.expected, e.got)
}

// interpreterBug wraps a condition the resolver's invariants should have made impossible (e.g. an
// UndefinedVariable for a locally-resolved hop). It is stack-traced via github.com/pkg/errors so
// it can be told apart from a genuine program error when it reaches the driver.
func interpreterBug(format string, args ...interface{}) error {
	return errors.WithStack(fmt.Errorf("interpreter bug: "+format, args...))
}
