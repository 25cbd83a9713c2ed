// Package test holds fixture generators shared by the pkg test suites, kept out of pkg itself so
// it isn't part of the public API.
package test

import (
	"fmt"
	"math/rand"
	"strings"
)

var identifiers = []string{"a", "b", "count", "total", "value", "result", "n", "acc"}

var templates = []string{
	"var %s = %d;",
	"%s = %s + %d;",
	"print %s;",
	"if (%s > %d) { print %s; }",
	"while (%s < %d) { %s = %s + 1; }",
}

// RandomProgram builds a syntactically valid LOX program of roughly n statements. No test or
// benchmark in this module calls it. It deliberately stays inside the
// grammar's easy cases (no nested functions) since its job is to exercise the pipeline's
// throughput, not its error handling.
func RandomProgram(n int) string {
	var sb strings.Builder

	for i := 0; i < n; i++ {
		name := identifiers[rand.Intn(len(identifiers))]
		sb.WriteString(randomStmt(name))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func randomStmt(name string) string {
	switch rand.Intn(5) {
	case 0:
		return fmt.Sprintf("var %s = %d;", name, rand.Intn(1000))
	case 1:
		other := identifiers[rand.Intn(len(identifiers))]
		return fmt.Sprintf("%s = %s + %d;", name, other, rand.Intn(100))
	case 2:
		return fmt.Sprintf("print %s;", name)
	case 3:
		return fmt.Sprintf("if (%s > %d) { print %s; }", name, rand.Intn(50), name)
	default:
		return fmt.Sprintf("while (%s < %d) { %s = %s + 1; }", name, rand.Intn(10), name, name)
	}
}

// RandomSource produces raw token-soup source text (unparseable, but lexically valid-ish) for
// fuzzing the lexer alone.
func RandomSource(size int) string {
	pieces := []string{
		"var", "print", "if", "else", "while", "for", "fun", "return", "true", "false", "nil",
		"and", "or", "(", ")", "{", "}", ",", ".", "-", "+", ";", "*", "!", "!=", "=", "==",
		"<", "<=", ">", ">=", "/", "\"a string\"", "123", "123.5", "identifier",
	}

	var toks []string
	for len(toks) < size {
		toks = append(toks, pieces[rand.Intn(len(pieces))])
	}
	return strings.Join(toks, " ")
}
