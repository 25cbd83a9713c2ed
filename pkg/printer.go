package lox

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders prog back to LOX source text. It exists for the round-trip property exercised in
// printer_test.go: parsing Print(Parse(src)) yields the same tree as parsing src, modulo source
// locations. Output is not meant to match the original formatting byte-for-byte, only to be
// re-parseable to an equivalent tree.
func Print(prog *Program) string {
	p := &printer{}
	for _, s := range prog.Statements {
		p.stmt(s)
	}
	return p.buf.String()
}

// PrintExpr renders a single expression in the same form Print uses for expressions.
func PrintExpr(expr Expr) string {
	p := &printer{}
	p.expr(expr)
	return p.buf.String()
}

type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) writeIndent() {
	p.buf.WriteString(strings.Repeat("    ", p.indent))
}

func (p *printer) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		p.line("%s;", p.exprStr(s.Expr))

	case *PrintStmt:
		p.line("print %s;", p.exprStr(s.Expr))

	case *VarStmt:
		if s.Init != nil {
			p.line("var %s = %s;", s.Name, p.exprStr(s.Init))
		} else {
			p.line("var %s;", s.Name)
		}

	case *BlockStmt:
		p.writeIndent()
		p.buf.WriteString("{\n")
		p.indent++
		for _, inner := range s.Statements {
			p.stmt(inner)
		}
		p.indent--
		p.writeIndent()
		p.buf.WriteString("}\n")

	case *IfStmt:
		p.writeIndent()
		fmt.Fprintf(&p.buf, "if (%s)\n", p.exprStr(s.Cond))
		p.indent++
		p.stmt(s.Then)
		p.indent--
		if s.Else != nil {
			p.writeIndent()
			p.buf.WriteString("else\n")
			p.indent++
			p.stmt(s.Else)
			p.indent--
		}

	case *WhileStmt:
		p.writeIndent()
		fmt.Fprintf(&p.buf, "while (%s)\n", p.exprStr(s.Cond))
		p.indent++
		p.stmt(s.Body)
		p.indent--

	case *FunctionStmt:
		p.writeIndent()
		fmt.Fprintf(&p.buf, "fun %s(%s) {\n", s.Name, strings.Join(s.Params, ", "))
		p.indent++
		for _, inner := range s.Body {
			p.stmt(inner)
		}
		p.indent--
		p.writeIndent()
		p.buf.WriteString("}\n")

	case *ReturnStmt:
		if s.Value != nil {
			p.line("return %s;", p.exprStr(s.Value))
		} else {
			p.line("return;")
		}
	}
}

func (p *printer) exprStr(e Expr) string {
	sub := &printer{}
	sub.expr(e)
	return sub.buf.String()
}

func (p *printer) expr(expr Expr) {
	switch e := expr.(type) {
	case *BadExpr:
		p.buf.WriteString("<error>")

	case *Literal:
		p.literal(e.Value)

	case *Variable:
		p.buf.WriteString(e.Name)

	case *Grouping:
		p.buf.WriteByte('(')
		p.expr(e.Expr)
		p.buf.WriteByte(')')

	case *Unary:
		p.buf.WriteString(e.Op.String())
		p.expr(e.Operand)

	case *Binary:
		p.expr(e.Left)
		fmt.Fprintf(&p.buf, " %s ", e.Op.String())
		p.expr(e.Right)

	case *Assign:
		fmt.Fprintf(&p.buf, "%s = ", e.Name)
		p.expr(e.Value)

	case *Call:
		p.expr(e.Callee)
		p.buf.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.expr(a)
		}
		p.buf.WriteByte(')')
	}
}

func (p *printer) literal(v Value) {
	switch v.Typ {
	case TypeString:
		fmt.Fprintf(&p.buf, "%q", v.stringVal)
	case TypeNumber:
		// Plain decimal digits only: the lexer has no exponent syntax.
		p.buf.WriteString(strconv.FormatFloat(v.numberVal, 'f', -1, 64))
	default:
		p.buf.WriteString(v.String())
	}
}
