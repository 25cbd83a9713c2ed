// Package driver wires the lexer/parser/resolver/interpreter pipeline into the two run modes:
// running a source file to completion, and an interactive REPL.
package driver

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"

	lox "go.lox.dev/pkg"
)

// Driver owns the long-lived state a REPL session needs across lines: one interpreter (so
// globals and function definitions persist) and a logger for diagnostics that aren't program
// output.
type Driver struct {
	log    *logrus.Logger
	interp *lox.Interpreter
	stdout io.Writer
	stderr io.Writer
}

// stdoutPrinter adapts an io.Writer to lox.Printer.
type stdoutPrinter struct{ w io.Writer }

func (p stdoutPrinter) Println(args ...interface{}) {
	fmt.Fprintln(p.w, args...)
}

// New builds a Driver that writes program output to stdout and diagnostics — lexer/parser/
// resolver/runtime errors alike — to stderr.
func New(logger *logrus.Logger, stdout, stderr io.Writer) *Driver {
	return &Driver{
		log:    logger,
		interp: lox.NewInterpreter(stdoutPrinter{w: stdout}),
		stdout: stdout,
		stderr: stderr,
	}
}

// RunFile reads, lexes, parses, resolves and interprets the source at path, returning the first
// error encountered. Lexer/parser/resolver errors are reported in full (they're accumulated, not
// fail-fast); a runtime error aborts immediately.
func (d *Driver) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	return d.run(string(src), path)
}

func (d *Driver) run(src, filename string) error {
	lexer := lox.NewLexer(src, filename)
	parser := lox.NewParser(lexer)
	resolver := lox.NewResolver(parser)

	prog, err := resolver.Resolve()
	if err != nil {
		d.reportStaticErrors(err)
		return err
	}

	if err := d.interp.Run(prog); err != nil {
		d.log.WithError(err).Error("runtime error")
		return err
	}

	return nil
}

// reportStaticErrors prints every accumulated lexer/parser/resolver error to stderr, one per
// line, sorted by source position and in the "[L:C] Error: MESSAGE" form.
func (d *Driver) reportStaticErrors(err error) {
	errs := lox.Errors(err)
	if len(errs) == 0 {
		fmt.Fprintln(d.stderr, err)
		return
	}
	for _, e := range errs {
		fmt.Fprintln(d.stderr, e)
	}
}

// RunREPL starts an interactive read-eval-print loop on stdin/stdout using chzyer/readline for
// line editing and history. Each line is tried as a bare expression first so the REPL can echo
// a value back (`2 + 2` -> `4`); if that fails, it's retried as a full statement.
func (d *Driver) RunREPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "lox> ",
		HistoryFile: historyFilePath(),
	})
	if err != nil {
		return errors.Wrap(err, "starting REPL")
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		d.evalLine(line)
	}
}

func (d *Driver) evalLine(line string) {
	lexer := lox.NewLexer(line, "<repl>")
	parser := lox.NewParser(lexer)

	if expr, err := parser.ParseExpression(); err == nil {
		v, err := d.interp.Eval(expr)
		if err != nil {
			fmt.Fprintln(d.stderr, err)
			return
		}
		fmt.Fprintln(d.stdout, v.String())
		return
	}

	lexer = lox.NewLexer(line, "<repl>")
	parser = lox.NewParser(lexer)
	resolver := lox.NewResolver(parser)

	prog, err := resolver.Resolve()
	if err != nil {
		d.reportStaticErrors(err)
		return
	}

	if err := d.interp.Run(prog); err != nil {
		fmt.Fprintln(d.stderr, err)
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.lox_history"
}

// NewLogger builds the logrus logger used across the driver, formatted as a short, single-line
// message instead of logrus's default struct-ish output.
func NewLogger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&easy.Formatter{
		LogFormat: "%lvl%: %msg%\n",
	})
	return log
}
