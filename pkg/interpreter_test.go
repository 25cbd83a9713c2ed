package lox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureOut implements Printer by appending each Println call as a line, for assertions
// against program output.
type captureOut struct {
	lines []string
}

func (c *captureOut) Println(args ...interface{}) {
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if s, ok := a.(string); ok {
			sb.WriteString(s)
		}
	}
	c.lines = append(c.lines, sb.String())
}

func runProgram(t *testing.T, src string) ([]string, error) {
	t.Helper()

	parser := NewParser(NewLexer(src, "test"))
	resolver := NewResolver(parser)
	prog, err := resolver.Resolve()
	if err != nil {
		return nil, err
	}

	out := &captureOut{}
	interp := NewInterpreter(out)
	err = interp.Run(prog)
	return out.lines, err
}

func TestInterpreterArithmeticAndPrecedence(t *testing.T) {
	lines, err := runProgram(t, "print 1 + 2 * 3;")
	assert.NoError(t, err)
	assert.Equal(t, []string{"7"}, lines)
}

func TestInterpreterStringConcatenation(t *testing.T) {
	lines, err := runProgram(t, `print "foo" + "bar";`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"foobar"}, lines)
}

func TestInterpreterAddTypeMismatchIsError(t *testing.T) {
	_, err := runProgram(t, `print 1 + "a";`)
	assert.Error(t, err)
}

func TestInterpreterNonBoolConditionIsTypeError(t *testing.T) {
	_, err := runProgram(t, `if (0) { print "wrong"; }`)
	assert.Error(t, err)
}

func TestInterpreterNonBoolWhileConditionIsTypeError(t *testing.T) {
	_, err := runProgram(t, `while ("") { print "wrong"; }`)
	assert.Error(t, err)
}

func TestInterpreterNonBoolNegationIsTypeError(t *testing.T) {
	_, err := runProgram(t, `print !1;`)
	assert.Error(t, err)
}

func TestInterpreterNonBoolAndOperandIsTypeError(t *testing.T) {
	_, err := runProgram(t, `print 1 and true;`)
	assert.Error(t, err)
}

func TestInterpreterNonBoolOrOperandIsTypeError(t *testing.T) {
	_, err := runProgram(t, `print false or "x";`)
	assert.Error(t, err)
}

func TestInterpreterBoolConditionWorks(t *testing.T) {
	lines, err := runProgram(t, `
		if (true) { print "yes"; } else { print "wrong"; }
		if (false) { print "wrong"; } else { print "no"; }
	`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"yes", "no"}, lines)
}

func TestInterpreterWhileLoop(t *testing.T) {
	lines, err := runProgram(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, lines)
}

func TestInterpreterForLoop(t *testing.T) {
	lines, err := runProgram(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, lines)
}

func TestInterpreterFunctionCallAndReturn(t *testing.T) {
	lines, err := runProgram(t, `
		fun add(a, b) {
			return a + b;
		}
		print add(2, 3);
	`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"5"}, lines)
}

func TestInterpreterClosureCapturesEnvironment(t *testing.T) {
	lines, err := runProgram(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, lines)
}

func TestInterpreterRecursion(t *testing.T) {
	lines, err := runProgram(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"55"}, lines)
}

func TestInterpreterWrongArgCountIsError(t *testing.T) {
	_, err := runProgram(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	assert.Error(t, err)
}

func TestInterpreterUndefinedVariableIsError(t *testing.T) {
	_, err := runProgram(t, "print missing;")
	assert.Error(t, err)
}

func TestInterpreterCallingNonCallableIsError(t *testing.T) {
	_, err := runProgram(t, `
		var x = 1;
		x();
	`)
	assert.Error(t, err)
}

func TestInterpreterShortCircuitAndOr(t *testing.T) {
	lines, err := runProgram(t, `
		fun sideEffect() {
			print "called";
			return true;
		}
		print false and sideEffect();
		print true or sideEffect();
	`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"false", "true"}, lines)
}

func TestInterpreterBlockScoping(t *testing.T) {
	lines, err := runProgram(t, `
		var x = "outer";
		{
			var x = "inner";
			print x;
		}
		print x;
	`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"inner", "outer"}, lines)
}
