package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltinClockReturnsNumber(t *testing.T) {
	lines, err := runProgram(t, `print clock() >= 0;`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"true"}, lines)
}

func TestBuiltinDebugReturnsDiagnosticStringWithoutPrinting(t *testing.T) {
	lines, err := runProgram(t, `print debug(42);`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"42 (Number)"}, lines)
}

func TestBuiltinDebugDoesNotPrint(t *testing.T) {
	lines, err := runProgram(t, `
		var s = debug("hi");
		print s;
	`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"hi (String)"}, lines)
}
