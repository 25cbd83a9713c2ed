package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func resolve(t *testing.T, src string) (*Program, error) {
	t.Helper()
	parser := NewParser(NewLexer(src, "test"))
	return NewResolver(parser).Resolve()
}

func TestResolverGlobalHasNilHops(t *testing.T) {
	prog, err := resolve(t, "var x = 1; print x;")
	assert.NoError(t, err)

	print := prog.Statements[1].(*PrintStmt)
	v := print.Expr.(*Variable)
	assert.Nil(t, v.Hops)
}

func TestResolverLocalHopsCountBlocks(t *testing.T) {
	prog, err := resolve(t, `
		var x = "global";
		{
			var x = "outer";
			{
				print x;
			}
		}
	`)
	assert.NoError(t, err)

	outerBlock := prog.Statements[1].(*BlockStmt)
	innerBlock := outerBlock.Statements[1].(*BlockStmt)
	print := innerBlock.Statements[0].(*PrintStmt)
	v := print.Expr.(*Variable)

	if assert.NotNil(t, v.Hops) {
		assert.Equal(t, 1, *v.Hops)
	}
}

func TestResolverOwnInitializerIsError(t *testing.T) {
	_, err := resolve(t, "{ var a = a; }")
	assert.Error(t, err)
}

func TestResolverRedeclarationInSameScopeIsError(t *testing.T) {
	_, err := resolve(t, "{ var a = 1; var a = 2; }")
	assert.Error(t, err)
}

func TestResolverShadowingAcrossScopesIsFine(t *testing.T) {
	_, err := resolve(t, "var a = 1; { var a = 2; }")
	assert.NoError(t, err)
}

func TestResolverTopLevelReturnIsError(t *testing.T) {
	_, err := resolve(t, "return 1;")
	assert.Error(t, err)
}

func TestResolverReturnInsideFunctionIsFine(t *testing.T) {
	_, err := resolve(t, "fun f() { return 1; }")
	assert.NoError(t, err)
}

func TestResolverFunctionParamsAreLocal(t *testing.T) {
	prog, err := resolve(t, "fun f(a) { print a; }")
	assert.NoError(t, err)

	fn := prog.Statements[0].(*FunctionStmt)
	print := fn.Body[0].(*PrintStmt)
	v := print.Expr.(*Variable)

	if assert.NotNil(t, v.Hops) {
		assert.Equal(t, 0, *v.Hops)
	}
}
