package interpreter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loxwalk/internal/errs"
	"loxwalk/internal/interpreter"
	"loxwalk/internal/parser"
	"loxwalk/internal/resolver"
	"loxwalk/internal/scanner"
)

// run compiles and executes source through the full pipeline and returns
// stdout, the diagnostic sink's output, and whether a runtime error fired.
func run(t *testing.T, source string) (stdout, diagnostics string, hadRuntimeError bool) {
	t.Helper()

	var diagBuf, outBuf bytes.Buffer
	sink := errs.New(&diagBuf)

	toks := scanner.New(source, sink).ScanTokens()
	stmts := parser.New(toks, sink).Parse()
	require.False(t, sink.HadScanOrParseError(), "unexpected parse error: %s", diagBuf.String())

	locals := resolver.New(sink).Resolve(stmts)
	require.False(t, sink.HadScanOrParseError(), "unexpected resolve error: %s", diagBuf.String())

	in := interpreter.New(sink, &outBuf)
	in.SetLocals(locals)
	in.Interpret(stmts)

	return outBuf.String(), diagBuf.String(), sink.HadRuntimeError()
}

func TestArithmeticAndPrint(t *testing.T) {
	out, diag, hadErr := run(t, `print 1 + 2 * 3;`)
	assert.Empty(t, diag)
	assert.False(t, hadErr)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, _, hadErr := run(t, `print "foo" + "bar";`)
	assert.False(t, hadErr)
	assert.Equal(t, "foobar\n", out)
}

func TestNumberStringifyStripsTrailingZero(t *testing.T) {
	out, _, _ := run(t, `print 6.0 / 2.0;`)
	assert.Equal(t, "3\n", out)
}

func TestMixedAddOperandsIsRuntimeError(t *testing.T) {
	out, diag, hadErr := run(t, `print "foo" + 1;`)
	assert.True(t, hadErr)
	assert.Contains(t, diag, "Operands must be two numbers or two strings.")
	assert.Empty(t, out)
}

func TestUnaryMinusOnStringIsRuntimeError(t *testing.T) {
	_, diag, hadErr := run(t, `print -"x";`)
	assert.True(t, hadErr)
	assert.Contains(t, diag, "Operand must be a number.")
}

func TestTruthiness(t *testing.T) {
	out, _, hadErr := run(t, `
	if (nil) print "a"; else print "b";
	if (false) print "c"; else print "d";
	if (0) print "e"; else print "f";
	if ("") print "g"; else print "h";
	`)
	assert.False(t, hadErr)
	assert.Equal(t, "b\nd\ne\ng\n", out)
}

func TestEqualityAcrossDifferentTypes(t *testing.T) {
	out, _, hadErr := run(t, `
	print 1 == "1";
	print nil == false;
	print 1 == 1.0;
	print "a" == "a";
	`)
	assert.False(t, hadErr)
	assert.Equal(t, "false\nfalse\ntrue\ntrue\n", out)
}

func TestBlockScopingShadowsOuter(t *testing.T) {
	out, _, hadErr := run(t, `
	var a = "outer";
	{
		var a = "inner";
		print a;
	}
	print a;
	`)
	assert.False(t, hadErr)
	assert.Equal(t, "inner\nouter\n", out)
}

func TestRecursiveFibonacci(t *testing.T) {
	out, _, hadErr := run(t, `
	fun fib(n) {
		if (n < 2) return n;
		return fib(n - 1) + fib(n - 2);
	}
	print fib(10);
	`)
	assert.False(t, hadErr)
	assert.Equal(t, "55\n", out)
}

func TestClosureCapturesVariableByReference(t *testing.T) {
	out, _, hadErr := run(t, `
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
	assert.False(t, hadErr)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestClosureCapturesValueAtDefinitionNotAtCall(t *testing.T) {
	out, _, hadErr := run(t, `
	var a = "global";
	{
		fun showA() {
			print a;
		}
		showA();
		var a = "block";
		showA();
	}
	`)
	assert.False(t, hadErr)
	assert.Equal(t, "global\nglobal\n", out)
}

func TestClassInitAndFieldAccess(t *testing.T) {
	out, _, hadErr := run(t, `
	class Box {
		init(value) {
			this.value = value;
		}
		show() {
			print this.value;
		}
	}
	var b = Box("contents");
	b.show();
	print b.value;
	`)
	assert.False(t, hadErr)
	assert.Equal(t, "contents\ncontents\n", out)
}

func TestGetOnNonInstanceIsRuntimeError(t *testing.T) {
	_, diag, hadErr := run(t, `
	var a = 1;
	print a.field;
	`)
	assert.True(t, hadErr)
	assert.Contains(t, diag, "Only instances have properties.")
}

func TestUndefinedPropertyIsRuntimeError(t *testing.T) {
	_, diag, hadErr := run(t, `
	class Box {}
	var b = Box();
	print b.missing;
	`)
	assert.True(t, hadErr)
	assert.Contains(t, diag, "Undefined property 'missing'.")
}

func TestUndefinedGlobalInExpressionIsRuntimeError(t *testing.T) {
	_, diag, hadErr := run(t, `print undeclared;`)
	assert.True(t, hadErr)
	assert.Contains(t, diag, "Undefined variable 'undeclared'.")
}

func TestRuntimeErrorAbortsRemainingStatementsInCall(t *testing.T) {
	out, _, hadErr := run(t, `
	print "before";
	print 1 + "oops";
	print "after";
	`)
	assert.True(t, hadErr)
	assert.Equal(t, "before\n", out)
}

func TestCallArityMismatchIsRuntimeError(t *testing.T) {
	_, diag, hadErr := run(t, `
	fun needsOne(a) { return a; }
	needsOne(1, 2);
	`)
	assert.True(t, hadErr)
	assert.Contains(t, diag, "Expected 1 arguments but got 2.")
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, diag, hadErr := run(t, `
	var a = 1;
	a();
	`)
	assert.True(t, hadErr)
	assert.Contains(t, diag, "Can only call functions and classes.")
}
