package interpreter

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/homescript/parser"
	"github.com/smarthome-go/hmsrun/host"
)

func execute(t *testing.T, ctx context.Context, program string, args ...string) (*value.Value, *value.Interrupt, string, Interpreter) {
	t.Helper()

	tree, err := parser.Parse(program, "test")
	require.Nil(t, err, "unexpected syntax error: %v", err)

	output := new(bytes.Buffer)
	globals := host.NewGlobals(output, nil)
	globals.Args = append(globals.Args, args...)

	additions := make(map[string]value.Value)
	for name, builtin := range Builtins {
		additions[name] = *value.NewValueBuiltinFunction(builtin.Callback)
	}

	interpreter := NewInterpreter(100, globals, additions, ctx)
	result, i := interpreter.Execute(tree)
	return result, i, output.String(), interpreter
}

func display(t *testing.T, val *value.Value) string {
	t.Helper()
	require.NotNil(t, val)
	out, i := (*val).Display()
	require.Nil(t, i)
	return out
}

func TestExecuteValues(t *testing.T) {
	tests := []struct {
		Name     string
		Program  string
		Expected string
	}{
		{Name: "Empty", Program: "", Expected: "null"},
		{Name: "Arithmetic", Program: "1 + 2 * 3 - 10 / 4", Expected: "5"},
		{Name: "FloatWidening", Program: "1 + 0.5", Expected: "1.5"},
		{Name: "Modulo", Program: "-7 % 3", Expected: "-1"},
		{Name: "StringConcat", Program: "'a' + 'b' * 2", Expected: "abb"},
		{Name: "Comparison", Program: "1 < 2 && 2.0 == 2 && 'a' < 'b'", Expected: "true"},
		{Name: "ShortCircuit", Program: "false && undefinedFn()", Expected: "false"},
		{Name: "Let", Program: "let x = 40; x += 2; x", Expected: "42"},
		{Name: "TopLevelReturn", Program: "return 3; 4", Expected: "3"},
		{Name: "TrailingSemicolon", Program: "1 + 1;", Expected: "null"},
		{Name: "ListIndexAssign", Program: "let xs = [1, 2]; xs[1] += 5; xs", Expected: "[1, 7]"},
		{Name: "ListConcat", Program: "let xs = [1]; let ys = xs + [2]; ys[0] = 9; xs + ys", Expected: "[1, 9, 2]"},
		{Name: "ListMembers", Program: "let xs = []; xs.push('a'); xs.push('b'); xs.join('-') + str(xs.len())", Expected: "a-b2"},
		{Name: "StringMembers", Program: "' Hi '.trim().upper()", Expected: "HI"},
		{Name: "While", Program: "let i = 0; let s = 0; while true { i += 1; if i % 2 == 0 { continue } if i > 9 { break } s += i } s", Expected: "25"},
		{Name: "For", Program: "let s = ''; for c in 'abc' { s = c + s } s", Expected: "cba"},
		{Name: "Recursion", Program: "fn fib(n) { if n < 2 { return n } fib(n - 1) + fib(n - 2) } fib(15)", Expected: "610"},
		{Name: "Hoisting", Program: "let r = double(21); fn double(x) { x * 2 } r", Expected: "42"},
		{Name: "LexicalScope", Program: "let g = 1; fn f() { g } fn h() { let g = 2; f() } h()", Expected: "1"},
		{Name: "Casts", Program: "int('12') + int(2.9) + float('0.5')", Expected: "14.5"},
		{Name: "TryCatchThrow", Program: "let r = ''; try { throw new ArgumentException('bad') } catch e { r = e.type + ': ' + e.message } r", Expected: "ArgumentException: bad"},
		{Name: "TryCatchRuntimeError", Program: "let r = ''; try { [1][5] } catch e { r = e.type } r", Expected: "IndexOutOfBounds"},
		{Name: "TryCatchThrownValue", Program: "let r = 0; try { throw 41 } catch e { r = e + 1 } r", Expected: "42"},
		{Name: "NestedBlock", Program: "let x = 1; { let x = 2; } x", Expected: "1"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			result, i, _, _ := execute(t, context.Background(), test.Program)
			require.Nil(t, i, "unexpected interrupt: %v", i)
			assert.Equal(t, test.Expected, display(t, result))
		})
	}
}

func TestExecuteOutput(t *testing.T) {
	_, i, output, _ := execute(t, context.Background(), "print('a', 1); println(''); println(Args.len(), Args[0]); dump([1, 'x']); dump(2.0)", "first", "second")
	require.Nil(t, i)
	assert.Equal(t, "a 1\n2 first\n[1, \"x\"]\n2.0\n", output)
}

func TestExecuteRuntimeErrors(t *testing.T) {
	tests := []struct {
		Program string
		Kind    value.RuntimeErrorKind
		Message string
	}{
		{Program: "1 / 0", Kind: value.DivisionByZeroErrorKind, Message: "divide by zero"},
		{Program: "[1, 2][2]", Kind: value.IndexOutOfBoundsErrorKind, Message: "Index 2 is out of bounds for length 2"},
		{Program: "1 + 'a'", Kind: value.ValueErrorKind, Message: "Cannot apply operator '+' to values of type int and string"},
		{Program: "int('x')", Kind: value.CastErrorKind, Message: "Cannot cast string 'x' to int"},
		{Program: "fn f() { f() } f()", Kind: value.StackOverFlowErrorKind, Message: "Maximum callstack size of 100"},
		{Program: "let x = 1; x()", Kind: value.ValueErrorKind, Message: "not callable"},
		{Program: "null.foo", Kind: value.ValueErrorKind, Message: "no member named 'foo'"},
	}

	for _, test := range tests {
		t.Run(test.Program, func(t *testing.T) {
			_, i, _, _ := execute(t, context.Background(), test.Program)
			require.NotNil(t, i)
			runtimeErr, ok := (*i).(value.RuntimeErr)
			require.True(t, ok, "expected a runtime error, got %v", (*i).Kind())
			assert.Equal(t, test.Kind, runtimeErr.ErrKind)
			assert.Contains(t, runtimeErr.Message(), test.Message)
		})
	}
}

func TestStackOverflowIsNotCatchable(t *testing.T) {
	_, i, _, _ := execute(t, context.Background(), "fn f() { f() } try { f() } catch e { 1 }")
	require.NotNil(t, i)
	assert.Equal(t, value.StackOverFlowErrorKind, (*i).(value.RuntimeErr).ErrKind)
}

func TestUncaughtThrowTrace(t *testing.T) {
	program := "fn inner() {\n    throw new Exception('boom');\n}\nfn outer() { inner() }\nouter()"
	_, i, _, interpreter := execute(t, context.Background(), program)
	require.NotNil(t, i)

	thrown := (*i).(value.ThrowInterrupt)
	assert.Equal(t, "boom", thrown.Message())
	assert.Equal(t, []string{
		"inner() (test:2:5)",
		"outer() (test:4:14)",
		"<main> (test:5:1)",
	}, interpreter.Trace())
}

func TestCaughtExceptionClearsTrace(t *testing.T) {
	_, i, _, interpreter := execute(t, context.Background(), "fn f() { throw 1 } try { f() } catch e {} 2")
	require.Nil(t, i)
	assert.Nil(t, interpreter.Trace())
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, i, _, _ := execute(t, ctx, "while true {}")
	require.NotNil(t, i)
	require.Equal(t, value.TerminateInterruptKind, (*i).Kind())
	assert.ErrorIs(t, (*i).(value.TerminationInterrupt).Cause, context.Canceled)
}

func TestTerminationIsNotCatchable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, i, _, _ := execute(t, ctx, "try { while true {} } catch e { 1 }")
	require.NotNil(t, i)
	assert.Equal(t, value.TerminateInterruptKind, (*i).Kind())
}

func TestStackOverflowTraceIsCollapsed(t *testing.T) {
	_, i, _, interpreter := execute(t, context.Background(), "fn f() { f() } f()")
	require.NotNil(t, i)

	trace := interpreter.Trace()
	require.Len(t, trace, 3)
	assert.Equal(t, "f() (test:1:10)", trace[0])
	assert.Contains(t, trace[1], "... previous frame repeated")
	assert.Equal(t, "<main> (test:1:16)", trace[2])
}

func TestCollapseFrames(t *testing.T) {
	assert.Equal(t, []string{
		"a",
		"... previous frame repeated 2 more time(s)",
		"b",
		"a",
	}, collapseFrames([]string{"a", "a", "a", "b", "a"}))
	assert.Equal(t, []string{"x"}, collapseFrames([]string{"x"}))
	assert.Empty(t, collapseFrames(nil))
}

func TestCancellationWithCustomCause(t *testing.T) {
	shutdown := errors.New("shutdown requested")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(shutdown)

	_, i, _, _ := execute(t, ctx, "while true {}")
	require.NotNil(t, i)

	cause := (*i).(value.TerminationInterrupt).Cause
	assert.ErrorIs(t, cause, context.Canceled)
	assert.ErrorIs(t, cause, shutdown)
}
