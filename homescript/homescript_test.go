package homescript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthome-go/hmsrun/console"
	"github.com/smarthome-go/hmsrun/host"
	"github.com/smarthome-go/hmsrun/runner"
)

const EXAMPLE_DIR = "../examples/"

var errHostFailure = errors.New("host failure")

type testHost struct {
	*host.Globals
	greeted []string
}

func newTestHost(out *bytes.Buffer) *testHost {
	return &testHost{
		Globals: host.NewGlobals(out, nil),
		greeted: make([]string, 0),
	}
}

func (self *testHost) Greet(name string) string {
	self.greeted = append(self.greeted, name)
	return "Hello, " + name
}

func (self *testHost) Add(a int, b int) int { return a + b }

func (self *testHost) Sum(values ...float64) float64 {
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum
}

func (self *testHost) Fail(message string) error {
	return fmt.Errorf("%w: %s", errHostFailure, message)
}

func (self *testHost) HasDeadline(ctx context.Context) bool {
	_, ok := ctx.Deadline()
	return ok
}

func (self *testHost) Explode() { panic("host exploded") }

// Not callable from scripts
func (self *testHost) Pair() (int, int) { return 1, 2 }

func newTestRunner() (*runner.Runner, *bytes.Buffer, *bytes.Buffer) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	return runner.New(NewCompiler(nil), console.NewPlain(out, errOut)), out, errOut
}

func script(code string, args ...string) runner.ScriptContext {
	return runner.NewScriptContext(code, "", args, runner.CompilationOptions{})
}

//
// End-to-end scenarios
//

func TestScenarioValue(t *testing.T) {
	r, out, errOut := newTestRunner()

	result, err := runner.Execute[int](context.Background(), r, script("1+1"))
	require.NoError(t, err)

	assert.Equal(t, 2, result)
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestScenarioCompilationFailure(t *testing.T) {
	r, _, errOut := newTestRunner()

	_, err := runner.Execute[int](context.Background(), r, script("x+"))

	var compilationErr *runner.CompilationError
	require.ErrorAs(t, err, &compilationErr)
	require.NotEmpty(t, compilationErr.Diagnostics)

	lines := strings.Split(strings.TrimSuffix(errOut.String(), "\n"), "\n")
	assert.Len(t, lines, len(compilationErr.Diagnostics))
	assert.True(t, strings.HasPrefix(lines[0], "Error at main:1:"), lines[0])
}

func TestScenarioRuntimeFault(t *testing.T) {
	r, _, errOut := newTestRunner()

	_, err := runner.Execute[any](context.Background(), r, script(`throw new Exception("boom")`))

	var runtimeErr *runner.RuntimeError
	require.ErrorAs(t, err, &runtimeErr)
	assert.Equal(t, "Script execution resulted in an exception.", runtimeErr.Error())

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "Exception", fault.Kind)
	assert.Equal(t, "boom", fault.Message)
	assert.Equal(t, map[string]any{"type": "Exception", "message": "boom"}, fault.Thrown)

	assert.Contains(t, errOut.String(), "boom")
	assert.True(t, strings.HasPrefix(errOut.String(), "Exception: boom\n   at <main> (main:1:1)"), errOut.String())
}

func TestScenarioArgs(t *testing.T) {
	r, _, _ := newTestRunner()

	result, err := runner.Execute[string](context.Background(), r, script("Args[0]", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

//
// Pipeline properties
//

func TestResults(t *testing.T) {
	r, _, _ := newTestRunner()
	ctx := context.Background()

	list, err := runner.Execute[[]int](ctx, r, script("let xs = [1, 2]; xs.push(3); xs"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, list)

	float, err := runner.Execute[float64](ctx, r, script("fn half(x) { return x / 2.0 } half(5)"))
	require.NoError(t, err)
	assert.Equal(t, 2.5, float)

	returned, err := runner.Execute[string](ctx, r, script("if true { return 'early'; } 'late'"))
	require.NoError(t, err)
	assert.Equal(t, "early", returned)

	null, err := runner.Execute[any](ctx, r, script("let x = 1; x += 1;"))
	require.NoError(t, err)
	assert.Nil(t, null)
}

func TestDeclaredReturnTypeMismatch(t *testing.T) {
	r, _, errOut := newTestRunner()

	_, err := runner.Execute[int](context.Background(), r, script("'a'"))

	var compilationErr *runner.CompilationError
	require.ErrorAs(t, err, &compilationErr)
	assert.Contains(t, compilationErr.Error(), "incompatible with the declared return type 'int'")
	assert.NotEmpty(t, errOut.String())
}

func TestConversionFault(t *testing.T) {
	r, _, _ := newTestRunner()

	_, err := runner.Execute[int](context.Background(), r, script("Args[0]", "not a number"))

	var conversion *runner.ConversionFault
	require.ErrorAs(t, err, &conversion)
	assert.Equal(t, "int", conversion.Target)
}

func TestStackOverflow(t *testing.T) {
	r, _, _ := newTestRunner()
	source := runner.NewScriptContext("fn f() { f() } f()", "", nil, runner.CompilationOptions{CallStackLimit: 50})

	_, err := runner.Execute[any](context.Background(), r, source)

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "StackOverflow", fault.Kind)
	require.Greater(t, len(fault.Trace), 1)
	assert.True(t, strings.HasPrefix(fault.Trace[0], "f() (main:1:10)"), fault.Trace[0])
	assert.True(t, strings.HasPrefix(fault.Trace[len(fault.Trace)-1], "<main> (main:1:16)"), fault.Trace[len(fault.Trace)-1])
}

func TestCancellation(t *testing.T) {
	r, _, errOut := newTestRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := runner.Execute[any](ctx, r, script("while true { }"))

	var cancellation *runner.CancellationError
	require.ErrorAs(t, err, &cancellation)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, errOut.String(), "Script execution was canceled")
}

func TestCancellationWithCustomCause(t *testing.T) {
	r, _, errOut := newTestRunner()
	shutdown := errors.New("shutdown requested")

	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(shutdown)

	_, err := runner.Execute[any](ctx, r, script("while true { }"))

	var cancellation *runner.CancellationError
	require.ErrorAs(t, err, &cancellation)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, shutdown)

	var runtimeErr *runner.RuntimeError
	assert.False(t, errors.As(err, &runtimeErr))
	assert.Contains(t, errOut.String(), "Script execution was canceled")
	assert.Contains(t, errOut.String(), "shutdown requested")
}

func TestCompileWarnings(t *testing.T) {
	compiler := NewCompiler(nil)

	_, warnings, err := compiler.Compile(script("let x = 1; 2"), reflect.TypeOf(0), reflect.TypeOf(&host.Globals{}))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].String(), "Variable 'x' is unused")

	cc, err := runner.CreateCompilationContext[int, *host.Globals](compiler, script("let y = 1; 2"))
	require.NoError(t, err)
	assert.Len(t, cc.Warnings(), 1)
}

func TestReleaseBuildFoldsConstants(t *testing.T) {
	compiler := NewCompiler(nil)
	source := runner.NewScriptContext(
		"if false { println('never'); } 2 * 3 + 1",
		"",
		nil,
		runner.CompilationOptions{OptimizationLevel: runner.Release},
	)

	executable, warnings, err := compiler.Compile(source, reflect.TypeOf(0), reflect.TypeOf(&host.Globals{}))
	require.NoError(t, err)
	assert.Equal(t, "7", executable.(Executable).Program().String())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].String(), "This branch is never executed")

	result, err := executable.Run(context.Background(), host.NewGlobals(new(bytes.Buffer), nil))
	require.NoError(t, err)
	assert.Equal(t, int64(7), result)
}

func TestCheck(t *testing.T) {
	diagnostics := NewCompiler(nil).Check(script("let x = y;"), nil, reflect.TypeOf(&host.Globals{}))

	messages := make([]string, 0, len(diagnostics))
	for _, item := range diagnostics {
		messages = append(messages, item.Message)
	}

	if diff := cmp.Diff([]string{"Use of undefined variable 'y'", "Variable 'x' is unused"}, messages); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

//
// Host bridge
//

func TestHostMethods(t *testing.T) {
	methods, skipped := hostMethods(reflect.TypeOf(&testHost{}))

	names := make([]string, 0, len(methods))
	for _, method := range methods {
		names = append(names, method.Name)
	}

	assert.Equal(t, []string{"Add", "Explode", "Fail", "Greet", "HasDeadline", "Sum"}, names)
	assert.Equal(t, []string{"Pair"}, skipped)

	for _, method := range methods {
		switch method.Name {
		case "Sum":
			assert.Equal(t, -1, method.Arity())
		case "HasDeadline":
			assert.True(t, method.TakesContext)
			assert.Equal(t, 0, method.Arity())
		case "Fail":
			assert.True(t, method.ReturnsError)
			assert.Nil(t, method.Returns)
		}
	}

	none, _ := hostMethods(reflect.TypeOf((*host.Host)(nil)).Elem())
	assert.Empty(t, none)
}

func TestHostBridge(t *testing.T) {
	r, _, _ := newTestRunner()
	ctx := context.Background()

	hostOut := new(bytes.Buffer)
	testHost := newTestHost(hostOut)

	greeting, err := runner.ExecuteWithHost[string](ctx, r, script(`println("hi"); Greet("world")`), testHost)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", greeting)
	assert.Equal(t, []string{"world"}, testHost.greeted)
	assert.Equal(t, "hi\n", hostOut.String())

	sum, err := runner.ExecuteWithHost[int](ctx, r, script("Add(2, 3)"), testHost)
	require.NoError(t, err)
	assert.Equal(t, 5, sum)

	variadic, err := runner.ExecuteWithHost[float64](ctx, r, script("Sum(1, 2.5, 3)"), testHost)
	require.NoError(t, err)
	assert.Equal(t, 6.5, variadic)

	deadlineCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	hasDeadline, err := runner.ExecuteWithHost[bool](deadlineCtx, r, script("HasDeadline()"), testHost)
	require.NoError(t, err)
	assert.True(t, hasDeadline)

	caught, err := runner.ExecuteWithHost[string](
		ctx,
		r,
		script(`let kind = ""; try { Fail("disk"); } catch e { kind = e.type; } kind`),
		testHost,
	)
	require.NoError(t, err)
	assert.Equal(t, "HostError", caught)
}

func TestHostBridgeFaults(t *testing.T) {
	r, _, _ := newTestRunner()
	ctx := context.Background()
	testHost := newTestHost(new(bytes.Buffer))

	_, err := runner.ExecuteWithHost[any](ctx, r, script(`Fail("disk")`), testHost)
	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "HostError", fault.Kind)
	assert.ErrorIs(t, err, errHostFailure)

	_, err = runner.ExecuteWithHost[any](ctx, r, script(`Add("a", 1)`), testHost)
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "CastError", fault.Kind)

	_, err = runner.ExecuteWithHost[any](ctx, r, script("Explode()"), testHost)
	var panicFault *runner.PanicFault
	require.ErrorAs(t, err, &panicFault)
	assert.Equal(t, "host exploded", panicFault.Value)

	_, err = runner.ExecuteWithHost[any](ctx, r, script("Greet()"), testHost)
	var compilationErr *runner.CompilationError
	require.ErrorAs(t, err, &compilationErr)
	assert.Contains(t, compilationErr.Error(), "Function 'Greet' takes 1 argument(s), but 0 were given")

	_, err = runner.ExecuteWithHost[any](ctx, r, script("Pair()"), testHost)
	require.ErrorAs(t, err, &compilationErr)
	assert.Contains(t, compilationErr.Error(), "Use of undefined variable 'Pair'")
}

//
// Example programs
//

func TestExamples(t *testing.T) {
	tests := []struct {
		File   string
		Args   []string
		Output string
		Result any
		Fault  string
	}{
		{
			File:   "fizzbuzz.hms",
			Args:   []string{"5"},
			Output: "1\n2\nFizz\n4\nBuzz\n",
		},
		{
			File:   "fibonacci.hms",
			Output: "[0, 1, 1, 2, 3, 5, 55]\n",
			Result: int64(6765),
		},
		{
			File:   "exceptions.hms",
			Output: "caught: b must not be zero\n",
			Fault:  "ArgumentException",
		},
	}

	for _, test := range tests {
		t.Run(test.File, func(t *testing.T) {
			code, err := os.ReadFile(filepath.Join(EXAMPLE_DIR, test.File))
			require.NoError(t, err)

			r, out, _ := newTestRunner()
			source := runner.NewScriptContext(string(code), test.File, test.Args, runner.CompilationOptions{})

			result, err := runner.Execute[any](context.Background(), r, source)
			assert.Equal(t, test.Output, out.String())

			if test.Fault != "" {
				var fault *Fault
				require.ErrorAs(t, err, &fault)
				assert.Equal(t, test.Fault, fault.Kind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.Result, result)
		})
	}
}
