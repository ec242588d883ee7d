package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthome-go/hmsrun/format"
	"github.com/smarthome-go/hmsrun/host"
)

//
// Test doubles
//

type testDiagnostic string

func (self testDiagnostic) String() string { return string(self) }

type testExecutable struct {
	run func(ctx context.Context, host host.Host) (any, error)
}

func (self testExecutable) Run(ctx context.Context, host host.Host) (any, error) {
	return self.run(ctx, host)
}

type testCompiler struct {
	diagnostics []Diagnostic
	warnings    []Diagnostic
	err         error
	run         func(ctx context.Context, host host.Host) (any, error)

	compiled   int
	returnType reflect.Type
	hostType   reflect.Type
}

func (self *testCompiler) Compile(script ScriptContext, returnType reflect.Type, hostType reflect.Type) (Executable, []Diagnostic, error) {
	self.compiled++
	self.returnType = returnType
	self.hostType = hostType

	if self.err != nil {
		return nil, nil, self.err
	}

	if len(self.diagnostics) > 0 {
		return nil, nil, &CompilationError{Diagnostics: self.diagnostics}
	}

	return testExecutable{run: self.run}, self.warnings, nil
}

type recordingSink struct {
	out    *bytes.Buffer
	errors []string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{out: new(bytes.Buffer), errors: make([]string, 0)}
}

func (self *recordingSink) Writer() io.Writer { return self.out }

func (self *recordingSink) WritePrettyError(text string) {
	self.errors = append(self.errors, text)
}

func returning(value any) func(context.Context, host.Host) (any, error) {
	return func(context.Context, host.Host) (any, error) { return value, nil }
}

type thrownFault struct{ message string }

func (self thrownFault) Error() string     { return self.message }
func (self thrownFault) FaultKind() string { return "Exception" }

//
// Tests
//

func TestExecuteReturnsValue(t *testing.T) {
	compiler := &testCompiler{run: returning(int64(2))}
	sink := newRecordingSink()
	runner := New(compiler, sink)

	result, err := Execute[int](context.Background(), runner, NewScriptContext("1+1", "", nil, CompilationOptions{}))
	require.NoError(t, err)

	assert.Equal(t, 2, result)
	assert.Empty(t, sink.errors)
	assert.Empty(t, sink.out.String())
	assert.Equal(t, reflect.TypeOf(0), compiler.returnType)
	assert.Equal(t, reflect.TypeOf(&host.Globals{}), compiler.hostType)
}

func TestExecuteCompilationFailure(t *testing.T) {
	diagnostics := []Diagnostic{
		testDiagnostic("Error at main:1:3: Expected expression, found end of input"),
		testDiagnostic("Error at main:2:1: Use of undefined variable 'y'"),
		testDiagnostic("Error at main:3:1: Use of undefined variable 'z'"),
	}

	ran := false
	compiler := &testCompiler{
		diagnostics: diagnostics,
		run: func(context.Context, host.Host) (any, error) {
			ran = true
			return nil, nil
		},
	}
	sink := newRecordingSink()

	_, err := Execute[int](context.Background(), New(compiler, sink), NewScriptContext("x+", "", nil, CompilationOptions{}))
	require.Error(t, err)

	var compilationErr *CompilationError
	require.True(t, errors.As(err, &compilationErr))
	assert.Len(t, compilationErr.Diagnostics, 3)

	var runtimeErr *RuntimeError
	assert.False(t, errors.As(err, &runtimeErr))

	assert.False(t, ran)
	if diff := cmp.Diff([]string{
		"Error at main:1:3: Expected expression, found end of input",
		"Error at main:2:1: Use of undefined variable 'y'",
		"Error at main:3:1: Use of undefined variable 'z'",
	}, sink.errors); diff != "" {
		t.Errorf("rendered diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteForeignCompilerError(t *testing.T) {
	compilerErr := errors.New("compiler crashed")
	sink := newRecordingSink()

	_, err := Execute[any](context.Background(), New(&testCompiler{err: compilerErr}, sink), NewScriptContext("", "", nil, CompilationOptions{}))
	assert.Same(t, compilerErr, err)
	assert.Empty(t, sink.errors)
}

func TestExecuteRuntimeFault(t *testing.T) {
	boom := thrownFault{message: "boom"}
	compiler := &testCompiler{
		run: func(context.Context, host.Host) (any, error) { return nil, boom },
	}
	sink := newRecordingSink()

	result, err := Execute[string](context.Background(), New(compiler, sink), NewScriptContext(`throw new Exception("boom")`, "", nil, CompilationOptions{}))
	require.Error(t, err)
	assert.Empty(t, result)

	var runtimeErr *RuntimeError
	require.True(t, errors.As(err, &runtimeErr))
	assert.Equal(t, boom, runtimeErr.Cause)
	assert.ErrorIs(t, err, boom)

	var compilationErr *CompilationError
	assert.False(t, errors.As(err, &compilationErr))

	require.Len(t, sink.errors, 1)
	assert.Equal(t, format.Instance.FormatFault(boom), sink.errors[0])
	assert.Contains(t, sink.errors[0], "boom")
}

func TestExecuteBindsArgumentsInOrder(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{},
		{"hello"},
		{"a", "b", "a", "", "c"},
	} {
		t.Run(fmt.Sprintf("%d args", len(args)), func(t *testing.T) {
			var bound []string
			compiler := &testCompiler{
				run: func(_ context.Context, host host.Host) (any, error) {
					bound = host.Arguments()
					return nil, nil
				},
			}

			_, err := Execute[any](context.Background(), New(compiler, newRecordingSink()), NewScriptContext("", "", args, CompilationOptions{}))
			require.NoError(t, err)

			expected := args
			if expected == nil {
				expected = []string{}
			}
			assert.Equal(t, expected, bound)
		})
	}
}

func TestDefaultHostUsesSinkAndFormatter(t *testing.T) {
	formatter := format.NewObjectFormatter()
	compiler := &testCompiler{
		run: func(_ context.Context, host host.Host) (any, error) {
			assert.Equal(t, formatter, host.Formatter())
			return nil, host.WriteStringTo("hello")
		},
	}
	sink := newRecordingSink()

	_, err := Execute[any](context.Background(), New(compiler, sink, WithFormatter(formatter)), NewScriptContext("", "", nil, CompilationOptions{}))
	require.NoError(t, err)
	assert.Equal(t, "hello", sink.out.String())
}

type greeterHost struct {
	*host.Globals
	greeting string
}

func (self *greeterHost) Greet(name string) string { return self.greeting + ", " + name }

func TestExecuteWithCustomHost(t *testing.T) {
	compiler := &testCompiler{
		run: func(_ context.Context, h host.Host) (any, error) {
			return h.(*greeterHost).Greet("world"), nil
		},
	}
	custom := &greeterHost{Globals: host.NewGlobals(io.Discard, nil), greeting: "Hello"}

	result, err := ExecuteWithHost[string](context.Background(), New(compiler, newRecordingSink()), NewScriptContext("", "", nil, CompilationOptions{}), custom)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", result)
	assert.Equal(t, reflect.TypeOf(custom), compiler.hostType)
}

func TestExecuteCompiledRunsEachTime(t *testing.T) {
	calls := 0
	compiler := &testCompiler{
		run: func(context.Context, host.Host) (any, error) {
			calls++
			return calls, nil
		},
	}
	runner := New(compiler, newRecordingSink())

	compilationContext, err := CreateCompilationContext[int, *host.Globals](compiler, NewScriptContext("", "", nil, CompilationOptions{}))
	require.NoError(t, err)

	first, err := ExecuteCompiled(context.Background(), runner, compilationContext, host.NewGlobals(io.Discard, nil))
	require.NoError(t, err)
	second, err := ExecuteCompiled(context.Background(), runner, compilationContext, host.NewGlobals(io.Discard, nil))
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 1, compiler.compiled)
}

func TestExecuteRecoversPanics(t *testing.T) {
	compiler := &testCompiler{
		run: func(context.Context, host.Host) (any, error) { panic("host exploded") },
	}
	sink := newRecordingSink()

	_, err := Execute[any](context.Background(), New(compiler, sink), NewScriptContext("", "", nil, CompilationOptions{}))

	var panicFault *PanicFault
	require.True(t, errors.As(err, &panicFault))
	assert.Equal(t, "host exploded", panicFault.Value)
	assert.NotEmpty(t, panicFault.Stack)

	require.Len(t, sink.errors, 1)
	assert.True(t, strings.HasPrefix(sink.errors[0], "Panic: host exploded"))
}

func TestRejectedFaultsArePanicked(t *testing.T) {
	reject := func(error) bool { return false }

	assert.PanicsWithValue(t, "host exploded", func() {
		captured[int](&PanicFault{Value: "host exploded"}, reject)
	})

	boom := thrownFault{message: "boom"}
	assert.PanicsWithValue(t, boom, func() {
		captured[int](boom, reject)
	})

	assert.NotPanics(t, func() {
		state := captured[int](context.Canceled, reject)
		assert.Equal(t, context.Canceled, state.Fault)
	})
}

func TestCustomFaultFilterCaptures(t *testing.T) {
	seen := make([]error, 0)
	filter := func(fault error) bool {
		seen = append(seen, fault)
		return true
	}

	boom := thrownFault{message: "boom"}
	compiler := &testCompiler{
		run: func(context.Context, host.Host) (any, error) { return nil, boom },
	}

	_, err := Execute[any](context.Background(), New(compiler, newRecordingSink(), WithFaultFilter(filter)), NewScriptContext("", "", nil, CompilationOptions{}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []error{boom}, seen)
}

func TestExecuteCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	compiler := &testCompiler{
		run: func(ctx context.Context, _ host.Host) (any, error) {
			cancel()
			<-ctx.Done()
			return nil, fmt.Errorf("terminated: %w", ctx.Err())
		},
	}
	sink := newRecordingSink()

	_, err := Execute[any](ctx, New(compiler, sink), NewScriptContext("", "", nil, CompilationOptions{}))

	var cancellation *CancellationError
	require.True(t, errors.As(err, &cancellation))
	assert.ErrorIs(t, err, context.Canceled)

	var runtimeErr *RuntimeError
	assert.False(t, errors.As(err, &runtimeErr))
	assert.Len(t, sink.errors, 1)
}

func TestExecuteTimeoutWithUnresponsiveScript(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	compiler := &testCompiler{
		run: func(context.Context, host.Host) (any, error) {
			<-release
			return 1, nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Execute[int](ctx, New(compiler, newRecordingSink()), NewScriptContext("", "", nil, CompilationOptions{}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var cancellation *CancellationError
	assert.True(t, errors.As(err, &cancellation))
}

func TestExecuteConversionFault(t *testing.T) {
	compiler := &testCompiler{run: returning(2.5)}
	sink := newRecordingSink()

	_, err := Execute[int](context.Background(), New(compiler, sink), NewScriptContext("", "", nil, CompilationOptions{}))

	var conversion *ConversionFault
	require.True(t, errors.As(err, &conversion))
	assert.Equal(t, "int", conversion.Target)
	require.Len(t, sink.errors, 1)
	assert.True(t, strings.HasPrefix(sink.errors[0], "CastError: "))
}

func TestCompilationContextWarnings(t *testing.T) {
	compiler := &testCompiler{
		run:      returning(nil),
		warnings: []Diagnostic{testDiagnostic("Warning at main:1:5: Variable 'x' is unused")},
	}

	compilationContext, err := CreateCompilationContext[any, host.Host](compiler, NewScriptContext("let x = 1;", "", nil, CompilationOptions{}))
	require.NoError(t, err)

	assert.Equal(t, []Diagnostic{testDiagnostic("Warning at main:1:5: Variable 'x' is unused")}, compilationContext.Warnings())
	assert.Equal(t, reflect.TypeOf((*any)(nil)).Elem(), compilationContext.ReturnType())
	assert.Equal(t, reflect.TypeOf((*host.Host)(nil)).Elem(), compilationContext.HostType())
	assert.Equal(t, "let x = 1;", compilationContext.Script().Code)
}

func TestNewScriptContext(t *testing.T) {
	args := []string{"a", "b"}
	script := NewScriptContext("1", "", args, CompilationOptions{})
	args[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, script.Args)
	assert.Equal(t, DefaultFilename, script.Filename)
	assert.Equal(t, uint(DefaultCallStackLimit), script.Options.CallStackLimit)
	assert.Equal(t, Debug, script.Options.OptimizationLevel)

	script = NewScriptContext("1", "foo.hms", nil, CompilationOptions{OptimizationLevel: Release, CallStackLimit: 10})
	assert.Equal(t, "foo.hms", script.Filename)
	assert.Equal(t, uint(10), script.Options.CallStackLimit)
	assert.Equal(t, "release", script.Options.OptimizationLevel.String())
}

func TestExecuteCancellationWithCustomCause(t *testing.T) {
	shutdown := errors.New("shutdown requested")

	ctx, cancel := context.WithCancelCause(context.Background())
	compiler := &testCompiler{
		run: func(ctx context.Context, _ host.Host) (any, error) {
			cancel(shutdown)
			<-ctx.Done()
			return nil, context.Cause(ctx)
		},
	}
	sink := newRecordingSink()

	_, err := Execute[any](ctx, New(compiler, sink), NewScriptContext("", "", nil, CompilationOptions{}))

	var cancellation *CancellationError
	require.True(t, errors.As(err, &cancellation), "got %T", err)
	assert.ErrorIs(t, err, shutdown)

	var runtimeErr *RuntimeError
	assert.False(t, errors.As(err, &runtimeErr))
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], "Script execution was canceled")
}

func TestExecuteTimeoutWithCustomCause(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	compiler := &testCompiler{
		run: func(context.Context, host.Host) (any, error) {
			<-release
			return 1, nil
		},
	}

	slow := errors.New("script too slow")
	ctx, cancel := context.WithTimeoutCause(context.Background(), 20*time.Millisecond, slow)
	defer cancel()

	_, err := Execute[int](ctx, New(compiler, newRecordingSink()), NewScriptContext("", "", nil, CompilationOptions{}))

	var cancellation *CancellationError
	require.True(t, errors.As(err, &cancellation), "got %T", err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, slow)
}

func TestCancellationCause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, context.Canceled, cancellationCause(ctx))

	custom := errors.New("custom")
	ctx, cancelCause := context.WithCancelCause(context.Background())
	cancelCause(custom)
	cause := cancellationCause(ctx)
	assert.ErrorIs(t, cause, context.Canceled)
	assert.ErrorIs(t, cause, custom)
	assert.True(t, causedByCancellation(ctx, custom))
	assert.False(t, causedByCancellation(context.Background(), custom))
}

type diagnosticSink struct {
	*recordingSink
	diagnostics []string
}

func (self *diagnosticSink) WriteDiagnostic(text string) {
	self.diagnostics = append(self.diagnostics, text)
}

func TestDiagnosticRenderer(t *testing.T) {
	compiler := &testCompiler{diagnostics: []Diagnostic{testDiagnostic("first"), testDiagnostic("second")}}
	render := func(code string, diagnostic Diagnostic) string {
		return fmt.Sprintf("%s in `%s`", diagnostic, code)
	}

	plain := newRecordingSink()
	_, err := Execute[any](context.Background(), New(compiler, plain, WithDiagnosticRenderer(render)), NewScriptContext("x+", "", nil, CompilationOptions{}))
	var compilationErr *CompilationError
	require.True(t, errors.As(err, &compilationErr))
	assert.Equal(t, []string{"first in `x+`", "second in `x+`"}, plain.errors)

	rich := &diagnosticSink{recordingSink: newRecordingSink()}
	_, err = Execute[any](context.Background(), New(compiler, rich, WithDiagnosticRenderer(render)), NewScriptContext("x+", "", nil, CompilationOptions{}))
	require.True(t, errors.As(err, &compilationErr))
	assert.Equal(t, []string{"first in `x+`", "second in `x+`"}, rich.diagnostics)
	assert.Empty(t, rich.errors)
}

func TestWarningsAreReportedBeforeTheRun(t *testing.T) {
	sink := newRecordingSink()
	compiler := &testCompiler{
		warnings: []Diagnostic{testDiagnostic("unused variable")},
		run: func(context.Context, host.Host) (any, error) {
			assert.Equal(t, []string{"unused variable"}, sink.errors)
			return 1, nil
		},
	}

	result, err := Execute[int](context.Background(), New(compiler, sink, WithWarnings()), NewScriptContext("", "", nil, CompilationOptions{}))
	require.NoError(t, err)
	assert.Equal(t, 1, result)
	assert.Equal(t, []string{"unused variable"}, sink.errors)

	quiet := newRecordingSink()
	_, err = Execute[int](context.Background(), New(compiler, quiet), NewScriptContext("", "", nil, CompilationOptions{}))
	require.NoError(t, err)
	assert.Empty(t, quiet.errors)
}
