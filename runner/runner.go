package runner

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/smarthome-go/hmsrun/format"
	"github.com/smarthome-go/hmsrun/host"
)

// Sink receives script output and rendered failures.
type Sink interface {
	Writer() io.Writer
	WritePrettyError(text string)
}

// DiagnosticSink is implemented by sinks which accept diagnostics that
// were already rendered with their own colors.
type DiagnosticSink interface {
	WriteDiagnostic(text string)
}

// DiagnosticRenderer renders a diagnostic of the source `code`.
type DiagnosticRenderer func(code string, diagnostic Diagnostic) string

type Runner struct {
	compiler  Compiler
	sink      Sink
	formatter format.Formatter
	filter    FaultFilter
	logger    *log.Logger
	renderer  DiagnosticRenderer
	warnings  bool
}

type Option func(runner *Runner)

func WithFormatter(formatter format.Formatter) Option {
	return func(runner *Runner) { runner.formatter = formatter }
}

func WithFaultFilter(filter FaultFilter) Option {
	return func(runner *Runner) { runner.filter = filter }
}

func WithLogger(logger *log.Logger) Option {
	return func(runner *Runner) { runner.logger = logger }
}

// WithDiagnosticRenderer replaces the single line rendering of diagnostics.
// Rendered diagnostics go to `WriteDiagnostic` if the sink implements `DiagnosticSink`.
func WithDiagnosticRenderer(renderer DiagnosticRenderer) Option {
	return func(runner *Runner) { runner.renderer = renderer }
}

// WithWarnings reports the non-fatal diagnostics of a compilation before the run starts.
func WithWarnings() Option {
	return func(runner *Runner) { runner.warnings = true }
}

func New(compiler Compiler, sink Sink, options ...Option) *Runner {
	runner := &Runner{
		compiler:  compiler,
		sink:      sink,
		formatter: format.Instance,
		filter:    CatchAll,
		logger:    log.New(io.Discard, "", 0),
	}

	for _, option := range options {
		option(runner)
	}

	return runner
}

func (self *Runner) Formatter() format.Formatter { return self.formatter }

// Execute compiles and runs `script` against a fresh default host binding.
func Execute[T any](ctx context.Context, runner *Runner, script ScriptContext) (T, error) {
	globals := host.NewGlobals(runner.sink.Writer(), runner.formatter)

	for _, arg := range script.Args {
		globals.Args = append(globals.Args, arg)
	}

	return ExecuteWithHost[T](ctx, runner, script, globals)
}

// ExecuteWithHost compiles `script` for the host type `H` and runs it against `host`.
// Compilation diagnostics are written to the sink before the
// `*CompilationError` is returned.
func ExecuteWithHost[T any, H host.Host](ctx context.Context, runner *Runner, script ScriptContext, host H) (T, error) {
	start := time.Now()

	compilationContext, err := CreateCompilationContext[T, H](runner.compiler, script)
	if err != nil {
		var compilationErr *CompilationError
		if errors.As(err, &compilationErr) {
			runner.report(script, compilationErr.Diagnostics)
			runner.logger.Printf("Compilation of `%s` failed with %d diagnostic(s)\n", script.Filename, len(compilationErr.Diagnostics))
		}

		var zero T
		return zero, err
	}

	runner.logger.Printf("Compiled `%s` (%s) in %v\n", script.Filename, script.Options.OptimizationLevel, time.Since(start))

	if runner.warnings {
		runner.report(script, compilationContext.Warnings())
	}

	return ExecuteCompiled(ctx, runner, compilationContext, host)
}

// ExecuteCompiled runs an already compiled unit against `host` and waits for it to terminate.
func ExecuteCompiled[T any, H host.Host](ctx context.Context, runner *Runner, compilationContext CompilationContext[T], host H) (T, error) {
	start := time.Now()
	states := RunAsync(ctx, compilationContext, host, runner.filter)

	var state ExecutionState[T]
	select {
	case state = <-states:
	case <-ctx.Done():
		// The run observes the same context and terminates on its own.
		select {
		case state = <-states:
		default:
			state = Faulted[T](cancellationCause(ctx))
		}
	}

	runner.logger.Printf("Execution of `%s` finished in %v (fault: %t)\n", compilationContext.Script().Filename, time.Since(start), state.HasFault())

	return processState(ctx, runner, state)
}

func processState[T any](ctx context.Context, runner *Runner, state ExecutionState[T]) (T, error) {
	if !state.HasFault() {
		return state.ReturnValue, nil
	}

	var zero T

	if isCancellation(state.Fault) || causedByCancellation(ctx, state.Fault) {
		cancellation := &CancellationError{Cause: state.Fault}
		runner.sink.WritePrettyError(cancellation.Error())
		return zero, cancellation
	}

	runner.sink.WritePrettyError(runner.formatter.FormatFault(state.Fault))
	return zero, &RuntimeError{Cause: state.Fault}
}

func (self *Runner) report(script ScriptContext, diagnostics []Diagnostic) {
	for _, diagnostic := range diagnostics {
		if self.renderer == nil {
			self.sink.WritePrettyError(diagnostic.String())
			continue
		}

		text := self.renderer(script.Code, diagnostic)
		if rich, ok := self.sink.(DiagnosticSink); ok {
			rich.WriteDiagnostic(text)
			continue
		}
		self.sink.WritePrettyError(text)
	}
}
