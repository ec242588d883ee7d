package main

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v2"

	"github.com/smarthome-go/hmsrun/console"
	"github.com/smarthome-go/hmsrun/homescript"
	"github.com/smarthome-go/hmsrun/homescript/diagnostic"
	"github.com/smarthome-go/hmsrun/host"
	"github.com/smarthome-go/hmsrun/runner"
)

// session bundles everything required to run programs with the same global flags.
type session struct {
	config   Config
	console  *console.Console
	compiler homescript.Compiler
	runner   *runner.Runner
}

func newSession(ctx *cli.Context) session {
	config := newConfig(ctx)
	logger := config.Logger(ctx.App.ErrWriter)
	sink := config.Console(ctx.App.Writer, ctx.App.ErrWriter)
	compiler := homescript.NewCompiler(logger)

	options := []runner.Option{
		runner.WithLogger(logger),
		runner.WithDiagnosticRenderer(renderDiagnostic(sink.Colored())),
	}
	if config.Warnings {
		options = append(options, runner.WithWarnings())
	}

	return session{
		config:   config,
		console:  sink,
		compiler: compiler,
		runner:   runner.New(compiler, sink, options...),
	}
}

// Evaluate compiles and runs `code` and prints its result.
// The returned error is one of the runner's error types.
func (self session) Evaluate(parent context.Context, filename string, code string, args []string) error {
	ctx, cancel := self.config.Context(parent)
	defer cancel()

	result, err := runner.Execute[any](ctx, self.runner, runner.NewScriptContext(code, filename, args, self.config.Options()))
	if err != nil {
		return err
	}

	if result != nil {
		self.console.WriteHighlighted("=> " + self.runner.Formatter().FormatValue(result))
	}

	return nil
}

// renderDiagnostic shows Homescript diagnostics together with the affected source lines.
func renderDiagnostic(colored bool) runner.DiagnosticRenderer {
	return func(code string, item runner.Diagnostic) string {
		if rich, ok := item.(diagnostic.Diagnostic); ok {
			return rich.Display(code, colored)
		}
		return item.String()
	}
}

func execute(ctx *cli.Context, filename string, code string, args []string) error {
	return exitError(newSession(ctx).Evaluate(ctx.Context, filename, code, args))
}

func check(ctx *cli.Context, filename string, code string) error {
	session := newSession(ctx)

	diagnostics := session.compiler.Check(
		runner.NewScriptContext(code, filename, nil, session.config.Options()),
		reflect.TypeOf((*any)(nil)).Elem(),
		reflect.TypeOf((*host.Globals)(nil)),
	)

	errorCount := 0
	for _, item := range diagnostics {
		if item.Level == diagnostic.DiagnosticLevelError {
			errorCount++
		}
		session.console.WriteDiagnostic(item.Display(code, session.console.Colored()))
	}

	if errorCount > 0 {
		session.console.WritePrettyError(fmt.Sprintf("Found %d error(s) in `%s`", errorCount, filename))
		return cli.Exit("", exitCompilationFailure)
	}

	session.console.WriteHighlighted(fmt.Sprintf("No errors in `%s` (%d other diagnostic(s))", filename, len(diagnostics)))
	return nil
}

// exitError maps the failure classes of a run to the exit codes of the CLI.
// Diagnostics and faults have already been printed by the time this is called.
func exitError(err error) error {
	if err == nil {
		return nil
	}

	var compilationErr *runner.CompilationError
	var cancellationErr *runner.CancellationError
	var runtimeErr *runner.RuntimeError

	switch {
	case errors.As(err, &compilationErr):
		return cli.Exit("", exitCompilationFailure)
	case errors.As(err, &cancellationErr):
		return cli.Exit("", exitCanceled)
	case errors.As(err, &runtimeErr):
		return cli.Exit("", exitRuntimeFault)
	default:
		return err
	}
}
