package homescript

import (
	"io"
	"log"
	"reflect"
	"time"

	"github.com/smarthome-go/hmsrun/homescript/analyzer"
	"github.com/smarthome-go/hmsrun/homescript/diagnostic"
	"github.com/smarthome-go/hmsrun/homescript/interpreter"
	"github.com/smarthome-go/hmsrun/homescript/optimizer"
	"github.com/smarthome-go/hmsrun/homescript/parser"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
	"github.com/smarthome-go/hmsrun/runner"
)

// Compiler compiles Homescript source code into executables.
type Compiler struct {
	logger *log.Logger
}

func NewCompiler(logger *log.Logger) Compiler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return Compiler{
		logger: logger,
	}
}

// Check parses and analyzes `script` without producing an executable.
func (self Compiler) Check(
	script runner.ScriptContext,
	returnType reflect.Type,
	hostType reflect.Type,
) []diagnostic.Diagnostic {
	_, _, diagnostics := self.analyze(script, returnType, hostType)
	return diagnostics
}

// If the diagnostics contain errors, the returned tree must not be executed.
func (self Compiler) analyze(
	script runner.ScriptContext,
	returnType reflect.Type,
	hostType reflect.Type,
) (ast.Program, []hostMethod, []diagnostic.Diagnostic) {
	start := time.Now()

	program, err := parser.Parse(script.Code, script.Filename)
	if err != nil {
		self.logger.Printf("Parsing `%s` failed: %s\n", script.Filename, err.Error())
		return ast.Program{}, nil, []diagnostic.Diagnostic{diagnostic.FromSyntaxError(*err)}
	}

	self.logger.Printf("Parsed `%s` in %v\n", script.Filename, time.Since(start))

	methods, skipped := hostMethods(hostType)
	for _, name := range skipped {
		self.logger.Printf("Host method `%s` has an unsupported signature and is not available to scripts\n", name)
	}

	start = time.Now()
	analyzer := analyzer.NewAnalyzer(globals(methods))
	diagnostics := analyzer.Analyze(program, returnType)
	self.logger.Printf("Analyzed `%s` in %v (%d diagnostic(s))\n", script.Filename, time.Since(start), len(diagnostics))

	return program, methods, diagnostics
}

func (self Compiler) Compile(
	script runner.ScriptContext,
	returnType reflect.Type,
	hostType reflect.Type,
) (runner.Executable, []runner.Diagnostic, error) {
	program, methods, diagnostics := self.analyze(script, returnType, hostType)

	errors := make([]runner.Diagnostic, 0)
	warnings := make([]runner.Diagnostic, 0)
	for _, item := range diagnostics {
		if item.Level == diagnostic.DiagnosticLevelError {
			errors = append(errors, item)
		} else {
			warnings = append(warnings, item)
		}
	}

	if len(errors) > 0 {
		return nil, warnings, &runner.CompilationError{Diagnostics: errors}
	}

	if script.Options.OptimizationLevel == runner.Release {
		start := time.Now()
		optimizer := optimizer.NewOptimizer()

		var optimizerDiagnostics []diagnostic.Diagnostic
		program, optimizerDiagnostics = optimizer.Optimize(program)
		for _, item := range optimizerDiagnostics {
			warnings = append(warnings, item)
		}

		self.logger.Printf("Optimized `%s` in %v\n", script.Filename, time.Since(start))
	}

	callStackLimit := script.Options.CallStackLimit
	if callStackLimit == 0 {
		callStackLimit = runner.DefaultCallStackLimit
	}

	return Executable{
		program:        program,
		hostMethods:    methods,
		callStackLimit: callStackLimit,
	}, warnings, nil
}

// Builds the names the analyzer treats as predefined.
func globals(methods []hostMethod) map[string]analyzer.Global {
	out := map[string]analyzer.Global{
		interpreter.ArgsIdent: {Callable: false, Returns: reflect.TypeOf([]string{})},
	}

	for name, builtin := range interpreter.Builtins {
		out[name] = analyzer.Global{
			Callable: true,
			Arity:    builtin.Arity,
			Returns:  builtin.Returns,
		}
	}

	for _, method := range methods {
		// Builtins cannot be replaced by the host
		if _, exists := out[method.Name]; exists {
			continue
		}

		out[method.Name] = analyzer.Global{
			Callable: true,
			Arity:    method.Arity(),
			Returns:  method.Returns,
		}
	}

	return out
}
