package runner

import (
	"context"
	"reflect"

	"github.com/smarthome-go/hmsrun/host"
)

// Diagnostic is a single issue reported by a compiler.
type Diagnostic interface {
	String() string
}

// Executable is a compiled unit of code.
type Executable interface {
	// Run executes the unit against `host` until it returns a value or a
	// fault. Go panics raised during the run may escape this method.
	Run(ctx context.Context, host host.Host) (result any, fault error)
}

// Compiler turns source code into an executable unit.
// It returns a `*CompilationError` if the code does not compile. Non-fatal
// diagnostics are returned alongside the executable.
type Compiler interface {
	Compile(
		script ScriptContext,
		returnType reflect.Type,
		hostType reflect.Type,
	) (executable Executable, warnings []Diagnostic, err error)
}

// CompilationContext binds an executable to the return type `T` it was compiled for.
type CompilationContext[T any] struct {
	executable Executable
	script     ScriptContext
	hostType   reflect.Type
	warnings   []Diagnostic
}

func CreateCompilationContext[T any, H host.Host](compiler Compiler, script ScriptContext) (CompilationContext[T], error) {
	returnType := typeOf[T]()
	hostType := typeOf[H]()

	executable, warnings, err := compiler.Compile(script, returnType, hostType)
	if err != nil {
		return CompilationContext[T]{}, err
	}

	return CompilationContext[T]{
		executable: executable,
		script:     script,
		hostType:   hostType,
		warnings:   warnings,
	}, nil
}

func (self CompilationContext[T]) Executable() Executable { return self.executable }
func (self CompilationContext[T]) Script() ScriptContext  { return self.script }
func (self CompilationContext[T]) HostType() reflect.Type { return self.hostType }
func (self CompilationContext[T]) ReturnType() reflect.Type {
	return typeOf[T]()
}

func (self CompilationContext[T]) Warnings() []Diagnostic {
	out := make([]Diagnostic, len(self.warnings))
	copy(out, self.warnings)
	return out
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
