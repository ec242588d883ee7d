package homescript

import (
	"context"
	"reflect"

	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/interpreter"
	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
	"github.com/smarthome-go/hmsrun/host"
)

// Executable is an analyzed Homescript program.
// It can be run any number of times, also concurrently.
type Executable struct {
	program        ast.Program
	hostMethods    []hostMethod
	callStackLimit uint
}

func (self Executable) Program() ast.Program { return self.program }

// Run interprets the program against `host`.
// The result is the Go representation of the program's value.
func (self Executable) Run(ctx context.Context, host host.Host) (any, error) {
	interpreter := interpreter.NewInterpreter(
		self.callStackLimit,
		host,
		self.scopeAdditions(host),
		ctx,
	)

	result, i := interpreter.Execute(self.program)
	if i != nil {
		return nil, newFault(*i, interpreter.Trace())
	}

	out, err := value.ToGo(*result)
	if err != nil {
		return nil, &Fault{
			Kind:    value.CastErrorKind.String(),
			Message: err.Error(),
			Span:    self.resultSpan(),
		}
	}

	return out, nil
}

func (self Executable) scopeAdditions(host host.Host) map[string]value.Value {
	additions := make(map[string]value.Value)

	receiver := reflect.ValueOf(host)
	for _, method := range self.hostMethods {
		additions[method.Name] = *value.NewValueBuiltinFunction(method.bind(receiver))
	}

	for name, builtin := range interpreter.Builtins {
		additions[name] = *value.NewValueBuiltinFunction(builtin.Callback)
	}

	return additions
}

func (self Executable) resultSpan() errors.Span {
	if len(self.program.Statements) == 0 {
		return errors.Span{Filename: self.program.Filename}
	}
	return self.program.Statements[len(self.program.Statements)-1].Span()
}
