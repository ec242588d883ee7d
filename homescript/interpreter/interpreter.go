package interpreter

import (
	"context"
	"fmt"

	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

// Name of the global list which holds the invocation arguments.
const ArgsIdent = "Args"

type Interpreter struct {
	callStackLimitSize uint
	scopeAdditions     map[string]value.Value
	executor           value.Executor
	scopes             []map[string]*value.Value
	frames             []frame
	trace              []string
	ctx                context.Context
}

type frame struct {
	function string
	callSite errors.Span
}

func NewInterpreter(
	callStackLimitSize uint,
	executor value.Executor,
	scopeAdditions map[string]value.Value,
	ctx context.Context,
) Interpreter {
	return Interpreter{
		callStackLimitSize: callStackLimitSize,
		scopeAdditions:     scopeAdditions,
		executor:           executor,
		scopes:             make([]map[string]*value.Value, 0),
		frames:             make([]frame, 0),
		trace:              nil,
		ctx:                ctx,
	}
}

// Execute runs `program` and returns its value: the value of a top-level
// `return`, the trailing expression or `null`.
func (self *Interpreter) Execute(program ast.Program) (*value.Value, *value.Interrupt) {
	self.pushScope()

	for key, val := range self.scopeAdditions {
		self.addVar(key, val)
	}

	args := make([]*value.Value, 0)
	for _, arg := range self.executor.Arguments() {
		args = append(args, value.NewValueString(arg))
	}
	self.addVar(ArgsIdent, *value.NewValueList(args))

	// functions can be called before their definition
	for _, statement := range program.Statements {
		if fn, ok := statement.(ast.FunctionDefinition); ok {
			self.functionDefinition(fn)
		}
	}

	result, i := self.statements(program.Statements)
	if i != nil {
		switch (*i).Kind() {
		case value.ReturnInterruptKind:
			ret := (*i).(value.ReturnInterrupt).ReturnValue
			return &ret, nil
		case value.NormalExceptionInterruptKind, value.FatalExceptionInterruptKind:
			self.recordTrace(*i)
		}
		return nil, i
	}

	return result, nil
}

// Trace returns the call stack captured when the last uncaught exception left its function.
func (self *Interpreter) Trace() []string {
	return self.trace
}

func (self *Interpreter) checkCancelation(span errors.Span) *value.Interrupt {
	select {
	case <-self.ctx.Done():
		// A custom cause must not hide the context error
		cause := context.Cause(self.ctx)
		if cause != self.ctx.Err() {
			cause = fmt.Errorf("%w: %w", self.ctx.Err(), cause)
		}
		return value.NewTerminationInterrupt(cause, span)
	default:
		// do nothing, this should not block the entire interpreter
		return nil
	}
}

func (self *Interpreter) functionDefinition(node ast.FunctionDefinition) {
	params := make([]string, 0, len(node.Parameters))
	for _, param := range node.Parameters {
		params = append(params, param.Ident())
	}

	self.addVar(node.Ident.Ident(), *value.NewValueFunction(node.Ident.Ident(), params, node.Body))
}

// Captures the call stack once, when an exception is first observed.
func (self *Interpreter) recordTrace(interrupt value.Interrupt) {
	if self.trace != nil {
		return
	}

	trace := make([]string, 0, len(self.frames)+1)
	location := interrupt.GetSpan()
	for idx := len(self.frames) - 1; idx >= 0; idx-- {
		trace = append(trace, fmt.Sprintf("%s() (%s)", self.frames[idx].function, location))
		location = self.frames[idx].callSite
	}
	trace = append(trace, fmt.Sprintf("<main> (%s)", location))

	self.trace = collapseFrames(trace)
}

// Runs of identical frames, as left by deep recursion, are rendered once.
func collapseFrames(trace []string) []string {
	out := make([]string, 0, len(trace))

	for idx := 0; idx < len(trace); {
		repeated := 0
		for idx+repeated+1 < len(trace) && trace[idx+repeated+1] == trace[idx] {
			repeated++
		}

		out = append(out, trace[idx])
		if repeated > 0 {
			out = append(out, fmt.Sprintf("... previous frame repeated %d more time(s)", repeated))
		}
		idx += repeated + 1
	}

	return out
}
