package interpreter

import (
	"fmt"

	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

func (self *Interpreter) addVar(ident string, val value.Value) {
	self.scopes[len(self.scopes)-1][ident] = &val
}

func (self *Interpreter) getVar(ident string, span errors.Span) (*value.Value, *value.Interrupt) {
	for i := len(self.scopes) - 1; i >= 0; i-- {
		val, found := self.scopes[i][ident]
		if found {
			return val, nil
		}
	}

	return nil, value.NewRuntimeErr(
		fmt.Sprintf("Variable '%s' is used before it was initialized", ident),
		value.ValueErrorKind,
		span,
	)
}

func (self *Interpreter) pushScope() {
	self.scopes = append(self.scopes, make(map[string]*value.Value))
}

func (self *Interpreter) popScope() map[string]*value.Value {
	last := self.scopes[len(self.scopes)-1]
	self.scopes = self.scopes[:len(self.scopes)-1]
	return last
}

func (self *Interpreter) callFunc(span errors.Span, val value.Value, args []ast.Expression) (*value.Value, *value.Interrupt) {
	if uint(len(self.frames)) >= self.callStackLimitSize {
		return nil, value.NewRuntimeErr(
			fmt.Sprintf("Maximum callstack size of %d was exceeded", self.callStackLimitSize),
			value.StackOverFlowErrorKind,
			span,
		)
	}

	argValues := make([]value.Value, 0, len(args))
	for _, arg := range args {
		argVal, i := self.expression(arg)
		if i != nil {
			return nil, i
		}
		argValues = append(argValues, *argVal)
	}

	switch val.Kind() {
	case value.FunctionValueKind:
		fn := val.(value.ValueFunction)

		if len(argValues) != len(fn.Parameters) {
			return nil, value.NewRuntimeErr(
				fmt.Sprintf("Function '%s' takes %d argument(s), but %d were given", fn.Ident, len(fn.Parameters), len(argValues)),
				value.ValueErrorKind,
				span,
			)
		}

		// functions only see the global scope, not the locals of their caller
		callerScopes := self.scopes
		self.scopes = []map[string]*value.Value{callerScopes[0]}
		self.frames = append(self.frames, frame{function: fn.Ident, callSite: span})
		self.pushScope()

		defer func() {
			self.scopes = callerScopes
			self.frames = self.frames[:len(self.frames)-1]
		}()

		for idx, param := range fn.Parameters {
			self.addVar(param, argValues[idx])
		}

		result, i := self.statements(fn.Body.Statements)
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
	case value.BuiltinFunctionValueKind:
		fn := val.(value.ValueBuiltinFunction)
		// the context of the interpreter is handed over
		// so that long-running builtin functions can terminate themselves
		return fn.Callback(self.executor, self.ctx, span, argValues...)
	default:
		return nil, value.NewRuntimeErr(
			fmt.Sprintf("A value of type %s is not callable", val.Kind()),
			value.ValueErrorKind,
			span,
		)
	}
}

func (self *Interpreter) block(node ast.Block) (*value.Value, *value.Interrupt) {
	self.pushScope()
	defer self.popScope()

	return self.statements(node.Statements)
}

// Executes `statements` in the current scope.
// Returns the value of the trailing expression or `null`.
func (self *Interpreter) statements(statements []ast.Statement) (*value.Value, *value.Interrupt) {
	trailing, hasTrailing := ast.TrailingExpression(statements)
	if hasTrailing {
		statements = statements[:len(statements)-1]
	}

	for _, statement := range statements {
		if i := self.statement(statement); i != nil {
			return nil, i
		}
	}

	if hasTrailing {
		if i := self.checkCancelation(trailing.Span()); i != nil {
			return nil, i
		}
		return self.expression(trailing)
	}

	return value.NewValueNull(), nil
}
