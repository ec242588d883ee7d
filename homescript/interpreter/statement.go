package interpreter

import (
	"fmt"

	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

func (self *Interpreter) statement(node ast.Statement) *value.Interrupt {
	// Check for the cancelation signal
	if i := self.checkCancelation(node.Span()); i != nil {
		return i
	}

	switch node.Kind() {
	case ast.LetStatementKind:
		node := node.(ast.LetStatement)
		val, i := self.expression(node.Value)
		if i != nil {
			return i
		}
		self.addVar(node.Ident.Ident(), *val)
		return nil
	case ast.AssignStatementKind:
		return self.assignStatement(node.(ast.AssignStatement))
	case ast.FnDefinitionStatementKind:
		// already hoisted
		return nil
	case ast.IfStatementKind:
		return self.ifStatement(node.(ast.IfStatement))
	case ast.WhileStatementKind:
		return self.whileStatement(node.(ast.WhileStatement))
	case ast.ForStatementKind:
		return self.forStatement(node.(ast.ForStatement))
	case ast.BreakStatementKind:
		return value.NewBreakInterrupt()
	case ast.ContinueStatementKind:
		return value.NewContinueInterrupt()
	case ast.ReturnStatementKind:
		node := node.(ast.ReturnStatement)
		returnValue := value.NewValueNull()
		if node.Value != nil {
			returnValueTemp, i := self.expression(node.Value)
			if i != nil {
				return i
			}
			returnValue = returnValueTemp
		}
		return value.NewReturnInterrupt(*returnValue)
	case ast.ThrowStatementKind:
		node := node.(ast.ThrowStatement)
		thrown, i := self.expression(node.Value)
		if i != nil {
			return i
		}
		return value.NewThrowInterrupt(*thrown, node.Range)
	case ast.TryStatementKind:
		return self.tryStatement(node.(ast.TryStatement))
	case ast.BlockStatementKind:
		_, i := self.block(node.(ast.BlockStatement).Block)
		return i
	case ast.ExpressionStatementKind:
		// ignore the expression value
		_, i := self.expression(node.(ast.ExpressionStatement).Expression)
		return i
	default:
		panic(fmt.Sprintf("A new statement kind (%v) was added without updating this code", node.Kind()))
	}
}

func (self *Interpreter) assignStatement(node ast.AssignStatement) *value.Interrupt {
	newValue, i := self.expression(node.Value)
	if i != nil {
		return i
	}

	switch node.Target.Kind() {
	case ast.IdentExpressionKind:
		target := node.Target.(ast.IdentExpression)
		current, i := self.getVar(target.Ident.Ident(), target.Span())
		if i != nil {
			return i
		}

		if operator, ok := node.Operator.Infix(); ok {
			newValue, i = Arithmetic(*current, operator, *newValue, node.Range)
			if i != nil {
				return i
			}
		}

		*current = *newValue
		return nil
	case ast.IndexExpressionKind:
		target := node.Target.(ast.IndexExpression)
		element, i := self.indexElement(target)
		if i != nil {
			return i
		}

		if operator, ok := node.Operator.Infix(); ok {
			newValue, i = Arithmetic(*element, operator, *newValue, node.Range)
			if i != nil {
				return i
			}
		}

		*element = *newValue
		return nil
	default:
		panic(fmt.Sprintf("Invalid assignment target (%v) passed the parser", node.Target.Kind()))
	}
}

func (self *Interpreter) ifStatement(node ast.IfStatement) *value.Interrupt {
	condition, i := self.expression(node.Condition)
	if i != nil {
		return i
	}

	if value.IsTruthy(*condition) {
		_, i := self.block(node.Then)
		return i
	}

	if node.Else != nil {
		return self.statement(node.Else)
	}

	return nil
}

func (self *Interpreter) whileStatement(node ast.WhileStatement) *value.Interrupt {
loop:
	for {
		if i := self.checkCancelation(node.Range); i != nil {
			return i
		}

		condition, i := self.expression(node.Condition)
		if i != nil {
			return i
		}

		// break if the condition is false
		if !value.IsTruthy(*condition) {
			break loop
		}

		_, i = self.block(node.Body)
		if i != nil {
			switch (*i).Kind() {
			case value.ContinueInterruptKind:
				continue loop
			case value.BreakInterruptKind:
				break loop
			default:
				return i
			}
		}
	}

	return nil
}

func (self *Interpreter) forStatement(node ast.ForStatement) *value.Interrupt {
	iterVal, i := self.expression(node.Iterable)
	if i != nil {
		return i
	}

	switch (*iterVal).Kind() {
	case value.ListValueKind, value.StringValueKind:
	default:
		return value.NewRuntimeErr(
			fmt.Sprintf("A value of type %s cannot be used as an iterator", (*iterVal).Kind()),
			value.ValueErrorKind,
			node.Iterable.Span(),
		)
	}

	iterator := (*iterVal).IntoIter()

	// add a new scope for the loop
	self.pushScope()
	defer self.popScope()

loop:
	for {
		if i := self.checkCancelation(node.Range); i != nil {
			return i
		}

		// loop control
		currIterVar, shouldContinue := iterator()
		if !shouldContinue {
			break
		}

		self.scopes[len(self.scopes)-1] = make(map[string]*value.Value)
		self.addVar(node.Ident.Ident(), currIterVar)

		_, i := self.block(node.Body)
		if i != nil {
			switch (*i).Kind() {
			case value.ContinueInterruptKind:
				continue loop
			case value.BreakInterruptKind:
				break loop
			default:
				return i
			}
		}
	}

	return nil
}

func (self *Interpreter) tryStatement(node ast.TryStatement) *value.Interrupt {
	_, i := self.block(node.Try)
	if i == nil {
		return nil
	}

	var caught value.Value

	switch (*i).Kind() {
	case value.NormalExceptionInterruptKind:
		caught = (*i).(value.ThrowInterrupt).Value
	case value.FatalExceptionInterruptKind:
		runtimeErr := (*i).(value.RuntimeErr)
		if !runtimeErr.ErrKind.Catchable() {
			return i
		}
		caught = *value.NewValueException(runtimeErr.ErrKind.String(), runtimeErr.Message())
	default:
		return i
	}

	// the exception was handled
	self.trace = nil

	self.pushScope()
	defer self.popScope()

	self.addVar(node.CatchIdent.Ident(), caught)

	_, i = self.statements(node.Catch.Statements)
	return i
}
