package optimizer

import (
	"fmt"

	"github.com/smarthome-go/hmsrun/homescript/diagnostic"
	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/interpreter"
	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

//
// Optimizer helper functions.
//

func (o *Optimizer) warn(message string, notes []string, span errors.Span) {
	o.diagnostics = append(o.diagnostics, diagnostic.Diagnostic{
		Level:   diagnostic.DiagnosticLevelWarning,
		Message: message,
		Notes:   notes,
		Span:    span,
	})
}

func (o *Optimizer) hint(message string, notes []string, span errors.Span) {
	o.diagnostics = append(o.diagnostics, diagnostic.Diagnostic{
		Level:   diagnostic.DiagnosticLevelHint,
		Message: message,
		Notes:   notes,
		Span:    span,
	})
}

//
// END helper.
//

// Larger strings are computed at runtime instead of being embedded into the program.
const maxFoldedStringLen = 4096

// Optimizer folds constant expressions and removes branches which can never run.
type Optimizer struct {
	diagnostics []diagnostic.Diagnostic
}

func NewOptimizer() Optimizer {
	return Optimizer{
		diagnostics: []diagnostic.Diagnostic{},
	}
}

func (o *Optimizer) Optimize(program ast.Program) (ast.Program, []diagnostic.Diagnostic) {
	return ast.Program{
		Statements: o.statements(program.Statements),
		Filename:   program.Filename,
	}, o.diagnostics
}

func (o *Optimizer) statements(statements []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(statements))
	for _, statement := range statements {
		if optimized := o.statement(statement); optimized != nil {
			out = append(out, optimized)
		}
	}
	return out
}

func (o *Optimizer) block(node ast.Block) ast.Block {
	return ast.Block{
		Statements: o.statements(node.Statements),
		Range:      node.Range,
	}
}

// Returns nil if the statement can be removed.
func (o *Optimizer) statement(node ast.Statement) ast.Statement {
	switch node := node.(type) {
	case ast.LetStatement:
		node.Value = o.expression(node.Value)
		return node
	case ast.AssignStatement:
		node.Target = o.expression(node.Target)
		node.Value = o.expression(node.Value)
		return node
	case ast.FunctionDefinition:
		node.Body = o.block(node.Body)
		return node
	case ast.IfStatement:
		node.Condition = o.expression(node.Condition)
		node.Then = o.block(node.Then)
		if node.Else != nil {
			node.Else = o.statement(node.Else)
		}

		if condition, ok := node.Condition.(ast.BoolLiteralExpression); ok {
			if condition.Value {
				if node.Else != nil {
					o.hint("The else branch is never executed", nil, node.Else.Span())
				}
				return ast.BlockStatement{Block: node.Then}
			}

			o.hint("This branch is never executed", nil, node.Then.Range)
			return node.Else
		}
		return node
	case ast.WhileStatement:
		node.Condition = o.expression(node.Condition)
		node.Body = o.block(node.Body)

		if condition, ok := node.Condition.(ast.BoolLiteralExpression); ok && !condition.Value {
			o.hint("This loop is never executed", nil, node.Range)
			return nil
		}
		return node
	case ast.ForStatement:
		node.Iterable = o.expression(node.Iterable)
		node.Body = o.block(node.Body)
		return node
	case ast.ReturnStatement:
		if node.Value != nil {
			node.Value = o.expression(node.Value)
		}
		return node
	case ast.ThrowStatement:
		node.Value = o.expression(node.Value)
		return node
	case ast.TryStatement:
		node.Try = o.block(node.Try)
		node.Catch = o.block(node.Catch)
		return node
	case ast.BlockStatement:
		node.Block = o.block(node.Block)
		return node
	case ast.ExpressionStatement:
		node.Expression = o.expression(node.Expression)
		return node
	default:
		return node
	}
}

func (o *Optimizer) expression(node ast.Expression) ast.Expression {
	switch node := node.(type) {
	case ast.ListLiteralExpression:
		values := make([]ast.Expression, 0, len(node.Values))
		for _, element := range node.Values {
			values = append(values, o.expression(element))
		}
		node.Values = values
		return node
	case ast.PrefixExpression:
		node.Base = o.expression(node.Base)

		base, ok := literalValue(node.Base)
		if !ok {
			return node
		}

		switch node.Operator {
		case ast.NotPrefixOperator:
			return ast.BoolLiteralExpression{Value: !value.IsTruthy(base), Range: node.Range}
		case ast.MinusPrefixOperator:
			switch base := base.(type) {
			case value.ValueInt:
				return ast.IntLiteralExpression{Value: -base.Inner, Range: node.Range}
			case value.ValueFloat:
				return ast.FloatLiteralExpression{Value: -base.Inner, Range: node.Range}
			}
		}
		return node
	case ast.InfixExpression:
		node.Lhs = o.expression(node.Lhs)
		node.Rhs = o.expression(node.Rhs)

		lhs, lhsOk := literalValue(node.Lhs)
		rhs, rhsOk := literalValue(node.Rhs)
		if !lhsOk || !rhsOk {
			return node
		}

		switch node.Operator {
		case ast.LogicalAndInfixOperator:
			return ast.BoolLiteralExpression{Value: value.IsTruthy(lhs) && value.IsTruthy(rhs), Range: node.Range}
		case ast.LogicalOrInfixOperator:
			return ast.BoolLiteralExpression{Value: value.IsTruthy(lhs) || value.IsTruthy(rhs), Range: node.Range}
		}

		result, i := interpreter.Arithmetic(lhs, node.Operator, rhs, node.Range)
		if i != nil {
			note := (*i).Message()
			if runtimeErr, ok := (*i).(value.RuntimeErr); ok {
				note = fmt.Sprintf("%s: %s", runtimeErr.ErrKind, runtimeErr.Message())
			}
			o.warn("This expression will always fail at runtime", []string{note}, node.Range)
			return node
		}

		if folded, ok := literalExpression(*result, node.Range); ok {
			return folded
		}
		return node
	case ast.CallExpression:
		node.Base = o.expression(node.Base)
		arguments := make([]ast.Expression, 0, len(node.Arguments))
		for _, arg := range node.Arguments {
			arguments = append(arguments, o.expression(arg))
		}
		node.Arguments = arguments
		return node
	case ast.IndexExpression:
		node.Base = o.expression(node.Base)
		node.Index = o.expression(node.Index)
		return node
	case ast.MemberExpression:
		node.Base = o.expression(node.Base)
		return node
	case ast.NewExpression:
		arguments := make([]ast.Expression, 0, len(node.Arguments))
		for _, arg := range node.Arguments {
			arguments = append(arguments, o.expression(arg))
		}
		node.Arguments = arguments
		return node
	default:
		return node
	}
}

func literalValue(node ast.Expression) (value.Value, bool) {
	switch node := node.(type) {
	case ast.IntLiteralExpression:
		return value.ValueInt{Inner: node.Value}, true
	case ast.FloatLiteralExpression:
		return value.ValueFloat{Inner: node.Value}, true
	case ast.BoolLiteralExpression:
		return value.ValueBool{Inner: node.Value}, true
	case ast.StringLiteralExpression:
		return value.ValueString{Inner: node.Value}, true
	case ast.NullLiteralExpression:
		return value.ValueNull{}, true
	default:
		return nil, false
	}
}

func literalExpression(val value.Value, span errors.Span) (ast.Expression, bool) {
	switch val := val.(type) {
	case value.ValueInt:
		return ast.IntLiteralExpression{Value: val.Inner, Range: span}, true
	case value.ValueFloat:
		return ast.FloatLiteralExpression{Value: val.Inner, Range: span}, true
	case value.ValueBool:
		return ast.BoolLiteralExpression{Value: val.Inner, Range: span}, true
	case value.ValueString:
		if len(val.Inner) > maxFoldedStringLen {
			return nil, false
		}
		return ast.StringLiteralExpression{Value: val.Inner, Range: span}, true
	default:
		return nil, false
	}
}
