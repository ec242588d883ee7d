package interpreter

import (
	"fmt"
	"math"
	"strings"

	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

func (self *Interpreter) expression(node ast.Expression) (*value.Value, *value.Interrupt) {
	switch node.Kind() {
	case ast.IntLiteralExpressionKind:
		return value.NewValueInt(node.(ast.IntLiteralExpression).Value), nil
	case ast.FloatLiteralExpressionKind:
		return value.NewValueFloat(node.(ast.FloatLiteralExpression).Value), nil
	case ast.BoolLiteralExpressionKind:
		return value.NewValueBool(node.(ast.BoolLiteralExpression).Value), nil
	case ast.StringLiteralExpressionKind:
		return value.NewValueString(node.(ast.StringLiteralExpression).Value), nil
	case ast.NullLiteralExpressionKind:
		return value.NewValueNull(), nil
	case ast.ListLiteralExpressionKind:
		node := node.(ast.ListLiteralExpression)
		values := make([]*value.Value, 0, len(node.Values))
		for _, element := range node.Values {
			val, i := self.expression(element)
			if i != nil {
				return nil, i
			}
			values = append(values, val)
		}
		return value.NewValueList(values), nil
	case ast.IdentExpressionKind:
		node := node.(ast.IdentExpression)
		val, i := self.getVar(node.Ident.Ident(), node.Span())
		if i != nil {
			return nil, i
		}
		// copy so that the variable is not modified through the result
		copied := *val
		return &copied, nil
	case ast.PrefixExpressionKind:
		return self.prefixExpression(node.(ast.PrefixExpression))
	case ast.InfixExpressionKind:
		return self.infixExpression(node.(ast.InfixExpression))
	case ast.CallExpressionKind:
		node := node.(ast.CallExpression)
		base, i := self.expression(node.Base)
		if i != nil {
			return nil, i
		}
		return self.callFunc(node.Range, *base, node.Arguments)
	case ast.IndexExpressionKind:
		element, i := self.indexElement(node.(ast.IndexExpression))
		if i != nil {
			return nil, i
		}
		copied := *element
		return &copied, nil
	case ast.MemberExpressionKind:
		return self.memberExpression(node.(ast.MemberExpression))
	case ast.NewExpressionKind:
		return self.newExpression(node.(ast.NewExpression))
	default:
		panic(fmt.Sprintf("A new expression kind (%v) was added without updating this code", node.Kind()))
	}
}

func (self *Interpreter) prefixExpression(node ast.PrefixExpression) (*value.Value, *value.Interrupt) {
	base, i := self.expression(node.Base)
	if i != nil {
		return nil, i
	}

	switch node.Operator {
	case ast.NotPrefixOperator:
		return value.NewValueBool(!value.IsTruthy(*base)), nil
	case ast.MinusPrefixOperator:
		switch (*base).Kind() {
		case value.IntValueKind:
			return value.NewValueInt(-(*base).(value.ValueInt).Inner), nil
		case value.FloatValueKind:
			return value.NewValueFloat(-(*base).(value.ValueFloat).Inner), nil
		}
	}

	return nil, value.NewRuntimeErr(
		fmt.Sprintf("Cannot apply prefix operator '%s' to a value of type %s", node.Operator, (*base).Kind()),
		value.ValueErrorKind,
		node.Range,
	)
}

func (self *Interpreter) infixExpression(node ast.InfixExpression) (*value.Value, *value.Interrupt) {
	lhs, i := self.expression(node.Lhs)
	if i != nil {
		return nil, i
	}

	// logical operators short-circuit
	switch node.Operator {
	case ast.LogicalAndInfixOperator:
		if !value.IsTruthy(*lhs) {
			return value.NewValueBool(false), nil
		}
		rhs, i := self.expression(node.Rhs)
		if i != nil {
			return nil, i
		}
		return value.NewValueBool(value.IsTruthy(*rhs)), nil
	case ast.LogicalOrInfixOperator:
		if value.IsTruthy(*lhs) {
			return value.NewValueBool(true), nil
		}
		rhs, i := self.expression(node.Rhs)
		if i != nil {
			return nil, i
		}
		return value.NewValueBool(value.IsTruthy(*rhs)), nil
	}

	rhs, i := self.expression(node.Rhs)
	if i != nil {
		return nil, i
	}

	return Arithmetic(*lhs, node.Operator, *rhs, node.Range)
}

// Arithmetic applies a non short-circuiting infix operator to two values.
func Arithmetic(lhs value.Value, operator ast.InfixOperator, rhs value.Value, span errors.Span) (*value.Value, *value.Interrupt) {
	switch operator {
	case ast.EqualInfixOperator, ast.NotEqualInfixOperator:
		equal, i := lhs.IsEqual(rhs)
		if i != nil {
			return nil, i
		}
		return value.NewValueBool(equal == (operator == ast.EqualInfixOperator)), nil
	}

	switch {
	case lhs.Kind() == value.IntValueKind && rhs.Kind() == value.IntValueKind:
		return intArithmetic(lhs.(value.ValueInt).Inner, operator, rhs.(value.ValueInt).Inner, span)
	case isNumeric(lhs) && isNumeric(rhs):
		return floatArithmetic(asFloat(lhs), operator, asFloat(rhs), span)
	case lhs.Kind() == value.StringValueKind && rhs.Kind() == value.StringValueKind:
		left, right := lhs.(value.ValueString).Inner, rhs.(value.ValueString).Inner
		switch operator {
		case ast.PlusInfixOperator:
			return value.NewValueString(left + right), nil
		case ast.LessThanInfixOperator:
			return value.NewValueBool(left < right), nil
		case ast.LessThanEqualInfixOperator:
			return value.NewValueBool(left <= right), nil
		case ast.GreaterThanInfixOperator:
			return value.NewValueBool(left > right), nil
		case ast.GreaterThanEqualInfixOperator:
			return value.NewValueBool(left >= right), nil
		}
	case lhs.Kind() == value.StringValueKind && rhs.Kind() == value.IntValueKind && operator == ast.MultiplyInfixOperator:
		count := rhs.(value.ValueInt).Inner
		if count < 0 {
			return nil, value.NewRuntimeErr("Cannot repeat a string a negative number of times", value.ValueErrorKind, span)
		}
		return value.NewValueString(strings.Repeat(lhs.(value.ValueString).Inner, int(count))), nil
	case lhs.Kind() == value.ListValueKind && rhs.Kind() == value.ListValueKind && operator == ast.PlusInfixOperator:
		left, right := *lhs.(value.ValueList).Values, *rhs.(value.ValueList).Values
		values := make([]*value.Value, 0, len(left)+len(right))
		for _, element := range append(append([]*value.Value{}, left...), right...) {
			copied := *element
			values = append(values, &copied)
		}
		return value.NewValueList(values), nil
	}

	return nil, value.NewRuntimeErr(
		fmt.Sprintf("Cannot apply operator '%s' to values of type %s and %s", operator, lhs.Kind(), rhs.Kind()),
		value.ValueErrorKind,
		span,
	)
}

func intArithmetic(lhs int64, operator ast.InfixOperator, rhs int64, span errors.Span) (*value.Value, *value.Interrupt) {
	switch operator {
	case ast.PlusInfixOperator:
		return value.NewValueInt(lhs + rhs), nil
	case ast.MinusInfixOperator:
		return value.NewValueInt(lhs - rhs), nil
	case ast.MultiplyInfixOperator:
		return value.NewValueInt(lhs * rhs), nil
	case ast.DivideInfixOperator, ast.ModuloInfixOperator:
		if rhs == 0 {
			return nil, value.NewRuntimeErr("Attempted to divide by zero", value.DivisionByZeroErrorKind, span)
		}
		if operator == ast.DivideInfixOperator {
			return value.NewValueInt(lhs / rhs), nil
		}
		return value.NewValueInt(lhs % rhs), nil
	case ast.LessThanInfixOperator:
		return value.NewValueBool(lhs < rhs), nil
	case ast.LessThanEqualInfixOperator:
		return value.NewValueBool(lhs <= rhs), nil
	case ast.GreaterThanInfixOperator:
		return value.NewValueBool(lhs > rhs), nil
	case ast.GreaterThanEqualInfixOperator:
		return value.NewValueBool(lhs >= rhs), nil
	default:
		panic(fmt.Sprintf("Unsupported integer operator: %s", operator))
	}
}

func floatArithmetic(lhs float64, operator ast.InfixOperator, rhs float64, span errors.Span) (*value.Value, *value.Interrupt) {
	switch operator {
	case ast.PlusInfixOperator:
		return value.NewValueFloat(lhs + rhs), nil
	case ast.MinusInfixOperator:
		return value.NewValueFloat(lhs - rhs), nil
	case ast.MultiplyInfixOperator:
		return value.NewValueFloat(lhs * rhs), nil
	case ast.DivideInfixOperator:
		if rhs == 0 {
			return nil, value.NewRuntimeErr("Attempted to divide by zero", value.DivisionByZeroErrorKind, span)
		}
		return value.NewValueFloat(lhs / rhs), nil
	case ast.ModuloInfixOperator:
		if rhs == 0 {
			return nil, value.NewRuntimeErr("Attempted to divide by zero", value.DivisionByZeroErrorKind, span)
		}
		return value.NewValueFloat(math.Mod(lhs, rhs)), nil
	case ast.LessThanInfixOperator:
		return value.NewValueBool(lhs < rhs), nil
	case ast.LessThanEqualInfixOperator:
		return value.NewValueBool(lhs <= rhs), nil
	case ast.GreaterThanInfixOperator:
		return value.NewValueBool(lhs > rhs), nil
	case ast.GreaterThanEqualInfixOperator:
		return value.NewValueBool(lhs >= rhs), nil
	default:
		panic(fmt.Sprintf("Unsupported float operator: %s", operator))
	}
}

func isNumeric(val value.Value) bool {
	return val.Kind() == value.IntValueKind || val.Kind() == value.FloatValueKind
}

func asFloat(val value.Value) float64 {
	if val.Kind() == value.IntValueKind {
		return float64(val.(value.ValueInt).Inner)
	}
	return val.(value.ValueFloat).Inner
}

// Returns a pointer to the indexed element, so that it can be used as an assignment target.
func (self *Interpreter) indexElement(node ast.IndexExpression) (*value.Value, *value.Interrupt) {
	base, i := self.expression(node.Base)
	if i != nil {
		return nil, i
	}

	index, i := self.expression(node.Index)
	if i != nil {
		return nil, i
	}

	if (*index).Kind() != value.IntValueKind {
		return nil, value.NewRuntimeErr(
			fmt.Sprintf("Index must be of type int, found %s", (*index).Kind()),
			value.ValueErrorKind,
			node.Index.Span(),
		)
	}
	idx := (*index).(value.ValueInt).Inner

	switch (*base).Kind() {
	case value.ListValueKind:
		values := *(*base).(value.ValueList).Values
		if idx < 0 || idx >= int64(len(values)) {
			return nil, outOfBounds(idx, len(values), node.Range)
		}
		return values[idx], nil
	case value.StringValueKind:
		runes := []rune((*base).(value.ValueString).Inner)
		if idx < 0 || idx >= int64(len(runes)) {
			return nil, outOfBounds(idx, len(runes), node.Range)
		}
		return value.NewValueString(string(runes[idx])), nil
	default:
		return nil, value.NewRuntimeErr(
			fmt.Sprintf("A value of type %s cannot be indexed", (*base).Kind()),
			value.ValueErrorKind,
			node.Base.Span(),
		)
	}
}

func outOfBounds(index int64, length int, span errors.Span) *value.Interrupt {
	return value.NewRuntimeErr(
		fmt.Sprintf("Index %d is out of bounds for length %d", index, length),
		value.IndexOutOfBoundsErrorKind,
		span,
	)
}

func (self *Interpreter) memberExpression(node ast.MemberExpression) (*value.Value, *value.Interrupt) {
	base, i := self.expression(node.Base)
	if i != nil {
		return nil, i
	}

	fields, i := (*base).Fields()
	if i != nil {
		return nil, i
	}

	field, found := fields[node.Member.Ident()]
	if !found {
		return nil, value.NewRuntimeErr(
			fmt.Sprintf("A value of type %s has no member named '%s'", (*base).Kind(), node.Member.Ident()),
			value.ValueErrorKind,
			node.Member.Span(),
		)
	}

	return field, nil
}

func (self *Interpreter) newExpression(node ast.NewExpression) (*value.Value, *value.Interrupt) {
	typeName := node.TypeName.Ident()
	if !value.IsExceptionType(typeName) {
		return nil, value.NewRuntimeErr(
			fmt.Sprintf("Type '%s' cannot be instantiated", typeName),
			value.ValueErrorKind,
			node.TypeName.Span(),
		)
	}

	message := ""
	switch len(node.Arguments) {
	case 0:
	case 1:
		arg, i := self.expression(node.Arguments[0])
		if i != nil {
			return nil, i
		}
		display, i := (*arg).Display()
		if i != nil {
			return nil, i
		}
		message = display
	default:
		return nil, value.NewRuntimeErr(
			fmt.Sprintf("'%s' takes at most one argument, but %d were given", typeName, len(node.Arguments)),
			value.ValueErrorKind,
			node.Range,
		)
	}

	return value.NewValueException(typeName, message), nil
}
