package analyzer

import (
	"fmt"
	"reflect"

	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

// The kind of value an expression is statically known to produce.
type staticKind uint8

const (
	unknownKind staticKind = iota
	nullKind
	intKind
	floatKind
	boolKind
	stringKind
	listKind
	exceptionKind
)

func (self staticKind) String() string {
	switch self {
	case unknownKind:
		return "unknown"
	case nullKind:
		return "null"
	case intKind:
		return "int"
	case floatKind:
		return "float"
	case boolKind:
		return "bool"
	case stringKind:
		return "string"
	case listKind:
		return "list"
	case exceptionKind:
		return "exception"
	default:
		panic("A new static kind was added without updating this code")
	}
}

func kindOfGoType(typ reflect.Type) staticKind {
	if typ == nil {
		return unknownKind
	}

	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return intKind
	case reflect.Float32, reflect.Float64:
		return floatKind
	case reflect.Bool:
		return boolKind
	case reflect.String:
		return stringKind
	case reflect.Slice, reflect.Array:
		return listKind
	default:
		return unknownKind
	}
}

func (self *Analyzer) inferKind(node ast.Expression) staticKind {
	switch node.Kind() {
	case ast.IntLiteralExpressionKind:
		return intKind
	case ast.FloatLiteralExpressionKind:
		return floatKind
	case ast.BoolLiteralExpressionKind:
		return boolKind
	case ast.StringLiteralExpressionKind:
		return stringKind
	case ast.NullLiteralExpressionKind:
		return nullKind
	case ast.ListLiteralExpressionKind:
		return listKind
	case ast.NewExpressionKind:
		return exceptionKind
	case ast.PrefixExpressionKind:
		node := node.(ast.PrefixExpression)
		if node.Operator == ast.NotPrefixOperator {
			return boolKind
		}
		switch base := self.inferKind(node.Base); base {
		case intKind, floatKind:
			return base
		}
		return unknownKind
	case ast.InfixExpressionKind:
		node := node.(ast.InfixExpression)
		switch node.Operator {
		case ast.LogicalAndInfixOperator, ast.LogicalOrInfixOperator,
			ast.EqualInfixOperator, ast.NotEqualInfixOperator:
			return boolKind
		}

		lhs, rhs := self.inferKind(node.Lhs), self.inferKind(node.Rhs)
		if lhs == unknownKind || rhs == unknownKind {
			return unknownKind
		}
		if result, ok := infixResultKind(lhs, node.Operator, rhs); ok {
			return result
		}
		return unknownKind
	case ast.CallExpressionKind:
		node := node.(ast.CallExpression)
		base, isIdent := node.Base.(ast.IdentExpression)
		if !isIdent {
			return unknownKind
		}

		name := base.Ident.Ident()
		if _, shadowed := self.lookupVar(name); shadowed {
			return unknownKind
		}
		if _, isFunction := self.functions[name]; isFunction {
			return unknownKind
		}
		if global, isGlobal := self.globals[name]; isGlobal && global.Callable {
			return kindOfGoType(global.Returns)
		}
		return unknownKind
	default:
		return unknownKind
	}
}

// Returns the kind produced by applying `operator` to the given kinds.
// Mirrors the rules of the interpreter.
func infixResultKind(lhs staticKind, operator ast.InfixOperator, rhs staticKind) (staticKind, bool) {
	switch operator {
	case ast.LogicalAndInfixOperator, ast.LogicalOrInfixOperator,
		ast.EqualInfixOperator, ast.NotEqualInfixOperator:
		return boolKind, true
	}

	isNumeric := func(kind staticKind) bool { return kind == intKind || kind == floatKind }

	isComparison := false
	switch operator {
	case ast.LessThanInfixOperator, ast.LessThanEqualInfixOperator,
		ast.GreaterThanInfixOperator, ast.GreaterThanEqualInfixOperator:
		isComparison = true
	}

	switch {
	case isNumeric(lhs) && isNumeric(rhs):
		if isComparison {
			return boolKind, true
		}
		if lhs == intKind && rhs == intKind {
			return intKind, true
		}
		return floatKind, true
	case lhs == stringKind && rhs == stringKind:
		if isComparison {
			return boolKind, true
		}
		if operator == ast.PlusInfixOperator {
			return stringKind, true
		}
	case lhs == stringKind && rhs == intKind && operator == ast.MultiplyInfixOperator:
		return stringKind, true
	case lhs == listKind && rhs == listKind && operator == ast.PlusInfixOperator:
		return listKind, true
	}

	return unknownKind, false
}

// Reports whether a value of `kind` can be converted into `target` when the program returns.
func compatible(kind staticKind, target reflect.Type) bool {
	if target.Kind() == reflect.Interface {
		return target.NumMethod() == 0 || kind == nullKind
	}

	switch kind {
	case nullKind:
		switch target.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return true
		}
		return false
	case intKind, floatKind:
		switch kindOfGoType(target) {
		case intKind, floatKind:
			return true
		}
		return false
	case boolKind:
		return target.Kind() == reflect.Bool
	case stringKind:
		return target.Kind() == reflect.String
	case listKind:
		return target.Kind() == reflect.Slice
	case exceptionKind:
		return target.Kind() == reflect.Map && target.Key().Kind() == reflect.String
	default:
		return true
	}
}

func (self *Analyzer) checkReturnType(node ast.Expression, target reflect.Type) {
	kind := self.inferKind(node)
	if kind == unknownKind || compatible(kind, target) {
		return
	}

	self.error(
		fmt.Sprintf("A value of type %s is incompatible with the declared return type '%s'", kind, target),
		[]string{fmt.Sprintf("the script is expected to produce a value of type '%s'", target)},
		node.Span(),
	)
}
