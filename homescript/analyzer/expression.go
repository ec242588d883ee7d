package analyzer

import (
	"fmt"

	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

func (self *Analyzer) expression(node ast.Expression) {
	switch node.Kind() {
	case ast.IntLiteralExpressionKind,
		ast.FloatLiteralExpressionKind,
		ast.BoolLiteralExpressionKind,
		ast.StringLiteralExpressionKind,
		ast.NullLiteralExpressionKind:
	case ast.ListLiteralExpressionKind:
		for _, element := range node.(ast.ListLiteralExpression).Values {
			self.expression(element)
		}
	case ast.IdentExpressionKind:
		self.resolve(node.(ast.IdentExpression).Ident)
	case ast.PrefixExpressionKind:
		node := node.(ast.PrefixExpression)
		self.expression(node.Base)
		if node.Operator == ast.MinusPrefixOperator {
			if kind := self.inferKind(node.Base); kind != unknownKind && kind != intKind && kind != floatKind {
				self.error(
					fmt.Sprintf("Cannot apply prefix operator '-' to a value of type %s", kind),
					nil,
					node.Range,
				)
			}
		}
	case ast.InfixExpressionKind:
		node := node.(ast.InfixExpression)
		self.expression(node.Lhs)
		self.expression(node.Rhs)

		lhs, rhs := self.inferKind(node.Lhs), self.inferKind(node.Rhs)
		if lhs != unknownKind && rhs != unknownKind {
			if _, ok := infixResultKind(lhs, node.Operator, rhs); !ok {
				self.error(
					fmt.Sprintf("Cannot apply operator '%s' to values of type %s and %s", node.Operator, lhs, rhs),
					nil,
					node.Range,
				)
			}
		}
	case ast.CallExpressionKind:
		self.callExpression(node.(ast.CallExpression))
	case ast.IndexExpressionKind:
		node := node.(ast.IndexExpression)
		self.expression(node.Base)
		self.expression(node.Index)
		if kind := self.inferKind(node.Index); kind != unknownKind && kind != intKind {
			self.error(
				fmt.Sprintf("Index must be of type int, found %s", kind),
				nil,
				node.Index.Span(),
			)
		}
	case ast.MemberExpressionKind:
		self.expression(node.(ast.MemberExpression).Base)
	case ast.NewExpressionKind:
		node := node.(ast.NewExpression)
		typeName := node.TypeName.Ident()
		if !value.IsExceptionType(typeName) {
			self.error(
				fmt.Sprintf("Unknown type '%s'", typeName),
				suggestion(typeName, value.ExceptionTypes),
				node.TypeName.Span(),
			)
		}
		if len(node.Arguments) > 1 {
			self.error(
				fmt.Sprintf("'%s' takes at most one argument, but %d were given", typeName, len(node.Arguments)),
				nil,
				node.Range,
			)
		}
		for _, arg := range node.Arguments {
			self.expression(arg)
		}
	default:
		panic(fmt.Sprintf("A new expression kind (%v) was added without updating this code", node.Kind()))
	}
}

type resolvedKind uint8

const (
	unresolved resolvedKind = iota
	resolvedVariable
	resolvedFunction
	resolvedGlobal
)

// Resolves `ident` in the current scope and reports undefined names.
func (self *Analyzer) resolve(ident ast.SpannedIdent) resolvedKind {
	name := ident.Ident()

	if variable, found := self.lookupVar(name); found {
		variable.used = true
		return resolvedVariable
	}

	if _, found := self.functions[name]; found {
		return resolvedFunction
	}

	if _, found := self.globals[name]; found {
		return resolvedGlobal
	}

	self.error(
		fmt.Sprintf("Use of undefined variable '%s'", name),
		suggestion(name, self.visibleNames()),
		ident.Span(),
	)
	return unresolved
}

func (self *Analyzer) callExpression(node ast.CallExpression) {
	for _, arg := range node.Arguments {
		self.expression(arg)
	}

	base, isIdent := node.Base.(ast.IdentExpression)
	if !isIdent {
		self.expression(node.Base)
		return
	}

	name := base.Ident.Ident()

	switch self.resolve(base.Ident) {
	case resolvedFunction:
		fn := self.functions[name]
		if len(fn.parameters) != len(node.Arguments) {
			self.error(
				fmt.Sprintf("Function '%s' takes %d argument(s), but %d were given", name, len(fn.parameters), len(node.Arguments)),
				nil,
				node.Range,
			)
			self.hint(
				fmt.Sprintf("Function '%s' defined here", name),
				nil,
				fn.ident.Span(),
			)
		}
	case resolvedGlobal:
		global := self.globals[name]
		if !global.Callable {
			self.error(
				fmt.Sprintf("'%s' is not callable", name),
				nil,
				base.Span(),
			)
			return
		}
		if global.Arity >= 0 && global.Arity != len(node.Arguments) {
			self.error(
				fmt.Sprintf("Function '%s' takes %d argument(s), but %d were given", name, global.Arity, len(node.Arguments)),
				nil,
				node.Range,
			)
		}
	}
}
