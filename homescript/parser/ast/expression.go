package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

type Expression interface {
	Kind() ExpressionKind
	Span() errors.Span
	String() string
}

type ExpressionKind uint8

const (
	IntLiteralExpressionKind ExpressionKind = iota
	FloatLiteralExpressionKind
	BoolLiteralExpressionKind
	StringLiteralExpressionKind
	NullLiteralExpressionKind
	ListLiteralExpressionKind
	IdentExpressionKind
	PrefixExpressionKind
	InfixExpressionKind
	CallExpressionKind
	IndexExpressionKind
	MemberExpressionKind
	NewExpressionKind
)

//
// Int literal
//

type IntLiteralExpression struct {
	Value int64
	Range errors.Span
}

func (self IntLiteralExpression) Kind() ExpressionKind { return IntLiteralExpressionKind }
func (self IntLiteralExpression) Span() errors.Span    { return self.Range }
func (self IntLiteralExpression) String() string       { return fmt.Sprint(self.Value) }

//
// Float literal
//

type FloatLiteralExpression struct {
	Value float64
	Range errors.Span
}

func (self FloatLiteralExpression) Kind() ExpressionKind { return FloatLiteralExpressionKind }
func (self FloatLiteralExpression) Span() errors.Span    { return self.Range }
func (self FloatLiteralExpression) String() string {
	out := strconv.FormatFloat(self.Value, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

//
// Bool literal
//

type BoolLiteralExpression struct {
	Value bool
	Range errors.Span
}

func (self BoolLiteralExpression) Kind() ExpressionKind { return BoolLiteralExpressionKind }
func (self BoolLiteralExpression) Span() errors.Span    { return self.Range }
func (self BoolLiteralExpression) String() string       { return fmt.Sprint(self.Value) }

//
// String literal
//

type StringLiteralExpression struct {
	Value string
	Range errors.Span
}

func (self StringLiteralExpression) Kind() ExpressionKind { return StringLiteralExpressionKind }
func (self StringLiteralExpression) Span() errors.Span    { return self.Range }
func (self StringLiteralExpression) String() string       { return strconv.Quote(self.Value) }

//
// Null literal
//

type NullLiteralExpression struct {
	Range errors.Span
}

func (self NullLiteralExpression) Kind() ExpressionKind { return NullLiteralExpressionKind }
func (self NullLiteralExpression) Span() errors.Span    { return self.Range }
func (self NullLiteralExpression) String() string       { return "null" }

//
// List literal
//

type ListLiteralExpression struct {
	Values []Expression
	Range  errors.Span
}

func (self ListLiteralExpression) Kind() ExpressionKind { return ListLiteralExpressionKind }
func (self ListLiteralExpression) Span() errors.Span    { return self.Range }
func (self ListLiteralExpression) String() string {
	return fmt.Sprintf("[%s]", joinExpressions(self.Values))
}

//
// Ident expression
//

type IdentExpression struct {
	Ident SpannedIdent
}

func (self IdentExpression) Kind() ExpressionKind { return IdentExpressionKind }
func (self IdentExpression) Span() errors.Span    { return self.Ident.span }
func (self IdentExpression) String() string       { return self.Ident.ident }

//
// Prefix expression
//

type PrefixOperator uint8

const (
	MinusPrefixOperator PrefixOperator = iota
	NotPrefixOperator
)

func (self PrefixOperator) String() string {
	switch self {
	case MinusPrefixOperator:
		return "-"
	case NotPrefixOperator:
		return "!"
	default:
		panic("A new prefix operator was added without updating this code")
	}
}

type PrefixExpression struct {
	Operator PrefixOperator
	Base     Expression
	Range    errors.Span
}

func (self PrefixExpression) Kind() ExpressionKind { return PrefixExpressionKind }
func (self PrefixExpression) Span() errors.Span    { return self.Range }
func (self PrefixExpression) String() string {
	return fmt.Sprintf("(%s%s)", self.Operator, self.Base)
}

//
// Infix expression
//

type InfixOperator uint8

const (
	PlusInfixOperator InfixOperator = iota
	MinusInfixOperator
	MultiplyInfixOperator
	DivideInfixOperator
	ModuloInfixOperator
	EqualInfixOperator
	NotEqualInfixOperator
	LessThanInfixOperator
	LessThanEqualInfixOperator
	GreaterThanInfixOperator
	GreaterThanEqualInfixOperator
	LogicalOrInfixOperator
	LogicalAndInfixOperator
)

func (self InfixOperator) String() string {
	switch self {
	case PlusInfixOperator:
		return "+"
	case MinusInfixOperator:
		return "-"
	case MultiplyInfixOperator:
		return "*"
	case DivideInfixOperator:
		return "/"
	case ModuloInfixOperator:
		return "%"
	case EqualInfixOperator:
		return "=="
	case NotEqualInfixOperator:
		return "!="
	case LessThanInfixOperator:
		return "<"
	case LessThanEqualInfixOperator:
		return "<="
	case GreaterThanInfixOperator:
		return ">"
	case GreaterThanEqualInfixOperator:
		return ">="
	case LogicalOrInfixOperator:
		return "||"
	case LogicalAndInfixOperator:
		return "&&"
	default:
		panic("A new infix operator was added without updating this code")
	}
}

type InfixExpression struct {
	Lhs      Expression
	Operator InfixOperator
	Rhs      Expression
	Range    errors.Span
}

func (self InfixExpression) Kind() ExpressionKind { return InfixExpressionKind }
func (self InfixExpression) Span() errors.Span    { return self.Range }
func (self InfixExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", self.Lhs, self.Operator, self.Rhs)
}

//
// Call expression
//

type CallExpression struct {
	Base      Expression
	Arguments []Expression
	Range     errors.Span
}

func (self CallExpression) Kind() ExpressionKind { return CallExpressionKind }
func (self CallExpression) Span() errors.Span    { return self.Range }
func (self CallExpression) String() string {
	return fmt.Sprintf("%s(%s)", self.Base, joinExpressions(self.Arguments))
}

//
// Index expression
//

type IndexExpression struct {
	Base  Expression
	Index Expression
	Range errors.Span
}

func (self IndexExpression) Kind() ExpressionKind { return IndexExpressionKind }
func (self IndexExpression) Span() errors.Span    { return self.Range }
func (self IndexExpression) String() string {
	return fmt.Sprintf("%s[%s]", self.Base, self.Index)
}

//
// Member expression
//

type MemberExpression struct {
	Base   Expression
	Member SpannedIdent
	Range  errors.Span
}

func (self MemberExpression) Kind() ExpressionKind { return MemberExpressionKind }
func (self MemberExpression) Span() errors.Span    { return self.Range }
func (self MemberExpression) String() string {
	return fmt.Sprintf("%s.%s", self.Base, self.Member)
}

//
// New expression
//

type NewExpression struct {
	TypeName  SpannedIdent
	Arguments []Expression
	Range     errors.Span
}

func (self NewExpression) Kind() ExpressionKind { return NewExpressionKind }
func (self NewExpression) Span() errors.Span    { return self.Range }
func (self NewExpression) String() string {
	return fmt.Sprintf("new %s(%s)", self.TypeName, joinExpressions(self.Arguments))
}

func joinExpressions(expressions []Expression) string {
	out := make([]string, 0, len(expressions))
	for _, expression := range expressions {
		out = append(out, expression.String())
	}
	return strings.Join(out, ", ")
}
