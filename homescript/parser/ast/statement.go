package ast

import (
	"fmt"
	"strings"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

type Statement interface {
	Kind() StatementKind
	Span() errors.Span
	String() string
}

type StatementKind uint8

const (
	LetStatementKind StatementKind = iota
	AssignStatementKind
	FnDefinitionStatementKind
	IfStatementKind
	WhileStatementKind
	ForStatementKind
	BreakStatementKind
	ContinueStatementKind
	ReturnStatementKind
	ThrowStatementKind
	TryStatementKind
	BlockStatementKind
	ExpressionStatementKind
)

//
// Let statement
//

type LetStatement struct {
	Ident SpannedIdent
	Value Expression
	Range errors.Span
}

func (self LetStatement) Kind() StatementKind { return LetStatementKind }
func (self LetStatement) Span() errors.Span   { return self.Range }
func (self LetStatement) String() string {
	return fmt.Sprintf("let %s = %s;", self.Ident, self.Value)
}

//
// Assign statement
//

type AssignOperator uint8

const (
	StdAssignOperatorKind AssignOperator = iota
	PlusAssignOperatorKind
	MinusAssignOperatorKind
)

func (self AssignOperator) String() string {
	switch self {
	case StdAssignOperatorKind:
		return "="
	case PlusAssignOperatorKind:
		return "+="
	case MinusAssignOperatorKind:
		return "-="
	default:
		panic("A new assign operator was added without updating this code")
	}
}

// Infix returns the operator applied before assigning, if any.
func (self AssignOperator) Infix() (InfixOperator, bool) {
	switch self {
	case PlusAssignOperatorKind:
		return PlusInfixOperator, true
	case MinusAssignOperatorKind:
		return MinusInfixOperator, true
	default:
		return 0, false
	}
}

type AssignStatement struct {
	// Either an ident or an index expression
	Target   Expression
	Operator AssignOperator
	Value    Expression
	Range    errors.Span
}

func (self AssignStatement) Kind() StatementKind { return AssignStatementKind }
func (self AssignStatement) Span() errors.Span   { return self.Range }
func (self AssignStatement) String() string {
	return fmt.Sprintf("%s %s %s;", self.Target, self.Operator, self.Value)
}

//
// Function definition
//

type FunctionDefinition struct {
	Ident      SpannedIdent
	Parameters []SpannedIdent
	Body       Block
	Range      errors.Span
}

func (self FunctionDefinition) Kind() StatementKind { return FnDefinitionStatementKind }
func (self FunctionDefinition) Span() errors.Span   { return self.Range }
func (self FunctionDefinition) String() string {
	params := make([]string, 0, len(self.Parameters))
	for _, param := range self.Parameters {
		params = append(params, param.Ident())
	}
	return fmt.Sprintf("fn %s(%s) %s", self.Ident, strings.Join(params, ", "), self.Body)
}

//
// If statement
//

type IfStatement struct {
	Condition Expression
	Then      Block
	// Either nil, a block statement or another if statement
	Else  Statement
	Range errors.Span
}

func (self IfStatement) Kind() StatementKind { return IfStatementKind }
func (self IfStatement) Span() errors.Span   { return self.Range }
func (self IfStatement) String() string {
	if self.Else == nil {
		return fmt.Sprintf("if %s %s", self.Condition, self.Then)
	}
	return fmt.Sprintf("if %s %s else %s", self.Condition, self.Then, self.Else)
}

//
// While statement
//

type WhileStatement struct {
	Condition Expression
	Body      Block
	Range     errors.Span
}

func (self WhileStatement) Kind() StatementKind { return WhileStatementKind }
func (self WhileStatement) Span() errors.Span   { return self.Range }
func (self WhileStatement) String() string {
	return fmt.Sprintf("while %s %s", self.Condition, self.Body)
}

//
// For statement
//

type ForStatement struct {
	Ident    SpannedIdent
	Iterable Expression
	Body     Block
	Range    errors.Span
}

func (self ForStatement) Kind() StatementKind { return ForStatementKind }
func (self ForStatement) Span() errors.Span   { return self.Range }
func (self ForStatement) String() string {
	return fmt.Sprintf("for %s in %s %s", self.Ident, self.Iterable, self.Body)
}

//
// Break and continue
//

type BreakStatement struct {
	Range errors.Span
}

func (self BreakStatement) Kind() StatementKind { return BreakStatementKind }
func (self BreakStatement) Span() errors.Span   { return self.Range }
func (self BreakStatement) String() string      { return "break;" }

type ContinueStatement struct {
	Range errors.Span
}

func (self ContinueStatement) Kind() StatementKind { return ContinueStatementKind }
func (self ContinueStatement) Span() errors.Span   { return self.Range }
func (self ContinueStatement) String() string      { return "continue;" }

//
// Return statement
//

type ReturnStatement struct {
	// nil if nothing is returned
	Value Expression
	Range errors.Span
}

func (self ReturnStatement) Kind() StatementKind { return ReturnStatementKind }
func (self ReturnStatement) Span() errors.Span   { return self.Range }
func (self ReturnStatement) String() string {
	if self.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", self.Value)
}

//
// Throw statement
//

type ThrowStatement struct {
	Value Expression
	Range errors.Span
}

func (self ThrowStatement) Kind() StatementKind { return ThrowStatementKind }
func (self ThrowStatement) Span() errors.Span   { return self.Range }
func (self ThrowStatement) String() string {
	return fmt.Sprintf("throw %s;", self.Value)
}

//
// Try statement
//

type TryStatement struct {
	Try        Block
	CatchIdent SpannedIdent
	Catch      Block
	Range      errors.Span
}

func (self TryStatement) Kind() StatementKind { return TryStatementKind }
func (self TryStatement) Span() errors.Span   { return self.Range }
func (self TryStatement) String() string {
	return fmt.Sprintf("try %s catch %s %s", self.Try, self.CatchIdent, self.Catch)
}

//
// Block statement
//

type BlockStatement struct {
	Block Block
}

func (self BlockStatement) Kind() StatementKind { return BlockStatementKind }
func (self BlockStatement) Span() errors.Span   { return self.Block.Range }
func (self BlockStatement) String() string      { return self.Block.String() }

//
// Expression statement
//

type ExpressionStatement struct {
	Expression   Expression
	HasSemicolon bool
	Range        errors.Span
}

func (self ExpressionStatement) Kind() StatementKind { return ExpressionStatementKind }
func (self ExpressionStatement) Span() errors.Span   { return self.Range }
func (self ExpressionStatement) String() string {
	if self.HasSemicolon {
		return fmt.Sprintf("%s;", self.Expression)
	}
	return self.Expression.String()
}
