package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/lexer"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

//
// Precedence
//

type precedence uint8

const (
	lowestPrec precedence = iota
	logicalOrPrec
	logicalAndPrec
	equalityPrec
	relationalPrec
	additivePrec
	multiplicativePrec
)

func infixOperator(kind lexer.TokenKind) (ast.InfixOperator, precedence, bool) {
	switch kind {
	case lexer.Or:
		return ast.LogicalOrInfixOperator, logicalOrPrec, true
	case lexer.And:
		return ast.LogicalAndInfixOperator, logicalAndPrec, true
	case lexer.Equal:
		return ast.EqualInfixOperator, equalityPrec, true
	case lexer.NotEqual:
		return ast.NotEqualInfixOperator, equalityPrec, true
	case lexer.LessThan:
		return ast.LessThanInfixOperator, relationalPrec, true
	case lexer.LessThanEqual:
		return ast.LessThanEqualInfixOperator, relationalPrec, true
	case lexer.GreaterThan:
		return ast.GreaterThanInfixOperator, relationalPrec, true
	case lexer.GreaterThanEqual:
		return ast.GreaterThanEqualInfixOperator, relationalPrec, true
	case lexer.Plus:
		return ast.PlusInfixOperator, additivePrec, true
	case lexer.Minus:
		return ast.MinusInfixOperator, additivePrec, true
	case lexer.Multiply:
		return ast.MultiplyInfixOperator, multiplicativePrec, true
	case lexer.Divide:
		return ast.DivideInfixOperator, multiplicativePrec, true
	case lexer.Modulo:
		return ast.ModuloInfixOperator, multiplicativePrec, true
	default:
		return 0, 0, false
	}
}

// Parses an expression whose infix operators all bind tighter than `prec`.
func (self *Parser) expression(prec precedence) (ast.Expression, *errors.Error) {
	lhs, err := self.unaryExpression()
	if err != nil {
		return nil, err
	}

	for {
		operator, operatorPrec, ok := infixOperator(self.CurrentToken.Kind)
		if !ok || operatorPrec <= prec {
			return lhs, nil
		}

		if err := self.next(); err != nil {
			return nil, err
		}

		rhs, err := self.expression(operatorPrec)
		if err != nil {
			return nil, err
		}

		lhs = ast.InfixExpression{
			Lhs:      lhs,
			Operator: operator,
			Rhs:      rhs,
			Range:    lhs.Span().Until(rhs.Span()),
		}
	}
}

func (self *Parser) unaryExpression() (ast.Expression, *errors.Error) {
	var operator ast.PrefixOperator

	switch self.CurrentToken.Kind {
	case lexer.Minus:
		operator = ast.MinusPrefixOperator
	case lexer.Not:
		operator = ast.NotPrefixOperator
	default:
		return self.postfixExpression()
	}

	start := self.CurrentToken.Span.Start
	if err := self.next(); err != nil {
		return nil, err
	}

	base, err := self.unaryExpression()
	if err != nil {
		return nil, err
	}

	return ast.PrefixExpression{
		Operator: operator,
		Base:     base,
		Range:    self.spanFrom(start),
	}, nil
}

func (self *Parser) postfixExpression() (ast.Expression, *errors.Error) {
	start := self.CurrentToken.Span.Start

	base, err := self.primaryExpression()
	if err != nil {
		return nil, err
	}

	for {
		switch self.CurrentToken.Kind {
		case lexer.LParen:
			if err := self.next(); err != nil {
				return nil, err
			}

			arguments, err := self.expressionList(lexer.RParen)
			if err != nil {
				return nil, err
			}

			base = ast.CallExpression{
				Base:      base,
				Arguments: arguments,
				Range:     self.spanFrom(start),
			}
		case lexer.LBracket:
			if err := self.next(); err != nil {
				return nil, err
			}

			index, err := self.expression(lowestPrec)
			if err != nil {
				return nil, err
			}

			if err := self.expect(lexer.RBracket); err != nil {
				return nil, err
			}

			base = ast.IndexExpression{
				Base:  base,
				Index: index,
				Range: self.spanFrom(start),
			}
		case lexer.Dot:
			if err := self.next(); err != nil {
				return nil, err
			}

			member, err := self.expectIdent()
			if err != nil {
				return nil, err
			}

			base = ast.MemberExpression{
				Base:   base,
				Member: member,
				Range:  self.spanFrom(start),
			}
		default:
			return base, nil
		}
	}
}

func (self *Parser) primaryExpression() (ast.Expression, *errors.Error) {
	token := self.CurrentToken

	switch token.Kind {
	case lexer.Int:
		value, err := strconv.ParseInt(token.Value, 10, 64)
		if err != nil {
			return nil, errors.NewSyntaxError(
				token.Span,
				fmt.Sprintf("Integer literal '%s' does not fit into 64 bits", token.Value),
			)
		}
		return ast.IntLiteralExpression{Value: value, Range: token.Span}, self.next()
	case lexer.Float:
		value, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return nil, errors.NewSyntaxError(
				token.Span,
				fmt.Sprintf("Invalid float literal '%s'", token.Value),
			)
		}
		return ast.FloatLiteralExpression{Value: value, Range: token.Span}, self.next()
	case lexer.True, lexer.False:
		return ast.BoolLiteralExpression{Value: token.Kind == lexer.True, Range: token.Span}, self.next()
	case lexer.String:
		return ast.StringLiteralExpression{Value: token.Value, Range: token.Span}, self.next()
	case lexer.Null:
		return ast.NullLiteralExpression{Range: token.Span}, self.next()
	case lexer.Identifier:
		return ast.IdentExpression{Ident: ast.NewSpannedIdent(token.Value, token.Span)}, self.next()
	case lexer.LParen:
		if err := self.next(); err != nil {
			return nil, err
		}

		inner, err := self.expression(lowestPrec)
		if err != nil {
			return nil, err
		}

		return inner, self.expect(lexer.RParen)
	case lexer.LBracket:
		if err := self.next(); err != nil {
			return nil, err
		}

		values, err := self.expressionList(lexer.RBracket)
		if err != nil {
			return nil, err
		}

		return ast.ListLiteralExpression{
			Values: values,
			Range:  self.spanFrom(token.Span.Start),
		}, nil
	case lexer.New:
		return self.newExpression()
	default:
		return nil, errors.NewSyntaxError(
			token.Span,
			fmt.Sprintf("Expected expression, found '%s'", token.Kind),
		)
	}
}

func (self *Parser) newExpression() (ast.Expression, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.next(); err != nil {
		return nil, err
	}

	typeName, err := self.expectIdent()
	if err != nil {
		return nil, err
	}

	if err := self.expect(lexer.LParen); err != nil {
		return nil, err
	}

	arguments, err := self.expressionList(lexer.RParen)
	if err != nil {
		return nil, err
	}

	return ast.NewExpression{
		TypeName:  typeName,
		Arguments: arguments,
		Range:     self.spanFrom(start),
	}, nil
}

// Parses comma separated expressions up to and including `closing`.
// A trailing comma is allowed.
func (self *Parser) expressionList(closing lexer.TokenKind) ([]ast.Expression, *errors.Error) {
	expressions := make([]ast.Expression, 0)

	for self.CurrentToken.Kind != closing {
		expression, err := self.expression(lowestPrec)
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expression)

		if self.CurrentToken.Kind != lexer.Comma {
			break
		}
		if err := self.next(); err != nil {
			return nil, err
		}
	}

	if self.CurrentToken.Kind != closing {
		expected := []string{closing.String(), lexer.Comma.String()}
		return nil, errors.NewSyntaxError(
			self.CurrentToken.Span,
			fmt.Sprintf("Expected one of '%s', found '%s'", strings.Join(expected, "', '"), self.CurrentToken.Kind),
		)
	}

	return expressions, self.next()
}
