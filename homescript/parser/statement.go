package parser

import (
	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/lexer"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

func (self *Parser) statement() (ast.Statement, *errors.Error) {
	switch self.CurrentToken.Kind {
	case lexer.Let:
		return self.letStatement()
	case lexer.Fn:
		return self.functionDefinition()
	case lexer.If:
		return self.ifStatement()
	case lexer.While:
		return self.whileStatement()
	case lexer.For:
		return self.forStatement()
	case lexer.Break, lexer.Continue:
		return self.loopControlStatement()
	case lexer.Return:
		return self.returnStatement()
	case lexer.Throw:
		return self.throwStatement()
	case lexer.Try:
		return self.tryStatement()
	case lexer.LCurly:
		block, err := self.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStatement{Block: block}, nil
	default:
		return self.expressionOrAssignStatement()
	}
}

func (self *Parser) block() (ast.Block, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.expect(lexer.LCurly); err != nil {
		return ast.Block{}, err
	}

	statements := make([]ast.Statement, 0)
	for self.CurrentToken.Kind != lexer.RCurly {
		if self.CurrentToken.Kind == lexer.EOF {
			return ast.Block{}, errors.NewSyntaxError(
				self.CurrentToken.Span,
				"Expected '}', found 'EOF'",
			)
		}

		statement, err := self.statement()
		if err != nil {
			return ast.Block{}, err
		}
		statements = append(statements, statement)
	}

	if err := self.next(); err != nil {
		return ast.Block{}, err
	}

	return ast.Block{
		Statements: statements,
		Range:      self.spanFrom(start),
	}, nil
}

func (self *Parser) letStatement() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.next(); err != nil {
		return nil, err
	}

	ident, err := self.expectIdent()
	if err != nil {
		return nil, err
	}

	if err := self.expect(lexer.Assign); err != nil {
		return nil, err
	}

	value, err := self.expression(lowestPrec)
	if err != nil {
		return nil, err
	}

	if _, err := self.terminator(); err != nil {
		return nil, err
	}

	return ast.LetStatement{
		Ident: ident,
		Value: value,
		Range: self.spanFrom(start),
	}, nil
}

func (self *Parser) functionDefinition() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.next(); err != nil {
		return nil, err
	}

	ident, err := self.expectIdent()
	if err != nil {
		return nil, err
	}

	if err := self.expect(lexer.LParen); err != nil {
		return nil, err
	}

	params := make([]ast.SpannedIdent, 0)
	for self.CurrentToken.Kind != lexer.RParen {
		param, err := self.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		if self.CurrentToken.Kind != lexer.Comma {
			break
		}
		if err := self.next(); err != nil {
			return nil, err
		}
	}

	if err := self.expect(lexer.RParen); err != nil {
		return nil, err
	}

	body, err := self.block()
	if err != nil {
		return nil, err
	}

	return ast.FunctionDefinition{
		Ident:      ident,
		Parameters: params,
		Body:       body,
		Range:      self.spanFrom(start),
	}, nil
}

func (self *Parser) ifStatement() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.next(); err != nil {
		return nil, err
	}

	condition, err := self.expression(lowestPrec)
	if err != nil {
		return nil, err
	}

	then, err := self.block()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Statement
	if self.CurrentToken.Kind == lexer.Else {
		if err := self.next(); err != nil {
			return nil, err
		}

		switch self.CurrentToken.Kind {
		case lexer.If:
			elseBranch, err = self.ifStatement()
			if err != nil {
				return nil, err
			}
		case lexer.LCurly:
			block, err := self.block()
			if err != nil {
				return nil, err
			}
			elseBranch = ast.BlockStatement{Block: block}
		default:
			return nil, errors.NewSyntaxError(
				self.CurrentToken.Span,
				"Expected either 'if' or '{' after 'else', found '"+self.CurrentToken.Kind.String()+"'",
			)
		}
	}

	return ast.IfStatement{
		Condition: condition,
		Then:      then,
		Else:      elseBranch,
		Range:     self.spanFrom(start),
	}, nil
}

func (self *Parser) whileStatement() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.next(); err != nil {
		return nil, err
	}

	condition, err := self.expression(lowestPrec)
	if err != nil {
		return nil, err
	}

	body, err := self.block()
	if err != nil {
		return nil, err
	}

	return ast.WhileStatement{
		Condition: condition,
		Body:      body,
		Range:     self.spanFrom(start),
	}, nil
}

func (self *Parser) forStatement() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.next(); err != nil {
		return nil, err
	}

	ident, err := self.expectIdent()
	if err != nil {
		return nil, err
	}

	if err := self.expect(lexer.In); err != nil {
		return nil, err
	}

	iterable, err := self.expression(lowestPrec)
	if err != nil {
		return nil, err
	}

	body, err := self.block()
	if err != nil {
		return nil, err
	}

	return ast.ForStatement{
		Ident:    ident,
		Iterable: iterable,
		Body:     body,
		Range:    self.spanFrom(start),
	}, nil
}

func (self *Parser) loopControlStatement() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start
	isBreak := self.CurrentToken.Kind == lexer.Break

	if err := self.next(); err != nil {
		return nil, err
	}

	if _, err := self.terminator(); err != nil {
		return nil, err
	}

	if isBreak {
		return ast.BreakStatement{Range: self.spanFrom(start)}, nil
	}
	return ast.ContinueStatement{Range: self.spanFrom(start)}, nil
}

func (self *Parser) returnStatement() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.next(); err != nil {
		return nil, err
	}

	var value ast.Expression
	switch self.CurrentToken.Kind {
	case lexer.Semicolon, lexer.RCurly, lexer.EOF:
	default:
		expression, err := self.expression(lowestPrec)
		if err != nil {
			return nil, err
		}
		value = expression
	}

	if _, err := self.terminator(); err != nil {
		return nil, err
	}

	return ast.ReturnStatement{
		Value: value,
		Range: self.spanFrom(start),
	}, nil
}

func (self *Parser) throwStatement() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.next(); err != nil {
		return nil, err
	}

	value, err := self.expression(lowestPrec)
	if err != nil {
		return nil, err
	}

	if _, err := self.terminator(); err != nil {
		return nil, err
	}

	return ast.ThrowStatement{
		Value: value,
		Range: self.spanFrom(start),
	}, nil
}

func (self *Parser) tryStatement() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start

	if err := self.next(); err != nil {
		return nil, err
	}

	tryBlock, err := self.block()
	if err != nil {
		return nil, err
	}

	if err := self.expect(lexer.Catch); err != nil {
		return nil, err
	}

	ident, err := self.expectIdent()
	if err != nil {
		return nil, err
	}

	catchBlock, err := self.block()
	if err != nil {
		return nil, err
	}

	return ast.TryStatement{
		Try:        tryBlock,
		CatchIdent: ident,
		Catch:      catchBlock,
		Range:      self.spanFrom(start),
	}, nil
}

func (self *Parser) expressionOrAssignStatement() (ast.Statement, *errors.Error) {
	start := self.CurrentToken.Span.Start

	expression, err := self.expression(lowestPrec)
	if err != nil {
		return nil, err
	}

	var operator ast.AssignOperator
	isAssign := true

	switch self.CurrentToken.Kind {
	case lexer.Assign:
		operator = ast.StdAssignOperatorKind
	case lexer.PlusAssign:
		operator = ast.PlusAssignOperatorKind
	case lexer.MinusAssign:
		operator = ast.MinusAssignOperatorKind
	default:
		isAssign = false
	}

	if !isAssign {
		hasSemicolon, err := self.terminator()
		if err != nil {
			return nil, err
		}

		return ast.ExpressionStatement{
			Expression:   expression,
			HasSemicolon: hasSemicolon,
			Range:        self.spanFrom(start),
		}, nil
	}

	switch expression.Kind() {
	case ast.IdentExpressionKind, ast.IndexExpressionKind:
	default:
		return nil, errors.NewSyntaxError(
			expression.Span(),
			"Invalid assignment target: only variables and list elements can be assigned to",
		)
	}

	if err := self.next(); err != nil {
		return nil, err
	}

	value, err := self.expression(lowestPrec)
	if err != nil {
		return nil, err
	}

	if _, err := self.terminator(); err != nil {
		return nil, err
	}

	return ast.AssignStatement{
		Target:   expression,
		Operator: operator,
		Value:    value,
		Range:    self.spanFrom(start),
	}, nil
}
