package parser

import (
	"fmt"

	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/lexer"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

func (self *Parser) expect(expected lexer.TokenKind) *errors.Error {
	if self.CurrentToken.Kind != expected {
		return errors.NewSyntaxError(
			self.CurrentToken.Span,
			fmt.Sprintf("Expected '%s', found '%s'", expected, self.CurrentToken.Kind),
		)
	}

	return self.next()
}

func (self *Parser) expectIdent() (ast.SpannedIdent, *errors.Error) {
	if self.CurrentToken.Kind != lexer.Identifier {
		return ast.SpannedIdent{}, errors.NewSyntaxError(
			self.CurrentToken.Span,
			fmt.Sprintf("Expected identifier, found '%s'", self.CurrentToken.Kind),
		)
	}

	ident := ast.NewSpannedIdent(self.CurrentToken.Value, self.CurrentToken.Span)
	if err := self.next(); err != nil {
		return ast.SpannedIdent{}, err
	}

	return ident, nil
}

// Consumes the `;` which terminates a statement.
// The semicolon is optional in front of `}` and at the end of the program.
func (self *Parser) terminator() (hasSemicolon bool, err *errors.Error) {
	switch self.CurrentToken.Kind {
	case lexer.Semicolon:
		return true, self.next()
	case lexer.RCurly, lexer.EOF:
		return false, nil
	default:
		return false, errors.NewSyntaxError(
			self.CurrentToken.Span,
			fmt.Sprintf("Expected ';', found '%s'", self.CurrentToken.Kind),
		)
	}
}

// Returns a span from `start` to the end of the previous token.
func (self *Parser) spanFrom(start errors.Location) errors.Span {
	return errors.NewSpan(start, self.PreviousToken.Span.End, self.Filename)
}
