package ast

import (
	"fmt"
	"strings"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

type Program struct {
	Statements []Statement
	Filename   string
}

func (self Program) String() string {
	statements := make([]string, 0, len(self.Statements))
	for _, statement := range self.Statements {
		statements = append(statements, statement.String())
	}
	return strings.Join(statements, "\n")
}

//
// Spanned ident
//

type SpannedIdent struct {
	ident string
	span  errors.Span
}

func NewSpannedIdent(ident string, span errors.Span) SpannedIdent {
	return SpannedIdent{
		ident: ident,
		span:  span,
	}
}

func (self SpannedIdent) Ident() string     { return self.ident }
func (self SpannedIdent) Span() errors.Span { return self.span }
func (self SpannedIdent) String() string    { return self.ident }

//
// Block
//

type Block struct {
	Statements []Statement
	Range      errors.Span
}

func (self Block) String() string {
	if len(self.Statements) == 0 {
		return "{}"
	}

	statements := make([]string, 0, len(self.Statements))
	for _, statement := range self.Statements {
		statements = append(statements, indent(statement.String()))
	}
	return fmt.Sprintf("{\n%s\n}", strings.Join(statements, "\n"))
}

func indent(input string) string {
	return "    " + strings.ReplaceAll(input, "\n", "\n    ")
}

// TrailingExpression returns the expression which produces the value of a
// sequence of statements, if there is one.
func TrailingExpression(statements []Statement) (Expression, bool) {
	if len(statements) == 0 {
		return nil, false
	}

	last, ok := statements[len(statements)-1].(ExpressionStatement)
	if !ok || last.HasSemicolon {
		return nil, false
	}

	return last.Expression, true
}
