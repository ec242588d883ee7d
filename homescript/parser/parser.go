package parser

import (
	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/lexer"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

type Parser struct {
	Lexer         lexer.Lexer
	PreviousToken lexer.Token
	CurrentToken  lexer.Token
	Filename      string
}

func NewParser(lex lexer.Lexer, filename string) Parser {
	return Parser{
		Lexer:         lex,
		PreviousToken: lexer.UnknownToken(errors.Location{}),
		CurrentToken:  lexer.UnknownToken(errors.Location{}),
		Filename:      filename,
	}
}

// Parse is a shorthand for lexing and parsing `program`.
func Parse(program string, filename string) (ast.Program, *errors.Error) {
	parser := NewParser(lexer.NewLexer(program, filename), filename)
	return parser.Parse()
}

func (self *Parser) next() *errors.Error {
	token, err := self.Lexer.NextToken()
	if err != nil {
		return err
	}

	self.PreviousToken = self.CurrentToken
	self.CurrentToken = token
	return nil
}

func (self *Parser) Parse() (ast.Program, *errors.Error) {
	if err := self.next(); err != nil {
		return ast.Program{}, err
	}

	tree := ast.Program{
		Statements: make([]ast.Statement, 0),
		Filename:   self.Filename,
	}

	for self.CurrentToken.Kind != lexer.EOF {
		statement, err := self.statement()
		if err != nil {
			return ast.Program{}, err
		}
		tree.Statements = append(tree.Statements, statement)
	}

	return tree, nil
}
