package lexer

import (
	"fmt"
	"strings"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

//
// Lexer
//

type Lexer struct {
	currentIndex int
	currentChar  *rune
	nextChar     *rune
	program      []rune
	location     errors.Location
	filename     string
}

func NewLexer(programSource string, filename string) Lexer {
	program := []rune(programSource)
	programLen := len(program)
	var currentChar *rune
	var nextChar *rune

	if programLen == 0 {
		currentChar = nil
		nextChar = nil
	} else if programLen == 1 {
		currentChar = &program[0]
		nextChar = nil
	} else {
		currentChar = &program[0]
		nextChar = &program[1]
	}

	return Lexer{
		currentIndex: 0,
		currentChar:  currentChar,
		nextChar:     nextChar,
		program:      program,
		location: errors.Location{
			Index:  0,
			Line:   1,
			Column: 1,
		},
		filename: filename,
	}
}

func (self *Lexer) advance() {
	self.location.Advance(self.currentChar != nil && *self.currentChar == '\n')

	self.currentIndex++
	programLen := len(self.program)

	if self.currentIndex >= programLen {
		self.currentChar = nil
	} else {
		self.currentChar = &self.program[self.currentIndex]
	}

	if self.currentIndex+1 >= programLen {
		self.nextChar = nil
	} else {
		self.nextChar = &self.program[self.currentIndex+1]
	}
}

func (self *Lexer) span(start errors.Location, end errors.Location) errors.Span {
	return errors.NewSpan(start, end, self.filename)
}

func (self *Lexer) skipLineComment() {
	for self.currentChar != nil && *self.currentChar != '\n' {
		self.advance()
	}
}

func (self *Lexer) skipBlockComment() *errors.Error {
	start := self.location
	self.advance()
	self.advance()

	for {
		if self.currentChar == nil || self.nextChar == nil {
			return errors.NewSyntaxError(self.span(start, self.location), "Unterminated block comment")
		}
		if *self.currentChar == '*' && *self.nextChar == '/' {
			self.advance()
			self.advance()
			return nil
		}
		self.advance()
	}
}

func (self *Lexer) NextToken() (Token, *errors.Error) {
	for self.currentChar != nil {
		switch *self.currentChar {
		case ' ', '\n', '\t', '\r':
			self.advance()
		case '/':
			if self.nextChar != nil && *self.nextChar == '/' {
				self.skipLineComment()
				continue
			}
			if self.nextChar != nil && *self.nextChar == '*' {
				if err := self.skipBlockComment(); err != nil {
					return Token{}, err
				}
				continue
			}
			return self.makeSingleChar(Divide), nil
		case '\'', '"':
			return self.makeString()
		case ';':
			return self.makeSingleChar(Semicolon), nil
		case ',':
			return self.makeSingleChar(Comma), nil
		case '.':
			return self.makeSingleChar(Dot), nil
		case '(':
			return self.makeSingleChar(LParen), nil
		case ')':
			return self.makeSingleChar(RParen), nil
		case '{':
			return self.makeSingleChar(LCurly), nil
		case '}':
			return self.makeSingleChar(RCurly), nil
		case '[':
			return self.makeSingleChar(LBracket), nil
		case ']':
			return self.makeSingleChar(RBracket), nil
		case '*':
			return self.makeSingleChar(Multiply), nil
		case '%':
			return self.makeSingleChar(Modulo), nil
		case '+':
			return self.makeOptionalEquals(Plus, PlusAssign), nil
		case '-':
			return self.makeOptionalEquals(Minus, MinusAssign), nil
		case '=':
			return self.makeOptionalEquals(Assign, Equal), nil
		case '!':
			return self.makeOptionalEquals(Not, NotEqual), nil
		case '<':
			return self.makeOptionalEquals(LessThan, LessThanEqual), nil
		case '>':
			return self.makeOptionalEquals(GreaterThan, GreaterThanEqual), nil
		case '&':
			return self.makeDouble('&', And)
		case '|':
			return self.makeDouble('|', Or)
		default:
			if isDigit(*self.currentChar) {
				return self.makeNumber(), nil
			}
			if isIdentStart(*self.currentChar) {
				return self.makeName(), nil
			}

			illegal := *self.currentChar
			start := self.location
			self.advance()
			return Token{}, errors.NewSyntaxError(
				self.span(start, start),
				fmt.Sprintf("Illegal character '%c'", illegal),
			)
		}
	}

	return newToken(EOF, "EOF", self.span(self.location, self.location)), nil
}

func (self *Lexer) makeSingleChar(kind TokenKind) Token {
	location := self.location
	value := string(*self.currentChar)
	self.advance()
	return newToken(kind, value, self.span(location, location))
}

// Lexes `x` or `x=`.
func (self *Lexer) makeOptionalEquals(single TokenKind, withEquals TokenKind) Token {
	start := self.location
	first := *self.currentChar

	if self.nextChar != nil && *self.nextChar == '=' {
		self.advance()
		end := self.location
		self.advance()
		return newToken(withEquals, string(first)+"=", self.span(start, end))
	}

	self.advance()
	return newToken(single, string(first), self.span(start, start))
}

// Lexes `&&` or `||`.
func (self *Lexer) makeDouble(char rune, kind TokenKind) (Token, *errors.Error) {
	start := self.location
	if self.nextChar == nil || *self.nextChar != char {
		self.advance()
		return Token{}, errors.NewSyntaxError(
			self.span(start, start),
			fmt.Sprintf("Illegal character '%c', did you mean '%c%c'?", char, char, char),
		)
	}

	self.advance()
	end := self.location
	self.advance()
	return newToken(kind, string([]rune{char, char}), self.span(start, end)), nil
}

func (self *Lexer) makeString() (Token, *errors.Error) {
	start := self.location
	quote := *self.currentChar
	self.advance()

	var value strings.Builder

	for self.currentChar != nil && *self.currentChar != quote {
		if *self.currentChar == '\\' {
			escapeStart := self.location
			self.advance()
			if self.currentChar == nil {
				break
			}

			switch *self.currentChar {
			case 'n':
				value.WriteRune('\n')
			case 't':
				value.WriteRune('\t')
			case 'r':
				value.WriteRune('\r')
			case '\\', '"', '\'':
				value.WriteRune(*self.currentChar)
			default:
				return Token{}, errors.NewSyntaxError(
					self.span(escapeStart, self.location),
					fmt.Sprintf("Unknown escape sequence '\\%c'", *self.currentChar),
				)
			}
			self.advance()
			continue
		}

		value.WriteRune(*self.currentChar)
		self.advance()
	}

	if self.currentChar == nil {
		return Token{}, errors.NewSyntaxError(
			self.span(start, self.location),
			"String literal never closed",
		)
	}

	end := self.location
	self.advance()

	return newToken(String, value.String(), self.span(start, end)), nil
}

func (self *Lexer) makeNumber() Token {
	start := self.location
	end := self.location
	kind := Int

	var value strings.Builder

	for self.currentChar != nil && (isDigit(*self.currentChar) || *self.currentChar == '_') {
		if *self.currentChar != '_' {
			value.WriteRune(*self.currentChar)
		}
		end = self.location
		self.advance()
	}

	// Only treat the dot as a decimal point if a digit follows, `1.foo` is a member access
	if self.currentChar != nil && *self.currentChar == '.' && self.nextChar != nil && isDigit(*self.nextChar) {
		kind = Float
		value.WriteRune('.')
		self.advance()

		for self.currentChar != nil && isDigit(*self.currentChar) {
			value.WriteRune(*self.currentChar)
			end = self.location
			self.advance()
		}
	}

	return newToken(kind, value.String(), self.span(start, end))
}

func (self *Lexer) makeName() Token {
	start := self.location
	end := self.location

	var value strings.Builder
	for self.currentChar != nil && (isIdentStart(*self.currentChar) || isDigit(*self.currentChar)) {
		value.WriteRune(*self.currentChar)
		end = self.location
		self.advance()
	}

	name := value.String()
	kind, isKeyword := keywords[name]
	if !isKeyword {
		kind = Identifier
	}

	return newToken(kind, name, self.span(start, end))
}

func isDigit(char rune) bool {
	return char >= '0' && char <= '9'
}

func isIdentStart(char rune) bool {
	return char == '_' || (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}
