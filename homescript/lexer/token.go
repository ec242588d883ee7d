package lexer

import (
	"sort"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

type Token struct {
	Kind  TokenKind
	Value string
	Span  errors.Span
}

type TokenKind uint8

const (
	Unknown TokenKind = iota
	EOF

	Semicolon // ;
	Comma     // ,
	Dot       // .

	LParen   // (
	RParen   // )
	LCurly   // {
	RCurly   // }
	LBracket // [
	RBracket // ]

	Or               // ||
	And              // &&
	Equal            // ==
	NotEqual         // !=
	LessThan         // <
	LessThanEqual    // <=
	GreaterThan      // >
	GreaterThanEqual // >=
	Not              // !

	Plus     // +
	Minus    // -
	Multiply // *
	Divide   // /
	Modulo   // %

	Assign      // =
	PlusAssign  // +=
	MinusAssign // -=

	Let      // let
	Fn       // fn
	If       // if
	Else     // else
	While    // while
	For      // for
	In       // in
	Break    // break
	Continue // continue
	Return   // return
	Throw    // throw
	New      // new
	Try      // try
	Catch    // catch

	True  // true
	False // false
	Null  // null

	String     // "foo" (token includes quotes whilst content excludes them)
	Int        // 42
	Float      // 3.1415
	Identifier // foobar
)

var keywords = map[string]TokenKind{
	"let":      Let,
	"fn":       Fn,
	"if":       If,
	"else":     Else,
	"while":    While,
	"for":      For,
	"in":       In,
	"break":    Break,
	"continue": Continue,
	"return":   Return,
	"throw":    Throw,
	"new":      New,
	"try":      Try,
	"catch":    Catch,
	"true":     True,
	"false":    False,
	"null":     Null,
}

// Keywords returns every reserved word in sorted order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for keyword := range keywords {
		out = append(out, keyword)
	}
	sort.Strings(out)
	return out
}

func newToken(kind TokenKind, value string, span errors.Span) Token {
	return Token{
		Kind:  kind,
		Value: value,
		Span:  span,
	}
}

func UnknownToken(location errors.Location) Token {
	return newToken(Unknown, "Unknown", errors.Span{Start: location, End: location})
}

func (self TokenKind) String() string {
	switch self {
	case Unknown:
		return "Unknown"
	case EOF:
		return "EOF"
	case Semicolon:
		return ";"
	case Comma:
		return ","
	case Dot:
		return "."
	case LParen:
		return "("
	case RParen:
		return ")"
	case LCurly:
		return "{"
	case RCurly:
		return "}"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	case Or:
		return "||"
	case And:
		return "&&"
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case LessThan:
		return "<"
	case LessThanEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanEqual:
		return ">="
	case Not:
		return "!"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	case Assign:
		return "="
	case PlusAssign:
		return "+="
	case MinusAssign:
		return "-="
	case Let:
		return "let"
	case Fn:
		return "fn"
	case If:
		return "if"
	case Else:
		return "else"
	case While:
		return "while"
	case For:
		return "for"
	case In:
		return "in"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Return:
		return "return"
	case Throw:
		return "throw"
	case New:
		return "new"
	case Try:
		return "try"
	case Catch:
		return "catch"
	case True:
		return "true"
	case False:
		return "false"
	case Null:
		return "null"
	case String:
		return "string"
	case Int:
		return "integer"
	case Float:
		return "float"
	case Identifier:
		return "identifier"
	default:
		panic("A new token kind was introduced without updating this code")
	}
}
