package errors

import "fmt"

// All ranges inclusive
type Span struct {
	Start    Location
	End      Location
	Filename string
}

func NewSpan(start Location, end Location, filename string) Span {
	return Span{
		Start:    start,
		End:      end,
		Filename: filename,
	}
}

func (self Span) String() string {
	return fmt.Sprintf("%s:%d:%d", self.Filename, self.Start.Line, self.Start.Column)
}

// Returns a span from the start of `self` to the end of `other`.
func (self Span) Until(other Span) Span {
	return Span{
		Start:    self.Start,
		End:      other.End,
		Filename: self.Filename,
	}
}

type Location struct {
	Line   uint
	Column uint
	Index  uint
}

func (self *Location) Advance(newline bool) {
	self.Index++
	if newline {
		self.Column = 1
		self.Line++
	} else {
		self.Column++
	}
}

//
// Syntax error
//

type ErrorKind uint8

const (
	SyntaxError ErrorKind = iota
)

func (self ErrorKind) String() string {
	switch self {
	case SyntaxError:
		return "SyntaxError"
	default:
		panic("A new ErrorKind was added without updating this code")
	}
}

type Error struct {
	Kind    ErrorKind
	Message string
	Span    Span
}

func (self Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", self.Kind, self.Span, self.Message)
}

func NewSyntaxError(span Span, message string) *Error {
	return &Error{
		Kind:    SyntaxError,
		Message: message,
		Span:    span,
	}
}
