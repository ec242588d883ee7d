package value

import (
	"fmt"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

type RuntimeErrorKind uint8

const (
	StackOverFlowErrorKind RuntimeErrorKind = iota
	ValueErrorKind
	IndexOutOfBoundsErrorKind
	DivisionByZeroErrorKind
	HostErrorKind
	CastErrorKind
)

func (self RuntimeErrorKind) String() string {
	switch self {
	case StackOverFlowErrorKind:
		return "StackOverflow"
	case ValueErrorKind:
		return "ValueError"
	case IndexOutOfBoundsErrorKind:
		return "IndexOutOfBounds"
	case DivisionByZeroErrorKind:
		return "DivisionByZero"
	case HostErrorKind:
		return "HostError"
	case CastErrorKind:
		return "CastError"
	default:
		panic("A new ErrorKind was added without updating this code")
	}
}

// Catchable reports whether a `try` block may catch errors of this kind.
func (self RuntimeErrorKind) Catchable() bool {
	return self != StackOverFlowErrorKind
}

type InterruptKind uint8

const (
	TerminateInterruptKind InterruptKind = iota
	ReturnInterruptKind
	BreakInterruptKind
	ContinueInterruptKind
	NormalExceptionInterruptKind
	FatalExceptionInterruptKind
)

func (self InterruptKind) String() string {
	switch self {
	case TerminateInterruptKind:
		return "terminate"
	case ReturnInterruptKind:
		return "return"
	case BreakInterruptKind:
		return "break"
	case ContinueInterruptKind:
		return "continue"
	case NormalExceptionInterruptKind:
		return "exception"
	case FatalExceptionInterruptKind:
		return "fatal exception"
	default:
		panic("A new interrupt kind was added without updating this code")
	}
}

type Interrupt interface {
	Kind() InterruptKind
	Message() string
	// This function may panic if the target value has no span
	GetSpan() errors.Span
}

//
// Break interrupt
//

type BreakInterrupt struct{}

func (self BreakInterrupt) Kind() InterruptKind { return BreakInterruptKind }
func (self BreakInterrupt) Message() string     { return "<break-interrupt>" }
func (self BreakInterrupt) GetSpan() errors.Span {
	panic("This interrupt kind does not contain a span")
}
func NewBreakInterrupt() *Interrupt {
	i := Interrupt(BreakInterrupt{})
	return &i
}

//
// Continue interrupt
//

type ContinueInterrupt struct{}

func (self ContinueInterrupt) Kind() InterruptKind { return ContinueInterruptKind }
func (self ContinueInterrupt) Message() string     { return "<continue-interrupt>" }
func (self ContinueInterrupt) GetSpan() errors.Span {
	panic("This interrupt kind does not contain a span")
}
func NewContinueInterrupt() *Interrupt {
	i := Interrupt(ContinueInterrupt{})
	return &i
}

//
// Return interrupt
//

type ReturnInterrupt struct {
	ReturnValue Value
}

func (self ReturnInterrupt) Kind() InterruptKind { return ReturnInterruptKind }
func (self ReturnInterrupt) Message() string     { return "<return-interrupt>" }
func (self ReturnInterrupt) GetSpan() errors.Span {
	panic("This interrupt kind does not contain a span")
}

func NewReturnInterrupt(value Value) *Interrupt {
	i := Interrupt(ReturnInterrupt{ReturnValue: value})
	return &i
}

//
// Throw interrupt
//

type ThrowInterrupt struct {
	Value Value
	Span  errors.Span
}

func (self ThrowInterrupt) Kind() InterruptKind { return NormalExceptionInterruptKind }
func (self ThrowInterrupt) Message() string {
	if exception, ok := self.Value.(ValueException); ok {
		return exception.Message
	}

	display, i := self.Value.Display()
	if i != nil {
		return fmt.Sprintf("<%s>", self.Value.Kind())
	}
	return display
}
func (self ThrowInterrupt) GetSpan() errors.Span { return self.Span }

func NewThrowInterrupt(value Value, span errors.Span) *Interrupt {
	i := Interrupt(ThrowInterrupt{Value: value, Span: span})
	return &i
}

//
// Runtime error
//

type RuntimeErr struct {
	ErrKind         RuntimeErrorKind
	MessageInternal string
	Span            errors.Span
	// Set for host errors
	Cause error
}

func (self RuntimeErr) Kind() InterruptKind  { return FatalExceptionInterruptKind }
func (self RuntimeErr) Message() string      { return self.MessageInternal }
func (self RuntimeErr) GetSpan() errors.Span { return self.Span }

func NewRuntimeErr(message string, kind RuntimeErrorKind, span errors.Span) *Interrupt {
	i := Interrupt(RuntimeErr{
		MessageInternal: message,
		ErrKind:         kind,
		Span:            span,
	})
	return &i
}

func NewHostErr(cause error, span errors.Span) *Interrupt {
	i := Interrupt(RuntimeErr{
		MessageInternal: cause.Error(),
		ErrKind:         HostErrorKind,
		Span:            span,
		Cause:           cause,
	})
	return &i
}

//
// Termination interrupt
//

type TerminationInterrupt struct {
	Cause error
	Span  errors.Span
}

func (self TerminationInterrupt) Kind() InterruptKind  { return TerminateInterruptKind }
func (self TerminationInterrupt) Message() string      { return self.Cause.Error() }
func (self TerminationInterrupt) GetSpan() errors.Span { return self.Span }

func NewTerminationInterrupt(cause error, span errors.Span) *Interrupt {
	i := Interrupt(TerminationInterrupt{Cause: cause, Span: span})
	return &i
}
