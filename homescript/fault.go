package homescript

import (
	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
)

// Fault is an uncaught exception, a runtime error or a termination of a script.
type Fault struct {
	Kind    string
	Message string
	Span    errors.Span
	// The value passed to `throw`, nil for runtime errors
	Thrown any
	Trace  []string
	cause  error
}

func (self *Fault) Error() string {
	return self.Message
}

func (self *Fault) FaultKind() string    { return self.Kind }
func (self *Fault) Stacktrace() []string { return self.Trace }

// Unwrap returns the reason of a termination or the error returned by a host method.
func (self *Fault) Unwrap() error {
	return self.cause
}

func newFault(interrupt value.Interrupt, trace []string) *Fault {
	fault := &Fault{
		Kind:    interrupt.Kind().String(),
		Message: interrupt.Message(),
		Trace:   trace,
	}

	switch interrupt := interrupt.(type) {
	case value.ThrowInterrupt:
		fault.Kind = "Exception"
		if exception, ok := interrupt.Value.(value.ValueException); ok {
			fault.Kind = exception.TypeName
		}

		thrown, err := value.ToGo(interrupt.Value)
		if err != nil {
			thrown = fault.Message
		}
		fault.Thrown = thrown
		fault.Span = interrupt.Span
	case value.RuntimeErr:
		fault.Kind = interrupt.ErrKind.String()
		fault.Span = interrupt.Span
		fault.cause = interrupt.Cause
	case value.TerminationInterrupt:
		fault.Kind = "Termination"
		fault.Span = interrupt.Span
		fault.cause = interrupt.Cause
	}

	return fault
}
