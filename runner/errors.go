package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

//
// Compilation failure
//

type CompilationError struct {
	Diagnostics []Diagnostic
}

func (self *CompilationError) Error() string {
	if len(self.Diagnostics) == 1 {
		return fmt.Sprintf("Script compilation failed: %s", self.Diagnostics[0])
	}

	messages := make([]string, 0, len(self.Diagnostics))
	for _, diagnostic := range self.Diagnostics {
		messages = append(messages, diagnostic.String())
	}

	return fmt.Sprintf(
		"Script compilation failed with %d errors:\n%s",
		len(self.Diagnostics),
		strings.Join(messages, "\n"),
	)
}

//
// Runtime fault
//

type RuntimeError struct {
	Cause error
}

func (self *RuntimeError) Error() string {
	return "Script execution resulted in an exception."
}

func (self *RuntimeError) Unwrap() error {
	return self.Cause
}

//
// Cancellation
//

type CancellationError struct {
	Cause error
}

func (self *CancellationError) Error() string {
	return fmt.Sprintf("Script execution was canceled: %s", self.Cause)
}

func (self *CancellationError) Unwrap() error {
	return self.Cause
}

func isCancellation(fault error) bool {
	return errors.Is(fault, context.Canceled) || errors.Is(fault, context.DeadlineExceeded)
}

// A fault carrying only the custom cause of a canceled context still counts as a cancellation.
func causedByCancellation(ctx context.Context, fault error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(fault, context.Cause(ctx))
}

// cancellationCause keeps both the context error and a custom cause reachable through `errors.Is`.
func cancellationCause(ctx context.Context) error {
	err := ctx.Err()
	cause := context.Cause(ctx)
	if err == nil || errors.Is(cause, err) {
		return cause
	}
	return fmt.Errorf("%w: %w", err, cause)
}

//
// Faults raised by the run primitive itself
//

// PanicFault is a Go panic recovered while the script was running.
type PanicFault struct {
	Value any
	Stack []byte
}

func (self *PanicFault) Error() string {
	return fmt.Sprintf("%v", self.Value)
}

func (self *PanicFault) FaultKind() string { return "Panic" }

func (self *PanicFault) Unwrap() error {
	if err, ok := self.Value.(error); ok {
		return err
	}
	return nil
}

// ConversionFault is raised if a script result cannot be converted into the
// return type requested by the caller.
type ConversionFault struct {
	Value  any
	Target string
	Reason string
}

func (self *ConversionFault) Error() string {
	if self.Reason != "" {
		return fmt.Sprintf("Cannot convert `%v` to `%s`: %s", self.Value, self.Target, self.Reason)
	}
	return fmt.Sprintf("Cannot convert `%v` to `%s`", self.Value, self.Target)
}

func (self *ConversionFault) FaultKind() string { return "CastError" }
