package runner

// ExecutionState is the terminal record of one run.
// Exactly one of return value and fault is set; use `Completed` and
// `Faulted` to create one.
type ExecutionState[T any] struct {
	ReturnValue T
	Fault       error
}

func Completed[T any](value T) ExecutionState[T] {
	return ExecutionState[T]{ReturnValue: value, Fault: nil}
}

func Faulted[T any](fault error) ExecutionState[T] {
	if fault == nil {
		panic("a faulted execution state requires a non-nil fault")
	}

	var zero T
	return ExecutionState[T]{ReturnValue: zero, Fault: fault}
}

func (self ExecutionState[T]) HasFault() bool {
	return self.Fault != nil
}
