package runner

import (
	"context"
	"runtime/debug"

	"github.com/smarthome-go/hmsrun/host"
)

// FaultFilter decides whether a fault raised during a run is captured into
// the execution state. Faults which are not captured crash the process.
type FaultFilter func(fault error) bool

// CatchAll captures every fault.
func CatchAll(fault error) bool { return true }

// RunAsync starts the compiled unit in its own goroutine.
// The returned channel receives exactly one terminal state.
func RunAsync[T any, H host.Host](
	ctx context.Context,
	compilationContext CompilationContext[T],
	host H,
	filter FaultFilter,
) <-chan ExecutionState[T] {
	if filter == nil {
		filter = CatchAll
	}

	out := make(chan ExecutionState[T], 1)

	go func() {
		out <- run(ctx, compilationContext, host, filter)
	}()

	return out
}

func run[T any, H host.Host](
	ctx context.Context,
	compilationContext CompilationContext[T],
	host H,
	filter FaultFilter,
) ExecutionState[T] {
	result, fault := invoke(ctx, compilationContext.Executable(), host)
	if fault != nil {
		return captured[T](fault, filter)
	}

	value, err := convertResult[T](result)
	if err != nil {
		return captured[T](err, filter)
	}

	return Completed(value)
}

// invoke turns a panic escaping the executable into a `*PanicFault`.
func invoke(ctx context.Context, executable Executable, host host.Host) (result any, fault error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = nil
			fault = &PanicFault{Value: recovered, Stack: debug.Stack()}
		}
	}()

	return executable.Run(ctx, host)
}

func captured[T any](fault error, filter FaultFilter) ExecutionState[T] {
	// Cancellation is not a thrown value and always ends up in the state
	if !isCancellation(fault) && !filter(fault) {
		if panicFault, ok := fault.(*PanicFault); ok {
			panic(panicFault.Value)
		}
		panic(fault)
	}
	return Faulted[T](fault)
}
