package value

import "github.com/smarthome-go/hmsrun/format"

// Executor is the host side of a running script.
type Executor interface {
	// Writes the given string (produced by a print function for instance) to any arbitrary sink
	WriteStringTo(input string) error
	// Returns the arguments the script was invoked with
	Arguments() []string
	// Returns the formatter used for dumping values
	Formatter() format.Formatter
}
