package host

import (
	"io"

	"github.com/smarthome-go/hmsrun/format"
)

// Host is the ambient scope a script is executed against.
// Every other exported method of a concrete host type is made callable from
// the script by the compiler.
type Host interface {
	// Writes script output to the host's output sink
	WriteStringTo(input string) error
	// Returns the invocation arguments in order
	Arguments() []string
	// Returns the formatter used for results and faults
	Formatter() format.Formatter
}

// Methods of the Host interface itself are not exposed to scripts.
var reserved = map[string]struct{}{
	"WriteStringTo": {},
	"Arguments":     {},
	"Formatter":     {},
}

// IsReserved reports whether a method name belongs to the Host contract.
func IsReserved(method string) bool {
	_, found := reserved[method]
	return found
}

//
// Default host binding
//

type Globals struct {
	Out       io.Writer
	Args      []string
	formatter format.Formatter
}

func NewGlobals(out io.Writer, formatter format.Formatter) *Globals {
	if formatter == nil {
		formatter = format.Instance
	}

	return &Globals{
		Out:       out,
		Args:      make([]string, 0),
		formatter: formatter,
	}
}

func (self *Globals) WriteStringTo(input string) error {
	_, err := io.WriteString(self.Out, input)
	return err
}

func (self *Globals) Arguments() []string {
	return self.Args
}

func (self *Globals) Formatter() format.Formatter {
	return self.formatter
}
