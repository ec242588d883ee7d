package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	colorReset     = "\x1b[0m"
	colorRed       = "\x1b[1;31m"
	colorYellow    = "\x1b[1;33m"
	colorCyan      = "\x1b[1;36m"
	noColorEnvName = "NO_COLOR"
)

// Console is the output sink shared by every script invocation of a process.
// Script output goes to `Out`, rendered diagnostics and faults go to `Err`.
type Console struct {
	Out   io.Writer
	Err   io.Writer
	color bool
	lock  *sync.Mutex
}

// New creates a console which colors its output if `err` is a terminal.
func New(out io.Writer, err io.Writer) *Console {
	return &Console{
		Out:   out,
		Err:   err,
		color: supportsColor(err),
		lock:  &sync.Mutex{},
	}
}

func NewPlain(out io.Writer, err io.Writer) *Console {
	return &Console{
		Out:   out,
		Err:   err,
		color: false,
		lock:  &sync.Mutex{},
	}
}

func supportsColor(writer io.Writer) bool {
	if _, set := os.LookupEnv(noColorEnvName); set {
		return false
	}

	file, ok := writer.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}

func (self *Console) Colored() bool {
	return self.color
}

func (self *Console) Writer() io.Writer {
	return self.Out
}

func (self *Console) WriteNormal(text string) {
	self.write(self.Out, "", text)
}

func (self *Console) WriteHighlighted(text string) {
	self.write(self.Out, colorCyan, text)
}

func (self *Console) WriteWarning(text string) {
	self.write(self.Err, colorYellow, text)
}

func (self *Console) WritePrettyError(text string) {
	self.write(self.Err, colorRed, text)
}

// WriteDiagnostic writes text which already carries its own colors to the error writer.
func (self *Console) WriteDiagnostic(text string) {
	self.write(self.Err, "", text)
}

func (self *Console) write(writer io.Writer, color string, text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	self.lock.Lock()
	defer self.lock.Unlock()

	if self.color && color != "" {
		fmt.Fprintf(writer, "%s%s%s", color, strings.TrimSuffix(text, "\n"), colorReset+"\n")
		return
	}

	fmt.Fprint(writer, text)
}
