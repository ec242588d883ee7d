package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainConsole(t *testing.T) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	console := NewPlain(out, errOut)

	console.WriteNormal("hello")
	console.WriteHighlighted("2\n")
	console.WritePrettyError("Error at main:1:3: Expected expression")
	console.WriteWarning("Warning at main:1:1: Variable 'x' is unused")

	assert.False(t, console.Colored())
	assert.Equal(t, out, console.Writer())
	assert.Equal(t, "hello\n2\n", out.String())
	assert.Equal(t, []string{
		"Error at main:1:3: Expected expression",
		"Warning at main:1:1: Variable 'x' is unused",
	}, strings.Split(strings.TrimSuffix(errOut.String(), "\n"), "\n"))
}

func TestColorIsDisabledForBuffers(t *testing.T) {
	console := New(new(bytes.Buffer), new(bytes.Buffer))
	assert.False(t, console.Colored())
}

func TestColoredOutput(t *testing.T) {
	errOut := new(bytes.Buffer)
	console := NewPlain(new(bytes.Buffer), errOut)
	console.color = true

	console.WritePrettyError("boom")
	assert.Equal(t, colorRed+"boom"+colorReset+"\n", errOut.String())
}

func TestDiagnosticsAreNotRecolored(t *testing.T) {
	errOut := new(bytes.Buffer)
	console := NewPlain(new(bytes.Buffer), errOut)
	console.color = true

	console.WriteDiagnostic("\x1b[1;33mWarning\x1b[0m")
	assert.Equal(t, "\x1b[1;33mWarning\x1b[0m\n", errOut.String())
}
