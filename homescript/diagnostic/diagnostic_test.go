package diagnostic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

func span(line uint, startCol uint, endCol uint) errors.Span {
	return errors.NewSpan(
		errors.Location{Line: line, Column: startCol},
		errors.Location{Line: line, Column: endCol},
		"main",
	)
}

func TestString(t *testing.T) {
	d := Diagnostic{
		Level:   DiagnosticLevelError,
		Message: "Use of undefined variable 'y'",
		Notes:   []string{"did you mean 'x'?"},
		Span:    span(2, 1, 1),
	}

	assert.Equal(t, "Error at main:2:1: Use of undefined variable 'y' (did you mean 'x'?)", d.String())
	assert.NotContains(t, d.String(), "\n")
}

func TestFromSyntaxError(t *testing.T) {
	d := FromSyntaxError(*errors.NewSyntaxError(span(1, 3, 3), "Expected expression, found 'EOF'"))

	assert.Equal(t, DiagnosticLevelError, d.Level)
	assert.Equal(t, "Error at main:1:3: Expected expression, found 'EOF' (SyntaxError)", d.String())
}

func TestDisplay(t *testing.T) {
	program := "let x = 1;\nlet y = x + z;\nprintln(y);"
	d := Diagnostic{
		Level:   DiagnosticLevelError,
		Message: "Use of undefined variable 'z'",
		Span:    span(2, 13, 13),
	}

	out := d.Display(program, false)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "Error at main:2:13", lines[0])
	assert.Contains(t, out, "1  | let x = 1;")
	assert.Contains(t, out, "2  | let y = x + z;")
	assert.Contains(t, out, "3  | println(y);")
	assert.Contains(t, out, strings.Repeat(" ", 19)+"^")
	assert.Contains(t, out, "Use of undefined variable 'z'")
	assert.NotContains(t, out, "\x1b[")

	assert.Contains(t, d.Display(program, true), "\x1b[1;31m")
}

func TestDisplayWithoutSpan(t *testing.T) {
	d := Diagnostic{
		Level:   DiagnosticLevelWarning,
		Message: "Nothing to run",
		Span:    errors.Span{Filename: "main"},
	}

	assert.Equal(t, "Warning in main\nNothing to run\n", d.Display("", false))
}
