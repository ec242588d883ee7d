package diagnostic

import (
	"fmt"
	"strings"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

type DiagnosticLevel uint8

const (
	DiagnosticLevelHint DiagnosticLevel = iota
	DiagnosticLevelInfo
	DiagnosticLevelWarning
	DiagnosticLevelError
)

func (self DiagnosticLevel) String() string {
	switch self {
	case DiagnosticLevelHint:
		return "Hint"
	case DiagnosticLevelInfo:
		return "Info"
	case DiagnosticLevelWarning:
		return "Warning"
	case DiagnosticLevelError:
		return "Error"
	default:
		panic("A new diagnostic level was added without updating this code")
	}
}

//
// Diagnostic
//

type Diagnostic struct {
	Level   DiagnosticLevel `json:"level"`
	Message string          `json:"message"`
	Notes   []string        `json:"notes"`
	Span    errors.Span     `json:"span"`
}

func FromSyntaxError(err errors.Error) Diagnostic {
	return Diagnostic{
		Level:   DiagnosticLevelError,
		Message: err.Message,
		Notes:   []string{err.Kind.String()},
		Span:    err.Span,
	}
}

// String renders the diagnostic on a single line.
func (self Diagnostic) String() string {
	out := fmt.Sprintf("%s at %s: %s", self.Level, self.Span, self.Message)
	if len(self.Notes) > 0 {
		out += fmt.Sprintf(" (%s)", strings.Join(self.Notes, "; "))
	}
	return out
}

// Display renders the diagnostic together with the affected source lines.
func (self Diagnostic) Display(program string, colored bool) string {
	singleMarker := "^"
	markerMul := ""
	var color uint8 = 0

	switch self.Level {
	case DiagnosticLevelHint:
		markerMul = "~"
		color = 5 // magenta
	case DiagnosticLevelInfo:
		markerMul = "~"
		color = 4 // blue
	case DiagnosticLevelWarning:
		markerMul = "~"
		color = 3 // yellow
	case DiagnosticLevelError:
		markerMul = "^"
		color = 1 // red
	}

	paint := func(code string) string {
		if !colored {
			return ""
		}
		return code
	}

	notes := ""
	for _, note := range self.Notes {
		notes += fmt.Sprintf("%s - note:%s %s\n", paint(ansiCol(36, true)), paint("\x1b[0m"), note)
	}

	lines := strings.Split(program, "\n")

	// take special action if there is no useful span / the source code is empty
	if self.Span.Start.Line == 0 || int(self.Span.Start.Line) > len(lines) {
		return fmt.Sprintf(
			"%s%s%s in %s%s\n%s\n%s",
			paint(ansiCol(color+30, true)),
			self.Level,
			paint("\x1b[1;39m"),
			self.Span.Filename,
			paint("\x1b[0m"),
			self.Message,
			notes,
		)
	}

	line1 := ""
	if self.Span.Start.Line > 1 {
		line1 = fmt.Sprintf("\n %s%- 3d | %s%s", paint("\x1b[90m"), self.Span.Start.Line-1, paint("\x1b[0m"), lines[self.Span.Start.Line-2])
	}
	line2 := fmt.Sprintf(" %s%- 3d | %s%s", paint("\x1b[90m"), self.Span.Start.Line, paint("\x1b[0m"), lines[self.Span.Start.Line-1])
	line3 := ""
	if int(self.Span.Start.Line) < len(lines) {
		line3 = fmt.Sprintf("\n %s%- 3d | %s%s", paint("\x1b[90m"), self.Span.Start.Line+1, paint("\x1b[0m"), lines[self.Span.Start.Line])
	}

	markers := ""
	if self.Span.Start.Line == self.Span.End.Line {
		if self.Span.Start.Column >= self.Span.End.Column {
			markers = singleMarker
		} else {
			// This is required because token spans are inclusive
			markers = strings.Repeat(markerMul, int(self.Span.End.Column-self.Span.Start.Column)+1)
		}
	} else {
		s := "s"
		if self.Span.End.Line-self.Span.Start.Line == 1 {
			s = ""
		}

		repeat := len(lines[self.Span.Start.Line-1]) - int(self.Span.Start.Column) + 1
		if repeat < 1 {
			repeat = 1
		}

		markers = fmt.Sprintf(
			"%s ...\n%s%s+ %d more line%s%s",
			strings.Repeat(markerMul, repeat),
			strings.Repeat(" ", int(self.Span.Start.Column)+6),
			paint(ansiCol(32, true)),
			self.Span.End.Line-self.Span.Start.Line,
			s,
			paint("\x1b[0m"),
		)
	}

	marker := fmt.Sprintf(
		"%s%s%s%s",
		paint(ansiCol(color+30, true)),
		strings.Repeat(" ", int(self.Span.Start.Column+6)),
		markers,
		paint("\x1b[0m"),
	)

	return fmt.Sprintf(
		"%s%v%s at %s:%d:%d%s\n%s\n%s\n%s%s\n\n%s%s%s\n%s",
		paint(ansiCol(color+30, true)),
		self.Level,
		paint("\x1b[39m"),
		self.Span.Filename,
		self.Span.Start.Line,
		self.Span.Start.Column,
		paint("\x1b[0m"),
		line1,
		line2,
		marker,
		line3,
		paint(ansiCol(color+30, true)),
		self.Message,
		paint("\x1b[0m"),
		notes,
	)
}

func ansiCol(color uint8, bold bool) string {
	if bold {
		return fmt.Sprintf("\x1b[1;%dm", color)
	}
	return fmt.Sprintf("\x1b[%dm", color)
}
