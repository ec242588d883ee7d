package format

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testFault struct {
	message string
	trace   []string
	cause   error
}

func (self testFault) Error() string        { return self.message }
func (self testFault) FaultKind() string    { return "Exception" }
func (self testFault) Stacktrace() []string { return self.trace }
func (self testFault) Unwrap() error        { return self.cause }

type ParseFailure struct{}

func (ParseFailure) Error() string { return "bad input" }

type point struct {
	X int
	Y int
}

type name string

func (self name) String() string { return "name:" + string(self) }

func TestFormatValue(t *testing.T) {
	tests := []struct {
		Name     string
		Value    any
		Expected string
	}{
		{Name: "Nil", Value: nil, Expected: "null"},
		{Name: "String", Value: "hello", Expected: `"hello"`},
		{Name: "Int", Value: 2, Expected: "2"},
		{Name: "Int64", Value: int64(-7), Expected: "-7"},
		{Name: "Uint", Value: uint8(9), Expected: "9"},
		{Name: "Float", Value: 2.5, Expected: "2.5"},
		{Name: "IntegralFloat", Value: 3.0, Expected: "3.0"},
		{Name: "Bool", Value: true, Expected: "true"},
		{Name: "List", Value: []any{int64(1), "a", nil}, Expected: `[1, "a", null]`},
		{Name: "NilSlice", Value: []string(nil), Expected: "null"},
		{Name: "Map", Value: map[string]int{"b": 2, "a": 1}, Expected: `{"a": 1, "b": 2}`},
		{Name: "Stringer", Value: name("x"), Expected: "name:x"},
		{Name: "Error", Value: errors.New("nope"), Expected: "Error: nope"},
		{Name: "Struct", Value: point{X: 1, Y: 2}, Expected: "{X:1 Y:2}"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Expected, Instance.FormatValue(test.Value))
		})
	}
}

func TestFormatFault(t *testing.T) {
	fault := testFault{
		message: "boom",
		trace:   []string{"main:1:1", "foo() main:3:5"},
	}

	assert.Equal(t, "Exception: boom\n   at main:1:1\n   at foo() main:3:5", Instance.FormatFault(fault))
}

func TestFormatFaultCauseChain(t *testing.T) {
	fault := testFault{
		message: "outer",
		cause:   ParseFailure{},
	}

	assert.Equal(t, "Exception: outer\n ---> ParseFailure: bad input", Instance.FormatFault(fault))
}

func TestFormatFaultPlainErrors(t *testing.T) {
	wrapped := fmt.Errorf("reading: %w", errors.New("eof"))

	out := Instance.FormatFault(wrapped)
	assert.Equal(t, "Error: reading: eof\n ---> Error: eof", out)
	assert.Equal(t, "null", Instance.FormatFault(nil))
}

func TestFaultKind(t *testing.T) {
	assert.Equal(t, "Exception", FaultKind(testFault{}))
	assert.Equal(t, "ParseFailure", FaultKind(ParseFailure{}))
	assert.Equal(t, "ParseFailure", FaultKind(&ParseFailure{}))
	assert.Equal(t, "Error", FaultKind(errors.New("x")))
}
