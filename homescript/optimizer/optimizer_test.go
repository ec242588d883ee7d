package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthome-go/hmsrun/homescript/diagnostic"
	"github.com/smarthome-go/hmsrun/homescript/parser"
)

func optimize(t *testing.T, program string) (string, []diagnostic.Diagnostic) {
	t.Helper()

	tree, err := parser.Parse(program, "test")
	require.Nil(t, err, "unexpected syntax error")

	optimizer := NewOptimizer()
	optimized, diagnostics := optimizer.Optimize(tree)
	assert.Equal(t, "test", optimized.Filename)

	return optimized.String(), diagnostics
}

func TestOptimizerFolding(t *testing.T) {
	tests := []struct {
		Name     string
		Program  string
		Expected string
	}{
		{Name: "Arithmetic", Program: "1 + 2 * 3", Expected: "7"},
		{Name: "MixedFloat", Program: "1 + 0.5", Expected: "1.5"},
		{Name: "Comparison", Program: "2 < 3 && 'a' == 'a'", Expected: "true"},
		{Name: "Prefix", Program: "-(2 + 3)", Expected: "-5"},
		{Name: "Not", Program: "!null", Expected: "true"},
		{Name: "StringConcat", Program: "'a' + 'b'", Expected: `"ab"`},
		{Name: "PartialFold", Program: "x + 2 * 3", Expected: "(x + 6)"},
		{Name: "NestedInCall", Program: "println(1 + 1, [2 * 2]);", Expected: "println(2, [4]);"},
		{Name: "LetValue", Program: "let x = 10 - 3;", Expected: "let x = 7;"},
		{Name: "FunctionBody", Program: "fn f() { return 2 * 21 }", Expected: "fn f() {\n    return 42;\n}"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			out, diagnostics := optimize(t, test.Program)
			assert.Equal(t, test.Expected, out)
			assert.Empty(t, diagnostics)
		})
	}
}

func TestOptimizerDeadBranches(t *testing.T) {
	tests := []struct {
		Name     string
		Program  string
		Expected string
		Hints    int
	}{
		{
			Name:     "IfTrue",
			Program:  "if 1 < 2 { a } else { b }",
			Expected: "{\n    a\n}",
			Hints:    1,
		},
		{
			Name:     "IfFalseWithElse",
			Program:  "if false { a } else { b }",
			Expected: "{\n    b\n}",
			Hints:    1,
		},
		{
			Name:     "IfFalseWithoutElse",
			Program:  "let a = 1; if false { a; }",
			Expected: "let a = 1;",
			Hints:    1,
		},
		{
			Name:     "WhileFalse",
			Program:  "while false { x; } y",
			Expected: "y",
			Hints:    1,
		},
		{
			Name:     "DynamicConditionKept",
			Program:  "while x { x = false; }",
			Expected: "while x {\n    x = false;\n}",
			Hints:    0,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			out, diagnostics := optimize(t, test.Program)
			assert.Equal(t, test.Expected, out)
			assert.Len(t, diagnostics, test.Hints)
			for _, diagnostic := range diagnostics {
				assert.Equal(t, "Hint", diagnostic.Level.String())
			}
		})
	}
}

func TestOptimizerAlwaysFailing(t *testing.T) {
	out, diagnostics := optimize(t, "1 / 0")
	assert.Equal(t, "(1 / 0)", out)

	require.Len(t, diagnostics, 1)
	assert.Equal(t, diagnostic.DiagnosticLevelWarning, diagnostics[0].Level)
	assert.Equal(t, "This expression will always fail at runtime", diagnostics[0].Message)
	require.Len(t, diagnostics[0].Notes, 1)
	assert.Contains(t, diagnostics[0].Notes[0], "DivisionByZero")
	assert.Equal(t, uint(1), diagnostics[0].Span.Start.Column)
}
