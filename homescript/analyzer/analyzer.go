package analyzer

import (
	"fmt"
	"reflect"

	"github.com/smarthome-go/hmsrun/homescript/diagnostic"
	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

// Global describes a name which is predefined in every script.
type Global struct {
	Callable bool
	// -1 if any number of arguments is accepted
	Arity int
	// The Go type of the produced value, nil if unknown
	Returns reflect.Type
}

//
// Analyzer
//

type Analyzer struct {
	globals     map[string]Global
	functions   map[string]*function
	scopes      []scope
	diagnostics []diagnostic.Diagnostic
	// non-nil while a function body is analyzed
	currentFunction *function
	// continue and break are legal if > 0
	loopDepth uint
	// expressions whose value can become the result of the program
	resultExpressions []ast.Expression
}

type function struct {
	ident      ast.SpannedIdent
	parameters []ast.SpannedIdent
}

func NewAnalyzer(globals map[string]Global) Analyzer {
	return Analyzer{
		globals:           globals,
		functions:         make(map[string]*function),
		scopes:            make([]scope, 0),
		diagnostics:       make([]diagnostic.Diagnostic, 0),
		currentFunction:   nil,
		loopDepth:         0,
		resultExpressions: make([]ast.Expression, 0),
	}
}

//
// Analyzer helper functions
//

func (self *Analyzer) error(message string, notes []string, span errors.Span) {
	self.diagnostics = append(self.diagnostics, diagnostic.Diagnostic{
		Level:   diagnostic.DiagnosticLevelError,
		Message: message,
		Notes:   notes,
		Span:    span,
	})
}

func (self *Analyzer) warn(message string, notes []string, span errors.Span) {
	self.diagnostics = append(self.diagnostics, diagnostic.Diagnostic{
		Level:   diagnostic.DiagnosticLevelWarning,
		Message: message,
		Notes:   notes,
		Span:    span,
	})
}

func (self *Analyzer) hint(message string, notes []string, span errors.Span) {
	self.diagnostics = append(self.diagnostics, diagnostic.Diagnostic{
		Level:   diagnostic.DiagnosticLevelHint,
		Message: message,
		Notes:   notes,
		Span:    span,
	})
}

//
// Analyzer logic
//

// Analyze checks `program` and returns every diagnostic found.
// If `returnType` is not nil, the values the program can evaluate to are
// checked for compatibility with it.
func (self *Analyzer) Analyze(program ast.Program, returnType reflect.Type) []diagnostic.Diagnostic {
	self.pushScope()

	// functions are hoisted, so they are collected first
	for _, statement := range program.Statements {
		if fn, ok := statement.(ast.FunctionDefinition); ok {
			self.declareFunction(fn)
		}
	}

	self.statements(program.Statements, true)

	if returnType != nil {
		for _, expression := range self.resultExpressions {
			self.checkReturnType(expression, returnType)
		}
	}

	self.dropScope()

	return self.diagnostics
}

func (self *Analyzer) declareFunction(node ast.FunctionDefinition) {
	name := node.Ident.Ident()

	if global, isGlobal := self.globals[name]; isGlobal {
		kind := "variable"
		if global.Callable {
			kind = "function"
		}
		self.error(
			fmt.Sprintf("Cannot redefine builtin %s '%s'", kind, name),
			nil,
			node.Ident.Span(),
		)
		return
	}

	if prev, exists := self.functions[name]; exists {
		self.error(
			fmt.Sprintf("Duplicate definition of function '%s'", name),
			nil,
			node.Ident.Span(),
		)
		self.hint(
			fmt.Sprintf("Function '%s' previously defined here", name),
			nil,
			prev.ident.Span(),
		)
		return
	}

	self.functions[name] = &function{
		ident:      node.Ident,
		parameters: node.Parameters,
	}
}
