package analyzer

import (
	"fmt"

	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

func (self *Analyzer) statements(statements []ast.Statement, topLevel bool) {
	for _, statement := range statements {
		self.statement(statement, topLevel)
	}

	if topLevel && self.currentFunction == nil {
		if trailing, ok := ast.TrailingExpression(statements); ok {
			self.resultExpressions = append(self.resultExpressions, trailing)
		}
	}
}

func (self *Analyzer) block(node ast.Block) {
	self.pushScope()
	self.statements(node.Statements, false)
	self.dropScope()
}

func (self *Analyzer) statement(node ast.Statement, topLevel bool) {
	switch node.Kind() {
	case ast.LetStatementKind:
		node := node.(ast.LetStatement)
		self.expression(node.Value)
		self.addVar(node.Ident.Ident(), node.Ident.Span(), normalVariableOrigin)
	case ast.AssignStatementKind:
		self.assignStatement(node.(ast.AssignStatement))
	case ast.FnDefinitionStatementKind:
		node := node.(ast.FunctionDefinition)
		if !topLevel || self.currentFunction != nil {
			self.error(
				fmt.Sprintf("Function '%s' must be defined at the top level", node.Ident.Ident()),
				[]string{"functions cannot be nested inside of blocks or other functions"},
				node.Ident.Span(),
			)
			return
		}
		self.functionDefinition(node)
	case ast.IfStatementKind:
		node := node.(ast.IfStatement)
		self.expression(node.Condition)
		self.block(node.Then)
		if node.Else != nil {
			self.statement(node.Else, false)
		}
	case ast.WhileStatementKind:
		node := node.(ast.WhileStatement)
		self.expression(node.Condition)
		self.loopDepth++
		self.block(node.Body)
		self.loopDepth--
	case ast.ForStatementKind:
		node := node.(ast.ForStatement)
		self.expression(node.Iterable)
		if kind := self.inferKind(node.Iterable); kind != unknownKind && kind != listKind && kind != stringKind {
			self.error(
				fmt.Sprintf("A value of type %s cannot be used as an iterator", kind),
				[]string{"only lists and strings can be iterated over"},
				node.Iterable.Span(),
			)
		}

		self.pushScope()
		self.addVar(node.Ident.Ident(), node.Ident.Span(), normalVariableOrigin)
		self.loopDepth++
		self.block(node.Body)
		self.loopDepth--
		self.dropScope()
	case ast.BreakStatementKind, ast.ContinueStatementKind:
		if self.loopDepth == 0 {
			keyword := "break"
			if node.Kind() == ast.ContinueStatementKind {
				keyword = "continue"
			}
			self.error(
				fmt.Sprintf("Illegal use of '%s' outside of a loop", keyword),
				nil,
				node.Span(),
			)
		}
	case ast.ReturnStatementKind:
		node := node.(ast.ReturnStatement)
		var returned ast.Expression = ast.NullLiteralExpression{Range: node.Range}
		if node.Value != nil {
			self.expression(node.Value)
			returned = node.Value
		}
		if self.currentFunction == nil {
			self.resultExpressions = append(self.resultExpressions, returned)
		}
	case ast.ThrowStatementKind:
		self.expression(node.(ast.ThrowStatement).Value)
	case ast.TryStatementKind:
		node := node.(ast.TryStatement)
		self.block(node.Try)
		self.pushScope()
		self.addVar(node.CatchIdent.Ident(), node.CatchIdent.Span(), normalVariableOrigin)
		self.statements(node.Catch.Statements, false)
		self.dropScope()
	case ast.BlockStatementKind:
		self.block(node.(ast.BlockStatement).Block)
	case ast.ExpressionStatementKind:
		self.expression(node.(ast.ExpressionStatement).Expression)
	default:
		panic(fmt.Sprintf("A new statement kind (%v) was added without updating this code", node.Kind()))
	}
}

func (self *Analyzer) functionDefinition(node ast.FunctionDefinition) {
	fn, declared := self.functions[node.Ident.Ident()]
	if !declared || fn.ident.Span() != node.Ident.Span() {
		// this is a duplicate or a builtin, which was already reported
		return
	}

	// functions only see the global scope
	outerScopes := self.scopes
	outerLoopDepth := self.loopDepth
	self.scopes = []scope{outerScopes[0]}
	self.currentFunction = fn
	self.loopDepth = 0

	self.pushScope()
	for idx, param := range node.Parameters {
		for _, other := range node.Parameters[:idx] {
			if other.Ident() == param.Ident() {
				self.error(
					fmt.Sprintf("Duplicate parameter '%s'", param.Ident()),
					nil,
					param.Span(),
				)
			}
		}
		self.addVar(param.Ident(), param.Span(), parameterVariableOrigin)
	}
	self.statements(node.Body.Statements, false)
	self.dropScope()

	// the global scope may have been modified
	outerScopes[0] = self.scopes[0]
	self.scopes = outerScopes
	self.currentFunction = nil
	self.loopDepth = outerLoopDepth
}

func (self *Analyzer) assignStatement(node ast.AssignStatement) {
	self.expression(node.Value)

	if node.Target.Kind() != ast.IdentExpressionKind {
		self.expression(node.Target)
		return
	}

	ident := node.Target.(ast.IdentExpression).Ident
	name := ident.Ident()

	if variable, found := self.lookupVar(name); found {
		// compound assignments read the previous value
		if node.Operator != ast.StdAssignOperatorKind {
			variable.used = true
		}
		return
	}

	if _, isFunction := self.functions[name]; isFunction {
		self.error(
			fmt.Sprintf("Cannot assign to function '%s'", name),
			nil,
			ident.Span(),
		)
		return
	}

	if _, isGlobal := self.globals[name]; isGlobal {
		self.error(
			fmt.Sprintf("Cannot assign to builtin '%s'", name),
			[]string{fmt.Sprintf("use 'let %s = ...' to declare a new variable", name)},
			ident.Span(),
		)
		return
	}

	self.error(
		fmt.Sprintf("Assignment to undefined variable '%s'", name),
		suggestion(name, self.visibleNames()),
		ident.Span(),
	)
}
