package fuzzer

import (
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

// This function is used for determining whether a tree node contains the `break` or `continue` keyword.
// If this is the case, loop obfuscations are not applied on this node.
func stmtCanControlLoop(node ast.Statement) bool {
	switch node := node.(type) {
	case ast.BreakStatement, ast.ContinueStatement:
		// These statements are what we are looking for, so return `true`
		return true
	case ast.WhileStatement, ast.ForStatement:
		// The body is irrelevant here, if it contains a loop control keyword,
		// it will be addressing this loop node
		return false
	case ast.IfStatement:
		if blockCanControlLoop(node.Then) {
			return true
		}
		return node.Else != nil && stmtCanControlLoop(node.Else)
	case ast.TryStatement:
		return blockCanControlLoop(node.Try) || blockCanControlLoop(node.Catch)
	case ast.BlockStatement:
		return blockCanControlLoop(node.Block)
	default:
		// Expressions cannot contain statements
		return false
	}
}

func blockCanControlLoop(node ast.Block) bool {
	for _, statement := range node.Statements {
		if stmtCanControlLoop(statement) {
			return true
		}
	}
	return false
}

// Reports whether evaluating `node` can neither fail nor have side effects.
func isPure(node ast.Expression) bool {
	switch node := node.(type) {
	case ast.IntLiteralExpression, ast.FloatLiteralExpression, ast.BoolLiteralExpression,
		ast.StringLiteralExpression, ast.NullLiteralExpression:
		return true
	case ast.ListLiteralExpression:
		for _, element := range node.Values {
			if !isPure(element) {
				return false
			}
		}
		return true
	default:
		// Reading a variable fails if it is not initialized yet
		return false
	}
}
