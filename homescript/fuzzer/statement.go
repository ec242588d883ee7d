package fuzzer

import (
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

func (self *Transformer) Statement(node ast.Statement) ast.Statement {
	switch node := node.(type) {
	case ast.LetStatement:
		// Wrapping would change the scope of the variable
		node.Value = self.Expression(node.Value)
		return node
	case ast.AssignStatement:
		node.Value = self.Expression(node.Value)
		return self.wrapped(node)
	case ast.FunctionDefinition:
		node.Body = self.Block(node.Body)
		return node
	case ast.IfStatement:
		return self.wrapped(self.ifStatement(node))
	case ast.WhileStatement:
		node.Condition = self.Expression(node.Condition)
		node.Body = self.Block(node.Body)
		return self.wrapped(node)
	case ast.ForStatement:
		node.Iterable = self.Expression(node.Iterable)
		node.Body = self.Block(node.Body)
		return self.wrapped(node)
	case ast.ReturnStatement:
		if node.Value != nil {
			node.Value = self.Expression(node.Value)
		}
		return self.wrapped(node)
	case ast.ThrowStatement:
		node.Value = self.Expression(node.Value)
		return self.wrapped(node)
	case ast.TryStatement:
		node.Try = self.Block(node.Try)
		node.Catch = self.Block(node.Catch)
		return self.wrapped(node)
	case ast.BlockStatement:
		node.Block = self.Block(node.Block)
		return self.wrapped(node)
	case ast.ExpressionStatement:
		node.Expression = self.Expression(node.Expression)
		return self.wrapped(node)
	default:
		// Break and continue
		return node
	}
}

func (self *Transformer) ifStatement(node ast.IfStatement) ast.Statement {
	node.Condition = self.Expression(node.Condition)
	node.Then = self.Block(node.Then)

	if node.Else == nil {
		return node
	}

	// The else branch must remain a block or another if statement
	var elseBlock ast.Block
	switch branch := node.Else.(type) {
	case ast.BlockStatement:
		elseBlock = self.Block(branch.Block)
		node.Else = ast.BlockStatement{Block: elseBlock}
	case ast.IfStatement:
		node.Else = self.ifStatement(branch)
		elseBlock = ast.Block{Statements: []ast.Statement{node.Else}, Range: branch.Range}
	}

	// Negate the condition and swap the branches
	swapped := ast.IfStatement{
		Condition: not(node.Condition),
		Then:      elseBlock,
		Else:      ast.BlockStatement{Block: node.Then},
		Range:     node.Range,
	}

	return self.chooseStatement([]ast.Statement{node, swapped})
}

// Wraps `node` inside of constructs which execute it exactly once.
func (self *Transformer) wrapped(node ast.Statement) ast.Statement {
	span := node.Span()
	block := ast.Block{Statements: []ast.Statement{node}, Range: span}

	variants := []ast.Statement{
		node,
		ast.BlockStatement{Block: block},
		ast.IfStatement{
			Condition: ast.BoolLiteralExpression{Value: true, Range: span},
			Then:      block,
			Range:     span,
		},
		ast.IfStatement{
			Condition: ast.BoolLiteralExpression{Value: false, Range: span},
			Then:      ast.Block{Statements: []ast.Statement{}, Range: span},
			Else:      ast.BlockStatement{Block: block},
			Range:     span,
		},
	}

	// A `break` or `continue` would address the new loop instead of the original one
	if !stmtCanControlLoop(node) {
		variants = append(variants, ast.WhileStatement{
			Condition: ast.BoolLiteralExpression{Value: true, Range: span},
			Body: ast.Block{
				Statements: []ast.Statement{node, ast.BreakStatement{Range: span}},
				Range:      span,
			},
			Range: span,
		})
	}

	return self.chooseStatement(variants)
}
