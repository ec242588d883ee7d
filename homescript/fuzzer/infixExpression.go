package fuzzer

import (
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

// Comparisons which still hold if both operands are swapped.
var mirroredOperators = map[ast.InfixOperator]ast.InfixOperator{
	ast.LessThanInfixOperator:         ast.GreaterThanInfixOperator,
	ast.LessThanEqualInfixOperator:    ast.GreaterThanEqualInfixOperator,
	ast.GreaterThanInfixOperator:      ast.LessThanInfixOperator,
	ast.GreaterThanEqualInfixOperator: ast.LessThanEqualInfixOperator,
	ast.EqualInfixOperator:            ast.EqualInfixOperator,
	ast.NotEqualInfixOperator:         ast.NotEqualInfixOperator,
}

func (self *Transformer) infixVariants(node ast.InfixExpression) []ast.Expression {
	node.Lhs = self.Expression(node.Lhs)
	node.Rhs = self.Expression(node.Rhs)

	variants := []ast.Expression{node}

	switch node.Operator {
	case ast.EqualInfixOperator:
		variants = append(variants, not(infix(node.Lhs, ast.NotEqualInfixOperator, node.Rhs)))
	case ast.NotEqualInfixOperator:
		variants = append(variants, not(infix(node.Lhs, ast.EqualInfixOperator, node.Rhs)))
	case ast.LogicalAndInfixOperator:
		// De Morgan keeps the evaluation order and short circuiting intact
		variants = append(variants, not(infix(not(node.Lhs), ast.LogicalOrInfixOperator, not(node.Rhs))))
	case ast.LogicalOrInfixOperator:
		variants = append(variants, not(infix(not(node.Lhs), ast.LogicalAndInfixOperator, not(node.Rhs))))
	}

	// Swapping the operands changes the evaluation order.
	// This is only done if evaluating an operand cannot have any effect.
	if mirrored, ok := mirroredOperators[node.Operator]; ok && isPure(node.Lhs) && isPure(node.Rhs) {
		variants = append(variants, infix(node.Rhs, mirrored, node.Lhs))
	}

	return variants
}
