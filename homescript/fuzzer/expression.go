package fuzzer

import (
	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

// Larger values might overflow when combined with a useless value
const maxObfuscatedInt = 1 << 31

var uselessValues = []int64{42, 69, 4711}

func (self *Transformer) Expression(node ast.Expression) ast.Expression {
	return self.choose(self.expressionVariants(node))
}

// The first variant is always the (recursively transformed) input node.
func (self *Transformer) expressionVariants(node ast.Expression) []ast.Expression {
	switch node := node.(type) {
	case ast.IntLiteralExpression:
		variants := []ast.Expression{node}
		if node.Value >= maxObfuscatedInt || node.Value <= -maxObfuscatedInt {
			return variants
		}

		operators := []ast.InfixOperator{ast.PlusInfixOperator, ast.MinusInfixOperator, ast.MultiplyInfixOperator}
		inverseOperators := []ast.InfixOperator{ast.MinusInfixOperator, ast.PlusInfixOperator, ast.DivideInfixOperator}

		for idx, operator := range operators {
			useless := ast.IntLiteralExpression{
				Value: ChoseRandom(uselessValues, self.random),
				Range: node.Range,
			}

			variants = append(variants, infix(infix(node, operator, useless), inverseOperators[idx], useless))
		}
		return variants
	case ast.FloatLiteralExpression:
		one := ast.FloatLiteralExpression{Value: 1, Range: node.Range}
		return []ast.Expression{
			node,
			infix(node, ast.MultiplyInfixOperator, one),
			infix(one, ast.MultiplyInfixOperator, node),
		}
	case ast.BoolLiteralExpression:
		return []ast.Expression{
			node,
			not(not(node)),
			infix(node, ast.LogicalAndInfixOperator, ast.BoolLiteralExpression{Value: true, Range: node.Range}),
			infix(node, ast.LogicalOrInfixOperator, ast.BoolLiteralExpression{Value: false, Range: node.Range}),
		}
	case ast.StringLiteralExpression:
		empty := ast.StringLiteralExpression{Value: "", Range: node.Range}
		return []ast.Expression{
			node,
			infix(empty, ast.PlusInfixOperator, node),
			infix(node, ast.PlusInfixOperator, empty),
		}
	case ast.ListLiteralExpression:
		values := make([]ast.Expression, 0, len(node.Values))
		for _, element := range node.Values {
			values = append(values, self.Expression(element))
		}
		node.Values = values
		return []ast.Expression{node}
	case ast.PrefixExpression:
		node.Base = self.Expression(node.Base)
		if node.Operator == ast.NotPrefixOperator {
			return []ast.Expression{node, not(not(node))}
		}
		return []ast.Expression{node}
	case ast.InfixExpression:
		return self.infixVariants(node)
	case ast.CallExpression:
		node.Arguments = self.expressions(node.Arguments)
		return []ast.Expression{node}
	case ast.IndexExpression:
		node.Base = self.Expression(node.Base)
		node.Index = self.Expression(node.Index)
		return []ast.Expression{node}
	case ast.MemberExpression:
		node.Base = self.Expression(node.Base)
		return []ast.Expression{node}
	case ast.NewExpression:
		node.Arguments = self.expressions(node.Arguments)
		return []ast.Expression{node}
	default:
		// Null literals and identifiers
		return []ast.Expression{node}
	}
}

func (self *Transformer) expressions(input []ast.Expression) []ast.Expression {
	output := make([]ast.Expression, 0, len(input))
	for _, node := range input {
		output = append(output, self.Expression(node))
	}
	return output
}

func infix(lhs ast.Expression, operator ast.InfixOperator, rhs ast.Expression) ast.InfixExpression {
	return ast.InfixExpression{
		Lhs:      lhs,
		Operator: operator,
		Rhs:      rhs,
		Range:    spanOf(lhs, rhs),
	}
}

func not(base ast.Expression) ast.PrefixExpression {
	return ast.PrefixExpression{
		Operator: ast.NotPrefixOperator,
		Base:     base,
		Range:    base.Span(),
	}
}

func spanOf(lhs ast.Expression, rhs ast.Expression) errors.Span {
	return lhs.Span().Until(rhs.Span())
}
