package fuzzer

import (
	"math/rand"

	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

// NOTE: on spans:
// Spans of generated nodes are copied from the node they replace and are mostly meaningless.
// Transformed trees are serialized to a string and parsed again before they are run.
type Transformer struct {
	random *rand.Rand
	// Keeps track of how many ast nodes the transformer already changed.
	modifications uint
}

func NewTransformer(seed int64) Transformer {
	return Transformer{
		random:        rand.New(rand.NewSource(seed)),
		modifications: 0,
	}
}

func (self *Transformer) Modifications() uint { return self.modifications }

func (self *Transformer) TransformPasses(tree ast.Program, passes int) []ast.Program {
	output := make([]ast.Program, 0)

	for i := 0; i < passes; i++ {
		tree = self.Transform(tree)
		output = append(output, tree)
	}

	return output
}

// Transform returns a program which behaves exactly like `tree`.
func (self *Transformer) Transform(tree ast.Program) ast.Program {
	statements := make([]ast.Statement, len(tree.Statements))
	copy(statements, tree.Statements)

	// Functions are hoisted, so their order is irrelevant
	slots := make([]int, 0)
	functions := make([]ast.Statement, 0)
	for idx, statement := range statements {
		if _, ok := statement.(ast.FunctionDefinition); ok {
			slots = append(slots, idx)
			functions = append(functions, statement)
		}
	}

	if ShuffleSlice(functions, self.random) {
		self.modifications++
	}

	for idx, slot := range slots {
		statements[slot] = functions[idx]
	}

	return ast.Program{
		Statements: self.Statements(statements),
		Filename:   tree.Filename,
	}
}

// Returns a random element from the input slice
func ChoseRandom[T any](input []T, random *rand.Rand) T {
	return input[random.Intn(len(input))]
}

// Shuffles the slice in place and reports whether its order could have changed.
func ShuffleSlice[T any](input []T, random *rand.Rand) bool {
	if len(input) <= 1 {
		return false
	}

	random.Shuffle(len(input), func(i, j int) {
		input[i], input[j] = input[j], input[i]
	})

	return true
}

// Output is only a linear array, as the actual combination is chosen randomly.
// Otherwise, the size of the output tree would explode.
func (self *Transformer) Statements(input []ast.Statement) []ast.Statement {
	output := make([]ast.Statement, 0, len(input))

	trailing, hasTrailing := ast.TrailingExpression(input)

	for idx, statement := range input {
		// The trailing expression is the value of the block and must stay where it is
		if hasTrailing && idx == len(input)-1 {
			node := statement.(ast.ExpressionStatement)
			node.Expression = self.Expression(trailing)
			output = append(output, node)
			continue
		}

		output = append(output, self.Statement(statement))
	}

	return output
}

func (self *Transformer) Block(node ast.Block) ast.Block {
	return ast.Block{
		Statements: self.Statements(node.Statements),
		Range:      node.Range,
	}
}

func (self *Transformer) choose(variants []ast.Expression) ast.Expression {
	selected := self.random.Intn(len(variants))
	if selected != 0 {
		self.modifications++
	}
	return variants[selected]
}

func (self *Transformer) chooseStatement(variants []ast.Statement) ast.Statement {
	selected := self.random.Intn(len(variants))
	if selected != 0 {
		self.modifications++
	}
	return variants[selected]
}
