package value

import (
	"fmt"

	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

type ValueFunction struct {
	Ident      string
	Parameters []string
	Body       ast.Block
}

func (_ ValueFunction) Kind() ValueKind { return FunctionValueKind }

func (self ValueFunction) Display() (string, *Interrupt) {
	return fmt.Sprintf("<function %s>", self.Ident), nil
}

func (self ValueFunction) IsEqual(other Value) (bool, *Interrupt) {
	if other.Kind() != self.Kind() {
		return false, nil
	}
	return self.Ident == other.(ValueFunction).Ident, nil
}

func (_ ValueFunction) Fields() (map[string]*Value, *Interrupt) {
	return make(map[string]*Value), nil
}

func (self ValueFunction) IntoIter() func() (Value, bool) {
	panic("A value of type function cannot be used as an iterator")
}

func NewValueFunction(ident string, parameters []string, body ast.Block) *Value {
	val := Value(ValueFunction{
		Ident:      ident,
		Parameters: parameters,
		Body:       body,
	})

	return &val
}
