package value

import (
	"fmt"
)

type ValueInt struct {
	Inner int64
}

func (_ ValueInt) Kind() ValueKind { return IntValueKind }

func (self ValueInt) Display() (string, *Interrupt) {
	return fmt.Sprint(self.Inner), nil
}

func (self ValueInt) IsEqual(other Value) (bool, *Interrupt) {
	switch other.Kind() {
	case IntValueKind:
		return self.Inner == other.(ValueInt).Inner, nil
	case FloatValueKind:
		return float64(self.Inner) == other.(ValueFloat).Inner, nil
	default:
		return false, nil
	}
}

func (self ValueInt) Fields() (map[string]*Value, *Interrupt) {
	return make(map[string]*Value), nil
}

func (self ValueInt) IntoIter() func() (Value, bool) {
	panic("A value of type int cannot be used as an iterator")
}

func NewValueInt(inner int64) *Value {
	val := Value(ValueInt{Inner: inner})
	return &val
}
