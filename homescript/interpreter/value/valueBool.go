package value

import "fmt"

type ValueBool struct {
	Inner bool
}

func (_ ValueBool) Kind() ValueKind { return BoolValueKind }

func (self ValueBool) Display() (string, *Interrupt) {
	return fmt.Sprint(self.Inner), nil
}

func (self ValueBool) IsEqual(other Value) (bool, *Interrupt) {
	if other.Kind() != self.Kind() {
		return false, nil
	}
	return self.Inner == other.(ValueBool).Inner, nil
}

func (self ValueBool) Fields() (map[string]*Value, *Interrupt) {
	return make(map[string]*Value), nil
}

func (self ValueBool) IntoIter() func() (Value, bool) {
	panic("A value of type bool cannot be used as an iterator")
}

func NewValueBool(inner bool) *Value {
	val := Value(ValueBool{Inner: inner})
	return &val
}
