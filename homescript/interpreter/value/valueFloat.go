package value

import (
	"math"
	"strconv"
)

type ValueFloat struct {
	Inner float64
}

func (_ ValueFloat) Kind() ValueKind { return FloatValueKind }

func (self ValueFloat) Display() (string, *Interrupt) {
	if self.Inner == math.Trunc(self.Inner) && !math.IsInf(self.Inner, 0) {
		return strconv.FormatFloat(self.Inner, 'f', 1, 64), nil
	}
	return strconv.FormatFloat(self.Inner, 'g', -1, 64), nil
}

func (self ValueFloat) IsEqual(other Value) (bool, *Interrupt) {
	switch other.Kind() {
	case FloatValueKind:
		return self.Inner == other.(ValueFloat).Inner, nil
	case IntValueKind:
		return self.Inner == float64(other.(ValueInt).Inner), nil
	default:
		return false, nil
	}
}

func (self ValueFloat) Fields() (map[string]*Value, *Interrupt) {
	return make(map[string]*Value), nil
}

func (self ValueFloat) IntoIter() func() (Value, bool) {
	panic("A value of type float cannot be used as an iterator")
}

func NewValueFloat(inner float64) *Value {
	val := Value(ValueFloat{Inner: inner})
	return &val
}
