package value

type ValueNull struct{}

func (_ ValueNull) Kind() ValueKind                         { return NullValueKind }
func (_ ValueNull) Display() (string, *Interrupt)           { return "null", nil }
func (_ ValueNull) IsEqual(other Value) (bool, *Interrupt)  { return other.Kind() == NullValueKind, nil }
func (_ ValueNull) Fields() (map[string]*Value, *Interrupt) { return make(map[string]*Value), nil }

func (self ValueNull) IntoIter() func() (Value, bool) {
	panic("A value of type null cannot be used as an iterator")
}

func NewValueNull() *Value {
	val := Value(ValueNull{})
	return &val
}
