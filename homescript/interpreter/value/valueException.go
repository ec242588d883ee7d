package value

import "fmt"

// Exception types which can be created using `new`.
var ExceptionTypes = []string{
	"Exception",
	"ArgumentException",
	"InvalidOperationException",
}

func IsExceptionType(name string) bool {
	for _, typ := range ExceptionTypes {
		if typ == name {
			return true
		}
	}
	return false
}

type ValueException struct {
	TypeName string
	Message  string
}

func (_ ValueException) Kind() ValueKind { return ExceptionValueKind }

func (self ValueException) Display() (string, *Interrupt) {
	return fmt.Sprintf("%s: %s", self.TypeName, self.Message), nil
}

func (self ValueException) IsEqual(other Value) (bool, *Interrupt) {
	if other.Kind() != self.Kind() {
		return false, nil
	}
	return self == other.(ValueException), nil
}

func (self ValueException) Fields() (map[string]*Value, *Interrupt) {
	return map[string]*Value{
		"message": NewValueString(self.Message),
		"type":    NewValueString(self.TypeName),
	}, nil
}

func (self ValueException) IntoIter() func() (Value, bool) {
	panic("A value of type exception cannot be used as an iterator")
}

func NewValueException(typeName string, message string) *Value {
	val := Value(ValueException{TypeName: typeName, Message: message})
	return &val
}
