package value

type ValueKind uint8

const (
	NullValueKind ValueKind = iota
	IntValueKind
	FloatValueKind
	BoolValueKind
	StringValueKind
	ListValueKind
	ExceptionValueKind
	FunctionValueKind
	BuiltinFunctionValueKind
)

func (self ValueKind) String() string {
	switch self {
	case NullValueKind:
		return "null"
	case IntValueKind:
		return "int"
	case FloatValueKind:
		return "float"
	case BoolValueKind:
		return "bool"
	case StringValueKind:
		return "string"
	case ListValueKind:
		return "list"
	case ExceptionValueKind:
		return "exception"
	case FunctionValueKind:
		return "function"
	case BuiltinFunctionValueKind:
		return "builtin-function"
	default:
		panic("A new ValueKind was introduced without updating this code")
	}
}

type Value interface {
	Kind() ValueKind
	Display() (string, *Interrupt)
	IsEqual(other Value) (bool, *Interrupt)
	Fields() (map[string]*Value, *Interrupt)
	// Only lists and strings can be iterated, the caller is expected to check the kind first
	IntoIter() func() (Value, bool)
}

// IsTruthy reports whether `value` counts as `true` in a condition.
func IsTruthy(value Value) bool {
	switch value.Kind() {
	case NullValueKind:
		return false
	case BoolValueKind:
		return value.(ValueBool).Inner
	case IntValueKind:
		return value.(ValueInt).Inner != 0
	case FloatValueKind:
		return value.(ValueFloat).Inner != 0
	case StringValueKind:
		return value.(ValueString).Inner != ""
	case ListValueKind:
		return len(*value.(ValueList).Values) > 0
	default:
		return true
	}
}
