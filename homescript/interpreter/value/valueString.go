package value

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

type ValueString struct {
	Inner string
}

func (_ ValueString) Kind() ValueKind { return StringValueKind }

func (self ValueString) Display() (string, *Interrupt) {
	return self.Inner, nil
}

func (self ValueString) IsEqual(other Value) (bool, *Interrupt) {
	if other.Kind() != self.Kind() {
		return false, nil
	}
	return self.Inner == other.(ValueString).Inner, nil
}

func (self ValueString) Fields() (map[string]*Value, *Interrupt) {
	return map[string]*Value{
		"len": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if i := CheckArgs("len", span, args); i != nil {
				return nil, i
			}
			return NewValueInt(int64(len([]rune(self.Inner)))), nil
		}),
		"upper": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if i := CheckArgs("upper", span, args); i != nil {
				return nil, i
			}
			return NewValueString(cases.Upper(language.Und).String(self.Inner)), nil
		}),
		"lower": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if i := CheckArgs("lower", span, args); i != nil {
				return nil, i
			}
			return NewValueString(cases.Lower(language.Und).String(self.Inner)), nil
		}),
		"trim": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if i := CheckArgs("trim", span, args); i != nil {
				return nil, i
			}
			return NewValueString(strings.TrimSpace(self.Inner)), nil
		}),
		"contains": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if i := CheckArgs("contains", span, args, StringValueKind); i != nil {
				return nil, i
			}
			return NewValueBool(strings.Contains(self.Inner, args[0].(ValueString).Inner)), nil
		}),
		"split": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if i := CheckArgs("split", span, args, StringValueKind); i != nil {
				return nil, i
			}

			parts := strings.Split(self.Inner, args[0].(ValueString).Inner)
			values := make([]*Value, 0, len(parts))
			for _, part := range parts {
				values = append(values, NewValueString(part))
			}
			return NewValueList(values), nil
		}),
	}, nil
}

func (self ValueString) IntoIter() func() (Value, bool) {
	runes := []rune(self.Inner)
	idx := 0

	return func() (Value, bool) {
		if idx >= len(runes) {
			return nil, false
		}
		current := *NewValueString(string(runes[idx]))
		idx++
		return current, true
	}
}

func NewValueString(inner string) *Value {
	val := Value(ValueString{Inner: inner})
	return &val
}
