package value

import (
	"context"
	"fmt"
	"strings"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

type ValueList struct {
	// both the slice and its contents are pointers so that interior mutability can be leveraged
	Values *[]*Value
}

func (_ ValueList) Kind() ValueKind { return ListValueKind }

func (self ValueList) Display() (string, *Interrupt) {
	values := make([]string, 0, len(*self.Values))
	for _, val := range *self.Values {
		disp, i := displayNested(*val)
		if i != nil {
			return "", i
		}
		values = append(values, disp)
	}
	return fmt.Sprintf("[%s]", strings.Join(values, ", ")), nil
}

// Strings inside of lists are displayed quoted.
func displayNested(val Value) (string, *Interrupt) {
	if str, ok := val.(ValueString); ok {
		return fmt.Sprintf("%q", str.Inner), nil
	}
	return val.Display()
}

func (self ValueList) IsEqual(other Value) (bool, *Interrupt) {
	if other.Kind() != self.Kind() {
		return false, nil
	}

	otherList := other.(ValueList)
	if len(*otherList.Values) != len(*self.Values) {
		return false, nil
	}

	for idx := 0; idx < len(*self.Values); idx++ {
		this := *(*self.Values)[idx]
		other := *(*otherList.Values)[idx]

		equal, i := this.IsEqual(other)
		if i != nil || !equal {
			return equal, i
		}
	}

	return true, nil
}

func (self ValueList) Fields() (map[string]*Value, *Interrupt) {
	return map[string]*Value{
		"len": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if i := CheckArgs("len", span, args); i != nil {
				return nil, i
			}
			return NewValueInt(int64(len(*self.Values))), nil
		}),
		"contains": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if len(args) != 1 {
				return nil, arityErr("contains", span, 1, len(args))
			}

			for _, item := range *self.Values {
				equal, i := args[0].IsEqual(*item)
				if i != nil {
					return nil, i
				}

				if equal {
					return NewValueBool(true), nil
				}
			}

			return NewValueBool(false), nil
		}),
		"join": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if i := CheckArgs("join", span, args, StringValueKind); i != nil {
				return nil, i
			}

			separator := args[0].(ValueString).Inner
			parts := make([]string, 0, len(*self.Values))
			for _, value := range *self.Values {
				display, i := (*value).Display()
				if i != nil {
					return nil, i
				}
				parts = append(parts, display)
			}
			return NewValueString(strings.Join(parts, separator)), nil
		}),
		"push": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if len(args) != 1 {
				return nil, arityErr("push", span, 1, len(args))
			}
			pushed := args[0]
			*self.Values = append(*self.Values, &pushed)
			return NewValueNull(), nil
		}),
		"pop": NewValueBuiltinFunction(func(executor Executor, ctx context.Context, span errors.Span, args ...Value) (*Value, *Interrupt) {
			if i := CheckArgs("pop", span, args); i != nil {
				return nil, i
			}

			length := len(*self.Values)
			if length == 0 {
				return NewValueNull(), nil
			}

			var last Value
			last, *self.Values = *(*self.Values)[length-1], (*self.Values)[:length-1]
			return &last, nil
		}),
	}, nil
}

// Iterates over a snapshot of the list, so that the loop body may modify it.
func (self ValueList) IntoIter() func() (Value, bool) {
	snapshot := make([]*Value, len(*self.Values))
	copy(snapshot, *self.Values)
	idx := 0

	return func() (Value, bool) {
		if idx >= len(snapshot) {
			return nil, false
		}
		current := *snapshot[idx]
		idx++
		return current, true
	}
}

func NewValueList(values []*Value) *Value {
	val := Value(ValueList{Values: &values})
	return &val
}
