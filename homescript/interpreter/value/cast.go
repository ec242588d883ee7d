package value

import (
	"fmt"
	"math"
	"reflect"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

//
// Argument checks
//

// CheckArgs validates the number and kinds of arguments passed to a builtin.
func CheckArgs(name string, span errors.Span, args []Value, kinds ...ValueKind) *Interrupt {
	if len(args) != len(kinds) {
		return arityErr(name, span, len(kinds), len(args))
	}

	for idx, kind := range kinds {
		if args[idx].Kind() != kind {
			return NewRuntimeErr(
				fmt.Sprintf("Argument %d of '%s' must be of type %s, found %s", idx+1, name, kind, args[idx].Kind()),
				ValueErrorKind,
				span,
			)
		}
	}

	return nil
}

func arityErr(name string, span errors.Span, expected int, found int) *Interrupt {
	return NewRuntimeErr(
		fmt.Sprintf("Function '%s' takes %d argument(s), but %d were given", name, expected, found),
		ValueErrorKind,
		span,
	)
}

//
// Conversion into Go values
//

// ToGo converts a script value into its natural Go representation.
func ToGo(val Value) (any, error) {
	switch val.Kind() {
	case NullValueKind:
		return nil, nil
	case IntValueKind:
		return val.(ValueInt).Inner, nil
	case FloatValueKind:
		return val.(ValueFloat).Inner, nil
	case BoolValueKind:
		return val.(ValueBool).Inner, nil
	case StringValueKind:
		return val.(ValueString).Inner, nil
	case ListValueKind:
		values := *val.(ValueList).Values
		out := make([]any, 0, len(values))
		for _, element := range values {
			converted, err := ToGo(*element)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	case ExceptionValueKind:
		exception := val.(ValueException)
		return map[string]any{
			"type":    exception.TypeName,
			"message": exception.Message,
		}, nil
	default:
		return nil, fmt.Errorf("a value of type %s cannot be converted into a host value", val.Kind())
	}
}

// ToGoType converts a script value into a value of the Go type `target`.
func ToGoType(val Value, target reflect.Type) (reflect.Value, error) {
	if target.Kind() == reflect.Interface {
		converted, err := ToGo(val)
		if err != nil {
			return reflect.Value{}, err
		}
		if converted == nil {
			return reflect.Zero(target), nil
		}
		if !reflect.TypeOf(converted).AssignableTo(target) {
			return reflect.Value{}, castErr(val, target)
		}
		return reflect.ValueOf(converted), nil
	}

	switch val.Kind() {
	case NullValueKind:
		switch target.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map:
			return reflect.Zero(target), nil
		}
	case IntValueKind:
		inner := val.(ValueInt).Inner
		switch target.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if reflect.Zero(target).OverflowInt(inner) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", inner, target)
			}
			return reflect.ValueOf(inner).Convert(target), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if inner < 0 || reflect.Zero(target).OverflowUint(uint64(inner)) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", inner, target)
			}
			return reflect.ValueOf(uint64(inner)).Convert(target), nil
		case reflect.Float32, reflect.Float64:
			return reflect.ValueOf(float64(inner)).Convert(target), nil
		}
	case FloatValueKind:
		inner := val.(ValueFloat).Inner
		switch target.Kind() {
		case reflect.Float32, reflect.Float64:
			return reflect.ValueOf(inner).Convert(target), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if inner != math.Trunc(inner) || inner < math.MinInt64 || inner >= math.MaxInt64 {
				return reflect.Value{}, castErr(val, target)
			}
			return ToGoType(ValueInt{Inner: int64(inner)}, target)
		}
	case BoolValueKind:
		if target.Kind() == reflect.Bool {
			return reflect.ValueOf(val.(ValueBool).Inner).Convert(target), nil
		}
	case StringValueKind:
		if target.Kind() == reflect.String {
			return reflect.ValueOf(val.(ValueString).Inner).Convert(target), nil
		}
	case ListValueKind:
		if target.Kind() == reflect.Slice {
			values := *val.(ValueList).Values
			out := reflect.MakeSlice(target, len(values), len(values))
			for idx, element := range values {
				converted, err := ToGoType(*element, target.Elem())
				if err != nil {
					return reflect.Value{}, err
				}
				out.Index(idx).Set(converted)
			}
			return out, nil
		}
	}

	return reflect.Value{}, castErr(val, target)
}

func castErr(val Value, target reflect.Type) error {
	return fmt.Errorf("a value of type %s cannot be converted into %s", val.Kind(), target)
}

//
// Conversion from Go values
//

// FromGo converts a Go value returned by the host into a script value.
func FromGo(input any) (*Value, error) {
	if input == nil {
		return NewValueNull(), nil
	}

	if val, ok := input.(Value); ok {
		return &val, nil
	}

	reflected := reflect.ValueOf(input)

	switch reflected.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewValueInt(reflected.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if reflected.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("%d does not fit into an int", reflected.Uint())
		}
		return NewValueInt(int64(reflected.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return NewValueFloat(reflected.Float()), nil
	case reflect.Bool:
		return NewValueBool(reflected.Bool()), nil
	case reflect.String:
		return NewValueString(reflected.String()), nil
	case reflect.Slice, reflect.Array:
		if reflected.Kind() == reflect.Slice && reflected.IsNil() {
			return NewValueNull(), nil
		}

		values := make([]*Value, 0, reflected.Len())
		for idx := 0; idx < reflected.Len(); idx++ {
			element, err := FromGo(reflected.Index(idx).Interface())
			if err != nil {
				return nil, err
			}
			values = append(values, element)
		}
		return NewValueList(values), nil
	case reflect.Pointer, reflect.Interface:
		if reflected.IsNil() {
			return NewValueNull(), nil
		}
		return FromGo(reflected.Elem().Interface())
	default:
		return nil, fmt.Errorf("a host value of type %T cannot be used in a script", input)
	}
}
