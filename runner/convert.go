package runner

import (
	"fmt"
	"math"
	"reflect"
)

// convertResult converts the untyped result of an executable into `T`.
func convertResult[T any](result any) (T, error) {
	var zero T

	if typed, ok := result.(T); ok {
		return typed, nil
	}

	target := typeOf[T]()
	converted, err := convertValue(result, target)
	if err != nil {
		return zero, err
	}

	// A nil interface yields the zero value of `T`
	typed, _ := converted.Interface().(T)
	return typed, nil
}

func convertValue(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		if isNillable(target) {
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, &ConversionFault{Value: "null", Target: target.String()}
	}

	source := reflect.ValueOf(value)
	if source.Type().AssignableTo(target) {
		return source.Convert(target), nil
	}

	switch {
	case isInt(target.Kind()):
		return convertToInt(source, target)
	case isUint(target.Kind()):
		converted, err := convertToInt(source, reflect.TypeOf(int64(0)))
		if err != nil {
			return reflect.Value{}, &ConversionFault{Value: value, Target: target.String()}
		}
		if converted.Int() < 0 || reflect.Zero(target).OverflowUint(uint64(converted.Int())) {
			return reflect.Value{}, &ConversionFault{Value: value, Target: target.String(), Reason: "value out of range"}
		}
		return reflect.ValueOf(uint64(converted.Int())).Convert(target), nil
	case isFloat(target.Kind()):
		switch {
		case isInt(source.Kind()):
			return reflect.ValueOf(float64(source.Int())).Convert(target), nil
		case isFloat(source.Kind()):
			return reflect.ValueOf(source.Float()).Convert(target), nil
		}
	case target.Kind() == reflect.String && source.Kind() == reflect.String:
		return reflect.ValueOf(source.String()).Convert(target), nil
	case target.Kind() == reflect.Bool && source.Kind() == reflect.Bool:
		return reflect.ValueOf(source.Bool()).Convert(target), nil
	case target.Kind() == reflect.Slice && source.Kind() == reflect.Slice:
		out := reflect.MakeSlice(target, source.Len(), source.Len())
		for idx := 0; idx < source.Len(); idx++ {
			element, err := convertValue(source.Index(idx).Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, &ConversionFault{
					Value:  value,
					Target: target.String(),
					Reason: fmt.Sprintf("element %d: %s", idx, err.Error()),
				}
			}
			out.Index(idx).Set(element)
		}
		return out, nil
	case target.Kind() == reflect.Map && source.Kind() == reflect.Map && source.Type().Key() == target.Key():
		out := reflect.MakeMapWithSize(target, source.Len())
		iter := source.MapRange()
		for iter.Next() {
			element, err := convertValue(iter.Value().Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, &ConversionFault{
					Value:  value,
					Target: target.String(),
					Reason: fmt.Sprintf("key %v: %s", iter.Key(), err.Error()),
				}
			}
			out.SetMapIndex(iter.Key(), element)
		}
		return out, nil
	}

	return reflect.Value{}, &ConversionFault{Value: value, Target: target.String()}
}

func convertToInt(source reflect.Value, target reflect.Type) (reflect.Value, error) {
	var asInt int64

	switch {
	case isInt(source.Kind()):
		asInt = source.Int()
	case isUint(source.Kind()):
		if source.Uint() > math.MaxInt64 {
			return reflect.Value{}, &ConversionFault{Value: source.Interface(), Target: target.String(), Reason: "value out of range"}
		}
		asInt = int64(source.Uint())
	case isFloat(source.Kind()):
		float := source.Float()
		if float != math.Trunc(float) || math.IsInf(float, 0) || math.IsNaN(float) {
			return reflect.Value{}, &ConversionFault{Value: source.Interface(), Target: target.String(), Reason: "value is not integral"}
		}
		if float < math.MinInt64 || float >= math.MaxInt64 {
			return reflect.Value{}, &ConversionFault{Value: source.Interface(), Target: target.String(), Reason: "value out of range"}
		}
		asInt = int64(float)
	default:
		return reflect.Value{}, &ConversionFault{Value: source.Interface(), Target: target.String()}
	}

	if reflect.Zero(target).OverflowInt(asInt) {
		return reflect.Value{}, &ConversionFault{Value: source.Interface(), Target: target.String(), Reason: "value out of range"}
	}

	return reflect.ValueOf(asInt).Convert(target), nil
}

func isNillable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func isInt(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUint(kind reflect.Kind) bool {
	switch kind {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloat(kind reflect.Kind) bool {
	return kind == reflect.Float32 || kind == reflect.Float64
}
