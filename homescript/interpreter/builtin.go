package interpreter

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
)

type Builtin struct {
	// -1 if the builtin accepts any number of arguments
	Arity int
	// The Go type of the produced value, nil for null
	Returns  reflect.Type
	Callback value.BuiltinCallback
}

// Builtins are available in every script.
var Builtins = map[string]Builtin{
	"print":   {Arity: -1, Callback: Print},
	"println": {Arity: -1, Callback: Println},
	"dump":    {Arity: 1, Callback: Dump},
	"str":     {Arity: 1, Returns: reflect.TypeOf(""), Callback: Str},
	"int":     {Arity: 1, Returns: reflect.TypeOf(int64(0)), Callback: Int},
	"float":   {Arity: 1, Returns: reflect.TypeOf(float64(0)), Callback: Float},
	"len":     {Arity: 1, Returns: reflect.TypeOf(int64(0)), Callback: Len},
}

func joinDisplay(args []value.Value) (string, *value.Interrupt) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		display, i := arg.Display()
		if i != nil {
			return "", i
		}
		parts = append(parts, display)
	}
	return strings.Join(parts, " "), nil
}

func write(executor value.Executor, span errors.Span, output string) (*value.Value, *value.Interrupt) {
	if err := executor.WriteStringTo(output); err != nil {
		return nil, value.NewHostErr(err, span)
	}
	return value.NewValueNull(), nil
}

func Print(executor value.Executor, ctx context.Context, span errors.Span, args ...value.Value) (*value.Value, *value.Interrupt) {
	output, i := joinDisplay(args)
	if i != nil {
		return nil, i
	}
	return write(executor, span, output)
}

func Println(executor value.Executor, ctx context.Context, span errors.Span, args ...value.Value) (*value.Value, *value.Interrupt) {
	output, i := joinDisplay(args)
	if i != nil {
		return nil, i
	}
	return write(executor, span, output+"\n")
}

// Dump prints a value using the formatter of the host.
func Dump(executor value.Executor, ctx context.Context, span errors.Span, args ...value.Value) (*value.Value, *value.Interrupt) {
	if len(args) != 1 {
		return nil, value.CheckArgs("dump", span, args, value.NullValueKind)
	}

	converted, err := value.ToGo(args[0])
	if err != nil {
		display, i := args[0].Display()
		if i != nil {
			return nil, i
		}
		return write(executor, span, display+"\n")
	}

	return write(executor, span, executor.Formatter().FormatValue(converted)+"\n")
}

func Str(executor value.Executor, ctx context.Context, span errors.Span, args ...value.Value) (*value.Value, *value.Interrupt) {
	if len(args) != 1 {
		return nil, value.CheckArgs("str", span, args, value.NullValueKind)
	}

	display, i := args[0].Display()
	if i != nil {
		return nil, i
	}
	return value.NewValueString(display), nil
}

func Int(executor value.Executor, ctx context.Context, span errors.Span, args ...value.Value) (*value.Value, *value.Interrupt) {
	if len(args) != 1 {
		return nil, value.CheckArgs("int", span, args, value.NullValueKind)
	}

	switch arg := args[0].(type) {
	case value.ValueInt:
		return value.NewValueInt(arg.Inner), nil
	case value.ValueFloat:
		truncated := math.Trunc(arg.Inner)
		if math.IsNaN(truncated) || truncated < math.MinInt64 || truncated >= math.MaxInt64 {
			return nil, castErr(args[0], "int", span)
		}
		return value.NewValueInt(int64(truncated)), nil
	case value.ValueBool:
		if arg.Inner {
			return value.NewValueInt(1), nil
		}
		return value.NewValueInt(0), nil
	case value.ValueString:
		parsed, err := strconv.ParseInt(strings.TrimSpace(arg.Inner), 10, 64)
		if err != nil {
			return nil, castErr(args[0], "int", span)
		}
		return value.NewValueInt(parsed), nil
	default:
		return nil, castErr(args[0], "int", span)
	}
}

func Float(executor value.Executor, ctx context.Context, span errors.Span, args ...value.Value) (*value.Value, *value.Interrupt) {
	if len(args) != 1 {
		return nil, value.CheckArgs("float", span, args, value.NullValueKind)
	}

	switch arg := args[0].(type) {
	case value.ValueInt:
		return value.NewValueFloat(float64(arg.Inner)), nil
	case value.ValueFloat:
		return value.NewValueFloat(arg.Inner), nil
	case value.ValueString:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(arg.Inner), 64)
		if err != nil {
			return nil, castErr(args[0], "float", span)
		}
		return value.NewValueFloat(parsed), nil
	default:
		return nil, castErr(args[0], "float", span)
	}
}

func Len(executor value.Executor, ctx context.Context, span errors.Span, args ...value.Value) (*value.Value, *value.Interrupt) {
	if len(args) != 1 {
		return nil, value.CheckArgs("len", span, args, value.NullValueKind)
	}

	switch arg := args[0].(type) {
	case value.ValueList:
		return value.NewValueInt(int64(len(*arg.Values))), nil
	case value.ValueString:
		return value.NewValueInt(int64(len([]rune(arg.Inner)))), nil
	default:
		return nil, value.NewRuntimeErr(
			fmt.Sprintf("A value of type %s has no length", args[0].Kind()),
			value.ValueErrorKind,
			span,
		)
	}
}

func castErr(val value.Value, target string, span errors.Span) *value.Interrupt {
	display, i := val.Display()
	if i != nil {
		return i
	}

	return value.NewRuntimeErr(
		fmt.Sprintf("Cannot cast %s '%s' to %s", val.Kind(), display, target),
		value.CastErrorKind,
		span,
	)
}
