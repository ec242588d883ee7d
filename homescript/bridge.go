package homescript

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/smarthome-go/hmsrun/homescript/errors"
	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/host"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// hostMethod describes an exported method of a host type which is callable from scripts.
type hostMethod struct {
	Name string
	// Whether the first parameter receives the context of the run
	TakesContext bool
	// Script-visible parameters
	Params   []reflect.Type
	Variadic bool
	// nil if the method produces no value
	Returns      reflect.Type
	ReturnsError bool
}

// Arity is the number of arguments a script has to pass, -1 if variadic.
func (self hostMethod) Arity() int {
	if self.Variadic {
		return -1
	}
	return len(self.Params)
}

// hostMethods collects the bridgeable methods of `hostType`.
// Methods of the host contract and methods with more than one non-error result are skipped.
func hostMethods(hostType reflect.Type) (methods []hostMethod, skipped []string) {
	methods = make([]hostMethod, 0)
	skipped = make([]string, 0)

	if hostType == nil {
		return methods, skipped
	}

	// Interface method types do not include a receiver
	offset := 1
	if hostType.Kind() == reflect.Interface {
		offset = 0
	}

	for idx := 0; idx < hostType.NumMethod(); idx++ {
		method := hostType.Method(idx)
		if host.IsReserved(method.Name) {
			continue
		}

		signature, ok := describeMethod(method.Name, method.Type, offset)
		if !ok {
			skipped = append(skipped, method.Name)
			continue
		}
		methods = append(methods, signature)
	}

	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return methods, skipped
}

func describeMethod(name string, typ reflect.Type, offset int) (hostMethod, bool) {
	method := hostMethod{
		Name:     name,
		Params:   make([]reflect.Type, 0),
		Variadic: typ.IsVariadic(),
	}

	for idx := offset; idx < typ.NumIn(); idx++ {
		param := typ.In(idx)
		if idx == offset && param == contextType {
			method.TakesContext = true
			continue
		}
		method.Params = append(method.Params, param)
	}

	results := typ.NumOut()
	if results > 0 && typ.Out(results-1) == errorType {
		method.ReturnsError = true
		results--
	}

	switch results {
	case 0:
	case 1:
		method.Returns = typ.Out(0)
	default:
		return hostMethod{}, false
	}

	return method, true
}

// bind creates the builtin function which dispatches script calls to `receiver`.
func (self hostMethod) bind(receiver reflect.Value) value.BuiltinCallback {
	method := receiver.MethodByName(self.Name)

	return func(executor value.Executor, ctx context.Context, span errors.Span, args ...value.Value) (*value.Value, *value.Interrupt) {
		if !method.IsValid() {
			return nil, value.NewRuntimeErr(
				fmt.Sprintf("The host does not provide a method named '%s'", self.Name),
				value.HostErrorKind,
				span,
			)
		}

		if (self.Variadic && len(args) < len(self.Params)-1) || (!self.Variadic && len(args) != len(self.Params)) {
			return nil, value.NewRuntimeErr(
				fmt.Sprintf("Function '%s' takes %d argument(s), but %d were given", self.Name, len(self.Params), len(args)),
				value.ValueErrorKind,
				span,
			)
		}

		in := make([]reflect.Value, 0, len(args)+1)
		if self.TakesContext {
			in = append(in, reflect.ValueOf(&ctx).Elem())
		}

		for idx, arg := range args {
			target := self.paramType(idx)
			converted, err := value.ToGoType(arg, target)
			if err != nil {
				return nil, value.NewRuntimeErr(
					fmt.Sprintf("Argument %d of '%s': %s", idx+1, self.Name, err.Error()),
					value.CastErrorKind,
					span,
				)
			}
			in = append(in, converted)
		}

		// Panics raised by the host are not caught here
		out := method.Call(in)

		if self.ReturnsError {
			if err, _ := out[len(out)-1].Interface().(error); err != nil {
				return nil, value.NewHostErr(err, span)
			}
		}

		if self.Returns == nil {
			return value.NewValueNull(), nil
		}

		result, err := value.FromGo(out[0].Interface())
		if err != nil {
			return nil, value.NewRuntimeErr(
				fmt.Sprintf("Result of '%s': %s", self.Name, err.Error()),
				value.CastErrorKind,
				span,
			)
		}
		return result, nil
	}
}

func (self hostMethod) paramType(idx int) reflect.Type {
	last := len(self.Params) - 1
	if self.Variadic && idx >= last {
		return self.Params[last].Elem()
	}
	return self.Params[idx]
}
