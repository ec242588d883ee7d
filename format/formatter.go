package format

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Formatter renders values and faults as human-readable text.
// The same formatter is used for script results and for thrown faults so
// that both render identically.
type Formatter interface {
	FormatValue(value any) string
	FormatFault(fault error) string
}

// Faults may implement these to provide a better rendering.
type kindedFault interface {
	FaultKind() string
}

type tracedFault interface {
	Stacktrace() []string
}

// ObjectFormatter is the default formatter.
type ObjectFormatter struct {
	dumper *spew.ConfigState
}

// Instance is the process-wide formatter singleton.
var Instance Formatter = NewObjectFormatter()

func NewObjectFormatter() ObjectFormatter {
	return ObjectFormatter{
		// nolint:exhaustruct
		dumper: &spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

//
// Values
//

func (self ObjectFormatter) FormatValue(value any) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case error:
		return self.faultHeader(v)
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "null"
		}
		items := make([]string, 0, rv.Len())
		for idx := 0; idx < rv.Len(); idx++ {
			items = append(items, self.FormatValue(rv.Index(idx).Interface()))
		}
		return fmt.Sprintf("[%s]", strings.Join(items, ", "))
	case reflect.Map:
		if rv.IsNil() {
			return "null"
		}
		return self.formatMap(rv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "null"
		}
	}

	return self.dumper.Sprintf("%+v", value)
}

func (self ObjectFormatter) formatMap(rv reflect.Value) string {
	entries := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, fmt.Sprintf(
			"%s: %s",
			self.FormatValue(iter.Key().Interface()),
			self.FormatValue(iter.Value().Interface()),
		))
	}
	sort.Strings(entries)
	return fmt.Sprintf("{%s}", strings.Join(entries, ", "))
}

func formatFloat(value float64) string {
	out := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.ContainsAny(out, ".eEnN") {
		out += ".0"
	}
	return out
}

//
// Faults
//

func (self ObjectFormatter) FormatFault(fault error) string {
	if fault == nil {
		return "null"
	}

	var out strings.Builder
	out.WriteString(self.faultHeader(fault))
	self.writeTrace(&out, fault)

	for cause := errors.Unwrap(fault); cause != nil; cause = errors.Unwrap(cause) {
		out.WriteString("\n ---> ")
		out.WriteString(self.faultHeader(cause))
		self.writeTrace(&out, cause)
	}

	return out.String()
}

func (self ObjectFormatter) faultHeader(fault error) string {
	return fmt.Sprintf("%s: %s", FaultKind(fault), faultMessage(fault))
}

func (self ObjectFormatter) writeTrace(out *strings.Builder, fault error) {
	traced, ok := fault.(tracedFault)
	if !ok {
		return
	}
	for _, line := range traced.Stacktrace() {
		out.WriteString("\n   at ")
		out.WriteString(line)
	}
}

// FaultKind returns the name under which a fault is reported.
func FaultKind(fault error) string {
	if kinded, ok := fault.(kindedFault); ok {
		return kinded.FaultKind()
	}

	typ := reflect.TypeOf(fault)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	name := typ.Name()
	if name == "" || strings.ToUpper(name[:1]) != name[:1] {
		return "Error"
	}
	return name
}

// The header already carries the kind, so a message starting with it is trimmed.
func faultMessage(fault error) string {
	message := fault.Error()
	return strings.TrimPrefix(message, FaultKind(fault)+": ")
}
