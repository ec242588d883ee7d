package value

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

func list(values ...Value) Value {
	pointers := make([]*Value, 0, len(values))
	for idx := range values {
		pointers = append(pointers, &values[idx])
	}
	return *NewValueList(pointers)
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		Value    Value
		Expected string
	}{
		{Value: ValueNull{}, Expected: "null"},
		{Value: ValueInt{Inner: -3}, Expected: "-3"},
		{Value: ValueFloat{Inner: 2}, Expected: "2.0"},
		{Value: ValueFloat{Inner: 0.25}, Expected: "0.25"},
		{Value: ValueBool{Inner: true}, Expected: "true"},
		{Value: ValueString{Inner: "abc"}, Expected: "abc"},
		{Value: list(ValueInt{Inner: 1}, ValueString{Inner: "a"}), Expected: `[1, "a"]`},
		{Value: ValueException{TypeName: "Exception", Message: "boom"}, Expected: "Exception: boom"},
	}

	for _, test := range tests {
		t.Run(test.Expected, func(t *testing.T) {
			display, i := test.Value.Display()
			require.Nil(t, i)
			assert.Equal(t, test.Expected, display)
		})
	}
}

func TestIsEqual(t *testing.T) {
	equal, _ := ValueInt{Inner: 2}.IsEqual(ValueFloat{Inner: 2})
	assert.True(t, equal)

	equal, _ = list(ValueInt{Inner: 1}).IsEqual(list(ValueInt{Inner: 1}))
	assert.True(t, equal)

	equal, _ = list(ValueInt{Inner: 1}).IsEqual(ValueInt{Inner: 1})
	assert.False(t, equal)

	equal, _ = ValueNull{}.IsEqual(ValueNull{})
	assert.True(t, equal)
}

func TestIsTruthy(t *testing.T) {
	assert.False(t, IsTruthy(ValueNull{}))
	assert.False(t, IsTruthy(ValueInt{}))
	assert.False(t, IsTruthy(ValueString{}))
	assert.False(t, IsTruthy(list()))
	assert.True(t, IsTruthy(ValueBool{Inner: true}))
	assert.True(t, IsTruthy(ValueException{}))
}

func TestListFields(t *testing.T) {
	values := list(ValueInt{Inner: 1})
	fields, i := values.Fields()
	require.Nil(t, i)

	push := (*fields["push"]).(ValueBuiltinFunction)
	_, i = push.Callback(nil, context.Background(), errors.Span{}, ValueInt{Inner: 2})
	require.Nil(t, i)

	length := (*fields["len"]).(ValueBuiltinFunction)
	result, i := length.Callback(nil, context.Background(), errors.Span{})
	require.Nil(t, i)
	assert.Equal(t, ValueInt{Inner: 2}, *result)

	_, i = length.Callback(nil, context.Background(), errors.Span{}, ValueInt{})
	require.NotNil(t, i)
	assert.Equal(t, ValueErrorKind, (*i).(RuntimeErr).ErrKind)
}

func TestStringFields(t *testing.T) {
	fields, _ := ValueString{Inner: "Hello World"}.Fields()

	upper := (*fields["upper"]).(ValueBuiltinFunction)
	result, i := upper.Callback(nil, context.Background(), errors.Span{})
	require.Nil(t, i)
	assert.Equal(t, ValueString{Inner: "HELLO WORLD"}, *result)

	split := (*fields["split"]).(ValueBuiltinFunction)
	result, i = split.Callback(nil, context.Background(), errors.Span{}, ValueString{Inner: " "})
	require.Nil(t, i)

	converted, err := ToGo(*result)
	require.NoError(t, err)
	assert.Equal(t, []any{"Hello", "World"}, converted)
}

func TestIterators(t *testing.T) {
	collect := func(next func() (Value, bool)) []Value {
		out := make([]Value, 0)
		for {
			current, ok := next()
			if !ok {
				return out
			}
			out = append(out, current)
		}
	}

	assert.Equal(t, []Value{ValueString{Inner: "ä"}, ValueString{Inner: "b"}}, collect(ValueString{Inner: "äb"}.IntoIter()))
	assert.Len(t, collect(list(ValueNull{}, ValueNull{}).IntoIter()), 2)
}

func TestToGo(t *testing.T) {
	converted, err := ToGo(list(ValueInt{Inner: 1}, ValueFloat{Inner: 1.5}, ValueNull{}, list()))
	require.NoError(t, err)

	if diff := cmp.Diff([]any{int64(1), 1.5, nil, []any{}}, converted); diff != "" {
		t.Errorf("converted value mismatch (-want +got):\n%s", diff)
	}

	_, err = ToGo(ValueFunction{Ident: "foo"})
	assert.Error(t, err)
}

func TestToGoType(t *testing.T) {
	converted, err := ToGoType(ValueInt{Inner: 42}, reflect.TypeOf(uint8(0)))
	require.NoError(t, err)
	assert.Equal(t, uint8(42), converted.Interface())

	_, err = ToGoType(ValueInt{Inner: 300}, reflect.TypeOf(uint8(0)))
	assert.Error(t, err)

	converted, err = ToGoType(ValueFloat{Inner: 3}, reflect.TypeOf(0))
	require.NoError(t, err)
	assert.Equal(t, 3, converted.Interface())

	converted, err = ToGoType(list(ValueString{Inner: "a"}), reflect.TypeOf([]string{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, converted.Interface())

	converted, err = ToGoType(ValueBool{Inner: true}, reflect.TypeOf((*any)(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, true, converted.Interface())

	_, err = ToGoType(ValueString{Inner: "1"}, reflect.TypeOf(0))
	assert.Error(t, err)
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		Input    any
		Expected Value
	}{
		{Input: nil, Expected: ValueNull{}},
		{Input: 7, Expected: ValueInt{Inner: 7}},
		{Input: uint16(7), Expected: ValueInt{Inner: 7}},
		{Input: float32(0.5), Expected: ValueFloat{Inner: 0.5}},
		{Input: "x", Expected: ValueString{Inner: "x"}},
		{Input: []string(nil), Expected: ValueNull{}},
	}

	for _, test := range tests {
		converted, err := FromGo(test.Input)
		require.NoError(t, err)
		assert.Equal(t, test.Expected, *converted)
	}

	converted, err := FromGo([]int{1, 2})
	require.NoError(t, err)
	equal, _ := (*converted).IsEqual(list(ValueInt{Inner: 1}, ValueInt{Inner: 2}))
	assert.True(t, equal)

	_, err = FromGo(map[string]int{})
	assert.Error(t, err)
}
