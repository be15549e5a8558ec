package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueKinds(t *testing.T) {
	assert.Equal(t, Null, NullValue().Kind)
	assert.Equal(t, Bool, BoolValue(true).Kind)
	assert.Equal(t, String, StringValue("x").Kind)
	assert.Equal(t, Number, NumberValue(json.Number("1")).Kind)
	assert.Equal(t, Array, ArrayValue(nil).Kind)
	assert.Equal(t, Object, ObjectValue(nil).Kind)
}

func TestIsScalar(t *testing.T) {
	assert.True(t, NullValue().IsScalar())
	assert.True(t, BoolValue(false).IsScalar())
	assert.True(t, StringValue("").IsScalar())
	assert.True(t, NumberValue(json.Number("1")).IsScalar())
	assert.False(t, ArrayValue(nil).IsScalar())
	assert.False(t, ObjectValue(nil).IsScalar())
}

func TestLookupAndKeys(t *testing.T) {
	obj := ObjectValue([]Field{
		{Key: "b", Value: StringValue("two")},
		{Key: "a", Value: StringValue("one")},
	})

	assert.Equal(t, []string{"b", "a"}, obj.Keys())

	v, ok := obj.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "one", v.Str)

	_, ok = obj.Lookup("missing")
	assert.False(t, ok)

	_, ok = StringValue("x").Lookup("a")
	assert.False(t, ok)
	assert.Nil(t, StringValue("x").Keys())
}

func TestAllObjectsAllScalars(t *testing.T) {
	objs := []Value{ObjectValue(nil), ObjectValue(nil)}
	assert.True(t, AllObjects(objs))
	assert.False(t, AllScalars(objs))

	scalars := []Value{StringValue("a"), BoolValue(true), NullValue()}
	assert.True(t, AllScalars(scalars))
	assert.False(t, AllObjects(scalars))

	mixed := []Value{ObjectValue(nil), StringValue("a")}
	assert.False(t, AllObjects(mixed))
	assert.False(t, AllScalars(mixed))

	assert.True(t, AllObjects(nil))
	assert.True(t, AllScalars(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", Object.String())
	assert.Equal(t, "number", Number.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
