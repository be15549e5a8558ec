package models

import "encoding/json"

// Kind identifies which variant of a Value is active.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the tagged union the whole converter walks. Exactly one variant
// field is meaningful, selected by Kind. Objects are stored as an ordered
// field list so key insertion order survives from the JSON source.
type Value struct {
	Kind   Kind
	Bool   bool
	Number json.Number
	Str    string
	Items  []Value
	Fields []Field
}

// Field is one key/value pair of an object. Keys are unique within a Fields
// slice; the parser enforces this.
type Field struct {
	Key   string
	Value Value
}

func NullValue() Value            { return Value{Kind: Null} }
func BoolValue(b bool) Value      { return Value{Kind: Bool, Bool: b} }
func StringValue(s string) Value  { return Value{Kind: String, Str: s} }
func ArrayValue(v []Value) Value  { return Value{Kind: Array, Items: v} }
func ObjectValue(f []Field) Value { return Value{Kind: Object, Fields: f} }

// NumberValue wraps a json.Number without re-parsing it.
func NumberValue(n json.Number) Value { return Value{Kind: Number, Number: n} }

// IsScalar reports whether the value is a leaf (null, bool, number or string).
func (v Value) IsScalar() bool {
	return v.Kind != Array && v.Kind != Object
}

// IsArray reports whether the value is an array.
func (v Value) IsArray() bool { return v.Kind == Array }

// IsObject reports whether the value is an object.
func (v Value) IsObject() bool { return v.Kind == Object }

// Lookup returns the value for key and whether it was present.
func (v Value) Lookup(key string) (Value, bool) {
	if v.Kind != Object {
		return Value{}, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Keys returns the object's keys in insertion order.
func (v Value) Keys() []string {
	if v.Kind != Object {
		return nil
	}
	keys := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		keys[i] = f.Key
	}
	return keys
}

// AllObjects reports whether every element of items is an object.
func AllObjects(items []Value) bool {
	for _, it := range items {
		if it.Kind != Object {
			return false
		}
	}
	return true
}

// AllScalars reports whether no element of items is an object or array.
func AllScalars(items []Value) bool {
	for _, it := range items {
		if !it.IsScalar() {
			return false
		}
	}
	return true
}
