// Package protocol supplies the structured-data contract spec.md §4.H and
// §6 assume a collaborator provides: a tagged variant (Integer, String,
// Array, Object) plus a parser/serializer pair backed by encoding/json.
// It also holds the request/report schema constants the MCU firmware and
// this client must agree on (§4.G).
package protocol

import "fmt"

// Kind tags which alternative a Value holds.
type Kind int

const (
	KindInteger Kind = iota
	KindString
	KindArray
	KindObject
)

// Value is the tagged variant spec.md §3 describes: an Integer, a String,
// an ordered Array, or an ordered Object (name → Value). Only the field
// matching Kind is meaningful; the others are left at their zero value.
type Value struct {
	kind Kind

	integer int64
	str     string
	array   []Value
	object  *Object
}

// Object is an ordered mapping of name to Value. Insertion order is
// preserved on both Set and decode so logs and wire output read the same
// way the caller built them, even though spec.md §4.G says key order is
// not significant to a conforming reader.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty Object ready for Set calls.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set inserts or overwrites key, preserving its original position on
// overwrite and appending it on first insert.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get reports the value stored at key, if any.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Clone deep-copies the object so two holders never observe each other's
// mutations, per spec.md §9's "deep-duplicable stateless strategy" rule
// for codec objects and the proxies that hold them.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]Value, len(o.values)),
	}
	for k, v := range o.values {
		out.values[k] = v.Clone()
	}
	return out
}

// Integer returns an Integer-kind Value.
func Integer(i int64) Value { return Value{kind: KindInteger, integer: i} }

// String returns a String-kind Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns an Array-kind Value over elems.
func Array(elems ...Value) Value { return Value{kind: KindArray, array: elems} }

// ObjectValue wraps obj as an Object-kind Value.
func ObjectValue(obj *Object) Value { return Value{kind: KindObject, object: obj} }

func (v Value) Kind() Kind { return v.kind }

// AsInteger returns the held integer; ok is false if Kind() != KindInteger.
func (v Value) AsInteger() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.integer, true
}

// AsString returns the held string; ok is false if Kind() != KindString.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsArray returns the held element slice; ok is false if Kind() != KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.array, true
}

// AsObject returns the held Object; ok is false if Kind() != KindObject.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.object, true
}

// Clone deep-copies v, recursing into Array elements and Object fields.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		elems := make([]Value, len(v.array))
		for i, e := range v.array {
			elems[i] = e.Clone()
		}
		return Value{kind: KindArray, array: elems}
	case KindObject:
		return Value{kind: KindObject, object: v.object.Clone()}
	default:
		return v
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.integer)
	case KindString:
		return v.str
	case KindArray:
		return fmt.Sprintf("Array(len=%d)", len(v.array))
	case KindObject:
		return fmt.Sprintf("Object(keys=%v)", v.object.Keys())
	default:
		return "<invalid>"
	}
}
