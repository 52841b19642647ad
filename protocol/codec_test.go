package protocol

import "testing"

func TestJSONCodecRoundTripObject(t *testing.T) {
	obj := NewObject()
	obj.Set("result", Integer(0))
	obj.Set("gpio_state", Integer(1))
	obj.Set("what", String("ok"))

	var codec JSONCodec
	wire, err := codec.Serialize(ObjectValue(obj))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	v, err := codec.Parse(wire)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	decoded, ok := v.AsObject()
	if !ok {
		t.Fatalf("expected object, got kind %v", v.Kind())
	}
	result, ok := decoded.Get("result")
	if !ok {
		t.Fatal("missing result field")
	}
	if i, _ := result.AsInteger(); i != 0 {
		t.Fatalf("result = %d, want 0", i)
	}
}

func TestJSONCodecPreservesKeyOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("b", Integer(2))
	obj.Set("a", Integer(1))

	var codec JSONCodec
	wire, err := codec.Serialize(ObjectValue(obj))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	v, err := codec.Parse(wire)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	decoded, _ := v.AsObject()
	keys := decoded.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("got keys %v, want [b a]", keys)
	}
}

func TestJSONCodecArrayOfObjects(t *testing.T) {
	inner := NewObject()
	inner.Set("ctor_id", Integer(TaskSetGPIO))
	arr := Array(ObjectValue(inner), Integer(5))

	var codec JSONCodec
	wire, err := codec.Serialize(arr)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	v, err := codec.Parse(wire)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	elems, ok := v.AsArray()
	if !ok || len(elems) != 2 {
		t.Fatalf("got %v, want 2-element array", v)
	}
}

func TestObjectCloneIsIndependent(t *testing.T) {
	obj := NewObject()
	obj.Set("x", Integer(1))
	clone := obj.Clone()
	clone.Set("x", Integer(2))

	v, _ := obj.Get("x")
	i, _ := v.AsInteger()
	if i != 1 {
		t.Fatalf("original mutated: got %d, want 1", i)
	}
}

func TestResultWhatGpioStateHelpers(t *testing.T) {
	report := NewObject()
	report.Set(FieldResult, Integer(1))
	report.Set(FieldWhat, String("no such pin"))

	result, ok := Result(report)
	if !ok || result != 1 {
		t.Fatalf("Result = %d, %v", result, ok)
	}
	what, ok := What(report)
	if !ok || what != "no such pin" {
		t.Fatalf("What = %q, %v", what, ok)
	}
	if _, ok := GpioState(report); ok {
		t.Fatal("expected no gpio_state field")
	}
}
