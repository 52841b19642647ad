package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeError wraps a parse failure from Parse.
type DecodeError struct{ err error }

func (e *DecodeError) Error() string { return fmt.Sprintf("protocol: decode: %s", e.err) }
func (e *DecodeError) Unwrap() error { return e.err }

// EncodeError wraps a serialize failure from Serialize.
type EncodeError struct{ err error }

func (e *EncodeError) Error() string { return fmt.Sprintf("protocol: encode: %s", e.err) }
func (e *EncodeError) Unwrap() error { return e.err }

// JSONCodec implements spec.md §6's external parse/serialize contract on
// top of the standard library's encoding/json (see DESIGN.md: the corpus
// carries no third-party JSON library, so this one concern stays on
// stdlib). Object field order is preserved via a package-local ordered
// map so replayed wire traffic is byte-stable for log comparison, even
// though the schema itself treats key order as insignificant.
type JSONCodec struct{}

// Parse decodes wire bytes (a JSON object, array, string, or number) into
// a Value tree.
func (JSONCodec) Parse(data []byte) (Value, error) {
	var raw json.RawMessage = data
	v, err := decodeValue(raw)
	if err != nil {
		return Value{}, &DecodeError{err: err}
	}
	return v, nil
}

// Serialize encodes v back to wire bytes.
func (JSONCodec) Serialize(v Value) ([]byte, error) {
	out, err := encodeValue(v)
	if err != nil {
		return nil, &EncodeError{err: err}
	}
	return out, nil
}

func decodeValue(raw json.RawMessage) (Value, error) {
	trimmed := trimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("empty input")
	}
	switch trimmed[0] {
	case '{':
		var fields orderedFields
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return Value{}, err
		}
		obj := NewObject()
		for _, f := range fields {
			fv, err := decodeValue(f.value)
			if err != nil {
				return Value{}, err
			}
			obj.Set(f.key, fv)
		}
		return ObjectValue(obj), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Value{}, err
		}
		elems := make([]Value, len(items))
		for i, it := range items {
			ev, err := decodeValue(it)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return Array(elems...), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, err
		}
		return String(s), nil
	default:
		var i int64
		if err := json.Unmarshal(trimmed, &i); err != nil {
			return Value{}, err
		}
		return Integer(i), nil
	}
}

func encodeValue(v Value) ([]byte, error) {
	switch v.Kind() {
	case KindInteger:
		i, _ := v.AsInteger()
		return json.Marshal(i)
	case KindString:
		s, _ := v.AsString()
		return json.Marshal(s)
	case KindArray:
		elems, _ := v.AsArray()
		parts := make([]json.RawMessage, len(elems))
		for i, e := range elems {
			b, err := encodeValue(e)
			if err != nil {
				return nil, err
			}
			parts[i] = b
		}
		return json.Marshal(parts)
	case KindObject:
		obj, _ := v.AsObject()
		buf := []byte{'{'}
		for i, k := range obj.Keys() {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			fv, _ := obj.Get(k)
			vb, err := encodeValue(fv)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		return nil, fmt.Errorf("encode: invalid value kind %d", v.Kind())
	}
}

// orderedField is one key/value pair of a decoded JSON object, in the
// order it appeared on the wire.
type orderedField struct {
	key   string
	value json.RawMessage
}

// orderedFields decodes a JSON object while recording key order, which
// encoding/json's map-based Unmarshal otherwise discards.
type orderedFields []orderedField

func (f *orderedFields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		*f = append(*f, orderedField{key: key, value: raw})
	}
	return nil
}

func trimSpace(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isJSONSpace(b[i]) {
		i++
	}
	for j > i && isJSONSpace(b[j-1]) {
		j--
	}
	return b[i:j]
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
