package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is any decoded JSON node: nil, bool, string, json.Number,
// *Object or Array. Numbers stay json.Number so integer and float
// accumulation can distinguish them without precision loss.
type Value interface{}

// Member is a single key/value entry of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object with insertion order preserved.
// First-match field extraction depends on member order, so iteration
// order is part of the contract, not an artifact of decoding.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.members)
}

// Set appends a member, or replaces the value in place if the key is
// already present (the key keeps its original position).
func (o *Object) Set(key string, v Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Members returns the members in insertion order. The returned slice is
// the object's backing storage and must not be modified.
func (o *Object) Members() []Member {
	return o.members
}

// Keys returns the member keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// MarshalJSON writes the object with members in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal object key %q: %w", m.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal value of %q: %w", m.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping member order and json.Number
// fidelity.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := DecodeValue(dec)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("expected a JSON object, got %T", v)
	}
	*o = *obj
	return nil
}

// Array is a JSON array.
type Array []Value

// DecodeValue reads one complete JSON value from the decoder, building
// *Object for objects (order preserved) and Array for arrays. The
// decoder should have UseNumber set; without it numeric fidelity is
// lost before the value reaches the accumulator.
func DecodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		// Primitive: nil, bool, string or json.Number.
		return tok, nil
	}
	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key token %v", keyTok)
			}
			val, err := DecodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, err
		}
		return obj, nil
	case '[':
		arr := Array{}
		for dec.More() {
			val, err := DecodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil { // closing ']'
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// Canonical returns the deterministic textual serialization of a value,
// used as a deduplication key. Object members keep their insertion
// order, so two identical decodes canonicalize identically.
func Canonical(v Value) string {
	b, err := json.Marshal(v)
	if err != nil {
		// Values built by DecodeValue always marshal; this covers
		// hand-built values holding unmarshalable types.
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// Document is the parsed representation handed to the extraction
// pipeline.
type Document struct {
	Root        Value
	RootIsArray bool
}
