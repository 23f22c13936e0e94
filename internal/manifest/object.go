package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Object is a JSON object that remembers the order of its keys. Values are
// kept as raw JSON so anything this package does not manage round-trips
// unchanged.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewObject returns an empty object
func NewObject() *Object {
	return &Object{values: make(map[string]json.RawMessage)}
}

// ParseObject decodes a JSON object, keeping key order. For duplicate keys the
// last value wins and the first position is kept, as in JSON.parse.
func ParseObject(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected JSON object")
	}

	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		obj.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, errors.New("unexpected data after JSON object")
	}

	return obj, nil
}

// Keys returns the keys in document order
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Get returns the raw value stored under key
func (o *Object) Get(key string) (json.RawMessage, bool) {
	value, ok := o.values[key]
	return value, ok
}

// Set stores value under key, keeping the position of an existing key and
// appending new keys at the end
func (o *Object) Set(key string, value json.RawMessage) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// GetString returns the string stored under key. Missing keys, null and
// non-string values report ok == false.
func (o *Object) GetString(key string) (string, bool) {
	raw, ok := o.values[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// SetString stores a JSON string under key
func (o *Object) SetString(key, value string) {
	o.Set(key, encodeString(value))
}

// MarshalJSON writes the object compactly in key order
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeString(key))
		buf.WriteByte(':')
		if err := json.Compact(&buf, o.values[key]); err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeString quotes s without the HTML escaping encoding/json applies by default
func encodeString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
