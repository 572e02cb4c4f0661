package loader

import (
	"bytes"
	"encoding/json"
)

// MapItem is one key of an OrderedMap.
type MapItem struct {
	Key   string
	Value any
}

// OrderedMap is a mapping that remembers the order its keys appeared in the
// source document.
type OrderedMap []MapItem

// Set replaces the value of an existing key in place or appends a new key.
func (m *OrderedMap) Set(key string, value any) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, MapItem{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m OrderedMap) Get(key string) (any, bool) {
	for _, item := range m {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in document order.
func (m OrderedMap) Keys() []string {
	keys := make([]string, len(m))
	for i, item := range m {
		keys[i] = item.Key
	}
	return keys
}

// MarshalJSON encodes the map as a JSON object in key order without HTML
// escaping.
func (m OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(item.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshalNoEscape(item.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Plain converts OrderedMaps, at any depth, into map[string]any so the value
// can be handed to code that expects standard Go collections.
func Plain(v any) any {
	switch t := v.(type) {
	case OrderedMap:
		out := make(map[string]any, len(t))
		for _, item := range t {
			out[item.Key] = Plain(item.Value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = Plain(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[k] = Plain(elem)
		}
		return out
	default:
		return v
	}
}
