package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"election-check/internal/errors"
)

// Entry is one key/value pair of a JSON object
type Entry[V any] struct {
	Key   string
	Value V
}

// Entries is a JSON object decoded in document order. Repeated keys are
// kept so that validators can reject them instead of losing a value.
type Entries[V any] []Entry[V]

// Keys returns the keys in document order
func (e Entries[V]) Keys() []string {
	keys := make([]string, len(e))
	for i, entry := range e {
		keys[i] = entry.Key
	}
	return keys
}

// Values returns the values in document order
func (e Entries[V]) Values() []V {
	values := make([]V, len(e))
	for i, entry := range e {
		values[i] = entry.Value
	}
	return values
}

// Get returns the first value stored under key
func (e Entries[V]) Get(key string) (V, bool) {
	for _, entry := range e {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	var zero V
	return zero, false
}

// UnmarshalJSON decodes an object, keeping key order. A null object
// decodes to nil entries; a null value is rejected.
func (e *Entries[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	tok, err := dec.Token()
	if err != nil {
		return errors.Malformed("invalid object", err)
	}
	if tok == nil {
		*e = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Newf(errors.KindMalformed, "expected an object, found %v", tok)
	}

	out := Entries[V]{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Malformed("invalid object key", err)
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return malformedAt(err, errors.Key(key))
		}
		if bytes.Equal(raw, []byte("null")) {
			return errors.At(errors.New(errors.KindMalformed, "null is not a valid value"), errors.Key(key))
		}
		var value V
		if err := DecodeStrict(raw, &value); err != nil {
			return malformedAt(err, errors.Key(key))
		}
		out = append(out, Entry[V]{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return errors.Malformed("unterminated object", err)
	}

	*e = out
	return nil
}

// MarshalJSON encodes the entries as an object in their stored order
func (e Entries[V]) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Collection holds items published either as a JSON array or as an
// object keyed by hypothesis label. Array items have an empty Key.
type Collection[V any] struct {
	Keyed bool
	Items Entries[V]
}

// Len returns the number of items
func (c Collection[V]) Len() int {
	return len(c.Items)
}

// Segment returns the path segment locating item i
func (c Collection[V]) Segment(i int) string {
	if c.Keyed {
		return errors.Key(c.Items[i].Key)
	}
	return errors.Index(i)
}

// UnmarshalJSON accepts an array, an object or null
func (c *Collection[V]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Collection[V]{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var items Entries[V]
		if err := items.UnmarshalJSON(trimmed); err != nil {
			return err
		}
		*c = Collection[V]{Keyed: true, Items: items}
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return errors.Malformed("invalid array", err)
		}
		items := make(Entries[V], 0, len(raw))
		for i, r := range raw {
			var value V
			if err := DecodeStrict(r, &value); err != nil {
				return malformedAt(err, errors.Index(i))
			}
			items = append(items, Entry[V]{Value: value})
		}
		*c = Collection[V]{Items: items}
		return nil
	default:
		return errors.New(errors.KindMalformed, fmt.Sprintf("expected an array or an object, found %.20s", trimmed))
	}
}
