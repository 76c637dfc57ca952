package savings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// jsonObjectWriter helps construct a JSON object with a specific field order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	keys map[string]bool // keys written so far
	err  error
}

// Append adds a new key-value pair to the JSON object. The value is marshaled
// to JSON using `json.Marshal`.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	valBytes, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	return w.raw(key, valBytes)
}

// Optional appends a key-value pair only if the value is not its type's zero
// value.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// Extras appends the fields this package does not model, in key order, unless
// they would shadow a field already written.
func (w *jsonObjectWriter) Extras(e extras) *jsonObjectWriter {
	for _, key := range slices.Sorted(maps.Keys(e)) {
		if w.err != nil {
			return w
		}
		if w.keys[key] {
			continue
		}
		w.raw(key, e[key])
	}
	return w
}

func (w *jsonObjectWriter) raw(key string, value []byte) *jsonObjectWriter {
	if w.keys == nil {
		w.keys = make(map[string]bool)
	}
	w.keys[key] = true
	w.WriteString(fmt.Sprintf("%q:", key))
	w.Write(value)
	w.WriteString(",")
	return w
}

// MarshalJSON finalizes the JSON object construction, wraps the content in
// braces, and returns the complete JSON byte slice.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+2)
	final = append(final, '{')
	final = append(final, content...)
	final = append(final, '}')
	return final, nil
}

// extras keeps the fields of a stored record that this package does not model,
// so that writing the record back does not lose them.
type extras map[string]json.RawMessage

// decodeExtras returns the fields of the JSON object data whose keys are not
// in known.
func decodeExtras(data []byte, known ...string) (extras, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}
