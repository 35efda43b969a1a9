package toml

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/maurice/tomltree/internal/syntax"
)

// ReadTaggedJSON reads a document in the tagged JSON form used by toml-test:
// tables are JSON objects, arrays are JSON arrays, and every scalar is an
// object {"type": ..., "value": ...} with the value as a string. Key order is
// kept. Errors wrap ErrInvalidTaggedValue.
func ReadTaggedJSON(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaggedValue, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidTaggedValue)
	}
	obj, ok := v.(*jsonObject)
	if !ok || obj.tagged() {
		return nil, fmt.Errorf("%w: document must be a JSON object", ErrInvalidTaggedValue)
	}
	t, err := obj.table(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaggedValue, err)
	}
	return t, nil
}

// jsonObject is a JSON object with its keys in input order.
type jsonObject struct {
	keys   []string
	values map[string]any
}

// readJSON reads one JSON value. Objects become *jsonObject, arrays []any.
func readJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok {
	case json.Delim('{'):
		obj := &jsonObject{values: map[string]any{}}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key := kt.(string)
			v, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			if _, dup := obj.values[key]; dup {
				return nil, fmt.Errorf("duplicate key %q", key)
			}
			obj.keys = append(obj.keys, key)
			obj.values[key] = v
		}
		_, err := dec.Token()
		return obj, err
	case json.Delim('['):
		arr := []any{}
		for dec.More() {
			v, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		_, err := dec.Token()
		return arr, err
	}
	return tok, nil
}

// tagged reports whether o is a {"type", "value"} scalar.
func (o *jsonObject) tagged() bool {
	if len(o.keys) != 2 {
		return false
	}
	_, typ := o.values["type"].(string)
	_, val := o.values["value"].(string)
	return typ && val
}

func (o *jsonObject) table(path []string) (*Table, error) {
	t := newTable(true)
	for _, key := range o.keys {
		sub := append(append(make([]string, 0, len(path)+1), path...), key)
		v, err := taggedValue(o.values[key], sub)
		if err != nil {
			return nil, err
		}
		t.put(key, v, Position{})
	}
	return t, nil
}

func taggedValue(v any, path []string) (any, error) {
	switch v := v.(type) {
	case *jsonObject:
		if v.tagged() {
			return taggedScalar(v.values["type"].(string), v.values["value"].(string), path)
		}
		return v.table(path)
	case []any:
		arr := newArray(false)
		for _, el := range v {
			ev, err := taggedValue(el, path)
			if err != nil {
				return nil, err
			}
			if err := arr.append(ev, Position{}); err != nil {
				return nil, err
			}
		}
		return arr, nil
	}
	return nil, fmt.Errorf("untagged value %v at %s", v, JoinKeyPath(path))
}

func taggedScalar(typ, raw string, path []string) (any, error) {
	var (
		v   any
		msg string
	)
	switch typ {
	case "string":
		return raw, nil
	case "integer":
		v, msg = decodeInteger(raw)
	case "float":
		v, msg = decodeFloat(raw)
	case "bool":
		v, msg = decodeBoolean(raw)
	case "datetime", "datetime-local", "date-local", "time-local":
		dt, err := decodeDateTime(raw, syntax.Pos{Line: 1, Col: 1}, Head)
		if err != nil {
			return nil, fmt.Errorf("%s at %s: %w", typ, JoinKeyPath(path), err)
		}
		if got, _ := TypeOf(dt); got.JSONName() != typ {
			return nil, fmt.Errorf("%s at %s: %q is a %s", typ, JoinKeyPath(path), raw, got)
		}
		return dt, nil
	default:
		return nil, fmt.Errorf("unknown type %q at %s", typ, JoinKeyPath(path))
	}
	if msg != "" {
		return nil, fmt.Errorf("%s at %s: %s", typ, JoinKeyPath(path), msg)
	}
	return v, nil
}
