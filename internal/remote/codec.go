package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Encode converts v to a document using its JSON field names. Integers
// become int64 and other numbers float64, which both backends store
// natively. Timestamps are stored as unix milliseconds, 0 for the zero
// time, and nil time pointers are omitted.
func Encode(id string, v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Document{}, fmt.Errorf("encode %s: %w", id, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return Document{}, fmt.Errorf("encode %s: %w", id, err)
	}
	normalizeNumbers(m)

	rv := reflect.Indirect(reflect.ValueOf(v))
	for name, idx := range timeFields(rv.Type()) {
		f := rv.Field(idx)
		switch {
		case f.Type() == timeType:
			m[name] = toMillis(f.Interface().(time.Time))
		case f.IsNil():
			delete(m, name)
		default:
			m[name] = toMillis(f.Elem().Interface().(time.Time))
		}
	}
	return Document{ID: id, Data: m}, nil
}

// Decode fills v from the document fields. Timestamps may be unix
// milliseconds, RFC 3339 strings or native time values.
func Decode(doc Document, v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	fields := timeFields(rv.Type())

	data := doc.Data
	if len(fields) > 0 {
		data = make(map[string]any, len(doc.Data))
		for k, e := range doc.Data {
			if _, ok := fields[k]; !ok {
				data[k] = e
			}
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", doc.ID, err)
	}

	for name, idx := range fields {
		raw, ok := doc.Data[name]
		if !ok || raw == nil {
			continue
		}
		t, err := parseTime(raw)
		if err != nil {
			return fmt.Errorf("decode %s: %s: %w", doc.ID, name, err)
		}
		f := rv.Field(idx)
		if f.Type() == timeType {
			f.Set(reflect.ValueOf(t))
		} else {
			f.Set(reflect.ValueOf(&t))
		}
	}
	return nil
}

// timeFields maps the JSON names of the time.Time and *time.Time fields of
// a struct type to their field index.
func timeFields(t reflect.Type) map[string]int {
	if t.Kind() != reflect.Struct {
		return nil
	}
	out := make(map[string]int)
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Type != timeType && sf.Type != reflect.PointerTo(timeType) {
			continue
		}
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		out[name] = i
	}
	return out
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func parseTime(v any) (time.Time, error) {
	var ms int64
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case int64:
		ms = t
	case int:
		ms = int64(t)
	case float64:
		ms = int64(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return time.Time{}, err
		}
		ms = n
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp %T", v)
	}
	if ms == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(ms).UTC(), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	}
	return v
}

// cloneData returns a deep copy of a document field map.
func cloneData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return cloneValue(m).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		c := make(map[string]any, len(t))
		for k, e := range t {
			c[k] = cloneValue(e)
		}
		return c
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = cloneValue(e)
		}
		return c
	}
	return v
}
