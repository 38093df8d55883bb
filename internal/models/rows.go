package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one parsed spreadsheet record: header -> cell text, in header order.
type Row struct {
	keys   []string
	values map[string]string
}

// Rows is the ordered sequence of records of one sheet.
type Rows []Row

// NewRow returns an empty row
func NewRow() Row {
	return Row{values: make(map[string]string)}
}

// RowOf builds a row from alternating key, value arguments
func RowOf(kv ...string) Row {
	r := NewRow()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

// Set assigns a value, appending the key if it is new
func (r *Row) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value under key
func (r Row) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value under key, or "" when the key is absent
func (r Row) Value(key string) string {
	return r.values[key]
}

// Keys returns the header names in sheet order
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len is the number of fields
func (r Row) Len() int {
	return len(r.keys)
}

// Map returns a copy of the row as a plain map
func (r Row) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the row as an object with keys in header order
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping key order. Non-string scalars keep their
// JSON text and null becomes "".
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row: expected object, got %v", tok)
	}

	*r = NewRow()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row: expected string key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		r.Set(key, rawToText(raw))
	}

	_, err = dec.Token()
	return err
}

func rawToText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

// ColumnKeys returns the header order of the first row
func (rows Rows) ColumnKeys() []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Keys()
}

// Head returns at most n leading rows
func (rows Rows) Head(n int) Rows {
	if n < 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}
