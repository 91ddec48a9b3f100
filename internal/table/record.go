package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a cell: either a number or a string
type Value struct {
	num   float64
	str   string
	isNum bool
}

// Number creates a numeric value
func Number(f float64) Value {
	return Value{num: f, isNum: true}
}

// Text creates a string value
func Text(s string) Value {
	return Value{str: s}
}

// IsNumber reports whether the value holds a number
func (v Value) IsNumber() bool {
	return v.isNum
}

// Float returns the numeric value and whether the value is numeric
func (v Value) Float() (float64, bool) {
	return v.num, v.isNum
}

// String returns the raw string form. Numbers use the shortest decimal
// representation with no thousands separators.
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return []byte(v.String()), nil
	}
	return json.Marshal(v.str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := valueFrom(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func valueFrom(raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return Number(f), nil
	case string:
		return Text(x), nil
	case bool:
		return Text(strconv.FormatBool(x)), nil
	case nil:
		return Text(""), nil
	default:
		return Value{}, fmt.Errorf("unsupported cell type %T", raw)
	}
}

// Field is one named cell of a record
type Field struct {
	Column string
	Value  Value
}

// Record is one flat row. Field order is the column order as received.
type Record []Field

// NewRecord builds a record from fields in column order
func NewRecord(fields ...Field) Record {
	return Record(fields)
}

// Get returns the value for a column
func (r Record) Get(column string) (Value, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Columns returns the record's column names in order
func (r Record) Columns() []string {
	cols := make([]string, len(r))
	for i, f := range r {
		cols[i] = f.Column
	}
	return cols
}

// MarshalJSON writes the record as an object, keeping column order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Column)
		if err != nil {
			return nil, err
		}
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat JSON object, keeping key order
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	var fields Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid record key %v", keyTok)
		}

		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		val, err := valueFrom(raw)
		if err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		fields = append(fields, Field{Column: key, Value: val})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = fields
	return nil
}

// Dataset is an ordered sequence of records sharing one column set
type Dataset []Record

// Columns returns the column order fixed by the first record
func (d Dataset) Columns() []string {
	if len(d) == 0 {
		return nil
	}
	return d[0].Columns()
}
