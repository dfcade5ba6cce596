package domain

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
)

// FieldDescriptor describes one dynamic form field as delivered by the API
// for a (cluster, project type, sector) combination.
type FieldDescriptor struct {
	ID             int      `json:"id,omitempty"`
	WriteFieldName string   `json:"field_name"`
	ReadFieldName  string   `json:"read_field_name,omitempty"`
	Label          string   `json:"label"`
	DataType       DataType `json:"data_type"`
	Section        string   `json:"section"`
	Table          string   `json:"table,omitempty"`
	SortOrder      *int     `json:"sort_order,omitempty"`
	IsActual       bool     `json:"is_actual,omitempty"`
	Options        []Option `json:"options,omitempty"`
}

// Name returns the key under which the field's value is stored in a record.
func (f FieldDescriptor) Name() string {
	return f.WriteFieldName
}

// ReadName returns the key used to read the field from a fetched entity.
// Falls back to the write name when the API sends no separate read name.
func (f FieldDescriptor) ReadName() string {
	return cmp.Or(f.ReadFieldName, f.WriteFieldName)
}

// Order returns the sort order with nil treated as 0.
func (f FieldDescriptor) Order() int {
	return Deref(f.SortOrder, 0)
}

// Option is a single drop-down choice. ID is whatever the API uses as the
// option key (a number for most lookups, a string for a few legacy ones).
type Option struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both {"id": .., "name": ..} objects and [id, name]
// tuples, the two shapes the API uses for option lists.
func (o *Option) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var tuple []any
		if err := json.Unmarshal(data, &tuple); err != nil {
			return fmt.Errorf("decoding option tuple: %w", err)
		}
		if len(tuple) < 2 {
			return fmt.Errorf("option tuple needs 2 elements, got %d", len(tuple))
		}
		o.ID = NormalizeID(tuple[0])
		o.Name = fmt.Sprint(tuple[1])
		return nil
	}

	var obj struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding option: %w", err)
	}
	o.ID = NormalizeID(obj.ID)
	o.Name = obj.Name
	return nil
}

// NormalizeID turns JSON numbers that hold whole values into ints so that
// ids compare equal regardless of whether they came from the wire or code.
func NormalizeID(v any) any {
	switch n := v.(type) {
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	case int64:
		return int(n)
	}
	return v
}

// SameID compares two option ids after normalization.
func SameID(a, b any) bool {
	a, b = NormalizeID(a), NormalizeID(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
