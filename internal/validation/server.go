package validation

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// Keys with special meaning in a 400 response body.
const (
	KeyDetails        = "details"
	KeyFiles          = "files"
	KeyNonFieldErrors = "non_field_errors"
)

// ServerErrors is a 400 body split into the slots the form displays.
type ServerErrors struct {
	// Fields holds errors keyed by field name, shown inline.
	Fields domain.ErrorMap
	// Rows holds per-row errors for repeatable sections.
	Rows map[string][]domain.ErrorMap
	// Files holds attachment errors.
	Files []string
	// Other holds page-level messages (details, non_field_errors).
	Other []string
}

// Empty reports whether no slot holds anything.
func (s ServerErrors) Empty() bool {
	return !HasSectionErrors(s.Fields) && len(s.Rows) == 0 && len(s.Files) == 0 && len(s.Other) == 0
}

// DecodeServerErrors parses a 400 response body. Values may be a message
// list, a single message, a nested object of field errors (flattened), or a
// list of per-row objects for repeatable sections.
func DecodeServerErrors(body []byte) (ServerErrors, error) {
	out := ServerErrors{Fields: domain.ErrorMap{}, Rows: map[string][]domain.ErrorMap{}}
	if len(body) == 0 {
		return out, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return out, fmt.Errorf("decoding error body: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := raw[key]
		switch key {
		case KeyDetails, KeyNonFieldErrors:
			out.Other = append(out.Other, messages(val)...)
		case KeyFiles:
			out.Files = append(out.Files, messages(val)...)
		default:
			decodeFieldValue(&out, key, val)
		}
	}
	if len(out.Rows) == 0 {
		out.Rows = nil
	}
	return out, nil
}

func decodeFieldValue(out *ServerErrors, key string, val json.RawMessage) {
	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(val, &rows); err == nil && len(rows) > 0 {
		list := make([]domain.ErrorMap, len(rows))
		for i, row := range rows {
			m := domain.ErrorMap{}
			for field, msgs := range row {
				if ms := messages(msgs); len(ms) > 0 {
					m[field] = ms
				}
			}
			list[i] = m
		}
		out.Rows[key] = list
		return
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(val, &nested); err == nil {
		for field, msgs := range nested {
			if ms := messages(msgs); len(ms) > 0 {
				out.Fields[field] = ms
			}
		}
		return
	}

	if ms := messages(val); len(ms) > 0 {
		out.Fields[key] = ms
	}
}

// messages reads either a string or a list of strings.
func messages(val json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(val, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(val, &s); err == nil && s != "" {
		return []string{s}
	}
	return nil
}
