// Package validation aggregates client-side rule violations and server
// validation errors into one ErrorMap shape so that display logic does not
// care where an error came from.
package validation

import (
	"fmt"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// MsgRequired is the message synthesized for an empty required field.
const MsgRequired = "This field is required."

var (
	requiredFields     = []string{"name"}
	requiredEditFields = []string{"id", "name"}
)

// FieldErrors computes the error map for one section's data. Required
// fields with a falsy value get MsgRequired; server errors override that
// for any key present in data. Server errors for keys outside data belong
// to another section and are dropped.
func FieldErrors(data domain.Values, server domain.ErrorMap, editValidation bool) domain.ErrorMap {
	required := requiredFields
	if editValidation {
		required = requiredEditFields
	}

	out := domain.ErrorMap{}
	for _, name := range required {
		if !Truthy(data[name]) {
			out[name] = []string{MsgRequired}
		}
	}
	for name, msgs := range SectionErrors(data, server) {
		out[name] = msgs
	}
	return out
}

// SectionErrors keeps the errors of m whose key is a field of data.
func SectionErrors(data domain.Values, m domain.ErrorMap) domain.ErrorMap {
	out := domain.ErrorMap{}
	for name, msgs := range m {
		if _, ok := data[name]; !ok || len(msgs) == 0 {
			continue
		}
		out[name] = append([]string(nil), msgs...)
	}
	return out
}

// RequiredErrors flags every listed field whose value is falsy.
func RequiredErrors(data domain.Values, names ...string) domain.ErrorMap {
	out := domain.ErrorMap{}
	for _, name := range names {
		if !Truthy(data[name]) {
			out[name] = []string{MsgRequired}
		}
	}
	return out
}

// Truthy mirrors the falsy test used for required fields: nil, "", false,
// and numeric zero are empty.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}

// HasSectionErrors reports whether any entry has at least one message.
func HasSectionErrors(m domain.ErrorMap) bool {
	for _, msgs := range m {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}

// Merge combines error maps. Later maps override earlier ones per key.
func Merge(maps ...domain.ErrorMap) domain.ErrorMap {
	out := domain.ErrorMap{}
	for _, m := range maps {
		for k, v := range m {
			if len(v) > 0 {
				out[k] = append([]string(nil), v...)
			}
		}
	}
	return out
}

// Message is one user-facing error line.
type Message struct {
	Message string `json:"message"`
}

// FormatErrors flattens m into one "<Label>: <message>" line per message,
// ordered by key. Keys without a label fall back to the raw key.
func FormatErrors(m domain.ErrorMap, labels map[string]string) []Message {
	var out []Message
	for _, key := range m.Keys() {
		label, ok := labels[key]
		if !ok || label == "" {
			label = key
		}
		for _, msg := range m[key] {
			out = append(out, Message{Message: fmt.Sprintf("%s: %s", label, msg)})
		}
	}
	return out
}
