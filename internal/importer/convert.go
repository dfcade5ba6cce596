package importer

import (
	"strconv"
	"time"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
)

// Assignments turns a validated file into form assignments. Sections come
// in catalog order so that identifiers are applied before the fields that
// depend on them; fields within a section are sorted by name.
func Assignments(f *RecordFile, kind domain.RecordKind) []form.Assignment {
	var out []form.Assignment
	for _, spec := range form.Catalog(kind) {
		if values, ok := f.Sections[spec.Key]; ok {
			for _, name := range sortedKeys(values) {
				out = append(out, form.Assignment{Section: spec.Key, Row: -1, Field: name, Raw: rawValue(values[name])})
			}
		}
		for i, row := range f.Rows[spec.Key] {
			for _, name := range sortedKeys(row) {
				out = append(out, form.Assignment{Section: spec.Key, Row: i, Field: name, Raw: rawValue(row[name])})
			}
		}
	}
	return out
}

// rawValue renders a decoded value as the text a user would type.
func rawValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return ""
	}
}
