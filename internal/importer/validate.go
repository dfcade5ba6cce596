package importer

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
)

// ValidateRecordFile checks an import file against the section catalog of
// kind before any value is applied. It returns every problem found.
// Whether a field exists is left to the assignment step, since project
// fields depend on the identifiers.
func ValidateRecordFile(f *RecordFile, kind domain.RecordKind) []error {
	var errs []error

	if f.Kind != "" && domain.RecordKind(f.Kind) != kind {
		errs = append(errs, fmt.Errorf("kind: file holds a %q record, expected %q", f.Kind, kind))
	}
	if len(f.Sections) == 0 && len(f.Rows) == 0 {
		errs = append(errs, fmt.Errorf("file has no sections or rows"))
	}

	catalog := make(map[string]form.SectionSpec)
	for _, spec := range form.Catalog(kind) {
		catalog[spec.Key] = spec
	}

	for _, key := range sortedKeys(f.Sections) {
		spec, ok := catalog[key]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("sections.%s: unknown section", key))
			continue
		case spec.Repeatable:
			errs = append(errs, fmt.Errorf("sections.%s: section holds rows, list it under rows", key))
			continue
		}
		for _, name := range sortedKeys(f.Sections[key]) {
			if err := checkScalar(f.Sections[key][name]); err != nil {
				errs = append(errs, fmt.Errorf("sections.%s.%s: %w", key, name, err))
			}
		}
	}

	for _, key := range sortedKeys(f.Rows) {
		spec, ok := catalog[key]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("rows.%s: unknown section", key))
			continue
		case !spec.Repeatable:
			errs = append(errs, fmt.Errorf("rows.%s: section has no rows, list it under sections", key))
			continue
		}
		for i, row := range f.Rows[key] {
			if len(row) == 0 {
				errs = append(errs, fmt.Errorf("rows.%s[%d]: empty row", key, i+1))
			}
			for _, name := range sortedKeys(row) {
				if err := checkScalar(row[name]); err != nil {
					errs = append(errs, fmt.Errorf("rows.%s[%d].%s: %w", key, i+1, name, err))
				}
			}
		}
	}

	return errs
}

func checkScalar(v any) error {
	switch v.(type) {
	case nil, string, bool, int, int64, uint64, float64, time.Time:
		return nil
	default:
		return fmt.Errorf("expected a single value, got %T", v)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
