package domain

import (
	"fmt"
	"maps"
)

// Values holds field values keyed by write field name.
type Values map[string]any

// Clone returns a shallow copy of v. Field values are scalars, so a shallow
// copy is enough to keep edits from leaking between record versions.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// Str returns the value under key formatted as a string, "" for nil/absent.
func (v Values) Str(key string) string {
	val, ok := v[key]
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprint(val)
}

// LocalRowKey marks repeatable rows added in this session that have no
// server id yet. Their "id" is a client-side position and is never sent.
const LocalRowKey = "_local"

// SubstanceChoiceKey holds the composite substance/blend key of a row. Only
// the client reads it; the API takes ods_substance and ods_blend.
const SubstanceChoiceKey = "ods_substance_blend"

// IsLocalRow reports whether a row was added client-side and not yet saved.
func IsLocalRow(row Values) bool {
	b, _ := row[LocalRowKey].(bool)
	return b
}

// Record is the client-held, section-grouped copy of a project, enterprise
// or project-enterprise entity for one form session.
type Record struct {
	Kind    RecordKind       `json:"kind"`
	ID      *int             `json:"id,omitempty"`
	Status  SubmissionStatus `json:"status,omitempty"`
	Tranche int              `json:"tranche,omitempty"`

	// Values holds top-level keys that belong to no section.
	Values Values `json:"values"`
	// Sections holds section-scoped values keyed by section identifier.
	Sections map[string]Values `json:"sections"`
	// Rows holds repeatable sub-records (substance lines) keyed by section.
	Rows map[string][]Values `json:"rows"`
	// Nested marks sections serialized under their own key in the payload;
	// every other section is flattened into the top level.
	Nested map[string]bool `json:"nested,omitempty"`
}

// NewRecord returns an empty record of the given kind with all maps allocated.
func NewRecord(kind RecordKind) Record {
	return Record{
		Kind:     kind,
		Values:   Values{},
		Sections: map[string]Values{},
		Rows:     map[string][]Values{},
		Nested:   map[string]bool{},
	}
}

// Get reads a field. An empty section reads from the top level.
func (r Record) Get(section, field string) any {
	if section == "" {
		return r.Values[field]
	}
	return r.Sections[section][field]
}

// Section returns the values of a section, never nil.
func (r Record) Section(section string) Values {
	if section == "" {
		if r.Values == nil {
			return Values{}
		}
		return r.Values
	}
	if s, ok := r.Sections[section]; ok {
		return s
	}
	return Values{}
}

// Name returns the record's display name: a "name" value from any section,
// or failing that a "title".
func (r Record) Name() string {
	for _, key := range []string{"name", "title"} {
		if n := r.Values.Str(key); n != "" {
			return n
		}
		for _, sec := range sortedKeys(r.Sections) {
			if n := r.Sections[sec].Str(key); n != "" {
				return n
			}
		}
	}
	return ""
}

// Clone deep-copies the record's maps and row slices.
func (r Record) Clone() Record {
	out := Record{
		Kind:     r.Kind,
		Status:   r.Status,
		Tranche:  r.Tranche,
		Values:   r.Values.Clone(),
		Sections: make(map[string]Values, len(r.Sections)),
		Rows:     make(map[string][]Values, len(r.Rows)),
		Nested:   maps.Clone(r.Nested),
	}
	if out.Nested == nil {
		out.Nested = map[string]bool{}
	}
	if r.ID != nil {
		id := *r.ID
		out.ID = &id
	}
	for k, v := range r.Sections {
		out.Sections[k] = v.Clone()
	}
	for k, rows := range r.Rows {
		cp := make([]Values, len(rows))
		for i, row := range rows {
			cp[i] = row.Clone()
		}
		out.Rows[k] = cp
	}
	return out
}

// Payload builds the JSON body sent to the API. Non-nested sections are
// flattened into the top level, nested ones keep their own key, rows are
// emitted as arrays under their section key.
func (r Record) Payload() map[string]any {
	out := make(map[string]any, len(r.Values))
	for _, key := range sortedKeys(r.Sections) {
		vals := r.Sections[key]
		if r.Nested[key] {
			out[key] = map[string]any(vals.Clone())
			continue
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	for k, v := range r.Values {
		out[k] = v
	}
	for key, rows := range r.Rows {
		list := make([]map[string]any, len(rows))
		for i, row := range rows {
			item := map[string]any(row.Clone())
			if IsLocalRow(row) {
				delete(item, "id")
			}
			delete(item, LocalRowKey)
			delete(item, SubstanceChoiceKey)
			list[i] = item
		}
		out[key] = list
	}
	if r.ID != nil {
		out["id"] = *r.ID
	}
	return out
}
