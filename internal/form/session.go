// Package form composes records into sections of per-data-type widgets and
// holds the mutable state of one form session.
package form

import (
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/record"
	"github.com/alexanderramin/mlfs/internal/validation"
)

// Session is the central record state of one form session. All edits go
// through it so that touched tracking, derived fields and reactive
// validation stay in step with the record.
type Session struct {
	record  domain.Record
	touched *domain.TouchedFields

	fieldErrs domain.ErrorMap
	rowErrs   map[string][]domain.ErrorMap
	fileErrs  []string
	otherErrs []string
	dateErrs  domain.ErrorMap

	hasSubmitted bool
	loading      bool
	disabled     bool
}

// NewSession starts a session on r.
func NewSession(r domain.Record) *Session {
	s := &Session{
		record:    record.Derive(r.Clone()),
		touched:   domain.NewTouchedFields(),
		fieldErrs: domain.ErrorMap{},
	}
	s.recomputeDates()
	return s
}

// Record returns a copy of the current record.
func (s *Session) Record() domain.Record { return s.record.Clone() }

// Kind returns the record kind.
func (s *Session) Kind() domain.RecordKind { return s.record.Kind }

// Get reads one field.
func (s *Session) Get(section, field string) any { return s.record.Get(section, field) }

// Set writes one field through the record lens, marks it touched and
// recomputes derived fields and the date-range check.
func (s *Session) Set(section, field string, value any) {
	s.record = record.Set(s.record, section, field, value)
	s.touched.Add(field)
	s.afterChange(field)
}

// SetRowField writes one field of a repeatable row.
func (s *Session) SetRowField(section string, index int, field string, value any) {
	s.record = record.SetRowField(s.record, section, index, field, value)
	s.touched.Add(field)
	s.afterChange(field)
}

// ChooseSubstance applies a composite substance/blend key to a row.
func (s *Session) ChooseSubstance(section string, index int, key string) error {
	rows := s.record.Rows[section]
	if index < 0 || index >= len(rows) {
		return nil
	}
	row, err := record.ChooseSubstance(rows[index], key)
	if err != nil {
		return err
	}
	s.record = record.SetRow(s.record, section, index, row)
	s.touched.Add(fields.FieldSubstanceChoice)
	return nil
}

// AddRow appends a default row to a repeatable section.
func (s *Session) AddRow(section string, rowFields []domain.FieldDescriptor) {
	s.record = record.AddRow(s.record, section, rowFields)
	s.touched.Add(section)
}

// RemoveRow removes a row, by index for unsaved rows and by id otherwise.
func (s *Session) RemoveRow(section string, index int) {
	s.record = record.RemoveRow(s.record, section, index)
	s.touched.Add(section)
	s.afterChange(fields.FieldPhaseOutKg)
}

// Replace swaps in a record returned by the server. Touched fields are kept;
// call ClearTouched after a successful save.
func (s *Session) Replace(r domain.Record) {
	s.record = r.Clone()
	s.recomputeDates()
}

// Relayout fits the record to a new section layout, keeping the values of
// fields the layouts share. Touched fields are kept.
func (s *Session) Relayout(layout []record.SectionLayout) {
	s.record = record.Relayout(s.record, layout)
	s.recomputeDates()
}

// SetID updates the record id, nil after a failed create.
func (s *Session) SetID(id *int) {
	if id == nil {
		s.record.ID = nil
		return
	}
	v := *id
	s.record.ID = &v
}

// SetStatus records the server-reported status.
func (s *Session) SetStatus(st domain.SubmissionStatus) { s.record.Status = st }

func (s *Session) afterChange(field string) {
	if record.DerivedInputs[field] {
		s.record = record.Derive(s.record)
	}
	if field == fields.FieldStartDate || field == fields.FieldEndDate {
		s.recomputeDates()
	}
}

// recomputeDates runs the date-range rule over whichever section holds the
// project dates.
func (s *Session) recomputeDates() {
	var start, end string
	for _, vals := range s.record.Sections {
		if v := vals.Str(fields.FieldStartDate); v != "" {
			start = v
		}
		if v := vals.Str(fields.FieldEndDate); v != "" {
			end = v
		}
	}
	s.dateErrs = validation.DateRangeErrors(fields.FieldStartDate, start, fields.FieldEndDate, end)
}

// Touched returns the set of fields changed in this session.
func (s *Session) Touched() *domain.TouchedFields { return s.touched }

// IsDirty reports whether leaving the form should ask for confirmation.
func (s *Session) IsDirty() bool { return s.touched.Len() > 0 }

// ClearTouched empties the touched set after submit or a confirmed cancel.
func (s *Session) ClearTouched() { s.touched.Clear() }

// RestoreTouched marks names as touched, used when resuming a draft.
func (s *Session) RestoreTouched(names []string) {
	for _, n := range names {
		s.touched.Add(n)
	}
}

// Errors returns field errors merged with the reactive date-range errors.
func (s *Session) Errors() domain.ErrorMap {
	return validation.Merge(s.fieldErrs, s.dateErrs)
}

// FieldErrors returns the messages for one field.
func (s *Session) FieldErrors(name string) []string {
	return s.Errors()[name]
}

// ShowError reports whether a field should render in its error state.
func (s *Session) ShowError(name string) bool {
	return s.hasSubmitted && len(s.FieldErrors(name)) > 0
}

// RowErrors returns server errors for the rows of a repeatable section.
func (s *Session) RowErrors(section string) []domain.ErrorMap { return s.rowErrs[section] }

// FileErrors returns attachment errors.
func (s *Session) FileErrors() []string { return s.fileErrs }

// OtherErrors returns page-level errors.
func (s *Session) OtherErrors() []string { return s.otherErrs }

// SetFieldErrors replaces the field error slot.
func (s *Session) SetFieldErrors(m domain.ErrorMap) { s.fieldErrs = m.Clone() }

// SetFileErrors replaces the attachment error slot.
func (s *Session) SetFileErrors(msgs []string) { s.fileErrs = append([]string(nil), msgs...) }

// ApplyServerErrors distributes a decoded 400 body into the error slots.
func (s *Session) ApplyServerErrors(e validation.ServerErrors) {
	s.fieldErrs = e.Fields.Clone()
	if s.fieldErrs == nil {
		s.fieldErrs = domain.ErrorMap{}
	}
	s.rowErrs = e.Rows
	s.fileErrs = append([]string(nil), e.Files...)
	s.otherErrs = append([]string(nil), e.Other...)
}

// AddOtherError appends a page-level message.
func (s *Session) AddOtherError(msg string) { s.otherErrs = append(s.otherErrs, msg) }

// ClearErrors empties every server-sourced error slot. Date-range errors
// are derived from the record and stay.
func (s *Session) ClearErrors() {
	s.fieldErrs = domain.ErrorMap{}
	s.rowErrs = nil
	s.fileErrs = nil
	s.otherErrs = nil
}

// Warnings returns non-blocking tranche warnings across all sections.
func (s *Session) Warnings() domain.ErrorMap {
	out := domain.ErrorMap{}
	for _, key := range sortedSectionKeys(s.record) {
		for k, v := range validation.TrancheWarnings(s.record.Sections[key]) {
			out[k] = v
		}
	}
	return out
}

func (s *Session) MarkSubmitted()     { s.hasSubmitted = true }
func (s *Session) HasSubmitted() bool { return s.hasSubmitted }
func (s *Session) SetLoading(v bool)  { s.loading = v }
func (s *Session) Loading() bool      { return s.loading }
func (s *Session) SetDisabled(v bool) { s.disabled = v }
func (s *Session) Disabled() bool     { return s.disabled }
