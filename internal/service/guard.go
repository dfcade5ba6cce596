package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/validation"
	"github.com/alexanderramin/mlfs/internal/workflow"
)

// MsgFilesRequired is shown in the file error slot when a submission needs
// attachments and has none.
const MsgFilesRequired = "At least one file must be attached before submitting."

// requiredIdentifiers are the project fields every action needs, by section.
var requiredIdentifiers = map[string][]string{
	form.KeyIdentifiers:  {"country", "agency", "cluster"},
	form.KeyCrossCutting: {"title", "project_type", "sector"},
}

// RequiredErrors returns the required-field errors of a record.
func RequiredErrors(rec domain.Record) domain.ErrorMap {
	switch rec.Kind {
	case domain.KindProject:
		out := domain.ErrorMap{}
		for section, names := range requiredIdentifiers {
			for k, v := range validation.RequiredErrors(rec.Section(section), names...) {
				out[k] = v
			}
		}
		return out
	case domain.KindEnterprise:
		return validation.FieldErrors(rec.Section(form.KeyOverview), nil, false)
	case domain.KindProjectEnterprise:
		return validation.FieldErrors(rec.Section(form.KeyEnterprise), nil, rec.ID != nil)
	default:
		return domain.ErrorMap{}
	}
}

// Guard checks the preconditions of an action: the user holds the
// permission, the workflow allows it from the current status, required
// identifiers are present, no visible section has errors, and for a
// project submission the attachments and the previous tranche are in
// order. Creating a later tranche of an earlier project checks that
// project's latest tranche the same way. The tranche checks ask for
// confirmation when the previous tranche has unfilled actual indicators and
// return ErrCancelled if declined.
func (s *SubmissionService) Guard(ctx context.Context, req SubmitRequest) error {
	sess := req.Session
	rec := sess.Record()
	kind := rec.Kind

	if !workflow.Permitted(kind, req.Action, req.Permissions) {
		return fmt.Errorf("%w: missing permission for %s", ErrGuardFailed, req.Action.Label())
	}
	if _, err := workflow.Next(kind, rec.Status, req.Action); err != nil {
		return fmt.Errorf("%w: %w", ErrGuardFailed, err)
	}

	if missing := RequiredErrors(rec); validation.HasSectionErrors(missing) {
		sess.SetFieldErrors(missing)
		return fmt.Errorf("%w: required fields missing: %s", ErrGuardFailed, strings.Join(missing.Keys(), ", "))
	}
	if errs := sess.Errors(); validation.HasSectionErrors(errs) {
		return fmt.Errorf("%w: fix the errors in: %s", ErrGuardFailed, strings.Join(errs.Keys(), ", "))
	}

	if kind == domain.KindProject && rec.ID == nil && req.Continues != nil && trancheOf(rec) > 1 {
		return s.confirmNewTranche(ctx, *req.Continues, req.Fields)
	}
	if kind != domain.KindProject || req.Action != domain.ActionSubmit {
		return nil
	}
	if req.Attachments.Required && req.Attachments.Count == 0 {
		sess.SetFileErrors([]string{MsgFilesRequired})
		return fmt.Errorf("%w: %s", ErrGuardFailed, MsgFilesRequired)
	}
	return s.confirmPreviousTranche(ctx, rec, req.Fields)
}

func trancheOf(rec domain.Record) int {
	if n, err := strconv.Atoi(rec.Section(form.KeyCrossCutting).Str("tranche")); err == nil {
		return n
	}
	return rec.Tranche
}

func (s *SubmissionService) confirmPreviousTranche(ctx context.Context, rec domain.Record, fs []domain.FieldDescriptor) error {
	if rec.ID == nil || trancheOf(rec) <= 1 {
		return nil
	}
	unfilled, err := s.PreviousTrancheWarnings(ctx, *rec.ID, trancheOf(rec), fs)
	if err != nil {
		return fmt.Errorf("checking previous tranche: %w", err)
	}
	return s.confirmUnfilled(ctx, unfilled, "Submit anyway?")
}

func (s *SubmissionService) confirmNewTranche(ctx context.Context, projectID int, fs []domain.FieldDescriptor) error {
	unfilled, err := s.CheckNewTranche(ctx, projectID, fs)
	if errors.Is(err, ErrNoPreviousTranche) {
		return fmt.Errorf("%w: project %d: %w", ErrGuardFailed, projectID, err)
	}
	if err != nil {
		return fmt.Errorf("checking previous tranche: %w", err)
	}
	return s.confirmUnfilled(ctx, unfilled, "Create the new tranche anyway?")
}

func (s *SubmissionService) confirmUnfilled(ctx context.Context, unfilled []string, question string) error {
	if len(unfilled) == 0 {
		return nil
	}
	ok, err := s.confirmer.Confirm(ctx, "Previous tranche is incomplete", trancheWarningBody(unfilled, question))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

func trancheWarningBody(unfilled []string, question string) string {
	return "The previous tranche has actual indicators without a value:\n  " +
		strings.Join(unfilled, "\n  ") +
		"\n" + question
}

// PreviousTrancheWarnings lists the unfilled non-boolean actual indicators
// of the tranche immediately before the given one. An empty tranche list
// means there is nothing to warn about.
func (s *SubmissionService) PreviousTrancheWarnings(ctx context.Context, projectID, tranche int, fs []domain.FieldDescriptor) ([]string, error) {
	list, err := s.records.PreviousTranches(ctx, projectID)
	if err != nil {
		return nil, err
	}
	prev, ok := precedingTranche(list, tranche)
	if !ok {
		return nil, nil
	}
	return validation.UnfilledActuals(actualDescriptors(fs, prev.Values), prev.Values), nil
}

// CheckNewTranche is run before creating a new tranche that continues
// projectID. Unlike the submit check, an empty tranche list is an error.
func (s *SubmissionService) CheckNewTranche(ctx context.Context, projectID int, fs []domain.FieldDescriptor) ([]string, error) {
	list, err := s.records.PreviousTranches(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoPreviousTranche
	}
	latest := list[0]
	for _, t := range list[1:] {
		if t.Tranche > latest.Tranche {
			latest = t
		}
	}
	return validation.UnfilledActuals(actualDescriptors(fs, latest.Values), latest.Values), nil
}

// precedingTranche picks the highest tranche below current. ok is false
// when no listed tranche is below it.
func precedingTranche(list []api.PreviousTranche, current int) (prev api.PreviousTranche, ok bool) {
	for _, t := range list {
		if t.Tranche < current && (!ok || t.Tranche > prev.Tranche) {
			prev, ok = t, true
		}
	}
	return prev, ok
}

// actualDescriptors returns the actual-indicator descriptors to check. The
// dynamic descriptors are used when they contain any; otherwise they are
// inferred from the tranche's own keys, booleans by value type.
func actualDescriptors(fs []domain.FieldDescriptor, values domain.Values) []domain.FieldDescriptor {
	var out []domain.FieldDescriptor
	for _, f := range fs {
		if validation.IsActualField(f) {
			out = append(out, f)
		}
	}
	if len(out) > 0 {
		return out
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.HasSuffix(k, "_actual") {
			continue
		}
		dt := domain.DataText
		if _, ok := values[k].(bool); ok {
			dt = domain.DataBoolean
		}
		out = append(out, domain.FieldDescriptor{WriteFieldName: k, DataType: dt, IsActual: true})
	}
	return out
}
