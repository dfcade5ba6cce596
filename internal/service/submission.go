package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/record"
	"github.com/alexanderramin/mlfs/internal/workflow"
)

// Ports are the UI collaborators the orchestrator talks to.
type Ports struct {
	Notifier  Notifier
	Navigator Navigator
	Confirmer Confirmer
}

// SubmissionService runs workflow actions against the API on behalf of one
// form session and reports the result back into the session.
type SubmissionService struct {
	records   RecordAPI
	drafts    *DraftService
	notifier  Notifier
	navigator Navigator
	confirmer Confirmer
	observer  UseCaseObserver
}

// NewSubmissionService wires the orchestrator. Missing ports default to
// no-ops, and a missing confirmer declines every confirmation. drafts may
// be nil.
func NewSubmissionService(records RecordAPI, ports Ports, drafts *DraftService, observers ...UseCaseObserver) *SubmissionService {
	s := &SubmissionService{
		records:   records,
		drafts:    drafts,
		notifier:  ports.Notifier,
		navigator: ports.Navigator,
		confirmer: ports.Confirmer,
		observer:  useCaseObserverOrNoop(observers),
	}
	if s.notifier == nil {
		s.notifier = NoopNotifier{}
	}
	if s.navigator == nil {
		s.navigator = NoopNavigator{}
	}
	if s.confirmer == nil {
		s.confirmer = AlwaysConfirm(false)
	}
	return s
}

// Attachments describes the files attached to a project.
type Attachments struct {
	Required bool
	Count    int
}

// AttachmentsFromEntity reads the attachment state of a fetched project.
func AttachmentsFromEntity(entity domain.Values) Attachments {
	files, _ := entity["files"].([]any)
	required, _ := entity["files_required"].(bool)
	return Attachments{Required: required, Count: len(files)}
}

// SubmitRequest is one action on one form session.
type SubmitRequest struct {
	Session *form.Session
	Action  domain.Action
	// Layout rebuilds the record from the entity the server returns.
	Layout []record.SectionLayout
	// Fields are the dynamic descriptors, used to find actual indicators.
	Fields      []domain.FieldDescriptor
	Permissions domain.Permissions
	Attachments Attachments
	// DraftID is discarded after a successful action.
	DraftID string
	// Continues is the earlier project a new tranche follows on from.
	Continues *int
}

// Outcome is the result of Run. Err is nil on success; the session's error
// slots hold the details of a failure.
type Outcome struct {
	Action      domain.Action
	Status      domain.SubmissionStatus
	RecordID    *int
	Name        string
	Destination Destination
	Err         error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Run performs an action. It sets the loading flag, clears earlier errors,
// saves first where the action needs it, issues the transition, and on
// success refreshes the record, clears touched fields, notifies and
// navigates. A 400 response is distributed into the session's error slots.
// The loading flag is cleared on every path.
func (s *SubmissionService) Run(ctx context.Context, req SubmitRequest) (out Outcome) {
	sess := req.Session
	kind := sess.Kind()
	out.Action = req.Action

	startedAt := time.Now()
	fields := map[string]any{"record_kind": string(kind), "action": string(req.Action)}
	if id := sess.Record().ID; id != nil {
		fields["record_id"] = *id
	}
	defer observe(ctx, s.observer, "run-action", startedAt, fields, &out.Err)

	sess.SetLoading(true)
	defer sess.SetLoading(false)
	sess.ClearErrors()
	sess.MarkSubmitted()

	if err := s.Guard(ctx, req); err != nil {
		out.Err = err
		if !errors.Is(err, ErrCancelled) {
			s.notifier.Failure(fmt.Sprintf("%s failed: %v", req.Action.Label(), err))
		}
		return out
	}

	if req.Action == domain.ActionSave || workflow.NeedsPreSave(req.Action) {
		created, err := s.save(ctx, req)
		if err != nil {
			return s.fail(sess, out, err, created)
		}
	}

	if req.Action != domain.ActionSave {
		rec := sess.Record()
		if rec.ID == nil {
			return s.fail(sess, out, ErrNotSaved, false)
		}
		tr, _ := workflow.TransitionFor(kind, req.Action)
		if err := s.records.Transition(ctx, kind, *rec.ID, tr); err != nil {
			return s.fail(sess, out, err, false)
		}
		entity, err := s.records.Get(ctx, kind, *rec.ID)
		if err != nil {
			return s.fail(sess, out, err, false)
		}
		s.apply(req, entity)
	}

	rec := sess.Record()
	sess.ClearTouched()
	out.Status = rec.Status
	out.RecordID = rec.ID
	out.Name = rec.Name()
	out.Destination = DestinationFor(kind, rec.Status, rec.ID)
	fields["status"] = string(rec.Status)

	if s.drafts != nil && req.DraftID != "" {
		if err := s.drafts.Discard(ctx, req.DraftID); err != nil {
			fields["draft_discard_error"] = err.Error()
		}
	}
	s.notifier.Success(successMessage(kind, req.Action, rec))
	s.navigator.Navigate(out.Destination)
	return out
}

// save creates or updates the record. created reports whether a create was
// attempted, so that a failure can reset the id.
func (s *SubmissionService) save(ctx context.Context, req SubmitRequest) (created bool, err error) {
	sess := req.Session
	rec := sess.Record()
	payload := rec.Payload()

	var entity domain.Values
	if rec.ID == nil {
		created = true
		entity, err = s.records.Create(ctx, rec.Kind, payload)
	} else {
		entity, err = s.records.Update(ctx, rec.Kind, *rec.ID, payload)
	}
	if err != nil {
		return created, err
	}
	s.apply(req, entity)
	return created, nil
}

// apply replaces the session record with the server's copy. The server's
// derived values win over the ones computed locally.
func (s *SubmissionService) apply(req SubmitRequest, entity domain.Values) {
	rebuilt := record.Build(req.Session.Kind(), req.Layout, entity)
	req.Session.Replace(rebuilt)
}

func (s *SubmissionService) fail(sess *form.Session, out Outcome, err error, resetID bool) Outcome {
	out.Err = err
	if resetID {
		sess.SetID(nil)
	}
	if ve, ok := api.AsValidation(err); ok {
		sess.ApplyServerErrors(ve.Body)
	}
	s.notifier.Failure(fmt.Sprintf("%s failed. Please check the form and try again.", out.Action.Label()))
	return out
}

func kindLabel(kind domain.RecordKind) string {
	switch kind {
	case domain.KindProject:
		return "Project"
	case domain.KindEnterprise:
		return "Enterprise"
	case domain.KindProjectEnterprise:
		return "Project enterprise"
	default:
		return string(kind)
	}
}

func successMessage(kind domain.RecordKind, action domain.Action, rec domain.Record) string {
	name := rec.Name()
	if name == "" && rec.ID != nil {
		name = "#" + strconv.Itoa(*rec.ID)
	}
	return fmt.Sprintf("%s %s: %s done.", kindLabel(kind), name, action.Label())
}

// Destination is where the user lands after an action.
type Destination struct {
	Kind domain.RecordKind
	ID   *int
	// View is "edit", "view" or "list".
	View string
}

func (d Destination) String() string {
	if d.ID == nil || d.View == "list" {
		return string(d.Kind) + "/list"
	}
	return fmt.Sprintf("%s/%d/%s", d.Kind, *d.ID, d.View)
}

// DestinationFor picks the screen that fits a record's status: records that
// may still be edited reopen in the editor, terminal ones go back to the
// list, and the rest open read-only.
func DestinationFor(kind domain.RecordKind, status domain.SubmissionStatus, id *int) Destination {
	d := Destination{Kind: kind, ID: id, View: "view"}
	switch {
	case id == nil:
		d.View = "list"
	case status == domain.StatusWithdrawn || status == domain.StatusObsolete:
		d.View = "list"
	case workflow.Normalize(kind, status) == workflow.InitialState(kind):
		d.View = "edit"
	}
	return d
}
