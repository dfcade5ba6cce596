package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
)

// MsgAttachmentRisk is the downside every destructive association step
// warns about.
const MsgAttachmentRisk = "Files uploaded to this project may not be propagated to the other components of its meta-project."

// Associate groups projects into one meta-project.
func (s *SubmissionService) Associate(ctx context.Context, projectIDs []int, leadAgencyID *int) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "associate", startedAt, map[string]any{"project_ids": projectIDs}, &err)

	if len(projectIDs) < 2 {
		return fmt.Errorf("%w: associating needs at least two projects", ErrGuardFailed)
	}
	if err = s.records.Associate(ctx, api.AssociateRequest{ProjectIDs: projectIDs, LeadAgencyID: leadAgencyID}); err != nil {
		s.notifier.Failure("Could not associate the projects.")
		return err
	}
	s.notifier.Success(fmt.Sprintf("Associated %d projects.", len(projectIDs)))
	return nil
}

// Disassociate detaches one project from its meta-project after confirmation.
func (s *SubmissionService) Disassociate(ctx context.Context, projectID int) error {
	return s.destructive(ctx, "disassociate", projectID,
		"Disassociate this component?",
		func() error { return s.records.Disassociate(ctx, projectID) },
		"Project disassociated.")
}

// RemoveAssociation dissolves the project's meta-project after confirmation.
func (s *SubmissionService) RemoveAssociation(ctx context.Context, projectID int) error {
	return s.destructive(ctx, "remove-association", projectID,
		"Remove the association for all components?",
		func() error { return s.records.RemoveAssociation(ctx, projectID) },
		"Association removed.")
}

// Delete removes a record after confirmation.
func (s *SubmissionService) Delete(ctx context.Context, kind domain.RecordKind, id int) error {
	return s.destructive(ctx, "delete", id,
		fmt.Sprintf("Delete %s #%d?", kindLabel(kind), id),
		func() error { return s.records.Delete(ctx, kind, id) },
		fmt.Sprintf("%s deleted.", kindLabel(kind)))
}

func (s *SubmissionService) destructive(ctx context.Context, name string, id int, title string, call func() error, done string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, name, startedAt, map[string]any{"record_id": id}, &err)

	ok, err := s.confirmer.Confirm(ctx, title, MsgAttachmentRisk)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	if err = call(); err != nil {
		s.notifier.Failure(fmt.Sprintf("%s failed.", strings.TrimSuffix(title, "?")))
		return err
	}
	s.notifier.Success(done)
	return nil
}

// UploadFiles attaches files to the session's saved project. Attachment
// errors from a 400 response land in the session's file error slot.
func (s *SubmissionService) UploadFiles(ctx context.Context, sess *form.Session, files []api.File) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"file_count": len(files)}
	defer observe(ctx, s.observer, "upload-files", startedAt, fields, &err)

	rec := sess.Record()
	if rec.ID == nil {
		return ErrNotSaved
	}
	fields["record_id"] = *rec.ID
	if len(files) == 0 {
		return errors.New("no files to upload")
	}

	sess.SetLoading(true)
	defer sess.SetLoading(false)
	sess.SetFileErrors(nil)

	if err = s.records.UploadFiles(ctx, *rec.ID, files); err != nil {
		if ve, ok := api.AsValidation(err); ok {
			sess.SetFileErrors(ve.Body.Files)
			for _, msg := range ve.Body.Other {
				sess.AddOtherError(msg)
			}
		}
		s.notifier.Failure("Upload failed.")
		return err
	}
	s.notifier.Success(fmt.Sprintf("Uploaded %d file(s).", len(files)))
	return nil
}
