package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/mlfs/internal/db"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/repository"
)

// DraftService persists in-progress form sessions so an interrupted edit
// can be resumed.
type DraftService struct {
	uow      db.UnitOfWork
	drafts   repository.DraftRepo
	observer UseCaseObserver
}

func NewDraftService(uow db.UnitOfWork, drafts repository.DraftRepo, observers ...UseCaseObserver) *DraftService {
	return &DraftService{uow: uow, drafts: drafts, observer: useCaseObserverOrNoop(observers)}
}

// Save stores the session under draftID, or under the existing draft for
// the same record, or under a new id. It returns the id used.
func (s *DraftService) Save(ctx context.Context, draftID, fieldQuery string, sess *form.Session) (id string, err error) {
	startedAt := time.Now()
	rec := sess.Record()
	fields := map[string]any{"record_kind": string(rec.Kind)}
	defer observe(ctx, s.observer, "save-draft", startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteDraftRepo(tx)
		now := time.Now().UTC()

		d := &domain.Draft{ID: draftID, CreatedAt: now}
		switch existing, err := s.find(ctx, repo, draftID, rec); {
		case err == nil:
			d = existing
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		if d.ID == "" {
			d.ID = uuid.New().String()
		}

		d.Kind = rec.Kind
		d.RecordID = rec.ID
		d.Title = rec.Name()
		d.Status = rec.Status
		d.FieldQuery = fieldQuery
		d.Record = rec
		d.Touched = sess.Touched().Names()
		d.UpdatedAt = now
		if err := repo.Save(ctx, d); err != nil {
			return err
		}
		id = d.ID
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("saving draft: %w", err)
	}
	fields["draft_id"] = id
	return id, nil
}

func (s *DraftService) find(ctx context.Context, repo repository.DraftRepo, draftID string, rec domain.Record) (*domain.Draft, error) {
	if draftID != "" {
		return repo.GetByID(ctx, draftID)
	}
	return repo.FindByRecord(ctx, rec.Kind, rec.ID)
}

// Find returns the newest draft for a record, or ErrNotFound.
func (s *DraftService) Find(ctx context.Context, kind domain.RecordKind, recordID *int) (*domain.Draft, error) {
	return s.drafts.FindByRecord(ctx, kind, recordID)
}

// Get returns a draft by id.
func (s *DraftService) Get(ctx context.Context, id string) (*domain.Draft, error) {
	return s.drafts.GetByID(ctx, id)
}

// List returns every draft, newest first.
func (s *DraftService) List(ctx context.Context) ([]*domain.Draft, error) {
	return s.drafts.List(ctx)
}

// Discard deletes a draft. Discarding a missing draft is not an error.
func (s *DraftService) Discard(ctx context.Context, id string) error {
	if err := s.drafts.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("discarding draft %s: %w", id, err)
	}
	return nil
}

// Resume rebuilds a form session from a draft, touched fields included.
func Resume(d *domain.Draft) *form.Session {
	sess := form.NewSession(d.Record)
	sess.RestoreTouched(d.Touched)
	return sess
}
