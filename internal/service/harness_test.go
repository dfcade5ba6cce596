package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/record"
	"github.com/alexanderramin/mlfs/internal/repository"
	"github.com/alexanderramin/mlfs/internal/testutil"
)

// uiRecorder implements every UI port and remembers what it was asked.
type uiRecorder struct {
	answer    bool
	successes []string
	failures  []string
	dests     []Destination
	confirms  []string
	bodies    []string
}

func (u *uiRecorder) Success(msg string)        { u.successes = append(u.successes, msg) }
func (u *uiRecorder) Failure(msg string)        { u.failures = append(u.failures, msg) }
func (u *uiRecorder) Navigate(dest Destination) { u.dests = append(u.dests, dest) }
func (u *uiRecorder) Confirm(_ context.Context, title, body string) (bool, error) {
	u.confirms = append(u.confirms, title)
	u.bodies = append(u.bodies, body)
	return u.answer, nil
}

type harness struct {
	svc    *SubmissionService
	fake   *testutil.FakeAPI
	client *api.Client
	ui     *uiRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	client := api.NewClient(api.Config{BaseURL: fake.URL(), Timeout: 2 * time.Second}, api.NoopObserver{})
	ui := &uiRecorder{}
	return &harness{
		svc:    NewSubmissionService(client, Ports{Notifier: ui, Navigator: ui, Confirmer: ui}, nil),
		fake:   fake,
		client: client,
		ui:     ui,
	}
}

// open fetches a stored record and starts a session on it.
func (h *harness) open(t *testing.T, kind domain.RecordKind, id int, dyn []domain.FieldDescriptor) (*form.Session, []record.SectionLayout) {
	t.Helper()
	layout := form.Layout(kind, dyn)
	entity, err := h.client.Get(context.Background(), kind, id)
	require.NoError(t, err)
	return form.NewSession(record.Build(kind, layout, entity)), layout
}

// newProject starts a session on an unsaved project with the required
// identifiers filled in.
func newProject(t *testing.T) (*form.Session, []record.SectionLayout) {
	t.Helper()
	layout := form.Layout(domain.KindProject, nil)
	sess := form.NewSession(record.Build(domain.KindProject, layout, nil))
	sess.Set(form.KeyIdentifiers, "country", 1)
	sess.Set(form.KeyIdentifiers, "agency", 2)
	sess.Set(form.KeyIdentifiers, "cluster", 3)
	sess.Set(form.KeyCrossCutting, "title", "Foam conversion")
	sess.Set(form.KeyCrossCutting, "project_type", 4)
	sess.Set(form.KeyCrossCutting, "sector", 5)
	return sess, layout
}

func (h *harness) callsSince(n int) []string {
	return h.fake.CallLog()[n:]
}

func newDraftService(database *sql.DB) *DraftService {
	return NewDraftService(testutil.NewTestUoW(database), repository.NewSQLiteDraftRepo(database))
}

// blank builds an unsaved record of kind from the given layout.
func blank(kind domain.RecordKind, layout []record.SectionLayout) domain.Record {
	return record.Build(kind, layout, nil)
}
