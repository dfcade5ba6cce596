package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/testutil"
	"github.com/alexanderramin/mlfs/internal/workflow"
)

type recordingObserver struct {
	events []api.CallEvent
}

func (o *recordingObserver) OnCallComplete(e api.CallEvent) { o.events = append(o.events, e) }

func newClient(t *testing.T) (*api.Client, *testutil.FakeAPI, *recordingObserver) {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	obs := &recordingObserver{}
	client := api.NewClient(api.Config{BaseURL: fake.URL() + "/", Token: "secret", Timeout: 2 * time.Second}, obs)
	return client, fake, obs
}

func TestClient_Permissions(t *testing.T) {
	client, fake, obs := newClient(t)
	fake.SetPermissions(testutil.NewTestPermissions(testutil.WithViewable("title")))

	p, err := client.Permissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tester", p.Username)
	assert.True(t, p.CanApproveEnterprise)
	assert.Equal(t, []string{"title"}, p.ViewableFields)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Token secret", calls[0].Header.Get("Authorization"))
	assert.NotEmpty(t, calls[0].Header.Get("X-Request-ID"))

	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, http.StatusOK, obs.events[0].StatusCode)
	assert.Equal(t, calls[0].Header.Get("X-Request-ID"), obs.events[0].RequestID)
}

func TestClient_Fields(t *testing.T) {
	client, fake, _ := newClient(t)
	fake.SetFields(1, 2, 3, []domain.FieldDescriptor{
		testutil.NewTestField("hcfc_phase_out", testutil.WithDataType(domain.DataDecimal)),
		testutil.NewTestField("technology", testutil.WithOptions(testutil.NewTestOptions("Foam", "Aerosol")...)),
	})

	fs, err := client.Fields(context.Background(), api.FieldQuery{Cluster: 1, ProjectType: 2, Sector: 3})
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, domain.DataDecimal, fs[0].DataType)
	assert.Equal(t, domain.Option{ID: 2, Name: "Aerosol"}, fs[1].Options[1])
	assert.Equal(t, "include_actuals=false", fake.Calls()[0].Query)

	_, err = client.Fields(context.Background(), api.FieldQuery{Cluster: 1, ProjectType: 2, Sector: 3, ProjectID: domain.IntPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, "project_id=9", fake.Calls()[1].Query)
}

func TestClient_Fields_RejectsUnknownDataType(t *testing.T) {
	client, fake, _ := newClient(t)
	fake.SetFields(1, 1, 1, []domain.FieldDescriptor{
		testutil.NewTestField("odd", testutil.WithDataType("date")),
	})

	_, err := client.Fields(context.Background(), api.FieldQuery{Cluster: 1, ProjectType: 1, Sector: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown data type")
}

func TestClient_CreateUpdateGetDelete(t *testing.T) {
	client, _, _ := newClient(t)
	ctx := context.Background()

	created, err := client.Create(ctx, domain.KindEnterprise, map[string]any{"name": "Foam Co", "capital_cost_approved": "1000"})
	require.NoError(t, err)
	id, ok := domain.NormalizeID(created["id"]).(int)
	require.True(t, ok)
	assert.Equal(t, "Pending Approval", created.Str("status"))

	updated, err := client.Update(ctx, domain.KindEnterprise, id, map[string]any{"name": "Foam Co Ltd"})
	require.NoError(t, err)
	assert.Equal(t, "Foam Co Ltd", updated.Str("name"))
	assert.Equal(t, "1000", updated.Str("capital_cost_approved"))

	got, err := client.Get(ctx, domain.KindEnterprise, id)
	require.NoError(t, err)
	assert.Equal(t, "Foam Co Ltd", got.Str("name"))

	require.NoError(t, client.Delete(ctx, domain.KindEnterprise, id))
	_, err = client.Get(ctx, domain.KindEnterprise, id)
	assert.ErrorIs(t, err, api.ErrUnexpectedStatus)
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestClient_ValidationError(t *testing.T) {
	client, fake, obs := newClient(t)
	fake.FailNext(http.MethodPost, "/api/projects/v2/", http.StatusBadRequest, map[string]any{
		"title":   []string{"This field is required."},
		"details": "bad input",
		"files":   []string{"Missing attachment."},
	})

	_, err := client.Create(context.Background(), domain.KindProject, map[string]any{})
	ve, ok := api.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrorMap{"title": {"This field is required."}}, ve.Body.Fields)
	assert.Equal(t, []string{"bad input"}, ve.Body.Other)
	assert.Equal(t, []string{"Missing attachment."}, ve.Body.Files)

	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "VALIDATION", obs.events[0].ErrorCode)
}

func TestClient_NonJSONBadRequestGoesToOther(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("plain failure"))
	}))
	defer srv.Close()

	client := api.NewClient(api.Config{BaseURL: srv.URL}, nil)
	err := client.Delete(context.Background(), domain.KindProject, 1)
	ve, ok := api.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"plain failure"}, ve.Body.Other)
}

func TestClient_Transition(t *testing.T) {
	client, fake, _ := newClient(t)
	ctx := context.Background()
	id := fake.PutRecord(domain.KindProject, testutil.NewTestProjectEntity(7, "HPMP stage II"))

	tr, _ := workflow.TransitionFor(domain.KindProject, domain.ActionSubmit)
	require.NoError(t, client.Transition(ctx, domain.KindProject, id, tr))
	assert.Equal(t, "Submitted", fake.Record(domain.KindProject, id).Str("submission_status"))

	tr, _ = workflow.TransitionFor(domain.KindProject, domain.ActionApprove)
	err := client.Transition(ctx, domain.KindProject, id, tr)
	ve, ok := api.AsValidation(err)
	require.True(t, ok)
	require.Len(t, ve.Body.Other, 1)
	assert.Contains(t, ve.Body.Other[0], "transition not allowed")

	linkID := fake.PutRecord(domain.KindProjectEnterprise, testutil.NewTestEnterpriseEntity(31, "Link"))
	tr, _ = workflow.TransitionFor(domain.KindProjectEnterprise, domain.ActionMarkObsolete)
	require.NoError(t, client.Transition(ctx, domain.KindProjectEnterprise, linkID, tr))
	assert.Equal(t, "Obsolete", fake.Record(domain.KindProjectEnterprise, linkID).Str("status"))
	last := fake.Calls()[len(fake.Calls())-1]
	assert.Equal(t, map[string]any{"status": "Obsolete"}, last.Body)
}

func TestClient_PreviousTranches(t *testing.T) {
	client, fake, _ := newClient(t)
	fake.SetPreviousTranches(12, []map[string]any{
		{"id": 11, "tranche": 1, "values": map[string]any{"number_of_technicians_trained_actual": nil}},
	})

	list, err := client.PreviousTranches(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 11, list[0].ID)
	assert.Equal(t, 1, list[0].Tranche)
	assert.Contains(t, list[0].Values, "number_of_technicians_trained_actual")
}

func TestClient_AssociationCalls(t *testing.T) {
	client, fake, _ := newClient(t)
	ctx := context.Background()

	require.NoError(t, client.Associate(ctx, api.AssociateRequest{ProjectIDs: []int{1, 2}}))
	assert.Equal(t, [][]int{{1, 2}}, fake.Associations())
	require.NoError(t, client.Disassociate(ctx, 2))
	require.NoError(t, client.RemoveAssociation(ctx, 1))

	assert.Equal(t, []string{
		"POST /api/projects/v2/associate_projects/",
		"POST /api/projects/v2/2/disassociate_component/",
		"POST /api/projects/v2/1/remove_association/",
	}, fake.CallLog())
}

func TestClient_UploadFiles(t *testing.T) {
	client, fake, _ := newClient(t)
	err := client.UploadFiles(context.Background(), 5, []api.File{
		{Name: "plan.pdf", Reader: strings.NewReader("%PDF")},
		{Name: "letter.docx", Reader: strings.NewReader("doc")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"plan.pdf", "letter.docx"}, fake.Uploads(5))

	err = client.UploadFiles(context.Background(), 5, nil)
	ve, ok := api.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"No files were submitted."}, ve.Body.Files)
}

func TestClient_SectorOptions(t *testing.T) {
	client, fake, _ := newClient(t)
	fake.SetSectors(1, 2, testutil.NewTestOptions("Foam", "Refrigeration"))

	opts, err := client.SectorOptions(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, testutil.NewTestOptions("Foam", "Refrigeration"), opts)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := api.NewClient(api.Config{BaseURL: srv.URL, Timeout: 30 * time.Millisecond}, nil)
	_, err := client.Permissions(context.Background())
	assert.ErrorIs(t, err, api.ErrTimeout)
}

func TestClient_Unavailable(t *testing.T) {
	client := api.NewClient(api.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil)
	_, err := client.Permissions(context.Background())
	assert.ErrorIs(t, err, api.ErrUnavailable)
}
