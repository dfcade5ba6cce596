package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/workflow"
)

// Call is one request received by the FakeAPI.
type Call struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
	Header http.Header
}

// String renders the call as "METHOD /path".
func (c Call) String() string { return c.Method + " " + c.Path }

type injected struct {
	status int
	body   any
}

// FakeAPI emulates the grant management REST API in memory. Records are
// stored as decoded JSON; transitions move status through the workflow table.
type FakeAPI struct {
	Server *httptest.Server

	mu        sync.Mutex
	calls     []Call
	records   map[domain.RecordKind]map[int]domain.Values
	nextID    int
	perms     domain.Permissions
	fields    map[string][]domain.FieldDescriptor
	sectors   map[string][]domain.Option
	substance []domain.Option
	blends    []domain.Option
	tranches  map[int][]map[string]any
	uploads   map[int][]string
	failures  map[string][]injected
	associate [][]int
}

// NewFakeAPI starts a fake API server that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		records: map[domain.RecordKind]map[int]domain.Values{
			domain.KindProject:           {},
			domain.KindEnterprise:        {},
			domain.KindProjectEnterprise: {},
		},
		nextID:   100,
		fields:   map[string][]domain.FieldDescriptor{},
		sectors:  map[string][]domain.Option{},
		tranches: map[int][]map[string]any{},
		uploads:  map[int][]string{},
		failures: map[string][]injected{},
	}
	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the server base URL.
func (f *FakeAPI) URL() string { return f.Server.URL }

func (f *FakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(f.record, f.inject)

	r.Get("/api/auth/user/permissions/", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.perms)
	})
	r.Route("/api/project-cluster/{cluster}/type/{type}", func(r chi.Router) {
		r.Get("/sector/{sector}/fields/", f.handleFields)
		r.Get("/sectors/", f.handleSectors)
	})
	r.Get("/api/substances/", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, nonNil(f.substance))
	})
	r.Get("/api/blends/", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, nonNil(f.blends))
	})

	r.Route("/api/projects/v2", func(r chi.Router) {
		r.Post("/associate_projects/", f.handleAssociate)
		f.resource(r, domain.KindProject)
		r.Get("/{id}/list_previous_tranches/", f.handlePreviousTranches)
		r.Post("/{id}/upload/", f.handleUpload)
		r.Post("/{id}/disassociate_component/", f.handleOK)
		r.Post("/{id}/remove_association/", f.handleOK)
	})
	r.Route("/api/enterprises", func(r chi.Router) { f.resource(r, domain.KindEnterprise) })
	r.Route("/api/project-enterprise", func(r chi.Router) { f.resource(r, domain.KindProjectEnterprise) })
	return r
}

func (f *FakeAPI) resource(r chi.Router, kind domain.RecordKind) {
	r.Post("/", func(w http.ResponseWriter, req *http.Request) { f.handleCreate(w, req, kind) })
	r.Get("/{id}/", func(w http.ResponseWriter, req *http.Request) { f.handleGet(w, req, kind) })
	r.Put("/{id}/", func(w http.ResponseWriter, req *http.Request) { f.handleUpdate(w, req, kind) })
	r.Delete("/{id}/", func(w http.ResponseWriter, req *http.Request) { f.handleDelete(w, req, kind) })
	for _, action := range workflow.Actions(kind) {
		tr, ok := workflow.TransitionFor(kind, action)
		if !ok || tr.Path == "change_status/" {
			continue
		}
		r.Post("/{id}/"+tr.Path, func(w http.ResponseWriter, req *http.Request) { f.handleTransition(w, req, kind, action) })
	}
	r.Post("/{id}/change_status/", func(w http.ResponseWriter, req *http.Request) { f.handleChangeStatus(w, req, kind) })
}

// record captures every request, restoring the body for the handler.
func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Header: r.Header.Clone()}
		if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			data, _ := io.ReadAll(r.Body)
			r.Body.Close()
			_ = json.Unmarshal(data, &call.Body)
			r.Body = io.NopCloser(bytes.NewReader(data))
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// inject answers with a queued failure for the request, if any.
func (f *FakeAPI) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		queue := f.failures[key]
		var fail *injected
		if len(queue) > 0 {
			fail = &queue[0]
			f.failures[key] = queue[1:]
		}
		f.mu.Unlock()
		if fail != nil {
			writeJSON(w, fail.status, fail.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FailNext makes the next request matching method and path answer with
// status and a JSON body.
func (f *FakeAPI) FailNext(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.failures[key] = append(f.failures[key], injected{status: status, body: body})
}

// Calls returns every request received so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallLog returns the calls as "METHOD /path" strings.
func (f *FakeAPI) CallLog() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// SetPermissions sets the capability set served to the client.
func (f *FakeAPI) SetPermissions(p domain.Permissions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.perms = p
}

// SetFields registers the field descriptors for a combination.
func (f *FakeAPI) SetFields(cluster, projectType, sector int, fs []domain.FieldDescriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[fmt.Sprintf("%d/%d/%d", cluster, projectType, sector)] = fs
}

// SetSectors registers the sector options for a cluster and type.
func (f *FakeAPI) SetSectors(cluster, projectType int, opts []domain.Option) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sectors[fmt.Sprintf("%d/%d", cluster, projectType)] = opts
}

// SetSubstances registers the controlled substance options.
func (f *FakeAPI) SetSubstances(opts []domain.Option) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.substance = opts
}

// SetBlends registers the blend options.
func (f *FakeAPI) SetBlends(opts []domain.Option) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blends = opts
}

// SetPreviousTranches registers the earlier tranches of a project.
func (f *FakeAPI) SetPreviousTranches(projectID int, list []map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tranches[projectID] = list
}

// PutRecord stores an entity and returns its id. A missing id is assigned.
func (f *FakeAPI) PutRecord(kind domain.RecordKind, values domain.Values) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := values.Clone()
	id, ok := domain.NormalizeID(v["id"]).(int)
	if !ok {
		f.nextID++
		id = f.nextID
	}
	v["id"] = id
	f.records[kind][id] = v
	return id
}

// Record returns a stored entity, nil if absent.
func (f *FakeAPI) Record(kind domain.RecordKind, id int) domain.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.records[kind][id]; ok {
		return v.Clone()
	}
	return nil
}

// Uploads returns the file names uploaded to a project.
func (f *FakeAPI) Uploads(projectID int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads[projectID]...)
}

// Associations returns each associate_projects request's id list.
func (f *FakeAPI) Associations() [][]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]int(nil), f.associate...)
}

func (f *FakeAPI) handleFields(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "cluster") + "/" + chi.URLParam(r, "type") + "/" + chi.URLParam(r, "sector")
	f.mu.Lock()
	fs, ok := f.fields[key]
	f.mu.Unlock()
	if !ok {
		fs = []domain.FieldDescriptor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": fs})
}

func (f *FakeAPI) handleSectors(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "cluster") + "/" + chi.URLParam(r, "type")
	f.mu.Lock()
	opts := f.sectors[key]
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(opts))
}

func nonNil(opts []domain.Option) []domain.Option {
	if opts == nil {
		return []domain.Option{}
	}
	return opts
}

func (f *FakeAPI) handleCreate(w http.ResponseWriter, r *http.Request, kind domain.RecordKind) {
	var body domain.Values
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"details": err.Error()})
		return
	}
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	body["id"] = id
	body[statusKey(kind)] = string(workflow.InitialState(kind))
	f.records[kind][id] = body
	out := body.Clone()
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, out)
}

func (f *FakeAPI) handleGet(w http.ResponseWriter, r *http.Request, kind domain.RecordKind) {
	v, ok := f.lookup(w, r, kind)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (f *FakeAPI) handleUpdate(w http.ResponseWriter, r *http.Request, kind domain.RecordKind) {
	existing, ok := f.lookup(w, r, kind)
	if !ok {
		return
	}
	var body domain.Values
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"details": err.Error()})
		return
	}
	maps.Copy(existing, body)
	id, _ := domain.NormalizeID(existing["id"]).(int)
	existing["id"] = id
	f.mu.Lock()
	f.records[kind][id] = existing
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, existing)
}

func (f *FakeAPI) handleDelete(w http.ResponseWriter, r *http.Request, kind domain.RecordKind) {
	v, ok := f.lookup(w, r, kind)
	if !ok {
		return
	}
	id, _ := domain.NormalizeID(v["id"]).(int)
	f.mu.Lock()
	delete(f.records[kind], id)
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) handleTransition(w http.ResponseWriter, r *http.Request, kind domain.RecordKind, action domain.Action) {
	v, ok := f.lookup(w, r, kind)
	if !ok {
		return
	}
	next, err := workflow.Next(kind, domain.SubmissionStatus(v.Str(statusKey(kind))), action)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"details": err.Error()})
		return
	}
	f.setStatus(kind, v, next)
	writeJSON(w, http.StatusOK, map[string]any{"status": string(next)})
}

func (f *FakeAPI) handleChangeStatus(w http.ResponseWriter, r *http.Request, kind domain.RecordKind) {
	v, ok := f.lookup(w, r, kind)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": []string{"This field is required."}})
		return
	}
	f.setStatus(kind, v, domain.SubmissionStatus(body.Status))
	writeJSON(w, http.StatusOK, map[string]any{"status": body.Status})
}

func (f *FakeAPI) handlePreviousTranches(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"details": "not found"})
		return
	}
	f.mu.Lock()
	list := f.tranches[id]
	f.mu.Unlock()
	if list == nil {
		list = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (f *FakeAPI) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"details": "not found"})
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"files": []string{err.Error()}})
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"files": []string{"No files were submitted."}})
		return
	}
	f.mu.Lock()
	for _, h := range headers {
		f.uploads[id] = append(f.uploads[id], h.Filename)
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"uploaded": len(headers)})
}

func (f *FakeAPI) handleAssociate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProjectIDs []int `json:"project_ids"`
	}
	if err := decodeJSON(r, &body); err != nil || len(body.ProjectIDs) < 2 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"project_ids": []string{"Select at least two projects."}})
		return
	}
	f.mu.Lock()
	f.associate = append(f.associate, body.ProjectIDs)
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (f *FakeAPI) handleOK(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (f *FakeAPI) lookup(w http.ResponseWriter, r *http.Request, kind domain.RecordKind) (domain.Values, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err == nil {
		f.mu.Lock()
		v, ok := f.records[kind][id]
		f.mu.Unlock()
		if ok {
			return v.Clone(), true
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"details": "Not found."})
	return nil, false
}

func (f *FakeAPI) setStatus(kind domain.RecordKind, v domain.Values, s domain.SubmissionStatus) {
	id, _ := domain.NormalizeID(v["id"]).(int)
	v[statusKey(kind)] = string(s)
	f.mu.Lock()
	f.records[kind][id] = v
	f.mu.Unlock()
}

func statusKey(kind domain.RecordKind) string {
	if kind == domain.KindProject {
		return "submission_status"
	}
	return "status"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
