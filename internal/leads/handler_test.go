package leads

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type fakeRepo struct {
	leads    []*Lead
	updated  map[string]*UpdateLeadRequest
	deleted  []string
	err      error
	readOnly bool
}

func (f *fakeRepo) List(ctx context.Context) ([]*Lead, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.leads, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Lead, error) {
	for _, l := range f.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, ErrLeadNotFound
}

func (f *fakeRepo) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	lead := &Lead{ID: "created", Name: req.Name, Email: req.Email, Status: StatusNew}
	f.leads = append(f.leads, lead)
	return lead, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, req *UpdateLeadRequest) (*Lead, error) {
	if f.readOnly {
		return nil, ErrReadOnlyStore
	}
	lead, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.updated == nil {
		f.updated = make(map[string]*UpdateLeadRequest)
	}
	f.updated[id] = req
	req.Apply(lead)
	lead.UpdatedAt = time.Now().UTC()
	return lead, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.readOnly {
		return ErrReadOnlyStore
	}
	if _, err := f.GetByID(ctx, id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestRouter(repo Repository) http.Handler {
	h := NewHandler(repo, nil)
	r := chi.NewRouter()
	r.Get("/admin/leads", h.ListLeads)
	r.Get("/admin/leads/export", h.ExportCSV)
	r.Patch("/admin/leads/{id}", h.UpdateLead)
	r.Delete("/admin/leads/{id}", h.DeleteLead)
	return r
}

func TestListLeadsFiltered(t *testing.T) {
	repo := &fakeRepo{leads: sampleLeads()}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?status=new&search=acme", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ListLeadsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 || resp.Leads[0].ID != "1" {
		t.Fatalf("expected filtered lead 1, got %+v", resp)
	}
}

func TestListLeadsAllSentinel(t *testing.T) {
	repo := &fakeRepo{leads: sampleLeads()}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?status=all&service=all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp ListLeadsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 3 {
		t.Fatalf("expected all leads, got %d", resp.Count)
	}
}

func TestUpdateLeadStatus(t *testing.T) {
	repo := &fakeRepo{leads: sampleLeads()}
	router := newTestRouter(repo)

	body := strings.NewReader(`{"status":"contacted"}`)
	req := httptest.NewRequest(http.MethodPatch, "/admin/leads/1", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var lead Lead
	if err := json.NewDecoder(rec.Body).Decode(&lead); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if lead.Status != StatusContacted {
		t.Fatalf("expected contacted status, got %s", lead.Status)
	}
}

func TestUpdateLeadInvalidStatus(t *testing.T) {
	repo := &fakeRepo{leads: sampleLeads()}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/admin/leads/1", strings.NewReader(`{"status":"bogus"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("expected no repository update, got %v", repo.updated)
	}
}

func TestUpdateLeadNotFound(t *testing.T) {
	router := newTestRouter(&fakeRepo{leads: sampleLeads()})

	req := httptest.NewRequest(http.MethodPatch, "/admin/leads/ghost", strings.NewReader(`{"status":"closed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMutationsAgainstReadOnlyStoreForbidden(t *testing.T) {
	repo := &fakeRepo{leads: sampleLeads(), readOnly: true}
	router := newTestRouter(repo)

	update := httptest.NewRequest(http.MethodPatch, "/admin/leads/1", strings.NewReader(`{"status":"contacted"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, update)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for update, got %d: %s", rec.Code, rec.Body.String())
	}

	del := httptest.NewRequest(http.MethodDelete, "/admin/leads/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, del)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for delete, got %d", rec.Code)
	}
	if len(repo.updated) != 0 || len(repo.deleted) != 0 {
		t.Fatalf("expected no mutation to reach the store")
	}
}

func TestDeleteLead(t *testing.T) {
	repo := &fakeRepo{leads: sampleLeads()}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/admin/leads/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "2" {
		t.Fatalf("expected lead 2 deleted, got %v", repo.deleted)
	}
}

func TestExportCSVMatchesFilter(t *testing.T) {
	repo := &fakeRepo{leads: sampleLeads()}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads/export?status=new", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected csv content type, got %q", ct)
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// Two "new" leads plus the header line.
	if len(rows) != 3 {
		t.Fatalf("expected 3 csv lines, got %d", len(rows))
	}
}
